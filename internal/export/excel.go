package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"app/internal/domain/model"
)

// 在庫一覧のExcelエクスポート。
// 1シート、ヘッダー行＋端末1件1行。

const excelSheetName = "Devices"

var excelHeaders = []string{"ID", "Name", "Brand", "Grade", "Storage", "Price", "Stock", "Updated"}

// WriteDevicesExcel は端末一覧をxlsxとしてwへ書き出す。
func WriteDevicesExcel(w io.Writer, devices []model.Device, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(excelSheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for col, h := range excelHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(excelSheetName, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(excelSheetName, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for i, d := range devices {
		row := i + 2
		values := []interface{}{
			d.ID, d.Name, d.Brand, string(d.Grade), d.Storage, d.Price, d.Stock,
			d.UpdatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(excelSheetName, cell, v); err != nil {
				return err
			}
		}
	}

	//列幅（Nameだけ広め）
	if err := f.SetColWidth(excelSheetName, "B", "B", 36); err != nil {
		return err
	}
	if err := f.SetColWidth(excelSheetName, "C", "H", 14); err != nil {
		return err
	}

	//生成時刻をフッター代わりに最終行へ
	footCell, err := excelize.CoordinatesToCellName(1, len(devices)+3)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(excelSheetName, footCell, "generated at "+generatedAt.Format(time.RFC3339)); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
