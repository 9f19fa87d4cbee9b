package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"app/internal/domain/model"
)

func sampleDevices() []model.Device {
	updated := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	return []model.Device{
		{ID: 1, Name: "iPhone 13 128GB", Brand: "Apple", Grade: model.DeviceGradeA, Storage: "128GB", Price: 52000, Stock: 12, UpdatedAt: updated},
		{ID: 2, Name: "Pixel 7", Brand: "Google", Grade: model.DeviceGradeB, Storage: "256GB", Price: 38000, Stock: 3, UpdatedAt: updated},
	}
}

func TestWriteDevicesExcel(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDevicesExcel(&buf, sampleDevices(), time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.NotZero(t, buf.Len())

	//書いたものを読み戻して中身を見る
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(excelSheetName)
	assert.NoError(t, err)

	//ヘッダー＋2行＋空行＋生成時刻
	assert.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, "Name", rows[0][1])
	assert.Equal(t, "iPhone 13 128GB", rows[1][1])
	assert.Equal(t, "Pixel 7", rows[2][1])
}

func TestWriteDevicesExcel_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDevicesExcel(&buf, nil, time.Now())
	assert.NoError(t, err)
	assert.NotZero(t, buf.Len())
}

func TestWriteDevicesPDF(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDevicesPDF(&buf, sampleDevices(), time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	assert.NoError(t, err)

	//PDFマジックナンバーで始まること
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWriteDevicesPDF_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDevicesPDF(&buf, nil, time.Now())
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestTruncatePDFKeepsShortStrings(t *testing.T) {
	assert.Equal(t, "Pixel 7", truncatePDF("Pixel 7", 20))
	assert.Equal(t, "ab...", truncatePDF("abcdefghij", 5))
}
