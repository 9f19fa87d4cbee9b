package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"app/internal/domain/model"
)

// accesstokenの有効期限
const accessTokenTTL = 15 * time.Minute

// HS256でaccess tokenを発行する
type JWTAccessTokenIssuer struct {
	secret []byte
}

func NewJWTAccessTokenIssuer(secret string) *JWTAccessTokenIssuer {
	return &JWTAccessTokenIssuer{secret: []byte(secret)}
}

func (i *JWTAccessTokenIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	exp := now.Add(accessTokenTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, exp, nil
}
