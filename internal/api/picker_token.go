package api

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const pickerTokenKeyInfo = "rangepick.picker-token.v1"

var errInvalidPickerToken = errors.New("invalid picker token")

type pickerClaims struct {
	PickerID string `json:"pid"`
	jwt.RegisteredClaims
}

// pickerTokenCodec signs the handle that binds a browser or API client to
// the picker it created.
type pickerTokenCodec struct {
	key []byte
	ttl time.Duration
}

func newPickerTokenCodec(secretKey []byte, ttl time.Duration) (*pickerTokenCodec, error) {
	if len(secretKey) == 0 {
		return nil, errors.New("picker token secret key is required")
	}
	if ttl <= 0 {
		ttl = defaultPickerTokenTTL
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secretKey, nil, []byte(pickerTokenKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive picker token key: %w", err)
	}
	return &pickerTokenCodec{key: key, ttl: ttl}, nil
}

func (codec *pickerTokenCodec) issue(pickerID string, now time.Time) (string, error) {
	if strings.TrimSpace(pickerID) == "" {
		return "", errors.New("picker id is required")
	}

	claims := pickerClaims{
		PickerID: pickerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   pickerID,
			ExpiresAt: jwt.NewNumericDate(now.Add(codec.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(codec.key)
}

func (codec *pickerTokenCodec) parse(rawToken string) (string, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return "", errInvalidPickerToken
	}

	claims := &pickerClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return codec.key, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid || strings.TrimSpace(claims.PickerID) == "" {
		return "", errInvalidPickerToken
	}
	return claims.PickerID, nil
}
