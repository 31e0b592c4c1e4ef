// internal/auth/device.go

// Package auth mints and verifies the signed device tokens that carry a
// participant's durable identity across reconnections. The transport
// trusts the device id inside a valid token; everything else about the
// participant lives in the game state.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("auth: invalid device token")
	ErrNoDeviceID   = errors.New("auth: token carries no device id")
)

// DeviceClaims is the JWT payload binding a durable device identity.
type DeviceClaims struct {
	DeviceID string `json:"deviceId"`
	jwt.RegisteredClaims
}

// NewDeviceToken signs a token for the given device identity.
func NewDeviceToken(secret []byte, deviceID string, ttl time.Duration) (string, error) {
	claims := DeviceClaims{
		DeviceID: deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyDeviceToken validates the token signature and expiry and returns
// the durable device identity it carries.
func VerifyDeviceToken(secret []byte, token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &DeviceClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*DeviceClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	if claims.DeviceID == "" {
		return "", ErrNoDeviceID
	}
	return claims.DeviceID, nil
}
