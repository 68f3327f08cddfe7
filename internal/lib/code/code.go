// Package code генерирует короткие коды: код арендодателя, которым
// он делится с арендаторами, и одноразовый код сброса пароля.
package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Алфавит без похожих символов (0/O, 1/I/L), чтобы код было удобно диктовать.
const landlordAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// LandlordCodeLen — длина кода арендодателя.
const LandlordCodeLen = 8

// NewLandlordCode возвращает новый случайный код арендодателя.
func NewLandlordCode() (string, error) {
	const op = "code.NewLandlordCode"
	buf := make([]byte, LandlordCodeLen)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(landlordAlphabet))))
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		buf[i] = landlordAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// NewResetCode возвращает шестизначный код сброса пароля.
func NewResetCode() (string, error) {
	const op = "code.NewResetCode"
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
