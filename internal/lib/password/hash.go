// Package password хеширует пароли участников bcrypt и проверяет их при входе.
package password

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MinLength минимальная длина пароля при завершении приглашения.
const MinLength = 8

// ErrTooShort пароль короче MinLength.
var ErrTooShort = errors.New("password too short")

// Validate проверяет требования к новому паролю.
func Validate(password string) error {
	if utf8.RuneCountInString(password) < MinLength {
		return ErrTooShort
	}
	return nil
}

// GetHash возвращает bcrypt-хеш пароля.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// CompareHash возвращает nil, если пароль соответствует хешу.
// Пустой хеш (приглашение ещё не принято) никогда не совпадает.
func CompareHash(hash, password string) error {
	const op = "password.CompareHash"
	if hash == "" {
		return fmt.Errorf("%s: %w", op, bcrypt.ErrMismatchedHashAndPassword)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
