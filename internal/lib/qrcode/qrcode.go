// Package qrcode рисует QR-коды участников.
package qrcode

import (
	"fmt"

	qr "github.com/skip2/go-qrcode"
)

// DefaultSize сторона PNG в пикселях.
const DefaultSize = 320

// PNG кодирует content в PNG со средним уровнем коррекции.
func PNG(content string, size int) ([]byte, error) {
	const op = "qrcode.PNG"
	if content == "" {
		return nil, fmt.Errorf("%s: empty content", op)
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qr.Encode(content, qr.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return png, nil
}
