// Package csvexport формирует CSV для бухгалтерии: каждая ячейка в кавычках,
// кавычки удваиваются, строки разделяются CRLF.
package csvexport

import (
	"bytes"
	"strings"
)

// Cell экранирует одно значение.
func Cell(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// Writer накапливает строки выгрузки.
type Writer struct {
	buf   bytes.Buffer
	lines int
}

// NewWriter создаёт Writer и сразу пишет заголовок.
func NewWriter(header ...string) *Writer {
	w := &Writer{}
	w.Write(header...)
	return w
}

// Write добавляет строку.
func (w *Writer) Write(cells ...string) {
	if w.lines > 0 {
		w.buf.WriteString("\r\n")
	}
	for i, c := range cells {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		w.buf.WriteString(Cell(c))
	}
	w.lines++
}

// Bytes возвращает содержимое. Завершающего перевода строки нет.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Lines количество записанных строк вместе с заголовком.
func (w *Writer) Lines() int {
	return w.lines
}
