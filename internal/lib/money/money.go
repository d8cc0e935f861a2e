// Package money переводит суммы между центами и строковым представлением.
package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultCurrency валюта магазина и абонементов.
const DefaultCurrency = "EGP"

// ToPriceString печатает центы с двумя знаками после точки: 12345 -> "123.45".
func ToPriceString(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ParsePriceToCents разбирает "123.45" или "123,45". Некорректный ввод даёт 0.
func ParsePriceToCents(input string) int64 {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0
	}
	return Round(n * 100)
}

// Format печатает сумму с валютой: "123.45 EGP".
func Format(cents int64, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	return ToPriceString(cents) + " " + currency
}

// Round округляет половину вверх, как это делают кассовые расчёты клуба.
func Round(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}
