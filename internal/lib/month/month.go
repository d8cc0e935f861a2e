// Package month содержит календарную арифметику для дат подписок.
//
// Все даты представлены как time.Time на полночь UTC: в хранилище это DATE,
// время суток и часовой пояс значения не имеют.
package month

import (
	"fmt"
	"time"
)

// Layout формат даты в API и CSV.
const Layout = "2006-01-02"

// Date возвращает полночь UTC для указанного календарного дня.
func Date(year int, m time.Month, day int) time.Time {
	return time.Date(year, m, day, 0, 0, 0, 0, time.UTC)
}

// Add сдвигает дату на n календарных месяцев. Если в целевом месяце нет
// такого дня, берётся последний день месяца: 31 января + 1 месяц = 28/29 февраля.
func Add(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := Date(y, m+time.Month(n), 1)
	if last := DaysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return Date(first.Year(), first.Month(), d)
}

// AddDays сдвигает дату на n дней.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d+n)
}

// DaysIn возвращает количество дней в месяце.
func DaysIn(year int, m time.Month) int {
	return Date(year, m+1, 0).Day()
}

// Later возвращает более позднюю из двух дат.
func Later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// Today возвращает текущий календарный день в часовом поясе loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := now.In(loc).Date()
	return Date(y, m, d)
}

// Parse разбирает строгую дату YYYY-MM-DD.
func Parse(s string) (time.Time, error) {
	const op = "month.Parse"
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// Format печатает дату как YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Range перечисляет все дни от from до to включительно.
func Range(from, to time.Time) []time.Time {
	var days []time.Time
	for d := from; !d.After(to); d = AddDays(d, 1) {
		days = append(days, d)
	}
	return days
}
