// Package pricing считает скидки персонала и распределяет их по строкам заказа.
package pricing

import "github.com/magabrotheeeer/atom-backoffice/internal/models"

// RoleDiscountPercent скидка в процентах по роли покупателя.
func RoleDiscountPercent(role models.Role) int {
	switch role {
	case models.RoleCoach:
		return 30
	case models.RoleAssistantCoach:
		return 20
	}
	return 0
}

// Apply возвращает round(cents × (100−pct)/100) с округлением половины вверх.
func Apply(cents int64, pct int) int64 {
	num := cents * int64(100-pct)
	if num >= 0 {
		return (num + 50) / 100
	}
	return -((-num + 49) / 100)
}

// Prorate распределяет скидку pct по строкам с суммами subtotals.
//
// Каждая строка, кроме последней, получает Apply(sub, pct); последняя забирает
// остаток до Apply(sum, pct). Если округлённые вверх строки уже превысили итог,
// излишек снимается с предыдущих строк с конца, ни одна не уходит в минус.
// Сумма строк всегда равна total.
func Prorate(subtotals []int64, pct int) (lines []int64, total int64) {
	if len(subtotals) == 0 {
		return nil, 0
	}
	var sum int64
	for _, s := range subtotals {
		sum += s
	}
	target := Apply(sum, pct)

	lines = make([]int64, len(subtotals))
	var acc int64
	for i, s := range subtotals[:len(subtotals)-1] {
		lines[i] = Apply(s, pct)
		acc += lines[i]
	}
	last := target - acc
	if last >= 0 {
		lines[len(lines)-1] = last
		return lines, target
	}

	excess := -last
	for i := len(lines) - 2; i >= 0 && excess > 0; i-- {
		cut := min(lines[i], excess)
		lines[i] -= cut
		excess -= cut
	}
	return lines, target
}
