package list

import (
	"net/http"
	"strconv"

	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Filter собирает параметры ленты из query string.
func Filter(r *http.Request) models.NotificationFilter {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return models.NotificationFilter{
		UnreadOnly: q.Get("unread") == "1",
		Kind:       q.Get("kind"),
		Query:      q.Get("q"),
		Page:       page,
		Limit:      limit,
	}
}
