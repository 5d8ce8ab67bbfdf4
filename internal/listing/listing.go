// Package listing фильтрует и разбивает на страницы список участников кампании.
package listing

import (
	"strings"

	"github.com/mmeshcher/imagine/internal/model"
)

// Размеры страниц по умолчанию для разных экранов.
const (
	DashboardPageSize = 20
	RewardsPageSize   = 10
)

// TypeFilter ограничивает список пользователями одного типа.
type TypeFilter string

const (
	FilterAll    TypeFilter = "ALL"
	FilterQR     TypeFilter = "QR"
	FilterOnline TypeFilter = "ONLINE"
)

// ParseTypeFilter разбирает значение фильтра. Пустая строка означает FilterAll.
func ParseTypeFilter(s string) (TypeFilter, bool) {
	switch TypeFilter(strings.ToUpper(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, true
	case FilterQR:
		return FilterQR, true
	case FilterOnline:
		return FilterOnline, true
	}
	return "", false
}

// NormalizeType приводит произвольный usertype к QR, ONLINE или пустой строке.
func NormalizeType(raw string) model.UserType {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "QR":
		return model.UserTypeQR
	case "ONLINE", "WEB", "APP":
		return model.UserTypeOnline
	}
	return model.UserTypeUnknown
}

// Filter оставляет пользователей, у которых имя или телефон содержат query без учёта регистра,
// и чей нормализованный тип совпадает с фильтром. Порядок сохраняется.
func Filter(users []model.User, query string, tf TypeFilter) []model.User {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if q != "" && !strings.Contains(strings.ToLower(u.Name), q) && !strings.Contains(strings.ToLower(u.Phone), q) {
			continue
		}
		if tf != FilterAll && tf != "" && string(NormalizeType(u.UserType)) != string(tf) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// Page: одна страница отфильтрованного списка.
// From и To: 1-индексированные границы показанных элементов, 0 для пустого списка.
type Page struct {
	Items      []model.User
	Number     int
	Size       int
	TotalPages int
	Total      int
	From       int
	To         int
}

// TotalPages возвращает число страниц, минимум одну.
func TotalPages(total, size int) int {
	if size <= 0 {
		size = DashboardPageSize
	}
	pages := (total + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// Paginate возвращает страницу page размера size. Неположительный размер заменяется
// DashboardPageSize, номер страницы приводится к диапазону 1..TotalPages.
func Paginate(list []model.User, page, size int) Page {
	if size <= 0 {
		size = DashboardPageSize
	}
	total := len(list)
	pages := TotalPages(total, size)

	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * size
	end := min(start+size, total)

	p := Page{
		Items:      list[start:end],
		Number:     page,
		Size:       size,
		TotalPages: pages,
		Total:      total,
	}
	if total > 0 {
		p.From = start + 1
		p.To = end
	}
	return p
}
