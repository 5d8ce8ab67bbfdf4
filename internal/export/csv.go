// Package export формирует CSV-выгрузки экранов администратора.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mmeshcher/imagine/internal/listing"
	"github.com/mmeshcher/imagine/internal/model"
	"github.com/mmeshcher/imagine/internal/results"
	"github.com/mmeshcher/imagine/internal/rewards"
)

// ContentType: значение заголовка Content-Type для выгрузок.
const ContentType = "text/csv; charset=utf-8"

const bom = "\uFEFF"

var (
	dashboardHeader = []string{"Name", "Phone", "Type", "Start", "D1", "D2", "D3", "D4", "D5", "D6", "D7"}
	rewardsHeader   = []string{"Name", "Phone", "Start Date", "Rewards"}
)

// Write пишет BOM, заголовок и строки. Каждое поле берётся в кавычки, кавычки внутри удваиваются,
// строки разделяются переводом строки без завершающего.
func Write(w io.Writer, header []string, rows [][]string) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(bom + strings.Join(header, ",")); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
		for i, field := range row {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return fmt.Errorf("write row: %w", err)
				}
			}
			if _, err := bw.WriteString(quote(field)); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Dashboard выгружает пользователей со статусами дней.
func Dashboard(w io.Writer, users []model.User) error {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		start := ""
		if u.StartDate != nil {
			start = u.StartDate.UTC().Format(time.DateOnly)
		}

		row := make([]string, 0, len(dashboardHeader))
		row = append(row, u.Name, u.Phone, string(listing.NormalizeType(u.UserType)), start)
		for _, st := range results.WeekStatuses(u) {
			row = append(row, st.Label)
		}
		rows = append(rows, row)
	}
	return Write(w, dashboardHeader, rows)
}

// Rewards выгружает пользователей с доступными им наградами.
func Rewards(w io.Writer, users []model.User, resolver *rewards.Resolver) error {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		start := ""
		if u.StartDate != nil {
			start = u.StartDate.UTC().Format("2006-01-02T15:04:05.000Z")
		}
		eligible := resolver.Eligible(results.DecodeWeek(u.DailyResults))
		rows = append(rows, []string{u.Name, u.Phone, start, strings.Join(rewards.Texts(eligible), "; ")})
	}
	return Write(w, rewardsHeader, rows)
}

// Filename возвращает имя файла выгрузки вида prefix_YYYY-MM-DD.csv.
func Filename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", prefix, now.UTC().Format(time.DateOnly))
}
