// Package results разбирает дневные токены результатов (например "3W") и вычисляет статусы дней.
package results

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mmeshcher/imagine/internal/model"
)

// Days: длительность челленджа.
const Days = 7

// Outcome: буква исхода дня.
type Outcome byte

const (
	OutcomeNone   Outcome = 0
	OutcomeWon    Outcome = 'W'
	OutcomeLost   Outcome = 'L'
	OutcomeAbsent Outcome = 'A'
)

var tokenPattern = regexp.MustCompile(`^(\d+)([A-Za-z])$`)

// ParseTokens превращает последовательность токенов в отображение день -> буква.
// Неподходящие токены пропускаются, для повторяющегося дня побеждает первый токен.
// Дни вне диапазона 1..7 сохраняются, но ни на что не влияют.
func ParseTokens(tokens []string) map[int]byte {
	days := make(map[int]byte, len(tokens))
	for _, token := range tokens {
		m := tokenPattern.FindStringSubmatch(token)
		if m == nil {
			continue
		}
		day, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if _, seen := days[day]; seen {
			continue
		}
		days[day] = strings.ToUpper(m[2])[0]
	}
	return days
}

// Week: исходы семи дней челленджа, индекс 0 соответствует первому дню.
type Week [Days]Outcome

// Outcome возвращает исход дня day (1..7) или OutcomeNone.
func (w Week) Outcome(day int) Outcome {
	if day < 1 || day > Days {
		return OutcomeNone
	}
	return w[day-1]
}

// DecodeWeek оставляет из разобранных токенов только дни 1..7 с буквами W, L и A.
func DecodeWeek(tokens []string) Week {
	var w Week
	for day, letter := range ParseTokens(tokens) {
		if day < 1 || day > Days {
			continue
		}
		switch o := Outcome(letter); o {
		case OutcomeWon, OutcomeLost, OutcomeAbsent:
			w[day-1] = o
		}
	}
	return w
}

// DayStatus вычисляет статус дня: сначала токен дня, затем message_sent, иначе "Not played".
func DayStatus(week Week, messageSent []string, day int) model.DayStatus {
	switch week.Outcome(day) {
	case OutcomeWon:
		return model.DayStatus{Day: day, Variant: model.DayWon, Label: "Won"}
	case OutcomeLost:
		return model.DayStatus{Day: day, Variant: model.DayLost, Label: "Lost"}
	case OutcomeAbsent:
		return model.DayStatus{Day: day, Variant: model.DayAbsent, Label: "Absent"}
	}

	if day >= 1 && day <= len(messageSent) {
		switch messageSent[day-1] {
		case "played":
			return model.DayStatus{Day: day, Variant: model.DayPlayed, Label: "Played"}
		case "absent":
			return model.DayStatus{Day: day, Variant: model.DayAbsent, Label: "Absent"}
		}
	}

	return model.DayStatus{Day: day, Variant: model.DayIdle, Label: "Not played"}
}

// WeekStatuses возвращает статусы всех семи дней пользователя.
func WeekStatuses(u model.User) [Days]model.DayStatus {
	week := DecodeWeek(u.DailyResults)
	var out [Days]model.DayStatus
	for day := 1; day <= Days; day++ {
		out[day-1] = DayStatus(week, u.MessageSent, day)
	}
	return out
}
