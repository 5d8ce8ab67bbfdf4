package results

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmeshcher/imagine/internal/model"
)

func TestParseTokens(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   map[int]byte
	}{
		{
			name:   "simple",
			tokens: []string{"1W", "3L", "5A"},
			want:   map[int]byte{1: 'W', 3: 'L', 5: 'A'},
		},
		{
			name:   "lowercase letter is upper-cased",
			tokens: []string{"2w"},
			want:   map[int]byte{2: 'W'},
		},
		{
			name:   "first occurrence wins",
			tokens: []string{"1L", "1W"},
			want:   map[int]byte{1: 'L'},
		},
		{
			name:   "malformed entries are ignored",
			tokens: []string{"", "W1", "1", "1WW", " 1W", "x"},
			want:   map[int]byte{},
		},
		{
			name:   "multi-digit day kept as parsed",
			tokens: []string{"10W", "1L"},
			want:   map[int]byte{10: 'W', 1: 'L'},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTokens(tt.tokens))
		})
	}
}

func TestDecodeWeek_ValidTokensYieldExactlyOnePair(t *testing.T) {
	for day := 1; day <= Days; day++ {
		for _, letter := range []Outcome{OutcomeWon, OutcomeLost, OutcomeAbsent} {
			token := fmt.Sprintf("%d%c", day, letter)
			w := DecodeWeek([]string{token})

			count := 0
			for d := 1; d <= Days; d++ {
				if w.Outcome(d) != OutcomeNone {
					count++
					assert.Equal(t, day, d, "token %s", token)
					assert.Equal(t, letter, w.Outcome(d), "token %s", token)
				}
			}
			assert.Equal(t, 1, count, "token %s", token)
		}
	}
}

func TestDecodeWeek_ExcludesUnknownLettersAndDays(t *testing.T) {
	w := DecodeWeek([]string{"1X", "8W", "0W", "10W", "12L"})
	assert.Equal(t, Week{}, w)
}

func TestDecodeWeek_DayTenDoesNotShadowDayOne(t *testing.T) {
	w := DecodeWeek([]string{"10L", "1W"})
	assert.Equal(t, OutcomeWon, w.Outcome(1))
}

func TestDayStatus(t *testing.T) {
	tests := []struct {
		name        string
		tokens      []string
		messageSent []string
		day         int
		want        model.DayStatus
	}{
		{
			name:   "won token",
			tokens: []string{"1W"},
			day:    1,
			want:   model.DayStatus{Day: 1, Variant: model.DayWon, Label: "Won"},
		},
		{
			name:        "token wins over message_sent",
			tokens:      []string{"2L"},
			messageSent: []string{"played", "played"},
			day:         2,
			want:        model.DayStatus{Day: 2, Variant: model.DayLost, Label: "Lost"},
		},
		{
			name:   "absent token",
			tokens: []string{"3A"},
			day:    3,
			want:   model.DayStatus{Day: 3, Variant: model.DayAbsent, Label: "Absent"},
		},
		{
			name:        "played fallback",
			messageSent: []string{"", "played"},
			day:         2,
			want:        model.DayStatus{Day: 2, Variant: model.DayPlayed, Label: "Played"},
		},
		{
			name:        "absent fallback",
			messageSent: []string{"absent"},
			day:         1,
			want:        model.DayStatus{Day: 1, Variant: model.DayAbsent, Label: "Absent"},
		},
		{
			name:        "unknown letter falls back",
			tokens:      []string{"4X"},
			messageSent: []string{"", "", "", "played"},
			day:         4,
			want:        model.DayStatus{Day: 4, Variant: model.DayPlayed, Label: "Played"},
		},
		{
			name: "nothing known",
			day:  7,
			want: model.DayStatus{Day: 7, Variant: model.DayIdle, Label: "Not played"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DayStatus(DecodeWeek(tt.tokens), tt.messageSent, tt.day)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWeekStatuses(t *testing.T) {
	u := model.User{
		DailyResults: []string{"1W", "3L", "5W"},
		MessageSent:  []string{"played", "played", "played", "absent"},
	}

	got := WeekStatuses(u)

	labels := make([]string, 0, Days)
	for _, st := range got {
		labels = append(labels, st.Label)
	}
	assert.Equal(t, []string{"Won", "Played", "Lost", "Absent", "Won", "Not played", "Not played"}, labels)
	for i, st := range got {
		assert.Equal(t, i+1, st.Day)
	}
}
