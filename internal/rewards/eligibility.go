package rewards

import (
	"fmt"
	"strings"

	"github.com/mmeshcher/imagine/internal/results"
)

// Model задаёт, по какой модели пользователь получает право на награды.
type Model string

const (
	// ModelDay: награда дня доступна, если день выигран.
	ModelDay Model = "day"
	// ModelSlot: все четыре слота доступны всем, погашение учитывается отдельно.
	ModelSlot Model = "slot"
)

// ParseModel разбирает название модели из конфигурации. Пустая строка означает ModelDay.
func ParseModel(s string) (Model, error) {
	switch Model(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModelDay:
		return ModelDay, nil
	case ModelSlot:
		return ModelSlot, nil
	default:
		return "", fmt.Errorf("unknown reward model %q", s)
	}
}

// Reward: награда, на которую пользователь имеет право.
// ID: номер дня для ModelDay и номер слота для ModelSlot.
type Reward struct {
	ID          int    `json:"id"`
	Text        string `json:"text"`
	Description string `json:"description,omitempty"`
}

// Resolver вычисляет список доступных пользователю наград.
type Resolver struct {
	model   Model
	catalog *Catalog
}

// NewResolver создаёт резолвер для выбранной модели. nil-каталог заменяется встроенным.
func NewResolver(m Model, c *Catalog) *Resolver {
	if c == nil {
		c = DefaultCatalog()
	}
	return &Resolver{model: m, catalog: c}
}

// Model возвращает модель, с которой работает резолвер.
func (r *Resolver) Model() Model {
	return r.model
}

// Eligible возвращает доступные награды по настроенной модели.
func (r *Resolver) Eligible(week results.Week) []Reward {
	if r.model == ModelSlot {
		return r.SlotRewards()
	}
	return r.DayRewards(week)
}

// DayRewards возвращает награды выигранных дней в порядке возрастания дня, не более одной на день.
func (r *Resolver) DayRewards(week results.Week) []Reward {
	out := make([]Reward, 0, results.Days)
	for day := 1; day <= results.Days; day++ {
		if week.Outcome(day) != results.OutcomeWon {
			continue
		}
		text, ok := r.catalog.Days[day]
		if !ok {
			continue
		}
		out = append(out, Reward{ID: day, Text: text})
	}
	return out
}

// SlotRewards возвращает все слоты каталога.
func (r *Resolver) SlotRewards() []Reward {
	out := make([]Reward, 0, len(r.catalog.Slots))
	for _, s := range r.catalog.Slots {
		out = append(out, Reward{ID: s.ID, Text: s.Text, Description: s.Description})
	}
	return out
}

// Texts возвращает только тексты наград.
func Texts(rs []Reward) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Text)
	}
	return out
}
