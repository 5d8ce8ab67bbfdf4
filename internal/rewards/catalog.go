// Package rewards содержит каталоги наград кампании и правила допуска к ним.
package rewards

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mmeshcher/imagine/internal/results"
)

// SlotCount: число фиксированных слотов наград.
const SlotCount = 4

// Slot: одна из четырёх фиксированных наград, одинаковых для всех пользователей.
type Slot struct {
	ID          int    `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Text        string `json:"text" yaml:"text"`
}

// Catalog объединяет таблицу наград по дням и каталог слотов.
type Catalog struct {
	Days  map[int]string `yaml:"days"`
	Slots []Slot         `yaml:"slots"`
}

// ErrInvalidCatalog возвращается при загрузке некорректного файла каталога.
var ErrInvalidCatalog = errors.New("invalid reward catalog")

// DefaultCatalog возвращает встроенный каталог наград.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Days: map[int]string{
			1: "17% off iPhone accessory bundles (TG, Tekne Case, Tekne Spotfree, Tekne Adapter, Lens Protector)",
			2: "8% on your next iPad",
			3: "8% on your next Macbook",
			4: "50% off the next iCare service",
			5: "17 AirPods for 17 lucky winners",
			6: "71 diamond studs for 71 lucky winners",
			7: "A Maldives couple trip worth nearly ₹3 lakhs",
		},
		Slots: []Slot{
			{ID: 1, Description: "Accessory bundle", Text: "17% off iPhone accessory bundles"},
			{ID: 2, Description: "iPad offer", Text: "8% on your next iPad"},
			{ID: 3, Description: "Mac offer", Text: "8% on your next Macbook"},
			{ID: 4, Description: "iCare service", Text: "50% off the next iCare service"},
		},
	}
}

// LoadCatalog читает YAML-файл каталога. Разделы, отсутствующие в файле, берутся из встроенного каталога.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var file Catalog
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := DefaultCatalog()
	if len(file.Days) > 0 {
		for day := range file.Days {
			if day < 1 || day > results.Days {
				return nil, fmt.Errorf("%w: day %d out of range", ErrInvalidCatalog, day)
			}
		}
		c.Days = file.Days
	}
	if len(file.Slots) > 0 {
		if err := validateSlots(file.Slots); err != nil {
			return nil, err
		}
		c.Slots = file.Slots
	}

	return c, nil
}

func validateSlots(slots []Slot) error {
	if len(slots) != SlotCount {
		return fmt.Errorf("%w: want %d slots, got %d", ErrInvalidCatalog, SlotCount, len(slots))
	}
	for i, s := range slots {
		if s.ID != i+1 {
			return fmt.Errorf("%w: slot #%d has id %d", ErrInvalidCatalog, i+1, s.ID)
		}
	}
	return nil
}
