// Package checkout рассчитывает стоимость предзаказа устройства.
package checkout

import (
	"errors"
	"fmt"
	"slices"
)

// Значения по умолчанию, если клиент не выбрал цвет или объём памяти.
const (
	DefaultModel   = "iPhone 17"
	DefaultColor   = "Natural Titanium"
	DefaultStorage = "128 GB"
)

var (
	// ErrUnknownModel возвращается для модели, которой нет в каталоге.
	ErrUnknownModel = errors.New("unknown model")
	// ErrUnknownStorage возвращается для неизвестного объёма памяти.
	ErrUnknownStorage = errors.New("unknown storage option")
	// ErrUnknownColor возвращается для неизвестного цвета.
	ErrUnknownColor = errors.New("unknown color")
)

var (
	basePriceByModel = map[string]int{
		"iPhone 17":         999,
		"iPhone 17 Pro":     1199,
		"iPhone 17 Pro Max": 1299,
	}
	storageAddOn = map[string]int{
		"128 GB": 0,
		"256 GB": 100,
		"512 GB": 300,
		"1 TB":   500,
	}
	colors = []string{"Natural Titanium", "Black", "Blue", "Pink"}
)

// Quote: расчёт стоимости предзаказа. Предзаказ ограничен одной единицей.
type Quote struct {
	Model        string `json:"model"`
	Color        string `json:"color"`
	Storage      string `json:"storage"`
	Device       int    `json:"device"`
	StorageAddOn int    `json:"storage_addon"`
	Total        int    `json:"total"`
}

// NewQuote рассчитывает стоимость для выбранной конфигурации.
func NewQuote(model, color, storage string) (Quote, error) {
	if color == "" {
		color = DefaultColor
	}
	if storage == "" {
		storage = DefaultStorage
	}

	base, ok := basePriceByModel[model]
	if !ok {
		return Quote{}, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
	addOn, ok := storageAddOn[storage]
	if !ok {
		return Quote{}, fmt.Errorf("%w: %q", ErrUnknownStorage, storage)
	}
	if !slices.Contains(colors, color) {
		return Quote{}, fmt.Errorf("%w: %q", ErrUnknownColor, color)
	}

	return Quote{
		Model:        model,
		Color:        color,
		Storage:      storage,
		Device:       base,
		StorageAddOn: addOn,
		Total:        base + addOn,
	}, nil
}
