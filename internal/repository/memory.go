// Package repository хранит локальный журнал кампании: предзаказы и отметки о погашении.
// По умолчанию используется память процесса, при заданном DATABASE_URI используется PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mmeshcher/imagine/internal/model"
)

// ErrPrebookingExists возвращается при повторном сохранении предзаказа с тем же идентификатором.
var ErrPrebookingExists = errors.New("prebooking already exists")

// MemoryRepository: потокобезопасный журнал в памяти. Данные теряются при перезапуске.
type MemoryRepository struct {
	mu          sync.Mutex
	prebookings map[string]model.Prebooking
	redeemed    map[string]struct{}
}

// NewMemoryRepository создаёт пустой журнал.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		prebookings: make(map[string]model.Prebooking),
		redeemed:    make(map[string]struct{}),
	}
}

// SavePrebooking сохраняет предзаказ. Повтор идентификатора даёт ErrPrebookingExists.
func (r *MemoryRepository) SavePrebooking(_ context.Context, p model.Prebooking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.prebookings[p.ID]; ok {
		return fmt.Errorf("%w: %s", ErrPrebookingExists, p.ID)
	}
	r.prebookings[p.ID] = p
	return nil
}

// MarkRedeemed отмечает телефон погашенным и сообщает, был ли он отмечен раньше.
func (r *MemoryRepository) MarkRedeemed(_ context.Context, phone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.redeemed[phone]; ok {
		return true, nil
	}
	r.redeemed[phone] = struct{}{}
	return false, nil
}

// Close ничего не делает: журнал в памяти не держит ресурсов.
func (r *MemoryRepository) Close() error { return nil }
