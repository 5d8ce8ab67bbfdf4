package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/imagine/internal/checkout"
	"github.com/mmeshcher/imagine/internal/model"
	"github.com/mmeshcher/imagine/internal/notify"
	"github.com/mmeshcher/imagine/internal/validation"
)

// PrebookRequest: данные формы предзаказа.
type PrebookRequest struct {
	FullName string
	Email    string
	Phone    string
	Model    string
	Color    string
	Storage  string
}

// PrebookResult: сохранённый предзаказ и ссылка для перехода в WhatsApp поддержки.
type PrebookResult struct {
	Prebooking  model.Prebooking
	WhatsAppURL string
}

// Quote рассчитывает стоимость конфигурации.
func (s *Service) Quote(modelName, color, storage string) (checkout.Quote, error) {
	if modelName == "" {
		modelName = checkout.DefaultModel
	}
	return checkout.NewQuote(modelName, color, storage)
}

// Prebook сохраняет предзаказ и отправляет приветственное сообщение.
// Ошибка отправки сообщения не прерывает предзаказ.
func (s *Service) Prebook(ctx context.Context, req PrebookRequest) (PrebookResult, error) {
	quote, err := checkout.NewQuote(req.Model, req.Color, req.Storage)
	if err != nil {
		return PrebookResult{}, err
	}

	phone := validation.NormalizeIndianNumber(req.Phone)
	if !validation.IsValidPhone(phone) {
		return PrebookResult{}, fmt.Errorf("%w: %q", ErrInvalidPhone, req.Phone)
	}

	p := model.Prebooking{
		ID:        uuid.NewString(),
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     phone,
		Model:     quote.Model,
		Color:     quote.Color,
		Storage:   quote.Storage,
		Total:     quote.Total,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.SavePrebooking(ctx, p); err != nil {
		return PrebookResult{}, fmt.Errorf("save prebooking: %w", err)
	}

	s.sendWelcome(ctx, phone)

	return PrebookResult{Prebooking: p, WhatsAppURL: s.whatsAppURL()}, nil
}

func (s *Service) sendWelcome(ctx context.Context, phone string) {
	if s.notifier == nil {
		return
	}

	err := s.notifier.SendWelcome(ctx, phone)
	switch {
	case err == nil:
		s.logger.Info("welcome message sent", zap.String("phone", phone))
	case errors.Is(err, notify.ErrNotConfigured):
		s.logger.Debug("welcome message skipped", zap.Error(err))
	default:
		s.logger.Warn("welcome message failed", zap.String("phone", phone), zap.Error(err))
	}
}

func (s *Service) whatsAppURL() string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", s.supportPhone, url.QueryEscape("Imagine"))
}

// RecordRedemption отмечает телефон погашенным в локальном журнале и сообщает,
// был ли он отмечен раньше. Повторная отметка не считается ошибкой.
func (s *Service) RecordRedemption(ctx context.Context, phone string) (bool, error) {
	if !validation.IsValidPhone(phone) {
		return false, fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}

	already, err := s.repo.MarkRedeemed(ctx, phone)
	if err != nil {
		return false, fmt.Errorf("mark redeemed: %w", err)
	}
	if already {
		s.logger.Debug("phone already redeemed", zap.String("phone", phone))
	}
	return already, nil
}
