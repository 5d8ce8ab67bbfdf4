// Package handler содержит HTTP-обработчики сервиса Imagine.
package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mmeshcher/imagine/internal/checkout"
	"github.com/mmeshcher/imagine/internal/middleware"
	"github.com/mmeshcher/imagine/internal/model"
	"github.com/mmeshcher/imagine/internal/service"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	Login(ctx context.Context, username, password string) (*model.Employee, error)
	Profile(ctx context.Context, username string) (*model.Employee, error)
	Logout(username string)

	Dashboard(ctx context.Context, username string, q service.ListQuery) service.DashboardPage
	ExportDashboard(ctx context.Context, username string, q service.ListQuery, w io.Writer) error
	Rewards(ctx context.Context, username string, q service.ListQuery) service.RewardsPage
	ExportRewards(ctx context.Context, username string, q service.ListQuery, w io.Writer) error
	Redeem(ctx context.Context, username, phone string, index *int) (service.RedeemResult, error)

	Quote(model, color, storage string) (checkout.Quote, error)
	Prebook(ctx context.Context, req service.PrebookRequest) (service.PrebookResult, error)
	RecordRedemption(ctx context.Context, phone string) (bool, error)
}

// Handler реализует HTTP-обработчики сервиса Imagine.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
	validate       *validator.Validate
	now            func() time.Time
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		now:            time.Now,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", zap.Error(err))
	}
}
