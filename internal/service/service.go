// Package service реализует бизнес-логику сервиса Imagine: сессии администраторов,
// экраны дашборда и наград, погашение и предзаказ.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/imagine/internal/backend"
	"github.com/mmeshcher/imagine/internal/model"
	"github.com/mmeshcher/imagine/internal/rewards"
)

// FetchFailedMessage показывается администратору, если список пользователей не удалось загрузить.
const FetchFailedMessage = "Failed to fetch users. Please try again."

var (
	// ErrInvalidCredentials возвращается при неверном логине или пароле.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmployeeNotFound возвращается, если профиль сотрудника не найден.
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrBackendUnavailable возвращается, если удалённый бэкенд не ответил или ответил ошибкой.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrRedeemRejected возвращается, если бэкенд отказал в погашении.
	ErrRedeemRejected = errors.New("redeem rejected")
	// ErrInvalidPhone возвращается для телефона, не состоящего из 10..15 цифр.
	ErrInvalidPhone = errors.New("invalid phone")
	// ErrInvalidSlot возвращается для недопустимого номера слота.
	ErrInvalidSlot = errors.New("invalid reward slot")
)

// Backend описывает вызовы удалённого API кампании, используемые сервисом.
type Backend interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	Redeem(ctx context.Context, req backend.RedeemRequest) (*model.User, error)
}

// Notifier отправляет приветственное сообщение после предзаказа.
type Notifier interface {
	SendWelcome(ctx context.Context, phone string) error
}

// Repository описывает локальный журнал предзаказов и погашений.
type Repository interface {
	Close() error
	SavePrebooking(ctx context.Context, p model.Prebooking) error
	MarkRedeemed(ctx context.Context, phone string) (already bool, err error)
}

// Service содержит бизнес-логику сервиса Imagine.
type Service struct {
	repo         Repository
	backend      Backend
	notifier     Notifier
	auth         Authenticator
	resolver     *rewards.Resolver
	supportPhone string
	logger       *zap.Logger

	now func() time.Time

	mu    sync.Mutex
	views map[viewKey]*viewEntry
}

// NewService создаёт сервис. nil-резолвер заменяется резолвером дневной модели со встроенным каталогом.
func NewService(
	repo Repository,
	backendClient Backend,
	notifier Notifier,
	auth Authenticator,
	resolver *rewards.Resolver,
	supportPhone string,
	logger *zap.Logger,
) *Service {
	if resolver == nil {
		resolver = rewards.NewResolver(rewards.ModelDay, nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		repo:         repo,
		backend:      backendClient,
		notifier:     notifier,
		auth:         auth,
		resolver:     resolver,
		supportPhone: supportPhone,
		logger:       logger,
		now:          time.Now,
		views:        make(map[viewKey]*viewEntry),
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}
