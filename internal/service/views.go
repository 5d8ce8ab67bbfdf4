package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/imagine/internal/backend"
	"github.com/mmeshcher/imagine/internal/export"
	"github.com/mmeshcher/imagine/internal/listing"
	"github.com/mmeshcher/imagine/internal/model"
	"github.com/mmeshcher/imagine/internal/redemption"
	"github.com/mmeshcher/imagine/internal/results"
	"github.com/mmeshcher/imagine/internal/rewards"
)

type viewKind int

const (
	kindDashboard viewKind = iota
	kindRewards
)

type viewKey struct {
	username string
	kind     viewKind
}

// viewEntry сериализует первую загрузку экрана, чтобы параллельные запросы не запускали её дважды.
type viewEntry struct {
	view *listing.View
	load sync.Mutex
}

func (s *Service) viewFor(username string, kind viewKind) *viewEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := viewKey{username: username, kind: kind}
	e, ok := s.views[key]
	if !ok {
		size := listing.DashboardPageSize
		if kind == kindRewards {
			size = listing.RewardsPageSize
		}
		e = &viewEntry{view: listing.NewView(size)}
		s.views[key] = e
	}
	return e
}

func (s *Service) dropViews(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.views, viewKey{username: username, kind: kindDashboard})
	delete(s.views, viewKey{username: username, kind: kindRewards})
}

// fetch загружает список пользователей в представление. Ошибка не возвращается:
// прежний список остаётся видимым, а сообщение об ошибке попадает в снимок.
func (s *Service) fetch(ctx context.Context, e *viewEntry) {
	users, err := s.backend.ListUsers(ctx)
	if err != nil {
		s.logger.Error("fetch users failed", zap.Error(err))
		e.view.SetError(FetchFailedMessage)
		return
	}
	e.view.SetUsers(users, s.now())
}

func (s *Service) ensureLoaded(ctx context.Context, e *viewEntry, refresh bool) {
	if refresh {
		s.fetch(ctx, e)
		return
	}

	e.load.Lock()
	defer e.load.Unlock()
	if !e.view.Loaded() {
		s.fetch(ctx, e)
	}
}

// ListQuery: параметры запроса экрана.
type ListQuery struct {
	listing.Query
	Refresh bool
}

// PageInfo описывает текущую страницу экрана.
type PageInfo struct {
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
	Total      int       `json:"total"`
	From       int       `json:"from"`
	To         int       `json:"to"`
	FetchedAt  time.Time `json:"fetched_at"`
	Error      string    `json:"error,omitempty"`
}

func pageInfo(snap listing.Snapshot) PageInfo {
	return PageInfo{
		Page:       snap.Page.Number,
		PageSize:   snap.Page.Size,
		TotalPages: snap.Page.TotalPages,
		Total:      snap.Page.Total,
		From:       snap.Page.From,
		To:         snap.Page.To,
		FetchedAt:  snap.FetchedAt,
		Error:      snap.Error,
	}
}

// DashboardRow: строка дашборда.
type DashboardRow struct {
	ID        string                        `json:"id"`
	Name      string                        `json:"name"`
	Phone     string                        `json:"phone"`
	Type      model.UserType                `json:"type"`
	StartDate *time.Time                    `json:"start_date"`
	Days      [results.Days]model.DayStatus `json:"days"`
}

// DashboardPage: ответ экрана дашборда.
type DashboardPage struct {
	PageInfo
	Rows []DashboardRow `json:"rows"`
}

// Dashboard возвращает страницу дашборда сотрудника username.
func (s *Service) Dashboard(ctx context.Context, username string, q ListQuery) DashboardPage {
	e := s.viewFor(username, kindDashboard)
	s.ensureLoaded(ctx, e, q.Refresh)
	snap := e.view.Apply(q.Query)

	rows := make([]DashboardRow, 0, len(snap.Page.Items))
	for _, u := range snap.Page.Items {
		rows = append(rows, DashboardRow{
			ID:        u.ID,
			Name:      u.Name,
			Phone:     u.Phone,
			Type:      listing.NormalizeType(u.UserType),
			StartDate: u.StartDate,
			Days:      results.WeekStatuses(u),
		})
	}

	return DashboardPage{PageInfo: pageInfo(snap), Rows: rows}
}

// ExportDashboard пишет CSV со всеми пользователями, прошедшими текущий фильтр.
func (s *Service) ExportDashboard(ctx context.Context, username string, q ListQuery, w io.Writer) error {
	e := s.viewFor(username, kindDashboard)
	s.ensureLoaded(ctx, e, q.Refresh)
	snap := e.view.Apply(q.Query)

	return export.Dashboard(w, snap.Filtered)
}

// RewardCard: карточка пользователя на экране наград.
// Slots заполняется только в модели фиксированных слотов.
type RewardCard struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Phone     string                 `json:"phone"`
	StartDate *time.Time             `json:"start_date"`
	Rewards   []rewards.Reward       `json:"rewards"`
	Slots     []redemption.SlotState `json:"slots,omitempty"`
}

// RewardsPage: ответ экрана наград.
type RewardsPage struct {
	PageInfo
	Model rewards.Model `json:"model"`
	Cards []RewardCard  `json:"cards"`
}

func (s *Service) rewardCard(u model.User, activeSlot int) RewardCard {
	card := RewardCard{
		ID:        u.ID,
		Name:      u.Name,
		Phone:     u.Phone,
		StartDate: u.StartDate,
		Rewards:   s.resolver.Eligible(results.DecodeWeek(u.DailyResults)),
	}
	if card.Rewards == nil {
		card.Rewards = []rewards.Reward{}
	}
	if s.resolver.Model() == rewards.ModelSlot {
		slots := redemption.Normalize(u.Redemption, activeSlot)
		card.Slots = slots[:]
	}
	return card
}

// Rewards возвращает страницу экрана наград сотрудника username.
func (s *Service) Rewards(ctx context.Context, username string, q ListQuery) RewardsPage {
	e := s.viewFor(username, kindRewards)
	s.ensureLoaded(ctx, e, q.Refresh)
	snap := e.view.Apply(q.Query)

	cards := make([]RewardCard, 0, len(snap.Page.Items))
	for _, u := range snap.Page.Items {
		cards = append(cards, s.rewardCard(u, 0))
	}

	return RewardsPage{PageInfo: pageInfo(snap), Model: s.resolver.Model(), Cards: cards}
}

// ExportRewards пишет CSV с наградами всех пользователей, прошедших текущий фильтр.
func (s *Service) ExportRewards(ctx context.Context, username string, q ListQuery, w io.Writer) error {
	e := s.viewFor(username, kindRewards)
	s.ensureLoaded(ctx, e, q.Refresh)
	snap := e.view.Apply(q.Query)

	return export.Rewards(w, snap.Filtered, s.resolver)
}

// RedeemResult: итог погашения.
type RedeemResult struct {
	Phone string                 `json:"phone"`
	Index *int                   `json:"index,omitempty"`
	User  *RewardCard            `json:"user,omitempty"`
	Slots []redemption.SlotState `json:"slots"`
	Error string                 `json:"error,omitempty"`
}

// Redeem погашает награду пользователя phone от имени сотрудника username и перечитывает список.
// index: позиция слота в массивах redeemed/redeemby (0..3); в модели слотов обязателен.
func (s *Service) Redeem(ctx context.Context, username, phone string, index *int) (RedeemResult, error) {
	if phone == "" {
		return RedeemResult{}, ErrInvalidPhone
	}

	activeSlot := 0
	if index != nil {
		activeSlot = *index + 1
		if !redemption.IsSlot(activeSlot) {
			return RedeemResult{}, fmt.Errorf("%w: %d", ErrInvalidSlot, *index)
		}
	} else if s.resolver.Model() == rewards.ModelSlot {
		return RedeemResult{}, fmt.Errorf("%w: slot index is required", ErrInvalidSlot)
	}

	updated, err := s.backend.Redeem(ctx, backend.RedeemRequest{Phone: phone, RedeemBy: username, Index: index})
	if err != nil {
		if errors.Is(err, backend.ErrRedeemRejected) {
			return RedeemResult{}, fmt.Errorf("%w: %w", ErrRedeemRejected, err)
		}
		s.logger.Error("redeem failed", zap.String("phone", phone), zap.Error(err))
		return RedeemResult{}, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}

	s.logger.Info("reward redeemed",
		zap.String("phone", phone),
		zap.String("redeemby", username),
		zap.Any("index", index),
	)

	e := s.viewFor(username, kindRewards)
	s.fetch(ctx, e)

	res := RedeemResult{Phone: phone, Index: index, Error: e.view.LastError()}
	if updated == nil {
		for _, u := range e.view.Users() {
			if u.Phone == phone {
				updated = &u
				break
			}
		}
	}
	if updated != nil {
		card := s.rewardCard(*updated, activeSlot)
		slots := redemption.Normalize(updated.Redemption, activeSlot)
		res.User = &card
		res.Slots = slots[:]
	}

	return res, nil
}
