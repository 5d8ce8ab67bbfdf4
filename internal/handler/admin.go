package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/mmeshcher/imagine/internal/export"
	"github.com/mmeshcher/imagine/internal/listing"
	"github.com/mmeshcher/imagine/internal/middleware"
	"github.com/mmeshcher/imagine/internal/model"
	"github.com/mmeshcher/imagine/internal/service"
)

var allowedPageSizes = map[int]bool{10: true, 20: true, 50: true}

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type employeeResponse struct {
	OK       bool            `json:"ok"`
	Employee *model.Employee `json:"employee"`
}

// AdminLogin проверяет учётные данные сотрудника и открывает сессию.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	emp, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			http.Error(w, "Invalid credentials.", http.StatusUnauthorized)
		case errors.Is(err, service.ErrBackendUnavailable):
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		default:
			h.logger.Error("admin login error", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	subject := req.Username
	if emp != nil && emp.Username != "" {
		subject = emp.Username
	}
	if err := h.authMiddleware.SetSessionCookie(w, subject); err != nil {
		h.logger.Error("set session cookie error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, employeeResponse{OK: true, Employee: emp})
}

// AdminLogout закрывает сессию.
func (h *Handler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	if username, ok := middleware.GetUsernameFromContext(r.Context()); ok {
		h.service.Logout(username)
	}
	h.authMiddleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// AdminMe возвращает профиль сотрудника текущей сессии.
func (h *Handler) AdminMe(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	emp, err := h.service.Profile(r.Context(), username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmployeeNotFound):
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		case errors.Is(err, service.ErrBackendUnavailable):
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		default:
			h.logger.Error("admin profile error", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, employeeResponse{OK: true, Employee: emp})
}

// parseListQuery разбирает q, type, page, page_size и refresh. Некорректные page и page_size
// игнорируются, неизвестный type считается ошибкой.
func parseListQuery(r *http.Request) (service.ListQuery, error) {
	v := r.URL.Query()

	tf, ok := listing.ParseTypeFilter(v.Get("type"))
	if !ok {
		return service.ListQuery{}, fmt.Errorf("unknown type filter %q", v.Get("type"))
	}

	q := service.ListQuery{
		Query: listing.Query{
			Text:       v.Get("q"),
			TypeFilter: tf,
		},
		Refresh: v.Get("refresh") == "1" || v.Get("refresh") == "true",
	}

	if page, err := strconv.Atoi(v.Get("page")); err == nil && page > 0 {
		q.Page = page
	}
	if size, err := strconv.Atoi(v.Get("page_size")); err == nil && allowedPageSizes[size] {
		q.PageSize = size
	}

	return q, nil
}

// Dashboard возвращает страницу дашборда.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	username, q, ok := h.listRequest(w, r)
	if !ok {
		return
	}

	h.writeJSON(w, http.StatusOK, h.service.Dashboard(r.Context(), username, q))
}

// DashboardExport отдаёт CSV-выгрузку дашборда.
func (h *Handler) DashboardExport(w http.ResponseWriter, r *http.Request) {
	username, q, ok := h.listRequest(w, r)
	if !ok {
		return
	}

	h.writeCSV(w, "dashboard", func(out io.Writer) error {
		return h.service.ExportDashboard(r.Context(), username, q, out)
	})
}

// Rewards возвращает страницу экрана наград.
func (h *Handler) Rewards(w http.ResponseWriter, r *http.Request) {
	username, q, ok := h.listRequest(w, r)
	if !ok {
		return
	}

	h.writeJSON(w, http.StatusOK, h.service.Rewards(r.Context(), username, q))
}

// RewardsExport отдаёт CSV-выгрузку наград.
func (h *Handler) RewardsExport(w http.ResponseWriter, r *http.Request) {
	username, q, ok := h.listRequest(w, r)
	if !ok {
		return
	}

	h.writeCSV(w, "rewards", func(out io.Writer) error {
		return h.service.ExportRewards(r.Context(), username, q, out)
	})
}

func (h *Handler) listRequest(w http.ResponseWriter, r *http.Request) (string, service.ListQuery, bool) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return "", service.ListQuery{}, false
	}

	q, err := parseListQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", service.ListQuery{}, false
	}

	return username, q, true
}

func (h *Handler) writeCSV(w http.ResponseWriter, prefix string, fn func(io.Writer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		h.logger.Error("export error", zap.String("export", prefix), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(prefix, h.now())))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

type adminRedeemRequest struct {
	Phone string `json:"phone" validate:"required"`
	Index *int   `json:"index" validate:"omitempty,min=0,max=3"`
}

type adminRedeemResponse struct {
	OK bool `json:"ok"`
	service.RedeemResult
}

// AdminRedeem погашает награду пользователя от имени сотрудника текущей сессии.
func (h *Handler) AdminRedeem(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req adminRedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "phone is required and index must be 0-3"})
		return
	}

	res, err := h.service.Redeem(r.Context(), username, req.Phone, req.Index)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPhone), errors.Is(err, service.ErrInvalidSlot):
			h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
		case errors.Is(err, service.ErrRedeemRejected):
			h.writeJSON(w, http.StatusConflict, messageResponse{Message: err.Error()})
		case errors.Is(err, service.ErrBackendUnavailable):
			h.writeJSON(w, http.StatusBadGateway, messageResponse{Message: "Failed to redeem. Please try again."})
		default:
			h.logger.Error("admin redeem error", zap.Error(err))
			h.writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Server error"})
		}
		return
	}

	h.writeJSON(w, http.StatusOK, adminRedeemResponse{OK: true, RedeemResult: res})
}
