package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/imagine/internal/checkout"
	"github.com/mmeshcher/imagine/internal/model"
	"github.com/mmeshcher/imagine/internal/service"
)

const invalidPhoneMessage = "Invalid phone format. Send digits like 919999999999"

type messageResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type prebookRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Model    string `json:"model" validate:"required"`
	Color    string `json:"color"`
	Storage  string `json:"storage"`
}

type prebookResponse struct {
	OK          bool             `json:"ok"`
	Message     string           `json:"message"`
	Data        model.Prebooking `json:"data"`
	WhatsAppURL string           `json:"whatsapp_url"`
}

// Prebook принимает предзаказ устройства.
func (h *Handler) Prebook(w http.ResponseWriter, r *http.Request) {
	var req prebookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Missing required fields"})
		return
	}

	res, err := h.service.Prebook(r.Context(), service.PrebookRequest{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Model:    req.Model,
		Color:    req.Color,
		Storage:  req.Storage,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrUnknownModel),
			errors.Is(err, checkout.ErrUnknownStorage),
			errors.Is(err, checkout.ErrUnknownColor):
			h.writeJSON(w, http.StatusUnprocessableEntity, messageResponse{Message: err.Error()})
		case errors.Is(err, service.ErrInvalidPhone):
			h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid phone number"})
		default:
			h.logger.Error("prebook error", zap.Error(err))
			h.writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Server error"})
		}
		return
	}

	h.writeJSON(w, http.StatusOK, prebookResponse{
		OK:          true,
		Message:     "Prebooking successful",
		Data:        res.Prebooking,
		WhatsAppURL: res.WhatsAppURL,
	})
}

// Quote рассчитывает стоимость выбранной конфигурации.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	quote, err := h.service.Quote(q.Get("model"), q.Get("color"), q.Get("storage"))
	if err != nil {
		h.writeJSON(w, http.StatusUnprocessableEntity, messageResponse{Message: err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, quote)
}

type redeemStubRequest struct {
	Phone string `json:"phone"`
}

type redeemStubResponse struct {
	OK              bool   `json:"ok"`
	Phone           string `json:"phone,omitempty"`
	Redeemed        bool   `json:"redeemed,omitempty"`
	AlreadyRedeemed bool   `json:"already_redeemed,omitempty"`
	Error           string `json:"error,omitempty"`
}

// RedeemStub отмечает телефон погашенным в локальном журнале.
func (h *Handler) RedeemStub(w http.ResponseWriter, r *http.Request) {
	var req redeemStubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, redeemStubResponse{Error: invalidPhoneMessage})
		return
	}

	already, err := h.service.RecordRedemption(r.Context(), req.Phone)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPhone) {
			h.writeJSON(w, http.StatusBadRequest, redeemStubResponse{Error: invalidPhoneMessage})
			return
		}
		h.logger.Error("record redemption error", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, redeemStubResponse{Error: "Server error"})
		return
	}

	h.writeJSON(w, http.StatusOK, redeemStubResponse{OK: true, Phone: req.Phone, Redeemed: true, AlreadyRedeemed: already})
}
