package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/novaasia/ordering-service/internal/discount"
)

type validateDiscountRequest struct {
	Code          *string  `json:"code"`
	OrderTotal    *float64 `json:"order_total"`
	OrderTotalAlt *float64 `json:"orderTotal"`
}

type issueDiscountRequest struct {
	Code          string  `json:"code"`
	Percentage    float64 `json:"percentage"`
	Amount        float64 `json:"amount"`
	CustomerEmail string  `json:"customer_email"`
}

type DiscountHandler struct {
	svc discount.Service
}

func NewDiscountHandler(svc discount.Service) *DiscountHandler {
	return &DiscountHandler{svc: svc}
}

func (h *DiscountHandler) RegisterRoutes(router chi.Router) {
	router.Post("/discount/validate", h.handleValidate)
	router.Post("/discount", h.handleIssue)
}

func (h *DiscountHandler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithFailure(w, http.StatusBadRequest, "invalid_request_body")
		return
	}

	code := first(req.Code)
	total := firstFloat(req.OrderTotal, req.OrderTotalAlt)
	if code == "" || total == nil {
		respondWithFailure(w, http.StatusBadRequest, "code_and_total_required")
		return
	}

	amount, newTotal, err := h.svc.Redeem(r.Context(), code, *total)
	if err != nil {
		respondWithJSON(w, mapErrorToStatusCode(err), map[string]any{
			"valid": false,
			"error": rejectionReason(err),
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"valid":           true,
		"discount_amount": amount,
		"new_total":       newTotal,
	})
}

func (h *DiscountHandler) handleIssue(w http.ResponseWriter, r *http.Request) {
	var req issueDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithFailure(w, http.StatusBadRequest, "invalid_request_body")
		return
	}

	if req.Code == "" || req.Amount < 0 {
		respondWithFailure(w, http.StatusBadRequest, "invalid_discount_code")
		return
	}

	code := &discount.Code{
		Code:          req.Code,
		Percentage:    req.Percentage,
		Amount:        req.Amount,
		CustomerEmail: req.CustomerEmail,
	}

	if err := h.svc.Issue(r.Context(), code); err != nil {
		log.Warn().Err(err).Str("code", req.Code).Msg("Failed to issue discount code")
		respondWithFailure(w, mapErrorToStatusCode(err), rejectionReason(err))
		return
	}

	respondWithJSON(w, http.StatusCreated, code)
}
