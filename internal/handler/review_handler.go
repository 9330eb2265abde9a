package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/novaasia/ordering-service/internal/review"
)

type submitReviewRequest struct {
	OrderNumber    *string `json:"order_number" validate:"-"`
	OrderNumberAlt *string `json:"orderNumber"`
	Name           string  `json:"name" validate:"required"`
	Content        string  `json:"content"`
	Rating         int     `json:"rating" validate:"required,min=1,max=5"`
}

type ReviewHandler struct {
	svc      review.Service
	validate *validator.Validate
}

func NewReviewHandler(svc review.Service) *ReviewHandler {
	return &ReviewHandler{svc: svc, validate: validator.New()}
}

func (h *ReviewHandler) RegisterRoutes(router chi.Router) {
	router.Post("/review", h.handleSubmitReview)
	router.Get("/reviews", h.handleListReviews)
}

func (h *ReviewHandler) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	var req submitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithFailure(w, http.StatusBadRequest, "invalid_request_body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Warn().Err(err).Msg("Review submission failed validation")
		respondWithFailure(w, http.StatusBadRequest, "invalid_review")
		return
	}

	orderNumber := first(req.OrderNumber, req.OrderNumberAlt)
	if orderNumber == "" {
		respondWithFailure(w, http.StatusBadRequest, "order_number_required")
		return
	}

	rev := &review.Review{
		OrderNumber: orderNumber,
		Name:        req.Name,
		Content:     req.Content,
		Rating:      req.Rating,
	}

	if err := h.svc.Submit(r.Context(), rev); err != nil {
		respondWithFailure(w, mapErrorToStatusCode(err), rejectionReason(err))
		return
	}

	respondWithJSON(w, http.StatusCreated, rev)
}

func (h *ReviewHandler) handleListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.svc.List(r.Context())
	if err != nil {
		respondWithFailure(w, mapErrorToStatusCode(err), rejectionReason(err))
		return
	}

	respondWithJSON(w, http.StatusOK, reviews)
}
