package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/novaasia/ordering-service/internal/discount"
	"github.com/novaasia/ordering-service/internal/order"
	"github.com/novaasia/ordering-service/internal/review"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status":"fail","error":"internal_error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func respondWithFailure(w http.ResponseWriter, code int, reason string) {
	respondWithJSON(w, code, map[string]string{"status": "fail", "error": reason})
}

// rejectionReason maps a domain error to the machine-readable reason string
// the client receives.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, order.ErrUnknownOrderType):
		return "unknown_order_type"
	case errors.Is(err, order.ErrClosedToday):
		return "closed_today"
	case errors.Is(err, order.ErrAfterClosing):
		return "after_closing"
	case errors.Is(err, order.ErrChannelClosed):
		return "channel_closed"
	case errors.Is(err, order.ErrNoItems):
		return "no_items"
	case errors.Is(err, order.ErrInvalidItem):
		return "invalid_item"
	case errors.Is(err, order.ErrInvalidTip):
		return "invalid_tip"
	case errors.Is(err, order.ErrOrderNotFound):
		return "order_not_found"
	case errors.Is(err, order.ErrOrderCancelled):
		return "order_cancelled"
	case errors.Is(err, discount.ErrCodeUnavailable):
		return "invalid_or_used_code"
	case errors.Is(err, discount.ErrMinimumNotMet):
		return "minimum_not_met"
	case errors.Is(err, discount.ErrCodeExists):
		return "code_exists"
	case errors.Is(err, review.ErrReviewExists):
		return "review_exists"
	case errors.Is(err, review.ErrUnknownOrder):
		return "order_not_found"
	case errors.Is(err, review.ErrInvalidRating):
		return "invalid_rating"
	default:
		return "internal_error"
	}
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, order.ErrOrderNotFound), errors.Is(err, review.ErrUnknownOrder):
		return http.StatusNotFound
	case errors.Is(err, order.ErrOrderCancelled),
		errors.Is(err, discount.ErrCodeExists),
		errors.Is(err, review.ErrReviewExists):
		return http.StatusConflict
	case errors.Is(err, order.ErrUnknownOrderType),
		errors.Is(err, order.ErrClosedToday),
		errors.Is(err, order.ErrAfterClosing),
		errors.Is(err, order.ErrChannelClosed),
		errors.Is(err, order.ErrNoItems),
		errors.Is(err, order.ErrInvalidItem),
		errors.Is(err, order.ErrInvalidTip),
		errors.Is(err, discount.ErrCodeUnavailable),
		errors.Is(err, discount.ErrMinimumNotMet),
		errors.Is(err, review.ErrInvalidRating):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// first returns the first present, non-empty value among the given synonym
// spellings.
func first(values ...*string) string {
	for _, v := range values {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}

func firstFloat(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
