package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/novaasia/ordering-service/internal/notify"
	"github.com/novaasia/ordering-service/internal/order"
)

// submitOrderRequest accepts both naming conventions the clients use; the
// first present, non-null spelling wins.
type submitOrderRequest struct {
	CustomerName     *string               `json:"customer_name"`
	CustomerNameAlt  *string               `json:"customerName"`
	Phone            *string               `json:"phone"`
	Email            *string               `json:"email"`
	OrderType        *string               `json:"order_type"`
	OrderTypeAlt     *string               `json:"orderType"`
	PickupTime       *string               `json:"pickup_time"`
	PickupTimeAlt    *string               `json:"pickupTime"`
	DeliveryTime     *string               `json:"delivery_time"`
	DeliveryTimeAlt  *string               `json:"deliveryTime"`
	Street           *string               `json:"street"`
	HouseNumber      *string               `json:"house_number"`
	HouseNumberAlt   *string               `json:"houseNumber"`
	Postcode         *string               `json:"postcode"`
	City             *string               `json:"city"`
	PaymentMethod    *string               `json:"payment_method"`
	PaymentMethodAlt *string               `json:"paymentMethod"`
	Remark           *string               `json:"opmerking"`
	RemarkAlt        *string               `json:"remark"`
	DiscountCode     *string               `json:"discount_code"`
	DiscountCodeAlt  *string               `json:"discountCode"`
	Totaal           *float64              `json:"totaal"`
	TotaalAlt        *float64              `json:"total"`
	Fooi             *float64              `json:"fooi"`
	FooiAlt          *float64              `json:"tip"`
	Items            map[string]order.Line `json:"items"`
}

type submissionCheck struct {
	CustomerName string `validate:"required"`
	Phone        string `validate:"required"`
	Email        string `validate:"omitempty,email"`
	OrderType    string `validate:"required"`
}

type statusUpdateRequest struct {
	IsCompleted *bool `json:"is_completed"`
	IsCancelled *bool `json:"is_cancelled"`
}

type OrderHandler struct {
	svc            order.Service
	dispatcher     *notify.Dispatcher
	paymentBaseURL string
	validate       *validator.Validate
}

func NewOrderHandler(svc order.Service, dispatcher *notify.Dispatcher, paymentBaseURL string) *OrderHandler {
	return &OrderHandler{
		svc:            svc,
		dispatcher:     dispatcher,
		paymentBaseURL: paymentBaseURL,
		validate:       validator.New(),
	}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Post("/order", h.handleSubmitOrder)
	router.Get("/orders/today", h.handleListToday)
	router.Get("/orders/{number}", h.handleGetOrder)
	router.Patch("/orders/{number}/status", h.handleUpdateStatus)
}

func (h *OrderHandler) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to decode order submission")
		respondWithFailure(w, http.StatusBadRequest, "invalid_request_body")
		return
	}

	sub := normalizeSubmission(&req)

	check := submissionCheck{
		CustomerName: sub.CustomerName,
		Phone:        sub.Phone,
		Email:        sub.Email,
		OrderType:    sub.OrderType,
	}
	if err := h.validate.Struct(check); err != nil {
		log.Warn().Err(err).Msg("Order submission failed validation")
		respondWithFailure(w, http.StatusBadRequest, "missing_required_fields")
		return
	}

	if typ, ok := order.ParseType(sub.OrderType); ok && typ == order.TypeDelivery {
		if sub.Address.Street == "" || sub.Address.HouseNumber == "" || sub.Address.Postcode == "" || sub.Address.City == "" {
			respondWithFailure(w, http.StatusBadRequest, "missing_address")
			return
		}
	}

	o, err := h.svc.PlaceOrder(r.Context(), sub)
	if err != nil {
		respondWithFailure(w, mapErrorToStatusCode(err), rejectionReason(err))
		return
	}

	// The order is committed; notification failures are the dispatcher's
	// problem, not the customer's.
	h.dispatcher.DispatchAsync(o)

	response := map[string]any{"status": "ok", "orderNumber": o.OrderNumber}
	if o.PaymentMethod == order.PaymentMethodOnline && h.paymentBaseURL != "" {
		response["paymentLink"] = fmt.Sprintf("%s?order=%s&amount=%s",
			h.paymentBaseURL, o.OrderNumber, url.QueryEscape(fmt.Sprintf("%.2f", o.Total)))
	}

	respondWithJSON(w, http.StatusCreated, response)
}

func normalizeSubmission(req *submitOrderRequest) *order.Submission {
	sub := &order.Submission{
		OrderType:     first(req.OrderType, req.OrderTypeAlt),
		CustomerName:  first(req.CustomerName, req.CustomerNameAlt),
		Phone:         first(req.Phone),
		Email:         first(req.Email),
		Remark:        first(req.Remark, req.RemarkAlt),
		PaymentMethod: first(req.PaymentMethod, req.PaymentMethodAlt),
		DiscountCode:  first(req.DiscountCode, req.DiscountCodeAlt),
		Items:         req.Items,
		Total:         firstFloat(req.Totaal, req.TotaalAlt),
		Address: order.Address{
			Street:      first(req.Street),
			HouseNumber: first(req.HouseNumber, req.HouseNumberAlt),
			Postcode:    first(req.Postcode),
			City:        first(req.City),
		},
	}

	if tip := firstFloat(req.Fooi, req.FooiAlt); tip != nil {
		sub.Tip = *tip
	}

	if typ, ok := order.ParseType(sub.OrderType); ok && typ == order.TypeDelivery {
		sub.RequestedTime = first(req.DeliveryTime, req.DeliveryTimeAlt)
	} else {
		sub.RequestedTime = first(req.PickupTime, req.PickupTimeAlt)
	}

	return sub
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	if number == "" {
		respondWithFailure(w, http.StatusBadRequest, "order_number_required")
		return
	}

	o, err := h.svc.GetByNumber(r.Context(), number)
	if err != nil {
		respondWithFailure(w, mapErrorToStatusCode(err), rejectionReason(err))
		return
	}

	respondWithJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) handleListToday(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListToday(r.Context())
	if err != nil {
		respondWithFailure(w, mapErrorToStatusCode(err), rejectionReason(err))
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	if number == "" {
		respondWithFailure(w, http.StatusBadRequest, "order_number_required")
		return
	}

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithFailure(w, http.StatusBadRequest, "invalid_request_body")
		return
	}

	o, err := h.svc.UpdateStatus(r.Context(), number, order.StatusPatch{
		IsCompleted: req.IsCompleted,
		IsCancelled: req.IsCancelled,
	})
	if err != nil {
		respondWithFailure(w, mapErrorToStatusCode(err), rejectionReason(err))
		return
	}

	respondWithJSON(w, http.StatusOK, o)
}
