package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novaasia/ordering-service/internal/handler"
	"github.com/novaasia/ordering-service/internal/notify"
	"github.com/novaasia/ordering-service/internal/order"
)

type mockOrderService struct {
	placeOrderFunc   func(ctx context.Context, sub *order.Submission) (*order.Order, error)
	getByNumberFunc  func(ctx context.Context, number string) (*order.Order, error)
	listTodayFunc    func(ctx context.Context) ([]order.Order, error)
	updateStatusFunc func(ctx context.Context, number string, patch order.StatusPatch) (*order.Order, error)
}

func (m *mockOrderService) PlaceOrder(ctx context.Context, sub *order.Submission) (*order.Order, error) {
	return m.placeOrderFunc(ctx, sub)
}

func (m *mockOrderService) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	return m.getByNumberFunc(ctx, number)
}

func (m *mockOrderService) ListToday(ctx context.Context) ([]order.Order, error) {
	return m.listTodayFunc(ctx)
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, number string, patch order.StatusPatch) (*order.Order, error) {
	return m.updateStatusFunc(ctx, number, patch)
}

func newOrderRouter(svc order.Service, paymentBaseURL string) *chi.Mux {
	h := handler.NewOrderHandler(svc, notify.NewDispatcher("Test"), paymentBaseURL)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func acceptedOrder(sub *order.Submission) *order.Order {
	typ, _ := order.ParseType(sub.OrderType)
	return &order.Order{
		OrderNumber:   "AB12CD34",
		Type:          typ,
		CustomerName:  sub.CustomerName,
		Phone:         sub.Phone,
		PaymentMethod: sub.PaymentMethod,
		Items:         sub.Items,
		Total:         12.50,
	}
}

func TestOrderHandler_SubmitOrder(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		placeOrder     func(ctx context.Context, sub *order.Submission) (*order.Order, error)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "success_snake_case",
			body: `{
				"customer_name": "Jan",
				"phone": "0612345678",
				"order_type": "pickup",
				"pickup_time": "18:00",
				"payment_method": "cash",
				"items": {"Loempia": {"price": 3.50, "qty": 2}}
			}`,
			placeOrder: func(ctx context.Context, sub *order.Submission) (*order.Order, error) {
				return acceptedOrder(sub), nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid_json",
			body:           `{not json}`,
			placeOrder:     nil,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid_request_body",
		},
		{
			name: "missing_customer_name",
			body: `{
				"phone": "0612345678",
				"order_type": "pickup",
				"items": {"Loempia": {"price": 3.50, "qty": 2}}
			}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "missing_required_fields",
		},
		{
			name: "delivery_without_address",
			body: `{
				"customer_name": "Jan",
				"phone": "0612345678",
				"order_type": "bezorgen",
				"items": {"Loempia": {"price": 3.50, "qty": 2}}
			}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "missing_address",
		},
		{
			name: "rejected_closed_today",
			body: `{
				"customer_name": "Jan",
				"phone": "0612345678",
				"order_type": "pickup",
				"items": {"Loempia": {"price": 3.50, "qty": 2}}
			}`,
			placeOrder: func(ctx context.Context, sub *order.Submission) (*order.Order, error) {
				return nil, order.ErrClosedToday
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "closed_today",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockOrderService{placeOrderFunc: tt.placeOrder}
			router := newOrderRouter(svc, "")

			req := httptest.NewRequest(http.MethodPost, "/order", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.expectedError != "" {
				assert.Equal(t, "fail", body["status"])
				assert.Equal(t, tt.expectedError, body["error"])
			} else {
				assert.Equal(t, "ok", body["status"])
				assert.Equal(t, "AB12CD34", body["orderNumber"])
			}
		})
	}
}

func TestOrderHandler_SubmitOrder_NormalizesSynonyms(t *testing.T) {
	var got *order.Submission
	svc := &mockOrderService{
		placeOrderFunc: func(ctx context.Context, sub *order.Submission) (*order.Order, error) {
			got = sub
			return acceptedOrder(sub), nil
		},
	}
	router := newOrderRouter(svc, "")

	body := `{
		"customerName": "Sanne Bakker",
		"phone": "0687654321",
		"email": "sanne@example.com",
		"orderType": "bezorgen",
		"deliveryTime": "19:00",
		"street": "Hoofdstraat",
		"houseNumber": "12a",
		"postcode": "1234AB",
		"city": "Amsterdam",
		"paymentMethod": "online",
		"discountCode": "WELKOM5",
		"total": 25.00,
		"tip": 1.50,
		"items": {"Nasi Speciaal": {"price": 9.25, "qty": 2}}
	}`

	req := httptest.NewRequest(http.MethodPost, "/order", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, "bezorgen", got.OrderType)
	assert.Equal(t, "Sanne Bakker", got.CustomerName)
	assert.Equal(t, "19:00", got.RequestedTime)
	assert.Equal(t, "12a", got.Address.HouseNumber)
	assert.Equal(t, "online", got.PaymentMethod)
	assert.Equal(t, "WELKOM5", got.DiscountCode)
	require.NotNil(t, got.Total)
	assert.Equal(t, 25.00, *got.Total)
	assert.Equal(t, 1.50, got.Tip)
}

func TestOrderHandler_SubmitOrder_SnakeCaseWinsWhenBothPresent(t *testing.T) {
	var got *order.Submission
	svc := &mockOrderService{
		placeOrderFunc: func(ctx context.Context, sub *order.Submission) (*order.Order, error) {
			got = sub
			return acceptedOrder(sub), nil
		},
	}
	router := newOrderRouter(svc, "")

	body := `{
		"customer_name": "Jan",
		"phone": "0612345678",
		"order_type": "pickup",
		"pickup_time": "18:00",
		"pickupTime": "20:00",
		"items": {"Loempia": {"price": 3.50, "qty": 2}}
	}`

	req := httptest.NewRequest(http.MethodPost, "/order", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "18:00", got.RequestedTime)
}

func TestOrderHandler_SubmitOrder_PaymentLink(t *testing.T) {
	svc := &mockOrderService{
		placeOrderFunc: func(ctx context.Context, sub *order.Submission) (*order.Order, error) {
			o := acceptedOrder(sub)
			o.Total = 18.50
			return o, nil
		},
	}

	tests := []struct {
		name          string
		paymentMethod string
		baseURL       string
		wantLink      bool
	}{
		{name: "online_payment_gets_link", paymentMethod: "online", baseURL: "https://pay.example.com/checkout", wantLink: true},
		{name: "cash_payment_gets_no_link", paymentMethod: "cash", baseURL: "https://pay.example.com/checkout", wantLink: false},
		{name: "no_base_url_no_link", paymentMethod: "online", baseURL: "", wantLink: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newOrderRouter(svc, tt.baseURL)

			body := `{
				"customer_name": "Jan",
				"phone": "0612345678",
				"order_type": "pickup",
				"payment_method": "` + tt.paymentMethod + `",
				"items": {"Loempia": {"price": 3.50, "qty": 2}}
			}`

			req := httptest.NewRequest(http.MethodPost, "/order", strings.NewReader(body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusCreated, w.Code)

			var response map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			if tt.wantLink {
				assert.Equal(t, "https://pay.example.com/checkout?order=AB12CD34&amount=18.50", response["paymentLink"])
			} else {
				assert.NotContains(t, response, "paymentLink")
			}
		})
	}
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		updateStatus   func(ctx context.Context, number string, patch order.StatusPatch) (*order.Order, error)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "complete_order",
			body: `{"is_completed": true}`,
			updateStatus: func(ctx context.Context, number string, patch order.StatusPatch) (*order.Order, error) {
				require.NotNil(t, patch.IsCompleted)
				assert.True(t, *patch.IsCompleted)
				assert.Nil(t, patch.IsCancelled)
				return &order.Order{OrderNumber: number, IsCompleted: true}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "complete_cancelled_order",
			body: `{"is_completed": true}`,
			updateStatus: func(ctx context.Context, number string, patch order.StatusPatch) (*order.Order, error) {
				return nil, order.ErrOrderCancelled
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "order_cancelled",
		},
		{
			name: "unknown_order",
			body: `{"is_cancelled": true}`,
			updateStatus: func(ctx context.Context, number string, patch order.StatusPatch) (*order.Order, error) {
				return nil, order.ErrOrderNotFound
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "order_not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockOrderService{updateStatusFunc: tt.updateStatus}
			router := newOrderRouter(svc, "")

			req := httptest.NewRequest(http.MethodPatch, "/orders/AB12CD34/status", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				var body map[string]any
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedError, body["error"])
			}
		})
	}
}

func TestOrderHandler_GetOrder(t *testing.T) {
	svc := &mockOrderService{
		getByNumberFunc: func(ctx context.Context, number string) (*order.Order, error) {
			if number == "AB12CD34" {
				return &order.Order{OrderNumber: number, CustomerName: "Jan"}, nil
			}
			return nil, order.ErrOrderNotFound
		},
	}
	router := newOrderRouter(svc, "")

	req := httptest.NewRequest(http.MethodGet, "/orders/AB12CD34", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/orders/ZZZZ9999", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
