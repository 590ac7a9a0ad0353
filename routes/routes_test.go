package routes_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Viciouslight/YukiSoraShop-sub000/controllers"
	"github.com/Viciouslight/YukiSoraShop-sub000/models"
	"github.com/Viciouslight/YukiSoraShop-sub000/providers"
	"github.com/Viciouslight/YukiSoraShop-sub000/routes"
	"github.com/Viciouslight/YukiSoraShop-sub000/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type stubPayments struct {
	calls []string
}

func (s *stubPayments) CreateCheckout(_ context.Context, orderID uint, _ services.ClientContext) (*models.CheckoutResponse, error) {
	s.calls = append(s.calls, "checkout")
	return &models.CheckoutResponse{TxnRef: fmt.Sprintf("%d_1", orderID)}, nil
}

func (s *stubPayments) HandleCallback(_ context.Context, _ url.Values) providers.CallbackResult {
	s.calls = append(s.calls, "return")
	return providers.CallbackResult{SignatureValid: true}
}

func (s *stubPayments) HandleIPN(_ context.Context, _ url.Values) services.IPNAck {
	s.calls = append(s.calls, "ipn")
	return services.IPNAck{RspCode: "00", Message: "Confirm Success"}
}

func (s *stubPayments) CreateCashPayment(_ context.Context, orderID uint, _ string) *models.PaymentResult {
	s.calls = append(s.calls, "cash")
	return &models.PaymentResult{Success: true, OrderID: orderID}
}

func (s *stubPayments) ConfirmCashPayment(_ context.Context, orderID uint, _ string) *models.PaymentResult {
	s.calls = append(s.calls, "confirm")
	return &models.PaymentResult{Success: true, OrderID: orderID}
}

type stubMethods struct{}

func (stubMethods) ListActive(context.Context) ([]models.PaymentMethod, error) { return nil, nil }
func (stubMethods) Deactivate(context.Context, uint, string) error            { return nil }

func setupRouter(t *testing.T) (*gin.Engine, *stubPayments) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	payments := &stubPayments{}
	routes.RegisterPaymentRoutes(r, controllers.NewPaymentController(payments, zaptest.NewLogger(t)))
	routes.RegisterPaymentMethodRoutes(r, controllers.NewPaymentMethodController(stubMethods{}))
	return r, payments
}

func do(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCallbackRoutesArePublic(t *testing.T) {
	r, payments := setupRouter(t)

	w := do(r, http.MethodGet, "/payments/vnpay/ipn?vnp_TxnRef=1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"RspCode":"00","Message":"Confirm Success"}`, w.Body.String())

	w = do(r, http.MethodGet, "/payments/vnpay/return?vnp_TxnRef=1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"ipn", "return"}, payments.calls)
}

func TestCheckoutRequiresIdentity(t *testing.T) {
	r, payments := setupRouter(t)

	w := do(r, http.MethodPost, "/payments/checkout/7", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/payments/cash/7", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.Empty(t, payments.calls)
}

func TestCashConfirmRequiresStaff(t *testing.T) {
	r, payments := setupRouter(t)

	w := do(r, http.MethodPost, "/payments/cash/7/confirm", map[string]string{
		"X-User-ID":   "42",
		"X-User-Role": "customer",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, payments.calls)

	w = do(r, http.MethodPost, "/payments/cash/7/confirm", map[string]string{
		"X-User-ID":   "9",
		"X-User-Role": "staff",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"confirm"}, payments.calls)
}

func TestDeactivateMethodRequiresAdmin(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodDelete, "/payment-methods/3", map[string]string{
		"X-User-ID":   "9",
		"X-User-Role": "staff",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodDelete, "/payment-methods/3", map[string]string{
		"X-User-ID":   "1",
		"X-User-Role": "admin",
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
}
