package controllers

import (
	"errors"
	"io"
	"net/http"

	apperrors "github.com/Viciouslight/YukiSoraShop-sub000/common/errors"
	"github.com/Viciouslight/YukiSoraShop-sub000/common/logger"
	"github.com/Viciouslight/YukiSoraShop-sub000/middleware"
	"github.com/Viciouslight/YukiSoraShop-sub000/models"
	"github.com/Viciouslight/YukiSoraShop-sub000/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PaymentController struct {
	payments services.PaymentService
	logger   *zap.Logger
}

func NewPaymentController(payments services.PaymentService, logger *zap.Logger) *PaymentController {
	return &PaymentController{payments: payments, logger: logger}
}

// CreateCheckout starts a VNPay checkout for the order. The body is optional.
func (pc *PaymentController) CreateCheckout(c *gin.Context) {
	orderID, ok := idParam(c, "orderId")
	if !ok {
		return
	}

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	resp, err := pc.payments.CreateCheckout(c.Request.Context(), orderID, services.ClientContext{
		IP:          c.ClientIP(),
		BankCode:    req.BankCode,
		Description: req.Description,
		OrderType:   req.OrderType,
		Locale:      req.Locale,
		Actor:       middleware.Actor(c),
	})
	if err != nil {
		pc.respondCheckoutError(c, orderID, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (pc *PaymentController) respondCheckoutError(c *gin.Context, orderID uint, err error) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrOrderNotFound, err))
	case errors.Is(err, services.ErrOrderAlreadyPaid):
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrOrderAlreadyPaid, err))
	case errors.Is(err, services.ErrOrderNotPayable):
		apperrors.Respond(c, apperrors.New(http.StatusConflict, "Order cannot be paid", err))
	case errors.Is(err, services.ErrPaymentMethodUnavailable):
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrMethodUnavailable, err))
	case errors.Is(err, services.ErrInvalidAmount):
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInvalidAmount, err))
	case errors.Is(err, services.ErrGateway):
		logger.For(c.Request.Context(), pc.logger).Warn("Gateway rejected checkout", zap.Uint("order_id", orderID), zap.Error(err))
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrGatewayUnavailable, err))
	default:
		logger.For(c.Request.Context(), pc.logger).Error("Checkout failed", zap.Uint("order_id", orderID), zap.Error(err))
		apperrors.Respond(c, err)
	}
}

// VNPayReturn handles the customer's browser coming back from VNPay.
func (pc *PaymentController) VNPayReturn(c *gin.Context) {
	res := pc.payments.HandleCallback(c.Request.Context(), c.Request.URL.Query())
	status := http.StatusOK
	if !res.SignatureValid {
		status = http.StatusBadRequest
	}
	c.JSON(status, res)
}

// VNPayIPN handles VNPay's server-to-server notification. VNPay reads the
// acknowledgement from the body, so the status is always 200.
func (pc *PaymentController) VNPayIPN(c *gin.Context) {
	c.JSON(http.StatusOK, pc.payments.HandleIPN(c.Request.Context(), c.Request.URL.Query()))
}

func (pc *PaymentController) CreateCashPayment(c *gin.Context) {
	orderID, ok := idParam(c, "orderId")
	if !ok {
		return
	}
	res := pc.payments.CreateCashPayment(c.Request.Context(), orderID, middleware.Actor(c))
	c.JSON(resultStatus(res), res)
}

func (pc *PaymentController) ConfirmCashPayment(c *gin.Context) {
	orderID, ok := idParam(c, "orderId")
	if !ok {
		return
	}
	res := pc.payments.ConfirmCashPayment(c.Request.Context(), orderID, middleware.Actor(c))
	c.JSON(resultStatus(res), res)
}
