package controllers

import (
	"errors"
	"net/http"

	apperrors "github.com/Viciouslight/YukiSoraShop-sub000/common/errors"
	"github.com/Viciouslight/YukiSoraShop-sub000/common/logger"
	"github.com/Viciouslight/YukiSoraShop-sub000/middleware"
	"github.com/Viciouslight/YukiSoraShop-sub000/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InvoiceController struct {
	invoices services.InvoiceService
	logger   *zap.Logger
}

func NewInvoiceController(invoices services.InvoiceService, logger *zap.Logger) *InvoiceController {
	return &InvoiceController{invoices: invoices, logger: logger}
}

func (ic *InvoiceController) GetByOrder(c *gin.Context) {
	orderID, ok := idParam(c, "orderId")
	if !ok {
		return
	}
	inv, err := ic.invoices.GetInvoiceByOrder(c.Request.Context(), orderID)
	if err != nil {
		ic.respondError(c, orderID, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// Issue creates the order's invoice, or returns the one already issued.
func (ic *InvoiceController) Issue(c *gin.Context) {
	orderID, ok := idParam(c, "orderId")
	if !ok {
		return
	}
	inv, err := ic.invoices.CreateInvoiceFromOrder(c.Request.Context(), orderID, middleware.Actor(c))
	if err != nil {
		ic.respondError(c, orderID, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (ic *InvoiceController) respondError(c *gin.Context, orderID uint, err error) {
	switch {
	case errors.Is(err, services.ErrInvoiceNotFound):
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInvoiceNotFound, err))
	case errors.Is(err, services.ErrOrderNotFound):
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrOrderNotFound, err))
	default:
		logger.For(c.Request.Context(), ic.logger).Error("Invoice request failed", zap.Uint("order_id", orderID), zap.Error(err))
		apperrors.Respond(c, err)
	}
}
