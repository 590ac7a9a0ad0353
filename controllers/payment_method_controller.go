package controllers

import (
	"errors"
	"net/http"

	apperrors "github.com/Viciouslight/YukiSoraShop-sub000/common/errors"
	"github.com/Viciouslight/YukiSoraShop-sub000/middleware"
	"github.com/Viciouslight/YukiSoraShop-sub000/services"
	"github.com/gin-gonic/gin"
)

type PaymentMethodController struct {
	methods services.PaymentMethodService
}

func NewPaymentMethodController(methods services.PaymentMethodService) *PaymentMethodController {
	return &PaymentMethodController{methods: methods}
}

func (mc *PaymentMethodController) ListActive(c *gin.Context) {
	methods, err := mc.methods.ListActive(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_methods": methods})
}

func (mc *PaymentMethodController) Deactivate(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	err := mc.methods.Deactivate(c.Request.Context(), id, middleware.Actor(c))
	if errors.Is(err, services.ErrPaymentMethodNotFound) {
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrPaymentMethodMissing, err))
		return
	}
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
