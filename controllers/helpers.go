package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	apperrors "github.com/Viciouslight/YukiSoraShop-sub000/common/errors"
	"github.com/Viciouslight/YukiSoraShop-sub000/models"
	"github.com/gin-gonic/gin"
)

// idParam parses a positive numeric path parameter, answering 400 otherwise.
func idParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, fmt.Sprintf("Invalid %s", name), err))
		return 0, false
	}
	return uint(id), true
}

// resultStatus maps a PaymentResult failure reason to an HTTP status.
func resultStatus(res *models.PaymentResult) int {
	if res.Success {
		return http.StatusOK
	}
	switch res.Reason {
	case models.ReasonOrderNotFound:
		return http.StatusNotFound
	case models.ReasonInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
