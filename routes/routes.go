package routes

import (
	"github.com/Viciouslight/YukiSoraShop-sub000/controllers"
	"github.com/Viciouslight/YukiSoraShop-sub000/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterPaymentRoutes(r *gin.Engine, pc *controllers.PaymentController) {
	payments := r.Group("/payments")

	// VNPay callbacks carry no identity; the signature authenticates them.
	payments.GET("/vnpay/return", pc.VNPayReturn)
	payments.GET("/vnpay/ipn", pc.VNPayIPN)

	authed := payments.Group("")
	authed.Use(middleware.AuthMiddleware())
	authed.POST("/checkout/:orderId", pc.CreateCheckout)
	authed.POST("/cash/:orderId", pc.CreateCashPayment)
	authed.POST("/cash/:orderId/confirm", middleware.StaffOnly(), pc.ConfirmCashPayment)
}

func RegisterInvoiceRoutes(r *gin.Engine, ic *controllers.InvoiceController) {
	invoices := r.Group("/invoices")
	invoices.Use(middleware.AuthMiddleware())
	invoices.GET("/orders/:orderId", ic.GetByOrder)
	invoices.POST("/orders/:orderId", middleware.StaffOnly(), ic.Issue)
}

func RegisterPaymentMethodRoutes(r *gin.Engine, mc *controllers.PaymentMethodController) {
	methods := r.Group("/payment-methods")
	methods.Use(middleware.AuthMiddleware())
	methods.GET("", mc.ListActive)
	methods.DELETE("/:id", middleware.AdminOnly(), mc.Deactivate)
}
