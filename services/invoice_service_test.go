package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Viciouslight/YukiSoraShop-sub000/models"
	"github.com/Viciouslight/YukiSoraShop-sub000/repository"
	"github.com/Viciouslight/YukiSoraShop-sub000/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newInvoiceService(t *testing.T, uow *memUoW, suffix func() int) (services.InvoiceService, *recordingArchiver) {
	t.Helper()
	archiver := &recordingArchiver{}
	svc := services.NewInvoiceService(uow, services.NewInvoiceIssuer(clock, suffix), archiver, zaptest.NewLogger(t))
	return svc, archiver
}

func TestCreateInvoiceFromOrder_SnapshotsLines(t *testing.T) {
	uow := newMemUoW()
	seedOrder(uow, 7, models.OrderStatusPaid)
	svc, archiver := newInvoiceService(t, uow, sequentialSuffix())

	inv, err := svc.CreateInvoiceFromOrder(context.Background(), 7, "staff")
	require.NoError(t, err)

	assert.Equal(t, "INV-20230722-7-0001", inv.InvoiceNumber)
	assert.Equal(t, models.InvoiceStatusIssued, inv.Status)
	assert.True(t, inv.Subtotal.Equal(decimal.NewFromInt(100000)))
	require.Len(t, inv.Details, 2)
	assert.Equal(t, "Áo thun Yuki", inv.Details[0].ProductName)
	assert.Equal(t, 2, inv.Details[0].Quantity)
	assert.True(t, inv.Details[0].LineTotal.Equal(decimal.NewFromInt(60000)))
	assert.Equal(t, "Mũ Sora", inv.Details[1].ProductName)
	assert.Equal(t, "staff", inv.CreatedBy)
	assert.Equal(t, []string{"7/INV-20230722-7-0001.json"}, archiver.keys)

	// Later catalog edits don't reach the issued invoice.
	p := uow.state.products[501]
	p.ProductName = "Renamed"
	uow.state.products[501] = p
	again, err := svc.GetInvoiceByOrder(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Áo thun Yuki", again.Details[0].ProductName)
}

func TestCreateInvoiceFromOrder_IsIdempotent(t *testing.T) {
	uow := newMemUoW()
	seedOrder(uow, 7, models.OrderStatusPaid)
	svc, archiver := newInvoiceService(t, uow, sequentialSuffix())

	first, err := svc.CreateInvoiceFromOrder(context.Background(), 7, "staff")
	require.NoError(t, err)
	second, err := svc.CreateInvoiceFromOrder(context.Background(), 7, "staff")
	require.NoError(t, err)

	assert.Equal(t, first.InvoiceNumber, second.InvoiceNumber)
	assert.Equal(t, first.Details, second.Details)
	assert.Len(t, uow.invoicesFor(7), 1)
	assert.Len(t, archiver.keys, 1)
}

func TestCreateInvoiceFromOrder_MissingProductFallsBackToID(t *testing.T) {
	uow := newMemUoW()
	uow.seedOrder(models.Order{
		ID:     8,
		Status: models.OrderStatusPaid,
		Details: []models.OrderDetail{
			{ID: 1, OrderID: 8, ProductID: 777, Quantity: 3, UnitPrice: decimal.RequireFromString("12500.50")},
		},
	})
	svc, _ := newInvoiceService(t, uow, sequentialSuffix())

	inv, err := svc.CreateInvoiceFromOrder(context.Background(), 8, "")
	require.NoError(t, err)
	require.Len(t, inv.Details, 1)
	assert.Equal(t, "Product #777", inv.Details[0].ProductName)
	assert.Equal(t, "37501.5", inv.Subtotal.String())
}

func TestCreateInvoiceFromOrder_SkipsTakenNumbers(t *testing.T) {
	uow := newMemUoW()
	seedOrder(uow, 7, models.OrderStatusPaid)
	uow.takenNumbers["INV-20230722-7-0001"] = true
	uow.takenNumbers["INV-20230722-7-0002"] = true
	svc, _ := newInvoiceService(t, uow, sequentialSuffix())

	inv, err := svc.CreateInvoiceFromOrder(context.Background(), 7, "staff")
	require.NoError(t, err)
	assert.Equal(t, "INV-20230722-7-0003", inv.InvoiceNumber)
}

func TestCreateInvoiceFromOrder_NumberSpaceExhausted(t *testing.T) {
	uow := newMemUoW()
	seedOrder(uow, 7, models.OrderStatusPaid)
	uow.takenNumbers["INV-20230722-7-0042"] = true
	svc, _ := newInvoiceService(t, uow, func() int { return 42 })

	_, err := svc.CreateInvoiceFromOrder(context.Background(), 7, "staff")
	assert.ErrorIs(t, err, services.ErrInvoiceNumberExhausted)
	assert.Empty(t, uow.invoicesFor(7))
}

func TestCreateInvoiceFromOrder_RetriesUniqueViolation(t *testing.T) {
	uow := newMemUoW()
	seedOrder(uow, 7, models.OrderStatusPaid)
	uow.invoiceAddErr = []error{repository.ErrDuplicate}
	svc, _ := newInvoiceService(t, uow, sequentialSuffix())

	inv, err := svc.CreateInvoiceFromOrder(context.Background(), 7, "staff")
	require.NoError(t, err)
	assert.Equal(t, "INV-20230722-7-0002", inv.InvoiceNumber)
	assert.Equal(t, 2, uow.begins)
	assert.Len(t, uow.invoicesFor(7), 1)
}

func TestCreateInvoiceFromOrder_OrderNotFound(t *testing.T) {
	uow := newMemUoW()
	svc, _ := newInvoiceService(t, uow, nil)

	_, err := svc.CreateInvoiceFromOrder(context.Background(), 404, "staff")
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
}

func TestCreateInvoiceFromOrder_BeginFailure(t *testing.T) {
	uow := newMemUoW()
	uow.beginErr = errors.New("too many connections")
	svc, _ := newInvoiceService(t, uow, nil)

	_, err := svc.CreateInvoiceFromOrder(context.Background(), 7, "staff")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many connections")
}

func TestGetInvoiceByOrder_NotFound(t *testing.T) {
	svc, _ := newInvoiceService(t, newMemUoW(), nil)

	_, err := svc.GetInvoiceByOrder(context.Background(), 7)
	assert.ErrorIs(t, err, services.ErrInvoiceNotFound)
}

func TestInvoiceIssuer_RandomSuffixIsFourDigits(t *testing.T) {
	uow := newMemUoW()
	seedOrder(uow, 7, models.OrderStatusPaid)

	inv, created, err := services.NewInvoiceIssuer(clock, nil).Issue(context.Background(), uow, 7, "staff")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Regexp(t, `^INV-20230722-7-\d{4}$`, inv.InvoiceNumber)
}
