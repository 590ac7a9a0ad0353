package services_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Viciouslight/YukiSoraShop-sub000/models"
	"github.com/Viciouslight/YukiSoraShop-sub000/repository"
)

// memState is an in-memory ledger. Transactions work on a clone and swap it in
// on commit.
type memState struct {
	nextID   uint
	orders   map[uint]models.Order
	products map[uint]models.Product
	payments map[uint]models.Payment
	methods  map[uint]models.PaymentMethod
	invoices map[uint]models.Invoice
}

func newMemState() *memState {
	return &memState{
		nextID:   100,
		orders:   map[uint]models.Order{},
		products: map[uint]models.Product{},
		payments: map[uint]models.Payment{},
		methods:  map[uint]models.PaymentMethod{},
		invoices: map[uint]models.Invoice{},
	}
}

func (m *memState) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memState) clone() *memState {
	c := newMemState()
	c.nextID = m.nextID
	for k, v := range m.orders {
		v.Details = append([]models.OrderDetail(nil), v.Details...)
		c.orders[k] = v
	}
	for k, v := range m.products {
		c.products[k] = v
	}
	for k, v := range m.payments {
		c.payments[k] = v
	}
	for k, v := range m.methods {
		c.methods[k] = v
	}
	for k, v := range m.invoices {
		v.Details = append([]models.InvoiceDetail(nil), v.Details...)
		c.invoices[k] = v
	}
	return c
}

type memUoW struct {
	mu    sync.Mutex
	state *memState

	beginErr      error
	commitErr     error
	invoiceAddErr []error
	takenNumbers  map[string]bool

	begins  int
	commits int
}

func newMemUoW() *memUoW {
	return &memUoW{state: newMemState(), takenNumbers: map[string]bool{}}
}

func (u *memUoW) root() *memStore { return &memStore{state: u.state, uow: u} }

func (u *memUoW) Orders() repository.OrderRepository                 { return u.root().Orders() }
func (u *memUoW) Payments() repository.PaymentRepository             { return u.root().Payments() }
func (u *memUoW) PaymentMethods() repository.PaymentMethodRepository { return u.root().PaymentMethods() }
func (u *memUoW) Invoices() repository.InvoiceRepository             { return u.root().Invoices() }

func (u *memUoW) Begin(_ context.Context) (repository.Tx, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.beginErr != nil {
		return nil, u.beginErr
	}
	u.begins++
	return &memTx{memStore: memStore{state: u.state.clone(), uow: u}}, nil
}

// seedOrder stores an order and the products its lines reference.
func (u *memUoW) seedOrder(o models.Order, products ...models.Product) {
	for _, p := range products {
		u.state.products[p.ID] = p
	}
	u.state.orders[o.ID] = o
}

func (u *memUoW) order(id uint) models.Order { return u.state.orders[id] }

func (u *memUoW) paymentsFor(orderID uint) []models.Payment {
	var out []models.Payment
	for _, p := range u.state.payments {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (u *memUoW) invoicesFor(orderID uint) []models.Invoice {
	var out []models.Invoice
	for _, inv := range u.state.invoices {
		if inv.OrderID == orderID {
			out = append(out, inv)
		}
	}
	return out
}

func (u *memUoW) method(name string) (models.PaymentMethod, bool) {
	for _, m := range u.state.methods {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return models.PaymentMethod{}, false
}

var errTxClosed = errors.New("transaction already closed")

type memTx struct {
	memStore
	done bool
}

func (t *memTx) Commit() error {
	t.uow.mu.Lock()
	defer t.uow.mu.Unlock()
	if t.done {
		return errTxClosed
	}
	t.done = true
	if t.uow.commitErr != nil {
		return t.uow.commitErr
	}
	t.uow.state = t.state
	t.uow.commits++
	return nil
}

func (t *memTx) Rollback() error {
	t.done = true
	return nil
}

type memStore struct {
	state *memState
	uow   *memUoW
}

func (s *memStore) Orders() repository.OrderRepository                 { return memOrders{s} }
func (s *memStore) Payments() repository.PaymentRepository             { return memPayments{s} }
func (s *memStore) PaymentMethods() repository.PaymentMethodRepository { return memMethods{s} }
func (s *memStore) Invoices() repository.InvoiceRepository             { return memInvoices{s} }

type memOrders struct{ s *memStore }

func (r memOrders) GetByID(_ context.Context, id uint) (*models.Order, error) {
	o, ok := r.s.state.orders[id]
	if !ok || o.IsDeleted {
		return nil, repository.ErrNotFound
	}
	o.Details = nil
	return &o, nil
}

func (r memOrders) GetWithDetails(_ context.Context, id uint) (*models.Order, error) {
	o, ok := r.s.state.orders[id]
	if !ok || o.IsDeleted {
		return nil, repository.ErrNotFound
	}
	details := make([]models.OrderDetail, 0, len(o.Details))
	for _, d := range o.Details {
		if p, ok := r.s.state.products[d.ProductID]; ok {
			p := p
			d.Product = &p
		}
		details = append(details, d)
	}
	o.Details = details
	return &o, nil
}

func (r memOrders) Update(_ context.Context, order *models.Order) error {
	existing, ok := r.s.state.orders[order.ID]
	if !ok {
		return repository.ErrNotFound
	}
	o := *order
	o.Details = existing.Details
	r.s.state.orders[o.ID] = o
	return nil
}

type memPayments struct{ s *memStore }

func (r memPayments) Add(_ context.Context, p *models.Payment) error {
	p.ID = r.s.state.id()
	r.s.state.payments[p.ID] = *p
	return nil
}

func (r memPayments) Update(_ context.Context, p *models.Payment) error {
	if _, ok := r.s.state.payments[p.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.state.payments[p.ID] = *p
	return nil
}

func (r memPayments) FindByTransactionRef(_ context.Context, ref string) (*models.Payment, error) {
	var found *models.Payment
	for _, p := range r.s.state.payments {
		if p.TransactionRef != nil && *p.TransactionRef == ref && !p.IsDeleted {
			if found == nil || p.ID > found.ID {
				p := p
				found = &p
			}
		}
	}
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r memPayments) FindLatest(_ context.Context, orderID, methodID uint, statuses ...models.PaymentStatus) (*models.Payment, error) {
	var found *models.Payment
	for _, p := range r.s.state.payments {
		if p.OrderID != orderID || p.PaymentMethodID != methodID || p.IsDeleted {
			continue
		}
		if len(statuses) > 0 && !containsStatus(statuses, p.Status) {
			continue
		}
		if found == nil || p.ID > found.ID {
			p := p
			found = &p
		}
	}
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r memPayments) ListByOrder(_ context.Context, orderID uint) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range r.s.state.payments {
		if p.OrderID == orderID && !p.IsDeleted {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func containsStatus(statuses []models.PaymentStatus, s models.PaymentStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

type memMethods struct{ s *memStore }

func (r memMethods) GetByID(_ context.Context, id uint) (*models.PaymentMethod, error) {
	m, ok := r.s.state.methods[id]
	if !ok || m.IsDeleted {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r memMethods) FindByName(_ context.Context, name string) (*models.PaymentMethod, error) {
	for _, m := range r.s.state.methods {
		if strings.EqualFold(m.Name, strings.TrimSpace(name)) {
			m := m
			return &m, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memMethods) Add(_ context.Context, m *models.PaymentMethod) error {
	for _, existing := range r.s.state.methods {
		if strings.EqualFold(existing.Name, m.Name) {
			return repository.ErrDuplicate
		}
	}
	m.ID = r.s.state.id()
	r.s.state.methods[m.ID] = *m
	return nil
}

func (r memMethods) ListActive(_ context.Context) ([]models.PaymentMethod, error) {
	var out []models.PaymentMethod
	for _, m := range r.s.state.methods {
		if m.IsActive && !m.IsDeleted {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memMethods) SoftDelete(_ context.Context, id uint, actor string, now time.Time) error {
	m, ok := r.s.state.methods[id]
	if !ok || m.IsDeleted {
		return repository.ErrNotFound
	}
	m.IsActive = false
	m.MarkDeleted(actor, now)
	r.s.state.methods[id] = m
	return nil
}

type memInvoices struct{ s *memStore }

func (r memInvoices) FindIssuedByOrder(_ context.Context, orderID uint) (*models.Invoice, error) {
	for _, inv := range r.s.state.invoices {
		if inv.OrderID == orderID && inv.Status == models.InvoiceStatusIssued && !inv.IsDeleted {
			inv := inv
			inv.Details = append([]models.InvoiceDetail(nil), inv.Details...)
			return &inv, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memInvoices) ExistsByNumber(_ context.Context, number string) (bool, error) {
	if r.s.uow.takenNumbers[number] {
		return true, nil
	}
	for _, inv := range r.s.state.invoices {
		if inv.InvoiceNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r memInvoices) Add(_ context.Context, inv *models.Invoice) error {
	if errs := r.s.uow.invoiceAddErr; len(errs) > 0 {
		r.s.uow.invoiceAddErr = errs[1:]
		if errs[0] != nil {
			return errs[0]
		}
	}
	for _, existing := range r.s.state.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return repository.ErrDuplicate
		}
	}
	inv.ID = r.s.state.id()
	for i := range inv.Details {
		inv.Details[i].ID = r.s.state.id()
		inv.Details[i].InvoiceID = inv.ID
	}
	stored := *inv
	stored.Details = append([]models.InvoiceDetail(nil), inv.Details...)
	r.s.state.invoices[inv.ID] = stored
	return nil
}
