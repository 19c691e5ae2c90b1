package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"prodeskBack/internal/models"
)

// fakeInvoiceStore mimics the relational store, including the single
// monotonic number sequence guarded by the finalize transaction.
type fakeInvoiceStore struct {
	mu         sync.Mutex
	invoices   map[int]*models.Invoice
	nextID     int
	nextItemID int
	lastNum    int64
}

func newFakeInvoiceStore() *fakeInvoiceStore {
	return &fakeInvoiceStore{invoices: make(map[int]*models.Invoice)}
}

func (f *fakeInvoiceStore) CreateInvoice(ctx context.Context, inv models.Invoice) (models.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	inv.ID = f.nextID
	for i := range inv.Items {
		f.nextItemID++
		inv.Items[i].ID = f.nextItemID
		inv.Items[i].InvoiceID = inv.ID
	}
	cp := inv
	f.invoices[inv.ID] = &cp
	return inv, nil
}

func (f *fakeInvoiceStore) GetInvoiceByID(ctx context.Context, id int) (models.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id]
	if !ok {
		return models.Invoice{}, models.ErrInvoiceNotFound
	}
	return *inv, nil
}

func (f *fakeInvoiceStore) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Invoice, 0, len(f.invoices))
	for _, inv := range f.invoices {
		out = append(out, *inv)
	}
	return out, nil
}

func (f *fakeInvoiceStore) ListInvoicesByClient(ctx context.Context, clientID int) ([]models.Invoice, error) {
	all, _ := f.ListInvoices(ctx)
	out := all[:0]
	for _, inv := range all {
		if inv.ClientID == clientID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInvoiceStore) AddItem(ctx context.Context, item models.InvoiceItem) (models.InvoiceItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[item.InvoiceID]
	if !ok {
		return models.InvoiceItem{}, models.ErrInvoiceNotFound
	}
	if inv.Status != models.InvoiceStatusDraft {
		return models.InvoiceItem{}, models.ErrInvoiceNotDraft
	}
	f.nextItemID++
	item.ID = f.nextItemID
	inv.Items = append(inv.Items, item)
	f.recompute(inv)
	return item, nil
}

func (f *fakeInvoiceStore) UpdateItem(ctx context.Context, item models.InvoiceItem) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invoices {
		for i := range inv.Items {
			if inv.Items[i].ID == item.ID {
				if inv.Status != models.InvoiceStatusDraft {
					return 0, models.ErrInvoiceNotDraft
				}
				item.InvoiceID = inv.ID
				inv.Items[i] = item
				f.recompute(inv)
				return inv.ID, nil
			}
		}
	}
	return 0, models.ErrItemNotFound
}

func (f *fakeInvoiceStore) DeleteItem(ctx context.Context, itemID int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invoices {
		for i := range inv.Items {
			if inv.Items[i].ID == itemID {
				if inv.Status != models.InvoiceStatusDraft {
					return 0, models.ErrInvoiceNotDraft
				}
				inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
				f.recompute(inv)
				return inv.ID, nil
			}
		}
	}
	return 0, models.ErrItemNotFound
}

func (f *fakeInvoiceStore) Finalize(ctx context.Context, invoiceID int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[invoiceID]
	if !ok {
		return 0, models.ErrInvoiceNotFound
	}
	switch inv.Status {
	case models.InvoiceStatusDraft:
	case models.InvoiceStatusPaid:
		return 0, models.ErrInvoiceAlreadyPaid
	default:
		return 0, models.ErrInvoiceNotDraft
	}
	f.lastNum++
	n := f.lastNum
	inv.InvoiceNumber = &n
	inv.Status = models.InvoiceStatusPaid
	return n, nil
}

func (f *fakeInvoiceStore) recompute(inv *models.Invoice) {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, it := range inv.Items {
		subtotal = subtotal.Add(it.Amount)
		tax = tax.Add(it.TaxAmount)
	}
	inv.Subtotal = subtotal
	inv.TaxAmount = tax
	inv.TotalAmount = subtotal.Add(tax)
}

// fakeInvoiceCache records invalidations so tests can assert which cached
// view a mutation evicted.
type fakeInvoiceCache struct {
	mu          sync.Mutex
	invalidated []int
}

func (c *fakeInvoiceCache) Get(ctx context.Context, id int) (models.Invoice, bool) {
	return models.Invoice{}, false
}

func (c *fakeInvoiceCache) Set(ctx context.Context, inv models.Invoice) {}

func (c *fakeInvoiceCache) Invalidate(ctx context.Context, id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, id)
}

func (c *fakeInvoiceCache) invalidatedIDs() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.invalidated...)
}

type fakeClientStore struct{}

func (fakeClientStore) GetClientByID(ctx context.Context, id int) (models.Client, error) {
	if id == 0 {
		return models.Client{}, models.ErrClientNotFound
	}
	return models.Client{ID: id, Name: "Acme", Email: "billing@acme.test"}, nil
}

type fakeGateway struct {
	lastReq PaymentLinkRequest
}

func (g *fakeGateway) CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (PaymentLinkResult, error) {
	g.lastReq = req
	return PaymentLinkResult{PaymentLink: "https://rzp.io/test", GatewayID: "plink_test", Status: "created"}, nil
}

func newTestInvoiceService(store *fakeInvoiceStore) *InvoiceService {
	return &InvoiceService{
		InvoiceRepo: store,
		ClientRepo:  fakeClientStore{},
	}
}

func draftRequest() models.CreateInvoiceRequest {
	return models.CreateInvoiceRequest{
		ClientID: 1,
		Currency: "usd",
		Items: []models.InvoiceItem{
			{
				Description: "Design work",
				Quantity:    decimal.NewFromInt(10),
				Rate:        decimal.NewFromInt(500),
				TaxRate:     decimal.NewFromInt(18),
			},
			{
				Description: "Hosting",
				Rate:        decimal.NewFromInt(1200),
			},
		},
	}
}

func TestCreateDraft_Validation(t *testing.T) {
	svc := newTestInvoiceService(newFakeInvoiceStore())
	ctx := context.Background()

	cases := []struct {
		name string
		req  models.CreateInvoiceRequest
	}{
		{"missing client", models.CreateInvoiceRequest{Items: draftRequest().Items}},
		{"no items", models.CreateInvoiceRequest{ClientID: 1}},
		{"blank description", models.CreateInvoiceRequest{ClientID: 1, Items: []models.InvoiceItem{
			{Description: "  ", Rate: decimal.NewFromInt(100)},
		}}},
		{"zero rate", models.CreateInvoiceRequest{ClientID: 1, Items: []models.InvoiceItem{
			{Description: "work", Rate: decimal.Zero},
		}}},
		{"negative rate", models.CreateInvoiceRequest{ClientID: 1, Items: []models.InvoiceItem{
			{Description: "work", Rate: decimal.NewFromInt(-5)},
		}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateDraft(ctx, tc.req)
			if !errors.Is(err, models.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateDraft_ComputesTotalsAndDefaults(t *testing.T) {
	store := newFakeInvoiceStore()
	svc := newTestInvoiceService(store)

	inv, err := svc.CreateDraft(context.Background(), draftRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inv.Status != models.InvoiceStatusDraft {
		t.Errorf("status mismatch: %q", inv.Status)
	}
	if inv.InvoiceNumber != nil {
		t.Errorf("draft must not carry an invoice number, got %d", *inv.InvoiceNumber)
	}
	if !strings.HasPrefix(inv.ProformaNumber, "PF-") {
		t.Errorf("proforma number mismatch: %q", inv.ProformaNumber)
	}
	if inv.Currency != "USD" {
		t.Errorf("currency not normalized: %q", inv.Currency)
	}

	// 10*500 + 1*1200 = 6200; tax 18% of 5000 = 900
	if !inv.Subtotal.Equal(decimal.NewFromInt(6200)) {
		t.Errorf("subtotal mismatch: %s", inv.Subtotal)
	}
	if !inv.TaxAmount.Equal(decimal.NewFromInt(900)) {
		t.Errorf("tax mismatch: %s", inv.TaxAmount)
	}
	if !inv.TotalAmount.Equal(decimal.NewFromInt(7100)) {
		t.Errorf("total mismatch: %s", inv.TotalAmount)
	}

	// The hosting line had no quantity; it must default to 1.
	if !inv.Items[1].Quantity.Equal(decimal.NewFromInt(1)) {
		t.Errorf("quantity default mismatch: %s", inv.Items[1].Quantity)
	}
}

func TestCreateDraft_DefaultsCurrencyToINR(t *testing.T) {
	svc := newTestInvoiceService(newFakeInvoiceStore())

	req := draftRequest()
	req.Currency = ""
	inv, err := svc.CreateDraft(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Currency != ReportingCurrency {
		t.Errorf("currency default mismatch: %q", inv.Currency)
	}
}

func TestFinalize_AssignsSequentialNumbersUnderConcurrency(t *testing.T) {
	store := newFakeInvoiceStore()
	svc := newTestInvoiceService(store)
	ctx := context.Background()

	const n = 50
	ids := make([]int, 0, n)
	for i := 0; i < n; i++ {
		inv, err := svc.CreateDraft(ctx, draftRequest())
		if err != nil {
			t.Fatalf("create draft %d: %v", i, err)
		}
		ids = append(ids, inv.ID)
	}

	numbers := make([]int64, n)
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			num, err := svc.Finalize(ctx, id)
			if err != nil {
				t.Errorf("finalize %d: %v", id, err)
				return
			}
			numbers[i] = num
		}(i, id)
	}
	wg.Wait()

	seen := make(map[int64]bool, n)
	for _, num := range numbers {
		if num < 1 || num > n {
			t.Errorf("number out of range: %d", num)
		}
		if seen[num] {
			t.Errorf("duplicate invoice number: %d", num)
		}
		seen[num] = true
	}
}

func TestFinalize_PaidInvoiceIsRejected(t *testing.T) {
	svc := newTestInvoiceService(newFakeInvoiceStore())
	ctx := context.Background()

	inv, err := svc.CreateDraft(ctx, draftRequest())
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if _, err := svc.Finalize(ctx, inv.ID); err != nil {
		t.Fatalf("first finalize: %v", err)
	}
	if _, err := svc.Finalize(ctx, inv.ID); !errors.Is(err, models.ErrInvoiceAlreadyPaid) {
		t.Fatalf("expected ErrInvoiceAlreadyPaid, got %v", err)
	}
}

func TestFinalize_MissingInvoice(t *testing.T) {
	svc := newTestInvoiceService(newFakeInvoiceStore())
	if _, err := svc.Finalize(context.Background(), 999); !errors.Is(err, models.ErrInvoiceNotFound) {
		t.Fatalf("expected ErrInvoiceNotFound, got %v", err)
	}
}

func TestItemMutation_RejectedAfterFinalize(t *testing.T) {
	store := newFakeInvoiceStore()
	svc := newTestInvoiceService(store)
	ctx := context.Background()

	inv, err := svc.CreateDraft(ctx, draftRequest())
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if _, err := svc.Finalize(ctx, inv.ID); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	_, err = svc.AddItem(ctx, inv.ID, models.InvoiceItem{
		Description: "late addition",
		Rate:        decimal.NewFromInt(50),
	})
	if !errors.Is(err, models.ErrInvoiceNotDraft) {
		t.Fatalf("expected ErrInvoiceNotDraft on add, got %v", err)
	}

	item := inv.Items[0]
	item.Rate = decimal.NewFromInt(999)
	if err := svc.UpdateItem(ctx, item); !errors.Is(err, models.ErrInvoiceNotDraft) {
		t.Fatalf("expected ErrInvoiceNotDraft on update, got %v", err)
	}

	if err := svc.DeleteItem(ctx, inv.Items[0].ID); !errors.Is(err, models.ErrInvoiceNotDraft) {
		t.Fatalf("expected ErrInvoiceNotDraft on delete, got %v", err)
	}
}

func TestAddItem_RecomputesTotals(t *testing.T) {
	store := newFakeInvoiceStore()
	svc := newTestInvoiceService(store)
	ctx := context.Background()

	inv, err := svc.CreateDraft(ctx, draftRequest())
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}

	_, err = svc.AddItem(ctx, inv.ID, models.InvoiceItem{
		Description: "extra",
		Quantity:    decimal.NewFromInt(2),
		Rate:        decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	got, err := svc.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if !got.Subtotal.Equal(decimal.NewFromInt(6400)) {
		t.Errorf("subtotal after add mismatch: %s", got.Subtotal)
	}
	if !got.TotalAmount.Equal(decimal.NewFromInt(7300)) {
		t.Errorf("total after add mismatch: %s", got.TotalAmount)
	}
}

func TestUpdateItem_RecomputesTotalsAndInvalidatesParent(t *testing.T) {
	store := newFakeInvoiceStore()
	svc := newTestInvoiceService(store)
	cache := &fakeInvoiceCache{}
	svc.Cache = cache
	ctx := context.Background()

	inv, err := svc.CreateDraft(ctx, draftRequest())
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}

	// The update addresses the line by id alone; no invoice_id in the
	// payload, as the item route sends it.
	if err := svc.UpdateItem(ctx, models.InvoiceItem{
		ID:          inv.Items[0].ID,
		Description: "Design work, revised",
		Quantity:    decimal.NewFromInt(10),
		Rate:        decimal.NewFromInt(1000),
		TaxRate:     decimal.NewFromInt(18),
	}); err != nil {
		t.Fatalf("update item: %v", err)
	}

	got, err := svc.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	// 10*1000 + 1200 = 11200; tax 18% of 10000 = 1800
	if !got.Subtotal.Equal(decimal.NewFromInt(11200)) {
		t.Errorf("subtotal after update mismatch: %s", got.Subtotal)
	}
	if !got.TotalAmount.Equal(decimal.NewFromInt(13000)) {
		t.Errorf("total after update mismatch: %s", got.TotalAmount)
	}

	ids := cache.invalidatedIDs()
	if len(ids) != 1 || ids[0] != inv.ID {
		t.Errorf("expected invalidation of invoice %d, got %v", inv.ID, ids)
	}
}

func TestDeleteItem_RecomputesTotals(t *testing.T) {
	store := newFakeInvoiceStore()
	svc := newTestInvoiceService(store)
	cache := &fakeInvoiceCache{}
	svc.Cache = cache
	ctx := context.Background()

	inv, err := svc.CreateDraft(ctx, draftRequest())
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}

	// Drop the hosting line (1200, no tax).
	if err := svc.DeleteItem(ctx, inv.Items[1].ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}

	got, err := svc.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if !got.Subtotal.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("subtotal after delete mismatch: %s", got.Subtotal)
	}
	if !got.TaxAmount.Equal(decimal.NewFromInt(900)) {
		t.Errorf("tax after delete mismatch: %s", got.TaxAmount)
	}
	if !got.TotalAmount.Equal(decimal.NewFromInt(5900)) {
		t.Errorf("total after delete mismatch: %s", got.TotalAmount)
	}

	ids := cache.invalidatedIDs()
	if len(ids) != 1 || ids[0] != inv.ID {
		t.Errorf("expected invalidation of invoice %d, got %v", inv.ID, ids)
	}
}

func TestDeleteItem_MissingItemLeavesInvoicesUntouched(t *testing.T) {
	store := newFakeInvoiceStore()
	svc := newTestInvoiceService(store)
	cache := &fakeInvoiceCache{}
	svc.Cache = cache
	ctx := context.Background()

	first, err := svc.CreateDraft(ctx, draftRequest())
	if err != nil {
		t.Fatalf("create first draft: %v", err)
	}
	second, err := svc.CreateDraft(ctx, draftRequest())
	if err != nil {
		t.Fatalf("create second draft: %v", err)
	}

	if err := svc.DeleteItem(ctx, 999); !errors.Is(err, models.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}

	for _, id := range []int{first.ID, second.ID} {
		got, err := svc.GetInvoice(ctx, id)
		if err != nil {
			t.Fatalf("get invoice %d: %v", id, err)
		}
		if !got.TotalAmount.Equal(decimal.NewFromInt(7100)) {
			t.Errorf("invoice %d total changed after failed delete: %s", id, got.TotalAmount)
		}
		if len(got.Items) != 2 {
			t.Errorf("invoice %d item count changed after failed delete: %d", id, len(got.Items))
		}
	}

	if ids := cache.invalidatedIDs(); len(ids) != 0 {
		t.Errorf("failed delete must not evict cached views, got %v", ids)
	}
}

func TestRequestPayment_StateRules(t *testing.T) {
	store := newFakeInvoiceStore()
	svc := newTestInvoiceService(store)
	gw := &fakeGateway{}
	svc.Gateway = gw
	svc.CallbackURL = "https://example.com/payments/callback"
	ctx := context.Background()

	inv, err := svc.CreateDraft(ctx, draftRequest())
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}

	link, err := svc.RequestPayment(ctx, inv.ID)
	if err != nil {
		t.Fatalf("request payment: %v", err)
	}
	if link != "https://rzp.io/test" {
		t.Errorf("payment link mismatch: %q", link)
	}
	if gw.lastReq.ReferenceID != inv.ID {
		t.Errorf("reference id mismatch: %d", gw.lastReq.ReferenceID)
	}
	if !gw.lastReq.Amount.Equal(inv.TotalAmount) {
		t.Errorf("amount mismatch: %s", gw.lastReq.Amount)
	}
	if gw.lastReq.CallbackURL != svc.CallbackURL {
		t.Errorf("callback url mismatch: %q", gw.lastReq.CallbackURL)
	}

	if _, err := svc.Finalize(ctx, inv.ID); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if _, err := svc.RequestPayment(ctx, inv.ID); !errors.Is(err, models.ErrInvoiceAlreadyPaid) {
		t.Fatalf("expected ErrInvoiceAlreadyPaid, got %v", err)
	}
}
