package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"dukkan-backend/internal/analytics"
	"dukkan-backend/internal/models"

	"github.com/shopspring/decimal"
)

// memState: sipariş ve işlem tablolarının bellek içi kopyası.
type memState struct {
	orders map[uint]models.Order
	txs    map[uint]models.Transaction
}

func cloneState(s memState) memState {
	c := memState{
		orders: make(map[uint]models.Order, len(s.orders)),
		txs:    make(map[uint]models.Transaction, len(s.txs)),
	}
	for id, o := range s.orders {
		c.orders[id] = o
	}
	for id, tx := range s.txs {
		c.txs[id] = tx
	}
	return c
}

// fakeUnitOfWork: fn hatasız dönerse değişiklikleri görünür kılar,
// hata durumunda değişen kopyayı atar.
type fakeUnitOfWork struct {
	state      memState
	deleteErr  error
	saveErr    error
	deletedTot int64
}

func (u *fakeUnitOfWork) Do(ctx context.Context, fn func(Repos) error) error {
	work := cloneState(u.state)
	r := &fakeRepos{uow: u, work: &work}
	if err := fn(r); err != nil {
		return err
	}
	u.state = work
	u.deletedTot += r.deleted
	return nil
}

type fakeRepos struct {
	uow     *fakeUnitOfWork
	work    *memState
	deleted int64
}

func (r *fakeRepos) FindOrderByID(ctx context.Context, orderID uint) (*models.Order, error) {
	o, ok := r.work.orders[orderID]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *fakeRepos) SaveOrder(ctx context.Context, order *models.Order) error {
	if r.uow.saveErr != nil {
		return r.uow.saveErr
	}
	r.work.orders[order.ID] = *order
	return nil
}

func (r *fakeRepos) DeleteTransactionsByOrderID(ctx context.Context, orderID uint) (int64, error) {
	if r.uow.deleteErr != nil {
		return 0, r.uow.deleteErr
	}
	var n int64
	for id, tx := range r.work.txs {
		if tx.OrderID != nil && *tx.OrderID == orderID {
			delete(r.work.txs, id)
			n++
		}
	}
	r.deleted += n
	return n, nil
}

// stateTxSource: rapor motorunu iş biriminin güncel durumuna bağlar.
type stateTxSource struct {
	uow *fakeUnitOfWork
}

func (s *stateTxSource) FindByStoreAndDateRange(ctx context.Context, storeID uint, start, end time.Time) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, tx := range s.uow.state.txs {
		if tx.StoreID == storeID && !tx.Date.Before(start) && !tx.Date.After(end) {
			out = append(out, tx)
		}
	}
	return out, nil
}

type singleStoreSource struct {
	store models.Store
}

func (s *singleStoreSource) FindStoreByID(ctx context.Context, storeID uint) (*models.Store, error) {
	if storeID != s.store.ID {
		return nil, nil
	}
	st := s.store
	return &st, nil
}

type failingRecalc struct{}

func (failingRecalc) ComputeTrailing(ctx context.Context, storeID uint, days int, g models.Granularity) ([]analytics.FinancialSummary, error) {
	return nil, errors.New("rapor kaynağına ulaşılamadı")
}

func mustSale(t *testing.T, id uint, storeID uint, amount string, orderID *uint) models.Transaction {
	t.Helper()
	tx, err := models.NewTransaction(storeID, "test satışı", time.Now(), decimal.RequireFromString(amount),
		models.TransactionTypeSale, models.PaymentMethodCard, nil)
	if err != nil {
		t.Fatalf("işlem oluşturulamadı: %v", err)
	}
	tx.ID = id
	tx.OrderID = orderID
	return *tx
}

func newCancelFixture(t *testing.T) (*Service, *fakeUnitOfWork) {
	t.Helper()

	orderID := uint(7)
	uow := &fakeUnitOfWork{state: memState{
		orders: map[uint]models.Order{
			orderID: {
				ID:          orderID,
				StoreID:     1,
				Name:        "latte",
				Quantity:    2,
				TotalAmount: decimal.RequireFromString("100.00"),
				Status:      models.OrderStatusActive,
			},
		},
		txs: map[uint]models.Transaction{
			1: mustSale(t, 1, 1, "100.00", &orderID),
			2: mustSale(t, 2, 1, "50.00", nil),
		},
	}}

	recalc := analytics.NewService(
		&stateTxSource{uow: uow},
		&singleStoreSource{store: models.Store{ID: 1, Name: "Test Kafe"}},
	)

	return NewService(uow, recalc), uow
}

func trailingGross(t *testing.T, summaries []analytics.FinancialSummary) decimal.Decimal {
	t.Helper()
	total := decimal.Zero
	for _, s := range summaries {
		total = total.Add(s.GrossRevenue)
	}
	return total
}

func TestCancelRemovesOrderRevenueFromTrailingReport(t *testing.T) {
	svc, uow := newCancelFixture(t)

	summaries, err := svc.CancelAndRecalculate(context.Background(), 7)
	if err != nil {
		t.Fatalf("iptal başarısız: %v", err)
	}

	if got := uow.state.orders[7].Status; got != models.OrderStatusCancelled {
		t.Errorf("sipariş durumu cancelled olmalı, %q bulundu", got)
	}
	if _, ok := uow.state.txs[1]; ok {
		t.Error("bağlı işlem silinmeliydi")
	}
	if _, ok := uow.state.txs[2]; !ok {
		t.Error("bağımsız işlem silinmemeliydi")
	}

	// Siparişin 100.00'lık satışı düştü, bağımsız 50.00 kaldı
	if got := trailingGross(t, summaries); !got.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("rapor brüt ciro 50.00 olmalı, %s bulundu", got)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	svc, uow := newCancelFixture(t)

	first, err := svc.CancelAndRecalculate(context.Background(), 7)
	if err != nil {
		t.Fatalf("ilk iptal başarısız: %v", err)
	}
	second, err := svc.CancelAndRecalculate(context.Background(), 7)
	if err != nil {
		t.Fatalf("tekrar iptal hata döndürmemeli: %v", err)
	}

	if got, want := trailingGross(t, second), trailingGross(t, first); !got.Equal(want) {
		t.Errorf("tekrar iptalde rapor değişmemeli: %s != %s", got, want)
	}
	if uow.deletedTot != 1 {
		t.Errorf("silme toplamda 1 satır etkilemeli, %d bulundu", uow.deletedTot)
	}
	if got := uow.state.orders[7].Status; got != models.OrderStatusCancelled {
		t.Errorf("sipariş durumu cancelled kalmalı, %q bulundu", got)
	}
}

func TestCancelUnknownOrder(t *testing.T) {
	svc, _ := newCancelFixture(t)

	_, err := svc.CancelAndRecalculate(context.Background(), 999)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("ErrOrderNotFound bekleniyordu, %v bulundu", err)
	}
}

func TestCancelRollsBackWhenDeleteFails(t *testing.T) {
	svc, uow := newCancelFixture(t)
	uow.deleteErr = errors.New("bağlantı koptu")

	_, err := svc.CancelAndRecalculate(context.Background(), 7)
	if err == nil {
		t.Fatal("hata bekleniyordu")
	}
	if errors.Is(err, ErrRecalculationFailed) {
		t.Fatal("silme hatası kısmi başarı olarak sınıflanmamalı")
	}

	// İş birimi geri alındı: durum ve işlemler dokunulmadan kalır
	if got := uow.state.orders[7].Status; got != models.OrderStatusActive {
		t.Errorf("sipariş aktif kalmalı, %q bulundu", got)
	}
	if len(uow.state.txs) != 2 {
		t.Errorf("işlemler silinmemeliydi, %d kayıt kaldı", len(uow.state.txs))
	}
}

func TestCancelReportsPartialSuccessWhenRecalcFails(t *testing.T) {
	_, uow := newCancelFixture(t)
	svc := NewService(uow, failingRecalc{})

	_, err := svc.CancelAndRecalculate(context.Background(), 7)
	if !errors.Is(err, ErrRecalculationFailed) {
		t.Fatalf("ErrRecalculationFailed bekleniyordu, %v bulundu", err)
	}

	// İptal commit sonrası kalıcıdır
	if got := uow.state.orders[7].Status; got != models.OrderStatusCancelled {
		t.Errorf("iptal kalıcı olmalı, %q bulundu", got)
	}
	if _, ok := uow.state.txs[1]; ok {
		t.Error("bağlı işlem silinmiş olmalı")
	}
}
