package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"dukkan-backend/internal/models"

	"github.com/shopspring/decimal"
)

type fakeTransactionSource struct {
	transactions []models.Transaction
	err          error
	calls        int
}

func (f *fakeTransactionSource) FindByStoreAndDateRange(_ context.Context, storeID uint, start, end time.Time) ([]models.Transaction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Transaction
	for _, tx := range f.transactions {
		if tx.StoreID != storeID {
			continue
		}
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

type fakeStoreSource struct {
	stores map[uint]*models.Store
}

func (f *fakeStoreSource) FindStoreByID(_ context.Context, storeID uint) (*models.Store, error) {
	return f.stores[storeID], nil
}

func mustTx(t *testing.T, storeID uint, name string, date time.Time, amount int64,
	txType models.TransactionType, method models.PaymentMethod, cc *models.CostCategory) models.Transaction {
	t.Helper()
	tx, err := models.NewTransaction(storeID, name, date, decimal.NewFromInt(amount), txType, method, cc)
	if err != nil {
		t.Fatalf("işlem oluşturulamadı: %v", err)
	}
	return *tx
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func newTestService(txs ...models.Transaction) (*Service, *fakeTransactionSource) {
	src := &fakeTransactionSource{transactions: txs}
	stores := &fakeStoreSource{stores: map[uint]*models.Store{
		1: {ID: 1, Name: "Test Mağaza"},
	}}
	return NewService(src, stores), src
}

// Uçtan uca senaryo: iki günlük kova, kart/nakit ayrımı,
// malzeme maliyeti ve vergi düşümü.
func TestComputeFinancialsTwoDayScenario(t *testing.T) {
	material := models.CostCategoryMaterial
	svc, _ := newTestService(
		mustTx(t, 1, "Satış", date(2024, 1, 1), 100, models.TransactionTypeSale, models.PaymentMethodCard, nil),
		mustTx(t, 1, "Un alımı", date(2024, 1, 1), 30, models.TransactionTypeCost, models.PaymentMethodCash, &material),
		mustTx(t, 1, "KDV", date(2024, 1, 1), 5, models.TransactionTypeTax, models.PaymentMethodBankTransfer, nil),
		mustTx(t, 1, "Satış", date(2024, 1, 2), 50, models.TransactionTypeSale, models.PaymentMethodCash, nil),
	)

	summaries, err := svc.ComputeFinancials(context.Background(), 1, date(2024, 1, 1), date(2024, 1, 2), models.GranularityDay)
	if err != nil {
		t.Fatalf("beklenmeyen hata: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("2 kova bekleniyordu, %d geldi", len(summaries))
	}

	day1 := summaries[0]
	if day1.Period != "2024-01-01" {
		t.Errorf("ilk kova 2024-01-01 olmalı, %s geldi", day1.Period)
	}
	checks := []struct {
		name string
		got  decimal.Decimal
		want int64
	}{
		{"gross_revenue", day1.GrossRevenue, 100},
		{"card_revenue", day1.CardRevenue, 100},
		{"material_cost", day1.MaterialCost, 30},
		{"total_cost", day1.TotalCost, 30},
		{"tax_amount", day1.TaxAmount, 5},
		{"net_profit", day1.NetProfit, 65},
	}
	for _, cs := range checks {
		if !cs.got.Equal(decimal.NewFromInt(cs.want)) {
			t.Errorf("gün 1 %s: %d bekleniyordu, %s geldi", cs.name, cs.want, cs.got)
		}
	}

	day2 := summaries[1]
	if day2.Period != "2024-01-02" {
		t.Errorf("ikinci kova 2024-01-02 olmalı, %s geldi", day2.Period)
	}
	if !day2.GrossRevenue.Equal(decimal.NewFromInt(50)) || !day2.CashRevenue.Equal(decimal.NewFromInt(50)) {
		t.Errorf("gün 2 ciro hatalı: gross=%s cash=%s", day2.GrossRevenue, day2.CashRevenue)
	}
	if !day2.TotalCost.IsZero() || !day2.TaxAmount.IsZero() {
		t.Errorf("gün 2'de maliyet/vergi olmamalı: cost=%s tax=%s", day2.TotalCost, day2.TaxAmount)
	}
	if !day2.NetProfit.Equal(decimal.NewFromInt(50)) {
		t.Errorf("gün 2 net kar 50 olmalı, %s geldi", day2.NetProfit)
	}
}

// net kar kimliği: her kova için net = brüt - iade - toplam maliyet - vergi.
func TestNetProfitIdentity(t *testing.T) {
	utility := models.CostCategoryUtility
	labor := models.CostCategoryLabor
	svc, _ := newTestService(
		mustTx(t, 1, "Satış", date(2024, 3, 10), 200, models.TransactionTypeSale, models.PaymentMethodCard, nil),
		mustTx(t, 1, "Havale satış", date(2024, 3, 10), 80, models.TransactionTypeSale, models.PaymentMethodBankTransfer, nil),
		mustTx(t, 1, "İade", date(2024, 3, 10), 25, models.TransactionTypeRefund, models.PaymentMethodCard, nil),
		mustTx(t, 1, "Elektrik", date(2024, 3, 10), 40, models.TransactionTypeCost, models.PaymentMethodBankTransfer, &utility),
		mustTx(t, 1, "Personel", date(2024, 3, 10), 60, models.TransactionTypeCost, models.PaymentMethodBankTransfer, &labor),
		mustTx(t, 1, "Vergi", date(2024, 3, 10), 15, models.TransactionTypeTax, models.PaymentMethodBankTransfer, nil),
		mustTx(t, 1, "Diğer gider", date(2024, 3, 10), 10, models.TransactionTypeOtherExpense, models.PaymentMethodCash, nil),
	)

	summaries, err := svc.ComputeFinancials(context.Background(), 1, date(2024, 3, 10), date(2024, 3, 10), models.GranularityDay)
	if err != nil {
		t.Fatalf("beklenmeyen hata: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("1 kova bekleniyordu, %d geldi", len(summaries))
	}

	s := summaries[0]
	// havale satışı brüt ciroya girer ama kart/nakit/diğer kalemlerine girmez
	if !s.GrossRevenue.Equal(decimal.NewFromInt(280)) {
		t.Errorf("brüt ciro 280 olmalı, %s geldi", s.GrossRevenue)
	}
	if !s.CardRevenue.Equal(decimal.NewFromInt(200)) || !s.OtherRevenue.IsZero() {
		t.Errorf("yöntem kırılımı hatalı: card=%s other=%s", s.CardRevenue, s.OtherRevenue)
	}
	// utility + labor + diğer gider "diğer maliyet" altında toplanır
	if !s.OtherCost.Equal(decimal.NewFromInt(110)) {
		t.Errorf("diğer maliyet 110 olmalı, %s geldi", s.OtherCost)
	}
	if !s.RefundAmount.Equal(decimal.NewFromInt(25)) {
		t.Errorf("iade 25 olmalı, %s geldi", s.RefundAmount)
	}

	identity := s.GrossRevenue.Sub(s.RefundAmount).Sub(s.TotalCost).Sub(s.TaxAmount)
	if !s.NetProfit.Equal(identity) {
		t.Errorf("net kar kimliği bozuldu: net=%s, kimlik=%s", s.NetProfit, identity)
	}
	if !s.NetProfit.Equal(decimal.NewFromInt(130)) {
		t.Errorf("net kar 130 olmalı, %s geldi", s.NetProfit)
	}
}

// işlemi olmayan aralık boş sonuç döner, sıfır dolu satır değil.
func TestSparseBucketing(t *testing.T) {
	svc, _ := newTestService(
		mustTx(t, 1, "Satış", date(2024, 5, 1), 100, models.TransactionTypeSale, models.PaymentMethodCard, nil),
	)

	summaries, err := svc.ComputeFinancials(context.Background(), 1, date(2024, 6, 1), date(2024, 6, 30), models.GranularityDay)
	if err != nil {
		t.Fatalf("beklenmeyen hata: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("boş sonuç bekleniyordu, %d kova geldi", len(summaries))
	}
}

// geçersiz aralık senkron hata döner ve hiç okuma yapılmaz.
func TestInvalidDateRange(t *testing.T) {
	svc, src := newTestService()

	_, err := svc.ComputeFinancials(context.Background(), 1, date(2024, 2, 10), date(2024, 2, 1), models.GranularityDay)
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("ErrInvalidDateRange bekleniyordu, %v geldi", err)
	}
	if src.calls != 0 {
		t.Errorf("geçersiz aralıkta okuma yapılmamalı, %d çağrı yapıldı", src.calls)
	}
}

func TestUnknownStore(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ComputeFinancials(context.Background(), 99, date(2024, 1, 1), date(2024, 1, 2), models.GranularityDay)
	if !errors.Is(err, ErrStoreNotFound) {
		t.Errorf("ErrStoreNotFound bekleniyordu, %v geldi", err)
	}
}

func TestInvalidGranularity(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ComputeFinancials(context.Background(), 1, date(2024, 1, 1), date(2024, 1, 2), models.Granularity("hour"))
	if !errors.Is(err, ErrInvalidGranularity) {
		t.Errorf("ErrInvalidGranularity bekleniyordu, %v geldi", err)
	}
}

// aynı haftaya düşen işlemler tek kovada toplanır, etiket Pazartesi tarihidir.
func TestWeekBucketing(t *testing.T) {
	svc, _ := newTestService(
		// 2024-01-03 Çarşamba, 2024-01-05 Cuma → hafta başı 2024-01-01 Pazartesi
		mustTx(t, 1, "Satış", date(2024, 1, 3), 100, models.TransactionTypeSale, models.PaymentMethodCard, nil),
		mustTx(t, 1, "Satış", date(2024, 1, 5), 50, models.TransactionTypeSale, models.PaymentMethodCash, nil),
		// 2024-01-08 bir sonraki haftanın Pazartesisi
		mustTx(t, 1, "Satış", date(2024, 1, 8), 70, models.TransactionTypeSale, models.PaymentMethodCard, nil),
	)

	summaries, err := svc.ComputeFinancials(context.Background(), 1, date(2024, 1, 1), date(2024, 1, 14), models.GranularityWeek)
	if err != nil {
		t.Fatalf("beklenmeyen hata: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("2 hafta kovası bekleniyordu, %d geldi", len(summaries))
	}
	if summaries[0].Period != "2024-01-01" || summaries[1].Period != "2024-01-08" {
		t.Errorf("hafta etiketleri hatalı: %s, %s", summaries[0].Period, summaries[1].Period)
	}
	if !summaries[0].GrossRevenue.Equal(decimal.NewFromInt(150)) {
		t.Errorf("ilk hafta cirosu 150 olmalı, %s geldi", summaries[0].GrossRevenue)
	}
}

func TestMonthBucketing(t *testing.T) {
	svc, _ := newTestService(
		mustTx(t, 1, "Satış", date(2024, 1, 5), 100, models.TransactionTypeSale, models.PaymentMethodCard, nil),
		mustTx(t, 1, "Satış", date(2024, 1, 25), 40, models.TransactionTypeSale, models.PaymentMethodCash, nil),
		mustTx(t, 1, "Satış", date(2024, 2, 2), 60, models.TransactionTypeSale, models.PaymentMethodCard, nil),
	)

	summaries, err := svc.ComputeFinancials(context.Background(), 1, date(2024, 1, 1), date(2024, 2, 28), models.GranularityMonth)
	if err != nil {
		t.Fatalf("beklenmeyen hata: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("2 ay kovası bekleniyordu, %d geldi", len(summaries))
	}
	if summaries[0].Period != "2024-01" || summaries[1].Period != "2024-02" {
		t.Errorf("ay etiketleri hatalı: %s, %s", summaries[0].Period, summaries[1].Period)
	}
	if !summaries[0].GrossRevenue.Equal(decimal.NewFromInt(140)) {
		t.Errorf("ocak cirosu 140 olmalı, %s geldi", summaries[0].GrossRevenue)
	}
}

// ciro sıfırken kar marjı 0 raporlanır, sıfıra bölme yok.
func TestProfitMarginZeroRevenue(t *testing.T) {
	material := models.CostCategoryMaterial
	svc, _ := newTestService(
		mustTx(t, 1, "Un alımı", date(2024, 4, 1), 30, models.TransactionTypeCost, models.PaymentMethodCash, &material),
	)

	summaries, err := svc.ComputeFinancials(context.Background(), 1, date(2024, 4, 1), date(2024, 4, 1), models.GranularityDay)
	if err != nil {
		t.Fatalf("beklenmeyen hata: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("1 kova bekleniyordu, %d geldi", len(summaries))
	}
	if !summaries[0].ProfitMargin.IsZero() {
		t.Errorf("sıfır ciroda marj 0 olmalı, %s geldi", summaries[0].ProfitMargin)
	}
	if !summaries[0].NetProfit.Equal(decimal.NewFromInt(-30)) {
		t.Errorf("net kar -30 olmalı, %s geldi", summaries[0].NetProfit)
	}
}

func TestProfitMarginCalculation(t *testing.T) {
	material := models.CostCategoryMaterial
	svc, _ := newTestService(
		mustTx(t, 1, "Satış", date(2024, 4, 1), 200, models.TransactionTypeSale, models.PaymentMethodCard, nil),
		mustTx(t, 1, "Malzeme", date(2024, 4, 1), 50, models.TransactionTypeCost, models.PaymentMethodCash, &material),
	)

	summaries, err := svc.ComputeFinancials(context.Background(), 1, date(2024, 4, 1), date(2024, 4, 1), models.GranularityDay)
	if err != nil {
		t.Fatalf("beklenmeyen hata: %v", err)
	}
	// 150/200 * 100 = %75
	if !summaries[0].ProfitMargin.Equal(decimal.NewFromInt(75)) {
		t.Errorf("marj 75 olmalı, %s geldi", summaries[0].ProfitMargin)
	}
}

// ondalıklı tutarlarda toplama kayması olmamalı.
func TestDecimalPrecision(t *testing.T) {
	var txs []models.Transaction
	amount := decimal.RequireFromString("0.10")
	for i := 0; i < 100; i++ {
		tx, err := models.NewTransaction(1, "Mikro satış", date(2024, 7, 1), amount, models.TransactionTypeSale, models.PaymentMethodCash, nil)
		if err != nil {
			t.Fatalf("işlem oluşturulamadı: %v", err)
		}
		txs = append(txs, *tx)
	}

	svc, _ := newTestService(txs...)
	summaries, err := svc.ComputeFinancials(context.Background(), 1, date(2024, 7, 1), date(2024, 7, 1), models.GranularityDay)
	if err != nil {
		t.Fatalf("beklenmeyen hata: %v", err)
	}
	if !summaries[0].GrossRevenue.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("100 x 0.10 tam olarak 10.00 olmalı, %s geldi", summaries[0].GrossRevenue)
	}
}

func TestStorageFailurePropagates(t *testing.T) {
	src := &fakeTransactionSource{err: errors.New("bağlantı koptu")}
	stores := &fakeStoreSource{stores: map[uint]*models.Store{1: {ID: 1, Name: "Test"}}}
	svc := NewService(src, stores)

	_, err := svc.ComputeFinancials(context.Background(), 1, date(2024, 1, 1), date(2024, 1, 2), models.GranularityDay)
	if err == nil {
		t.Fatal("depolama hatası yutulmamalı")
	}
}

func TestAnalyzeTotals(t *testing.T) {
	utility := models.CostCategoryUtility
	svc, _ := newTestService(
		mustTx(t, 1, "Satış", date(2024, 8, 1), 300, models.TransactionTypeSale, models.PaymentMethodCard, nil),
		mustTx(t, 1, "Havale satış", date(2024, 8, 2), 100, models.TransactionTypeSale, models.PaymentMethodBankTransfer, nil),
		mustTx(t, 1, "Elektrik", date(2024, 8, 2), 50, models.TransactionTypeCost, models.PaymentMethodBankTransfer, &utility),
		mustTx(t, 1, "İade", date(2024, 8, 3), 20, models.TransactionTypeRefund, models.PaymentMethodCard, nil),
	)

	res, err := svc.Analyze(context.Background(), 1, date(2024, 8, 1), date(2024, 8, 31))
	if err != nil {
		t.Fatalf("beklenmeyen hata: %v", err)
	}

	if !res.TotalRevenue.Equal(decimal.NewFromInt(400)) {
		t.Errorf("toplam ciro 400 olmalı, %s geldi", res.TotalRevenue)
	}
	if !res.BankTransferRevenue.Equal(decimal.NewFromInt(100)) {
		t.Errorf("havale cirosu 100 olmalı, %s geldi", res.BankTransferRevenue)
	}
	if !res.UtilityCost.Equal(decimal.NewFromInt(50)) {
		t.Errorf("fatura gideri 50 olmalı, %s geldi", res.UtilityCost)
	}
	if !res.TotalExpense.Equal(decimal.NewFromInt(70)) {
		t.Errorf("toplam gider 70 olmalı, %s geldi", res.TotalExpense)
	}
	if !res.NetProfit.Equal(decimal.NewFromInt(330)) {
		t.Errorf("net kar 330 olmalı, %s geldi", res.NetProfit)
	}
}

// kayan pencere: pencere dışındaki işlemler rapora girmez.
func TestComputeTrailingWindow(t *testing.T) {
	now := time.Now()
	svc, _ := newTestService(
		mustTx(t, 1, "Dünkü satış", now.AddDate(0, 0, -1), 100, models.TransactionTypeSale, models.PaymentMethodCard, nil),
		mustTx(t, 1, "Eski satış", now.AddDate(0, 0, -45), 500, models.TransactionTypeSale, models.PaymentMethodCard, nil),
	)

	summaries, err := svc.ComputeTrailing(context.Background(), 1, 30, models.GranularityDay)
	if err != nil {
		t.Fatalf("beklenmeyen hata: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("1 kova bekleniyordu, %d geldi", len(summaries))
	}
	if !summaries[0].GrossRevenue.Equal(decimal.NewFromInt(100)) {
		t.Errorf("pencere içi ciro 100 olmalı, %s geldi", summaries[0].GrossRevenue)
	}
}

func TestComputeTrailingRejectsNonPositiveDays(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.ComputeTrailing(context.Background(), 1, 0, models.GranularityDay); err == nil {
		t.Error("sıfır gün için hata bekleniyordu")
	}
}
