package analytics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"dukkan-backend/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrStoreNotFound      = errors.New("mağaza bulunamadı")
	ErrInvalidDateRange   = errors.New("bitiş tarihi başlangıç tarihinden önce olamaz")
	ErrInvalidGranularity = errors.New("geçersiz periyot değeri")
)

// TransactionSource: motorun okuduğu işlem deposu. Aggregation tarafı asla yazmaz.
type TransactionSource interface {
	FindByStoreAndDateRange(ctx context.Context, storeID uint, start, end time.Time) ([]models.Transaction, error)
}

// StoreSource: mağaza varlık kontrolü ve isim zenginleştirmesi için.
type StoreSource interface {
	FindStoreByID(ctx context.Context, storeID uint) (*models.Store, error)
}

// FinancialSummary: bir periyot kovasının finansal özeti.
// net_profit = gross_revenue - refund_amount - total_cost - tax_amount her zaman sağlanır.
type FinancialSummary struct {
	StoreID     uint      `json:"store_id"`
	StoreName   string    `json:"store_name"`
	Period      string    `json:"period"`
	PeriodStart time.Time `json:"-"` // sıralama ve export için

	CardRevenue  decimal.Decimal `json:"card_revenue"`
	CashRevenue  decimal.Decimal `json:"cash_revenue"`
	OtherRevenue decimal.Decimal `json:"other_revenue"`
	GrossRevenue decimal.Decimal `json:"gross_revenue"`

	RefundAmount decimal.Decimal `json:"refund_amount"`

	MaterialCost decimal.Decimal `json:"material_cost"`
	FixedCost    decimal.Decimal `json:"fixed_cost"`
	OtherCost    decimal.Decimal `json:"other_cost"`
	TotalCost    decimal.Decimal `json:"total_cost"`

	TaxAmount decimal.Decimal `json:"tax_amount"`

	NetProfit    decimal.Decimal `json:"net_profit"`
	ProfitMargin decimal.Decimal `json:"profit_margin"` // yüzde, ciro 0 ise 0
}

// SalesAnalytics: tek aralık için toplam bazlı genişletilmiş analiz.
type SalesAnalytics struct {
	StoreID      uint      `json:"store_id"`
	StoreName    string    `json:"store_name"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	CalculatedAt time.Time `json:"calculated_at"`

	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	CardRevenue         decimal.Decimal `json:"card_revenue"`
	CashRevenue         decimal.Decimal `json:"cash_revenue"`
	BankTransferRevenue decimal.Decimal `json:"bank_transfer_revenue"`
	OtherRevenue        decimal.Decimal `json:"other_revenue"`

	TotalExpense decimal.Decimal `json:"total_expense"`
	MaterialCost decimal.Decimal `json:"material_cost"`
	FixedCost    decimal.Decimal `json:"fixed_cost"`
	UtilityCost  decimal.Decimal `json:"utility_cost"`
	LaborCost    decimal.Decimal `json:"labor_cost"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
	OtherExpense decimal.Decimal `json:"other_expense"`

	NetProfit    decimal.Decimal `json:"net_profit"`
	ProfitMargin decimal.Decimal `json:"profit_margin"` // yüzde, ciro 0 ise 0
}

type Service struct {
	transactions TransactionSource
	stores       StoreSource
}

func NewService(transactions TransactionSource, stores StoreSource) *Service {
	return &Service{transactions: transactions, stores: stores}
}

var oneHundred = decimal.NewFromInt(100)

// ComputeFinancials: [start, end] aralığındaki işlemleri periyot kovalarına
// gruplar ve her kova için finansal özet üretir. İşlemi olmayan kovalar
// sonuca girmez; sonuç periyot başlangıcına göre artan sıralıdır.
func (s *Service) ComputeFinancials(ctx context.Context, storeID uint, start, end time.Time, g models.Granularity) ([]FinancialSummary, error) {
	if !g.Valid() {
		return nil, ErrInvalidGranularity
	}

	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location())
	if endDay.Before(startDay) {
		return nil, ErrInvalidDateRange
	}

	store, err := s.stores.FindStoreByID(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("mağaza sorgusu başarısız (id=%d): %w", storeID, err)
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}

	transactions, err := s.transactions.FindByStoreAndDateRange(ctx, storeID, startDay, endDay)
	if err != nil {
		return nil, fmt.Errorf("işlemler okunamadı (mağaza=%d): %w", storeID, err)
	}

	buckets := make(map[time.Time]*FinancialSummary)
	for _, tx := range transactions {
		bs := bucketStart(tx.Date, g)
		summary, ok := buckets[bs]
		if !ok {
			summary = &FinancialSummary{
				StoreID:     storeID,
				StoreName:   store.Name,
				Period:      periodLabel(bs, g),
				PeriodStart: bs,
			}
			buckets[bs] = summary
		}

		switch tx.Type {
		case models.TransactionTypeSale:
			summary.GrossRevenue = summary.GrossRevenue.Add(tx.Amount)
			switch tx.PaymentMethod {
			case models.PaymentMethodCard:
				summary.CardRevenue = summary.CardRevenue.Add(tx.Amount)
			case models.PaymentMethodCash:
				summary.CashRevenue = summary.CashRevenue.Add(tx.Amount)
			case models.PaymentMethodOther:
				summary.OtherRevenue = summary.OtherRevenue.Add(tx.Amount)
			}
			// havale satışları sadece brüt ciroya girer
		case models.TransactionTypeRefund:
			summary.RefundAmount = summary.RefundAmount.Add(tx.Amount)
		case models.TransactionTypeTax:
			summary.TaxAmount = summary.TaxAmount.Add(tx.Amount)
		case models.TransactionTypeCost:
			switch {
			case tx.CostCategory != nil && *tx.CostCategory == models.CostCategoryMaterial:
				summary.MaterialCost = summary.MaterialCost.Add(tx.Amount)
			case tx.CostCategory != nil && *tx.CostCategory == models.CostCategoryFixed:
				summary.FixedCost = summary.FixedCost.Add(tx.Amount)
			default:
				// utility, labor ve kategorisiz maliyetler "diğer" altında
				summary.OtherCost = summary.OtherCost.Add(tx.Amount)
			}
		case models.TransactionTypeOtherExpense:
			summary.OtherCost = summary.OtherCost.Add(tx.Amount)
		}
	}

	result := make([]FinancialSummary, 0, len(buckets))
	for _, summary := range buckets {
		summary.TotalCost = summary.MaterialCost.Add(summary.FixedCost).Add(summary.OtherCost)
		summary.NetProfit = summary.GrossRevenue.
			Sub(summary.RefundAmount).
			Sub(summary.TotalCost).
			Sub(summary.TaxAmount)
		if summary.GrossRevenue.IsPositive() {
			summary.ProfitMargin = summary.NetProfit.DivRound(summary.GrossRevenue, 4).Mul(oneHundred)
		}
		result = append(result, *summary)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PeriodStart.Before(result[j].PeriodStart)
	})

	return result, nil
}

// ComputeTrailing: bugünle biten son N günlük pencerenin özeti.
func (s *Service) ComputeTrailing(ctx context.Context, storeID uint, days int, g models.Granularity) ([]FinancialSummary, error) {
	if days <= 0 {
		return nil, fmt.Errorf("gün sayısı pozitif olmalı: %d", days)
	}
	now := time.Now()
	return s.ComputeFinancials(ctx, storeID, now.AddDate(0, 0, -days), now, g)
}

// Analyze: aralığın tamamı için toplam bazlı gelir/gider dağılımı
// (periyot kovalaması olmadan).
func (s *Service) Analyze(ctx context.Context, storeID uint, start, end time.Time) (*SalesAnalytics, error) {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location())
	if endDay.Before(startDay) {
		return nil, ErrInvalidDateRange
	}

	store, err := s.stores.FindStoreByID(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("mağaza sorgusu başarısız (id=%d): %w", storeID, err)
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}

	transactions, err := s.transactions.FindByStoreAndDateRange(ctx, storeID, startDay, endDay)
	if err != nil {
		return nil, fmt.Errorf("işlemler okunamadı (mağaza=%d): %w", storeID, err)
	}

	res := &SalesAnalytics{
		StoreID:      storeID,
		StoreName:    store.Name,
		StartDate:    startDay.Format("2006-01-02"),
		EndDate:      endDay.Format("2006-01-02"),
		CalculatedAt: time.Now(),
	}

	for _, tx := range transactions {
		switch tx.Type {
		case models.TransactionTypeSale:
			res.TotalRevenue = res.TotalRevenue.Add(tx.Amount)
			switch tx.PaymentMethod {
			case models.PaymentMethodCard:
				res.CardRevenue = res.CardRevenue.Add(tx.Amount)
			case models.PaymentMethodCash:
				res.CashRevenue = res.CashRevenue.Add(tx.Amount)
			case models.PaymentMethodBankTransfer:
				res.BankTransferRevenue = res.BankTransferRevenue.Add(tx.Amount)
			case models.PaymentMethodOther:
				res.OtherRevenue = res.OtherRevenue.Add(tx.Amount)
			}
		case models.TransactionTypeRefund:
			res.RefundAmount = res.RefundAmount.Add(tx.Amount)
		case models.TransactionTypeTax:
			res.TaxAmount = res.TaxAmount.Add(tx.Amount)
		case models.TransactionTypeCost:
			switch {
			case tx.CostCategory != nil && *tx.CostCategory == models.CostCategoryMaterial:
				res.MaterialCost = res.MaterialCost.Add(tx.Amount)
			case tx.CostCategory != nil && *tx.CostCategory == models.CostCategoryFixed:
				res.FixedCost = res.FixedCost.Add(tx.Amount)
			case tx.CostCategory != nil && *tx.CostCategory == models.CostCategoryUtility:
				res.UtilityCost = res.UtilityCost.Add(tx.Amount)
			case tx.CostCategory != nil && *tx.CostCategory == models.CostCategoryLabor:
				res.LaborCost = res.LaborCost.Add(tx.Amount)
			default:
				res.OtherExpense = res.OtherExpense.Add(tx.Amount)
			}
		case models.TransactionTypeOtherExpense:
			res.OtherExpense = res.OtherExpense.Add(tx.Amount)
		}
	}

	res.TotalExpense = res.MaterialCost.
		Add(res.FixedCost).
		Add(res.UtilityCost).
		Add(res.LaborCost).
		Add(res.TaxAmount).
		Add(res.RefundAmount).
		Add(res.OtherExpense)
	res.NetProfit = res.TotalRevenue.Sub(res.TotalExpense)
	if res.TotalRevenue.IsPositive() {
		res.ProfitMargin = res.NetProfit.DivRound(res.TotalRevenue, 4).Mul(oneHundred)
	}

	return res, nil
}
