package order

import (
	"context"
	"errors"
	"fmt"

	"dukkan-backend/internal/analytics"
	"dukkan-backend/internal/models"
)

// İptal sonrası rapor penceresi: bugünle biten son 30 gün, gün bazlı.
const trailingReportDays = 30

var (
	ErrOrderNotFound = errors.New("sipariş bulunamadı")

	// ErrRecalculationFailed: iptal kalıcı olarak işlendi ama rapor tazelenemedi.
	// Çağıran rapor ucunu tekrar sorgulayarak telafi edebilir.
	ErrRecalculationFailed = errors.New("iptal kaydedildi ancak rapor yenilenemedi")
)

// Repos: koordinatörün tek iş birimi içinde ihtiyaç duyduğu depo erişimi.
type Repos interface {
	FindOrderByID(ctx context.Context, orderID uint) (*models.Order, error) // yoksa nil, nil
	SaveOrder(ctx context.Context, order *models.Order) error
	DeleteTransactionsByOrderID(ctx context.Context, orderID uint) (int64, error)
}

// UnitOfWork: fn içindeki tüm yazmalar ya birlikte görünür olur ya da hiç olmaz.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(Repos) error) error
}

// Recalculator: iptal sonrası raporu üreten analitik motoru.
type Recalculator interface {
	ComputeTrailing(ctx context.Context, storeID uint, days int, g models.Granularity) ([]analytics.FinancialSummary, error)
}

type Service struct {
	uow     UnitOfWork
	reports Recalculator
}

func NewService(uow UnitOfWork, reports Recalculator) *Service {
	return &Service{uow: uow, reports: reports}
}

// CancelAndRecalculate: siparişi iptal eder, bağlı işlemleri kalıcı siler ve
// mağazanın kayan pencere raporunu yeniden hesaplayıp döner.
//
// Durum geçişi ve silme tek iş birimi içinde yapılır; silme yarıda kalırsa
// iptal de geri alınır. Zaten iptal edilmiş bir sipariş için çağrı
// idempotenttir: bağlı işlem kalmadığından silme 0 satır etkiler ve
// rapor değişmeden döner.
func (s *Service) CancelAndRecalculate(ctx context.Context, orderID uint) ([]analytics.FinancialSummary, error) {
	var storeID uint

	err := s.uow.Do(ctx, func(r Repos) error {
		order, err := r.FindOrderByID(ctx, orderID)
		if err != nil {
			return fmt.Errorf("sipariş sorgusu başarısız (id=%d): %w", orderID, err)
		}
		if order == nil {
			return ErrOrderNotFound
		}
		storeID = order.StoreID

		if order.Status != models.OrderStatusCancelled {
			order.Status = models.OrderStatusCancelled
			if err := r.SaveOrder(ctx, order); err != nil {
				return fmt.Errorf("sipariş durumu güncellenemedi (id=%d): %w", orderID, err)
			}
		}

		if _, err := r.DeleteTransactionsByOrderID(ctx, orderID); err != nil {
			return fmt.Errorf("bağlı işlemler silinemedi (sipariş=%d): %w", orderID, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	summaries, err := s.reports.ComputeTrailing(ctx, storeID, trailingReportDays, models.GranularityDay)
	if err != nil {
		// Commit sonrası salt-okunur adım; iptal maskelenmez, kısmi başarı raporlanır.
		return nil, fmt.Errorf("%w: %v", ErrRecalculationFailed, err)
	}

	return summaries, nil
}
