package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dukkan-backend/internal/auth"
	"dukkan-backend/internal/database"
	"dukkan-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateOrderRequest struct {
	Name           string          `json:"name"`
	Quantity       int             `json:"quantity"`
	SubtotalAmount decimal.Decimal `json:"subtotal_amount"` // vergi öncesi
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaymentMethod  string          `json:"payment_method"`
}

type OrderResponse struct {
	ID             uint            `json:"id"`
	StoreID        uint            `json:"store_id"`
	Name           string          `json:"name"`
	Quantity       int             `json:"quantity"`
	SubtotalAmount decimal.Decimal `json:"subtotal_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaymentMethod  string          `json:"payment_method"`
	Status         string          `json:"status"`
	CreatedAt      string          `json:"created_at"`
}

func toResponse(o *models.Order) OrderResponse {
	return OrderResponse{
		ID:             o.ID,
		StoreID:        o.StoreID,
		Name:           o.Name,
		Quantity:       o.Quantity,
		SubtotalAmount: o.SubtotalAmount,
		TotalAmount:    o.TotalAmount,
		PaymentMethod:  string(o.PaymentMethod),
		Status:         string(o.Status),
		CreatedAt:      o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func parseStoreID(c *fiber.Ctx) (uint, error) {
	idStr := c.Params("id")
	var id uint
	if _, err := fmt.Sscan(idStr, &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Mağaza id geçersiz")
	}
	return id, nil
}

// POST /api/stores/:id/orders
// Sipariş ile birlikte satış işlemi (ve varsa vergi işlemi) tek veritabanı
// transaction'ında oluşturulur; iptal akışı bu bağlı işlemleri siler.
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Sipariş adı boş olamaz")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Sipariş adedi pozitif olmalı")
		}
		if !body.TotalAmount.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "Toplam tutar pozitif olmalı")
		}
		if body.SubtotalAmount.IsNegative() || body.SubtotalAmount.GreaterThan(body.TotalAmount) {
			return fiber.NewError(fiber.StatusBadRequest, "Ara toplam 0 ile toplam tutar arasında olmalı")
		}

		method := models.PaymentMethod(body.PaymentMethod)
		if !method.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "payment_method geçersiz")
		}

		order := models.Order{
			StoreID:        storeID,
			Name:           body.Name,
			Quantity:       body.Quantity,
			SubtotalAmount: body.SubtotalAmount.Round(2),
			TotalAmount:    body.TotalAmount.Round(2),
			PaymentMethod:  method,
			Status:         models.OrderStatusActive,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&order).Error; err != nil {
				return err
			}

			now := time.Now()

			saleAmount := order.SubtotalAmount
			if saleAmount.IsZero() {
				saleAmount = order.TotalAmount
			}
			sale, err := models.NewTransaction(storeID, order.Name, now, saleAmount,
				models.TransactionTypeSale, method, nil)
			if err != nil {
				return err
			}
			sale.OrderID = &order.ID
			if err := tx.Create(sale).Error; err != nil {
				return err
			}

			// Toplam ile ara toplam arasındaki fark vergi olarak kaydedilir
			taxAmount := order.TotalAmount.Sub(order.SubtotalAmount)
			if !order.SubtotalAmount.IsZero() && taxAmount.IsPositive() {
				taxTx, err := models.NewTransaction(storeID, order.Name+" vergisi", now, taxAmount,
					models.TransactionTypeTax, method, nil)
				if err != nil {
					return err
				}
				taxTx.OrderID = &order.ID
				if err := tx.Create(taxTx).Error; err != nil {
					return err
				}
			}

			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&order))
	}
}

// GET /api/stores/:id/orders?status=&limit=&offset=
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		limit := c.QueryInt("limit", 50)
		if limit <= 0 || limit > 200 {
			limit = 50
		}
		offset := c.QueryInt("offset", 0)
		if offset < 0 {
			offset = 0
		}

		q := database.DB.Where("store_id = ?", storeID)
		if status := c.Query("status"); status != "" {
			if status != string(models.OrderStatusActive) && status != string(models.OrderStatusCancelled) {
				return fiber.NewError(fiber.StatusBadRequest, "status active veya cancelled olmalı")
			}
			q = q.Where("status = ?", status)
		}

		var orders []models.Order
		if err := q.Order("created_at desc").Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		res := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			res = append(res, toResponse(&orders[i]))
		}

		return c.JSON(res)
	}
}

// GET /api/stores/:id/orders/:orderId
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		var orderID uint
		if _, err := fmt.Sscan(c.Params("orderId"), &orderID); err != nil || orderID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Sipariş id geçersiz")
		}

		var order models.Order
		if err := database.DB.Preload("Transactions").
			Where("id = ? AND store_id = ?", orderID, storeID).First(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		return c.JSON(toResponse(&order))
	}
}

// POST /api/stores/:id/orders/:orderId/cancel
// Siparişi iptal eder, bağlı işlemleri siler ve 30 günlük raporu döner.
func CancelOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		var orderID uint
		if _, err := fmt.Sscan(c.Params("orderId"), &orderID); err != nil || orderID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Sipariş id geçersiz")
		}

		// Sipariş başka mağazaya aitse sahiplik dışı erişim engellenir
		var order models.Order
		if err := database.DB.Where("id = ? AND store_id = ?", orderID, storeID).First(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		summaries, err := svc.CancelAndRecalculate(c.Context(), orderID)
		if err != nil {
			switch {
			case errors.Is(err, ErrOrderNotFound):
				return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
			case errors.Is(err, ErrRecalculationFailed):
				// İptal kalıcı; rapor sonradan tekrar sorgulanabilir
				return c.JSON(fiber.Map{
					"cancelled": true,
					"summaries": nil,
					"warning":   "İptal kaydedildi ancak rapor yenilenemedi, raporu tekrar sorgulayın",
				})
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Sipariş iptal edilemedi")
			}
		}

		return c.JSON(fiber.Map{
			"cancelled": true,
			"summaries": summaries,
		})
	}
}
