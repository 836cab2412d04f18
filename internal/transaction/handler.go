package transaction

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
)

type CreateTransactionRequest struct {
	Name          string          `json:"name"`
	Date          string          `json:"date"` // "2025-12-09", boşsa bugün
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	PaymentMethod string          `json:"payment_method"`
	CostCategory  *string         `json:"cost_category"` // Sadece type=cost için
	Description   string          `json:"description"`
}

type TransactionResponse struct {
	ID            uint            `json:"id"`
	StoreID       uint            `json:"store_id"`
	OrderID       *uint           `json:"order_id,omitempty"`
	Name          string          `json:"name"`
	Date          string          `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Category      string          `json:"category"`
	PaymentMethod string          `json:"payment_method"`
	CostCategory  *string         `json:"cost_category,omitempty"`
	Description   string          `json:"description"`
	CreatedAt     string          `json:"created_at"`
}

func toResponse(t *models.Transaction) TransactionResponse {
	res := TransactionResponse{
		ID:            t.ID,
		StoreID:       t.StoreID,
		OrderID:       t.OrderID,
		Name:          t.Name,
		Date:          t.Date.Format("2006-01-02"),
		Amount:        t.Amount,
		Type:          string(t.Type),
		Category:      string(t.Category),
		PaymentMethod: string(t.PaymentMethod),
		Description:   t.Description,
		CreatedAt:     t.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if t.CostCategory != nil {
		cc := string(*t.CostCategory)
		res.CostCategory = &cc
	}
	return res
}

func parseStoreID(c *fiber.Ctx) (uint, error) {
	idStr := c.Params("id")
	var id uint
	if _, err := fmt.Sscan(idStr, &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Mağaza id geçersiz")
	}
	return id, nil
}

// POST /api/stores/:id/transactions
func CreateTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		var body CreateTransactionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İşlem adı boş olamaz")
		}

		txDate := time.Now()
		if body.Date != "" {
			txDate, err = time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date tarihi geçersiz (YYYY-MM-DD)")
			}
		}

		var costCategory *models.CostCategory
		if body.CostCategory != nil {
			cc := models.CostCategory(*body.CostCategory)
			costCategory = &cc
		}

		tx, err := models.NewTransaction(storeID, body.Name, txDate, body.Amount,
			models.TransactionType(body.Type), models.PaymentMethod(body.PaymentMethod), costCategory)
		if err != nil {
			// Doğrulama hataları kullanıcı hatasıdır
			switch {
			case errors.Is(err, models.ErrInvalidTransactionType),
				errors.Is(err, models.ErrInvalidPaymentMethod),
				errors.Is(err, models.ErrInvalidCostCategory),
				errors.Is(err, models.ErrCostCategoryNotAllowed),
				errors.Is(err, models.ErrNonPositiveAmount):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem oluşturulamadı")
		}
		tx.Description = body.Description

		if err := database.DB.Create(tx).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem kaydedilemedi")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(tx))
	}
}

// GET /api/stores/:id/transactions?type=&from=&to=
// Tarih filtreleri opsiyonel; sonuç tarihe göre azalan sıralı.
func ListTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		q := database.DB.Where("store_id = ?", storeID)

		if typeStr := c.Query("type"); typeStr != "" {
			txType := models.TransactionType(typeStr)
			if !txType.Valid() {
				return fiber.NewError(fiber.StatusBadRequest, "type geçersiz")
			}
			q = q.Where("type = ?", txType)
		}
		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from tarihi geçersiz")
			}
			q = q.Where("date >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to tarihi geçersiz")
			}
			q = q.Where("date <= ?", to.Add(24*time.Hour-time.Second))
		}

		var transactions []models.Transaction
		if err := q.Order("date desc").Find(&transactions).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlemler listelenemedi")
		}

		res := make([]TransactionResponse, 0, len(transactions))
		for i := range transactions {
			res = append(res, toResponse(&transactions[i]))
		}

		return c.JSON(res)
	}
}

// GET /api/stores/:id/transactions/:txId
func GetTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		var txID uint
		if _, err := fmt.Sscan(c.Params("txId"), &txID); err != nil || txID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "İşlem id geçersiz")
		}

		var tx models.Transaction
		if err := database.DB.Where("id = ? AND store_id = ?", txID, storeID).First(&tx).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "İşlem bulunamadı")
		}

		return c.JSON(toResponse(&tx))
	}
}

// DELETE /api/stores/:id/transactions/:txId
// İşlemler oluşturulduktan sonra değiştirilemez; yanlış giriş silinip yeniden girilir.
func DeleteTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		var txID uint
		if _, err := fmt.Sscan(c.Params("txId"), &txID); err != nil || txID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "İşlem id geçersiz")
		}

		var tx models.Transaction
		if err := database.DB.Where("id = ? AND store_id = ?", txID, storeID).First(&tx).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "İşlem bulunamadı")
		}

		if err := database.DB.Delete(&tx).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
