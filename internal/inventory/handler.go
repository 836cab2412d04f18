package inventory

import (
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

type CreateInventoryRequest struct {
	IngredientID uint            `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	ExpiryDate   string          `json:"expiry_date"` // YYYY-MM-DD, opsiyonel
}

type StockChangeRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Reason   string          `json:"reason"`
}

func parseStoreID(c *fiber.Ctx) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Mağaza id geçersiz")
	}
	return id, nil
}

func findStoreInventory(c *fiber.Ctx, storeID uint) (*models.Inventory, error) {
	var invID uint
	if _, err := fmt.Sscan(c.Params("inventoryId"), &invID); err != nil || invID == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Stok id geçersiz")
	}

	var inv models.Inventory
	if err := database.DB.Where("id = ? AND store_id = ?", invID, storeID).First(&inv).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "Stok kaydı bulunamadı")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Stok sorgulanamadı")
	}
	return &inv, nil
}

// Stok değişimini miktar güncellemesi + iz kaydıyla tek transaction'da uygular.
func applyStockChange(inv *models.Inventory, logType models.InventoryLogType,
	change decimal.Decimal, reason string, orderID *uint) error {

	return database.DB.Transaction(func(tx *gorm.DB) error {
		before := inv.Quantity
		after := before.Add(change)
		if after.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Stok miktarı negatife düşemez")
		}

		inv.Quantity = after
		if err := tx.Save(inv).Error; err != nil {
			return err
		}

		log := models.InventoryLog{
			InventoryID:    inv.ID,
			OrderID:        orderID,
			LogType:        logType,
			QuantityChange: change,
			BeforeQuantity: before,
			AfterQuantity:  after,
			Reason:         reason,
		}
		return tx.Create(&log).Error
	})
}

// POST /api/stores/:id/inventory
func CreateInventoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		var body CreateInventoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.IngredientID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ingredient_id zorunlu")
		}
		body.Unit = strings.TrimSpace(body.Unit)
		if body.Unit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Birim boş olamaz")
		}
		if body.Quantity.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Miktar negatif olamaz")
		}

		// Malzeme bu mağazanın bir ürününe ait olmalı
		var count int64
		if err := database.DB.Model(&models.Ingredient{}).
			Joins("JOIN products ON products.id = ingredients.product_id").
			Where("ingredients.id = ? AND products.store_id = ?", body.IngredientID, storeID).
			Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme sorgulanamadı")
		}
		if count == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Malzeme bulunamadı")
		}

		inv := models.Inventory{
			StoreID:      storeID,
			IngredientID: body.IngredientID,
			Quantity:     body.Quantity.Round(3),
			Unit:         body.Unit,
		}
		if body.ExpiryDate != "" {
			expiry, err := time.Parse("2006-01-02", body.ExpiryDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Son kullanma tarihi YYYY-MM-DD formatında olmalı")
			}
			inv.ExpiryDate = &expiry
		}

		if err := database.DB.Create(&inv).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok kaydı oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(inv)
	}
}

// GET /api/stores/:id/inventory
func ListInventoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		var items []models.Inventory
		if err := database.DB.Preload("Ingredient").
			Where("store_id = ?", storeID).
			Order("id asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stoklar listelenemedi")
		}

		return c.JSON(items)
	}
}

// GET /api/stores/:id/inventory/expiring?days=7
// Son kullanma tarihi yaklaşan stok kayıtları.
func ExpiringInventoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		days := c.QueryInt("days", 7)
		if days <= 0 || days > 365 {
			return fiber.NewError(fiber.StatusBadRequest, "days 1 ile 365 arasında olmalı")
		}
		deadline := time.Now().AddDate(0, 0, days)

		var items []models.Inventory
		if err := database.DB.Preload("Ingredient").
			Where("store_id = ? AND expiry_date IS NOT NULL AND expiry_date <= ?", storeID, deadline).
			Order("expiry_date asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stoklar listelenemedi")
		}

		return c.JSON(items)
	}
}

// POST /api/stores/:id/inventory/:inventoryId/stock-in
func StockInHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		inv, err := findStoreInventory(c, storeID)
		if err != nil {
			return err
		}

		var body StockChangeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}
		if !body.Quantity.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "Giriş miktarı pozitif olmalı")
		}

		if err := applyStockChange(inv, models.InventoryLogTypeIn,
			body.Quantity.Round(3), body.Reason, nil); err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Stok girişi yapılamadı")
		}

		return c.JSON(inv)
	}
}

// POST /api/stores/:id/inventory/:inventoryId/stock-out
func StockOutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		inv, err := findStoreInventory(c, storeID)
		if err != nil {
			return err
		}

		var body StockChangeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}
		if !body.Quantity.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "Çıkış miktarı pozitif olmalı")
		}

		if err := applyStockChange(inv, models.InventoryLogTypeOut,
			body.Quantity.Round(3).Neg(), body.Reason, nil); err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Stok çıkışı yapılamadı")
		}

		return c.JSON(inv)
	}
}

// GET /api/stores/:id/inventory/:inventoryId/logs
func ListInventoryLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		inv, err := findStoreInventory(c, storeID)
		if err != nil {
			return err
		}

		var logs []models.InventoryLog
		if err := database.DB.Where("inventory_id = ?", inv.ID).
			Order("created_at desc").Limit(100).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok hareketleri listelenemedi")
		}

		return c.JSON(logs)
	}
}

// DELETE /api/stores/:id/inventory/:inventoryId
func DeleteInventoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		inv, err := findStoreInventory(c, storeID)
		if err != nil {
			return err
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("inventory_id = ?", inv.ID).Delete(&models.InventoryLog{}).Error; err != nil {
				return err
			}
			return tx.Delete(inv).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok kaydı silinemedi")
		}

		return c.JSON(fiber.Map{"message": "Stok kaydı silindi"})
	}
}
