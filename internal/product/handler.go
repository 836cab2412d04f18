package product

import (
	"fmt"
	"strings"

	"dukkan-backend/internal/auth"
	"dukkan-backend/internal/database"
	"dukkan-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	IsActive *bool           `json:"is_active"`
}

type IngredientRequest struct {
	Name             string          `json:"name"`
	AmountPerProduct decimal.Decimal `json:"amount_per_product"`
	Unit             string          `json:"unit"`
}

func parseStoreID(c *fiber.Ctx) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Mağaza id geçersiz")
	}
	return id, nil
}

// Ürünün hem var olduğunu hem de istenen mağazaya ait olduğunu doğrular.
func findStoreProduct(c *fiber.Ctx, storeID uint) (*models.Product, error) {
	var productID uint
	if _, err := fmt.Sscan(c.Params("productId"), &productID); err != nil || productID == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Ürün id geçersiz")
	}

	var product models.Product
	if err := database.DB.Where("id = ? AND store_id = ?", productID, storeID).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Ürün sorgulanamadı")
	}
	return &product, nil
}

// POST /api/stores/:id/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün adı boş olamaz")
		}
		if body.Price.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Fiyat negatif olamaz")
		}

		product := models.Product{
			StoreID:  storeID,
			Name:     body.Name,
			Price:    body.Price.Round(2),
			Category: strings.TrimSpace(body.Category),
			IsActive: true,
		}
		if body.IsActive != nil {
			product.IsActive = *body.IsActive
		}

		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(product)
	}
}

// GET /api/stores/:id/products
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		q := database.DB.Where("store_id = ?", storeID)
		if c.QueryBool("active_only", false) {
			q = q.Where("is_active = ?", true)
		}
		if category := c.Query("category"); category != "" {
			q = q.Where("category = ?", category)
		}

		var products []models.Product
		if err := q.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		return c.JSON(products)
	}
}

// GET /api/stores/:id/products/:productId — reçetesiyle birlikte
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		product, err := findStoreProduct(c, storeID)
		if err != nil {
			return err
		}

		if err := database.DB.Preload("Ingredients").First(product, product.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün sorgulanamadı")
		}

		return c.JSON(product)
	}
}

// PUT /api/stores/:id/products/:productId
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		product, err := findStoreProduct(c, storeID)
		if err != nil {
			return err
		}

		var body struct {
			Name     *string          `json:"name"`
			Price    *decimal.Decimal `json:"price"`
			Category *string          `json:"category"`
			IsActive *bool            `json:"is_active"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Ürün adı boş olamaz")
			}
			product.Name = name
		}
		if body.Price != nil {
			if body.Price.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "Fiyat negatif olamaz")
			}
			product.Price = body.Price.Round(2)
		}
		if body.Category != nil {
			product.Category = strings.TrimSpace(*body.Category)
		}
		if body.IsActive != nil {
			product.IsActive = *body.IsActive
		}

		if err := database.DB.Save(product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		return c.JSON(product)
	}
}

// DELETE /api/stores/:id/products/:productId — reçete kayıtlarıyla birlikte
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		product, err := findStoreProduct(c, storeID)
		if err != nil {
			return err
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.Ingredient{}).Error; err != nil {
				return err
			}
			return tx.Delete(product).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		return c.JSON(fiber.Map{"message": "Ürün silindi"})
	}
}

// POST /api/stores/:id/products/:productId/ingredients
func AddIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		product, err := findStoreProduct(c, storeID)
		if err != nil {
			return err
		}

		var body IngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Unit = strings.TrimSpace(body.Unit)
		if body.Name == "" || body.Unit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Malzeme adı ve birimi boş olamaz")
		}
		if !body.AmountPerProduct.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün başına miktar pozitif olmalı")
		}

		ingredient := models.Ingredient{
			ProductID:        product.ID,
			Name:             body.Name,
			AmountPerProduct: body.AmountPerProduct.Round(3),
			Unit:             body.Unit,
		}

		if err := database.DB.Create(&ingredient).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme eklenemedi")
		}

		return c.Status(fiber.StatusCreated).JSON(ingredient)
	}
}

// PUT /api/stores/:id/products/:productId/ingredients/:ingredientId
func UpdateIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		product, err := findStoreProduct(c, storeID)
		if err != nil {
			return err
		}

		var ingredientID uint
		if _, err := fmt.Sscan(c.Params("ingredientId"), &ingredientID); err != nil || ingredientID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Malzeme id geçersiz")
		}

		var ingredient models.Ingredient
		if err := database.DB.Where("id = ? AND product_id = ?", ingredientID, product.ID).
			First(&ingredient).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Malzeme bulunamadı")
		}

		var body struct {
			Name             *string          `json:"name"`
			AmountPerProduct *decimal.Decimal `json:"amount_per_product"`
			Unit             *string          `json:"unit"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Malzeme adı boş olamaz")
			}
			ingredient.Name = name
		}
		if body.AmountPerProduct != nil {
			if !body.AmountPerProduct.IsPositive() {
				return fiber.NewError(fiber.StatusBadRequest, "Ürün başına miktar pozitif olmalı")
			}
			ingredient.AmountPerProduct = body.AmountPerProduct.Round(3)
		}
		if body.Unit != nil {
			unit := strings.TrimSpace(*body.Unit)
			if unit == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Birim boş olamaz")
			}
			ingredient.Unit = unit
		}

		if err := database.DB.Save(&ingredient).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme güncellenemedi")
		}

		return c.JSON(ingredient)
	}
}

// DELETE /api/stores/:id/products/:productId/ingredients/:ingredientId
func DeleteIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		product, err := findStoreProduct(c, storeID)
		if err != nil {
			return err
		}

		var ingredientID uint
		if _, err := fmt.Sscan(c.Params("ingredientId"), &ingredientID); err != nil || ingredientID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Malzeme id geçersiz")
		}

		result := database.DB.Where("id = ? AND product_id = ?", ingredientID, product.ID).
			Delete(&models.Ingredient{})
		if result.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme silinemedi")
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Malzeme bulunamadı")
		}

		return c.JSON(fiber.Map{"message": "Malzeme silindi"})
	}
}
