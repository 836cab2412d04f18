package ocr

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dukkan-backend/internal/auth"
	"dukkan-backend/internal/database"
	"dukkan-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func parseStoreID(c *fiber.Ctx) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Mağaza id geçersiz")
	}
	return id, nil
}

func findStoreJob(c *fiber.Ctx, storeID uint) (*models.OcrJob, error) {
	jobID := c.Params("jobId")
	if _, err := uuid.Parse(jobID); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "İş id geçersiz")
	}

	var job models.OcrJob
	if err := database.DB.Preload("Products").
		Where("id = ? AND store_id = ?", jobID, storeID).First(&job).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "OCR işi bulunamadı")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "OCR işi sorgulanamadı")
	}
	return &job, nil
}

// POST /api/stores/:id/receipts — multipart "image" alanı
// Görseli kaydeder, OCR'a gönderir, ham yanıtı doküman deposuna yazar ve
// ayrıştırılan kalemleri onay bekleyen fiş kalemleri olarak saklar.
func UploadReceiptHandler(client Client, artifacts *ArtifactStore, imageDir string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		file, err := c.FormFile("image")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "image alanı zorunlu")
		}

		ext := strings.ToLower(filepath.Ext(file.Filename))
		switch ext {
		case ".jpg", ".jpeg", ".png":
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Yalnızca jpg, jpeg ve png desteklenir")
		}

		jobID := uuid.NewString()
		if err := os.MkdirAll(imageDir, 0o755); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Görsel klasörü oluşturulamadı")
		}
		imagePath := filepath.Join(imageDir, jobID+ext)
		if err := c.SaveFile(file, imagePath); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Görsel kaydedilemedi")
		}

		job := models.OcrJob{
			ID:        jobID,
			StoreID:   storeID,
			ImagePath: imagePath,
			Status:    models.OcrJobStatusPending,
		}
		if err := database.DB.Create(&job).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "OCR işi oluşturulamadı")
		}

		job.Status = models.OcrJobStatusProcessing
		database.DB.Save(&job)

		result, err := client.RecognizeReceipt(c.Context(), imagePath)
		if err != nil {
			job.Status = models.OcrJobStatusFailed
			job.ErrorMessage = err.Error()
			database.DB.Save(&job)
			return fiber.NewError(fiber.StatusBadGateway, "Fiş okunamadı, daha net bir görsel deneyin")
		}

		artifactID, err := artifacts.Save(c.Context(), jobID, storeID, result.Raw)
		if err != nil {
			job.Status = models.OcrJobStatusFailed
			job.ErrorMessage = err.Error()
			database.DB.Save(&job)
			return fiber.NewError(fiber.StatusInternalServerError, "OCR çıktısı saklanamadı")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			for _, item := range result.Items {
				rp := models.ReceiptProduct{
					OcrJobID:   jobID,
					Name:       item.Name,
					Quantity:   item.Quantity.Round(3),
					UnitPrice:  item.UnitPrice.Round(2),
					TotalPrice: item.TotalPrice.Round(2),
				}
				if err := tx.Create(&rp).Error; err != nil {
					return err
				}
			}
			job.Status = models.OcrJobStatusCompleted
			job.ArtifactID = artifactID
			job.ErrorMessage = ""
			return tx.Save(&job).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fiş kalemleri kaydedilemedi")
		}

		database.DB.Preload("Products").First(&job, "id = ?", jobID)
		return c.Status(fiber.StatusCreated).JSON(job)
	}
}

// GET /api/stores/:id/receipts/:jobId
func GetReceiptJobHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		job, err := findStoreJob(c, storeID)
		if err != nil {
			return err
		}

		return c.JSON(job)
	}
}

// GET /api/stores/:id/receipts
func ListReceiptJobsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		var jobs []models.OcrJob
		if err := database.DB.Where("store_id = ?", storeID).
			Order("created_at desc").Limit(50).Find(&jobs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "OCR işleri listelenemedi")
		}

		return c.JSON(jobs)
	}
}

// POST /api/stores/:id/receipts/:jobId/confirm
// Fiş kalemlerini onaylar ve toplamı malzeme gideri olarak işler.
func ConfirmReceiptHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		job, err := findStoreJob(c, storeID)
		if err != nil {
			return err
		}
		if job.Status != models.OcrJobStatusCompleted {
			return fiber.NewError(fiber.StatusConflict, "Yalnızca tamamlanmış işler onaylanabilir")
		}

		total := decimal.Zero
		var pending []models.ReceiptProduct
		for _, p := range job.Products {
			if p.Confirmed {
				continue
			}
			pending = append(pending, p)
			total = total.Add(p.TotalPrice)
		}
		if len(pending) == 0 {
			return fiber.NewError(fiber.StatusConflict, "Onaylanacak kalem kalmadı")
		}
		if !total.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "Fiş toplamı pozitif olmalı")
		}

		costCat := models.CostCategoryMaterial
		costTx, err := models.NewTransaction(storeID,
			fmt.Sprintf("Fiş gideri (%d kalem)", len(pending)),
			time.Now(), total,
			models.TransactionTypeCost, models.PaymentMethodOther, &costCat)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gider kaydı oluşturulamadı")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(costTx).Error; err != nil {
				return err
			}
			for i := range pending {
				pending[i].Confirmed = true
				if err := tx.Save(&pending[i]).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fiş onaylanamadı")
		}

		return c.JSON(fiber.Map{
			"message":        "Fiş onaylandı, gider kaydedildi",
			"transaction_id": costTx.ID,
			"total_amount":   total,
		})
	}
}
