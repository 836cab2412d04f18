package analytics

import (
	"errors"
	"fmt"
	"log"
	"time"

	"dukkan-backend/internal/auth"
	"dukkan-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func parseStoreID(c *fiber.Ctx) (uint, error) {
	idStr := c.Params("id")
	var id uint
	if _, err := fmt.Sscan(idStr, &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Mağaza id geçersiz")
	}
	return id, nil
}

// Tarih parametresi boşsa bugün kabul edilir.
func parseDateOrToday(c *fiber.Ctx, key string) (time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return time.Now(), nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, key+" tarihi geçersiz (YYYY-MM-DD)")
	}
	return t, nil
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, ErrStoreNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Mağaza bulunamadı")
	case errors.Is(err, ErrInvalidDateRange):
		return fiber.NewError(fiber.StatusBadRequest, "Bitiş tarihi başlangıç tarihinden önce olamaz")
	case errors.Is(err, ErrInvalidGranularity):
		return fiber.NewError(fiber.StatusBadRequest, "granularity day, week veya month olmalı")
	default:
		log.Println("Finansal özet hatası:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Finansal özet hesaplanamadı")
	}
}

// GET /api/stores/:id/financials?start=YYYY-MM-DD&end=YYYY-MM-DD&granularity=day|week|month
// Periyot bazlı finansal özet. Tarihler verilmezse bugün, granularity verilmezse gün.
func FinancialsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		start, err := parseDateOrToday(c, "start")
		if err != nil {
			return err
		}
		end, err := parseDateOrToday(c, "end")
		if err != nil {
			return err
		}

		granularity := models.Granularity(c.Query("granularity", string(models.GranularityDay)))

		summaries, err := svc.ComputeFinancials(c.Context(), storeID, start, end, granularity)
		if err != nil {
			return mapServiceError(err)
		}

		return c.JSON(summaries)
	}
}

// GET /api/stores/:id/financials/trailing?days=30&granularity=day
// Bugünle biten kayan pencere raporu.
func TrailingFinancialsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		days := c.QueryInt("days", 30)
		if days <= 0 || days > 365 {
			return fiber.NewError(fiber.StatusBadRequest, "days 1-365 aralığında olmalı")
		}

		granularity := models.Granularity(c.Query("granularity", string(models.GranularityDay)))

		summaries, err := svc.ComputeTrailing(c.Context(), storeID, days, granularity)
		if err != nil {
			return mapServiceError(err)
		}

		return c.JSON(summaries)
	}
}

// GET /api/stores/:id/analytics?start=YYYY-MM-DD&end=YYYY-MM-DD
// Aralık toplamı bazlı satış analizi (kova yok).
func SalesAnalyticsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		if _, err := auth.RequireStoreOwnership(c, storeID); err != nil {
			return err
		}

		start, err := parseDateOrToday(c, "start")
		if err != nil {
			return err
		}
		end, err := parseDateOrToday(c, "end")
		if err != nil {
			return err
		}

		res, err := svc.Analyze(c.Context(), storeID, start, end)
		if err != nil {
			return mapServiceError(err)
		}

		return c.JSON(res)
	}
}
