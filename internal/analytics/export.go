package analytics

import (
	"fmt"

	"dukkan-backend/internal/auth"
	"dukkan-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

var exportColumns = []string{
	"Periyot", "Kart Ciro", "Nakit Ciro", "Diğer Ciro", "Brüt Ciro",
	"İade", "Malzeme Maliyeti", "Sabit Maliyet", "Diğer Maliyet",
	"Toplam Maliyet", "Vergi", "Net Kar", "Kar Marjı (%)",
}

// GET /api/stores/:id/financials/export?start=...&end=...&granularity=...
// Periyot özetlerini Excel dosyası olarak indirir.
func ExportFinancialsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}
		store, err := auth.RequireStoreOwnership(c, storeID)
		if err != nil {
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

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Finansal Özet"
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
		}

		for i, col := range exportColumns {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, col)
		}

		for row, s := range summaries {
			values := []interface{}{
				s.Period,
				s.CardRevenue.InexactFloat64(),
				s.CashRevenue.InexactFloat64(),
				s.OtherRevenue.InexactFloat64(),
				s.GrossRevenue.InexactFloat64(),
				s.RefundAmount.InexactFloat64(),
				s.MaterialCost.InexactFloat64(),
				s.FixedCost.InexactFloat64(),
				s.OtherCost.InexactFloat64(),
				s.TotalCost.InexactFloat64(),
				s.TaxAmount.InexactFloat64(),
				s.NetProfit.InexactFloat64(),
				s.ProfitMargin.InexactFloat64(),
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				f.SetCellValue(sheet, cell, v)
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası yazılamadı")
		}

		filename := fmt.Sprintf("finansal-ozet-%s-%s.xlsx", store.Name, start.Format("2006-01-02"))
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		return c.Send(buf.Bytes())
	}
}
