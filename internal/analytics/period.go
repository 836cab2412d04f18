package analytics

import (
	"time"

	"dukkan-backend/internal/models"
)

// bucketStart: zaman damgasını istenen periyodun başlangıcına indirger.
// Hafta ISO kuralına göre Pazartesi başlar.
func bucketStart(t time.Time, g models.Granularity) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())

	switch g {
	case models.GranularityWeek:
		daysFromMonday := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -daysFromMonday)
	case models.GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return day
	}
}

// periodLabel: rapor satırında görünen periyot etiketi.
// Gün ve hafta için tarih (haftada Pazartesi), ay için "YYYY-MM".
func periodLabel(start time.Time, g models.Granularity) string {
	if g == models.GranularityMonth {
		return start.Format("2006-01")
	}
	return start.Format("2006-01-02")
}
