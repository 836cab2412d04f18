package database

import (
	"log"

	"dukkan-backend/internal/config"
	"dukkan-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Store{},
		&models.Product{},
		&models.Ingredient{},
		&models.Inventory{},
		&models.InventoryLog{},
		&models.Order{},
		&models.Transaction{},
		&models.OcrJob{},
		&models.ReceiptProduct{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
