package models

import "time"

type Store struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"index;not null"`
	User        User
	Name        string `gorm:"size:100;not null"`
	Location    string `gorm:"size:255"`
	Description string `gorm:"size:255"`
	Phone       string `gorm:"size:50"`  // Opsiyonel telefon
	Email       string `gorm:"size:100"` // Opsiyonel iletişim e-postası
	BusinessRegistrationNumber string `gorm:"size:50"` // Vergi/işletme sicil no
	OpeningHours string `gorm:"size:100"`
	IsActive     bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Products     []Product
	Transactions []Transaction
}
