package user

import (
	"strings"

	"dukkan-backend/internal/auth"
	"dukkan-backend/internal/database"
	"dukkan-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// GET /api/users/me/profile — önbellekten, yoksa veritabanından
func GetProfileHandler(cache *Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		if profile, ok := cache.Get(c.Context(), userID); ok {
			return c.JSON(profile)
		}

		var u models.User
		if err := database.DB.First(&u, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kullanıcı bulunamadı")
		}

		cache.Set(c.Context(), &u)
		return c.JSON(CachedProfile{ID: u.ID, Name: u.Name, Email: u.Email})
	}
}

// PUT /api/users/me/profile
func UpdateProfileHandler(cache *Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body struct {
			Name     *string `json:"name"`
			Email    *string `json:"email"`
			Password *string `json:"password"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		var u models.User
		if err := database.DB.First(&u, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kullanıcı bulunamadı")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "İsim boş olamaz")
			}
			u.Name = name
		}
		if body.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*body.Email))
			if email == "" || !strings.Contains(email, "@") {
				return fiber.NewError(fiber.StatusBadRequest, "Geçerli bir e-posta girin")
			}
			if email != u.Email {
				var count int64
				database.DB.Model(&models.User{}).Where("email = ?", email).Count(&count)
				if count > 0 {
					return fiber.NewError(fiber.StatusConflict, "Bu e-posta zaten kayıtlı")
				}
				u.Email = email
			}
		}
		if body.Password != nil {
			if len(*body.Password) < 8 {
				return fiber.NewError(fiber.StatusBadRequest, "Parola en az 8 karakter olmalı")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Parola işlenemedi")
			}
			u.PasswordHash = string(hash)
		}

		if err := database.DB.Save(&u).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Profil güncellenemedi")
		}

		// Eski görünüm önbellekten düşürülür, sonraki okuma taze veriyle dolar
		cache.Invalidate(c.Context(), userID)

		return c.JSON(CachedProfile{ID: u.ID, Name: u.Name, Email: u.Email})
	}
}
