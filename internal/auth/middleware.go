package auth

import (
	"fmt"
	"strings"

	"dukkan-backend/internal/config"
	"dukkan-backend/internal/database"
	"dukkan-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey = "user_id"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header eksik")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization formatı 'Bearer <token>' olmalı")
		}

		tokenStr := parts[1]

		token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("geçersiz imzalama yöntemi")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Geçersiz veya süresi dolmuş token")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Token çözümlenemedi")
		}

		c.Locals(CtxUserIDKey, claims.UserID)

		return c.Next()
	}
}

// UserID: middleware'in context'e koyduğu kullanıcı id'sini çözer.
func UserID(c *fiber.Ctx) (uint, error) {
	userIDVal := c.Locals(CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
	}
	return userID, nil
}

// RequireStoreOwnership: mağazanın istek sahibine ait olduğunu doğrular ve mağazayı döner.
func RequireStoreOwnership(c *fiber.Ctx, storeID uint) (*models.Store, error) {
	userID, err := UserID(c)
	if err != nil {
		return nil, err
	}

	var store models.Store
	if err := database.DB.First(&store, storeID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Mağaza bulunamadı")
	}
	if store.UserID != userID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Bu mağaza için yetkiniz yok")
	}

	return &store, nil
}
