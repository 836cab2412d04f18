package store

import (
	"fmt"
	"strings"

	"dukkan-backend/internal/auth"
	"dukkan-backend/internal/database"
	"dukkan-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type StoreResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	BusinessRegistrationNumber string `json:"business_registration_number"`
	OpeningHours string `json:"opening_hours"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at"`
}

type CreateStoreRequest struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Phone       *string `json:"phone"` // Opsiyonel
	Email       *string `json:"email"`
	BusinessRegistrationNumber *string `json:"business_registration_number"`
	OpeningHours *string `json:"opening_hours"`
}

type UpdateStoreRequest struct {
	Name        *string `json:"name"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	BusinessRegistrationNumber *string `json:"business_registration_number"`
	OpeningHours *string `json:"opening_hours"`
	IsActive     *bool   `json:"is_active"`
}

func toResponse(s *models.Store) StoreResponse {
	return StoreResponse{
		ID:          s.ID,
		Name:        s.Name,
		Location:    s.Location,
		Description: s.Description,
		Phone:       s.Phone,
		Email:       s.Email,
		BusinessRegistrationNumber: s.BusinessRegistrationNumber,
		OpeningHours: s.OpeningHours,
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func parseStoreID(c *fiber.Ctx) (uint, error) {
	idStr := c.Params("id")
	var id uint
	if _, err := fmt.Sscan(idStr, &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Mağaza id geçersiz")
	}
	return id, nil
}

func CreateStoreHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CreateStoreRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Mağaza adı boş olamaz")
		}

		store := models.Store{
			UserID:      userID,
			Name:        body.Name,
			Location:    body.Location,
			Description: body.Description,
			IsActive:    true,
		}
		if body.Phone != nil {
			store.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Email != nil {
			store.Email = strings.TrimSpace(strings.ToLower(*body.Email))
		}
		if body.BusinessRegistrationNumber != nil {
			store.BusinessRegistrationNumber = strings.TrimSpace(*body.BusinessRegistrationNumber)
		}
		if body.OpeningHours != nil {
			store.OpeningHours = *body.OpeningHours
		}

		if err := database.DB.Create(&store).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mağaza oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&store))
	}
}

func ListStoresHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var stores []models.Store
		if err := database.DB.Where("user_id = ?", userID).Order("id asc").Find(&stores).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mağazalar listelenemedi")
		}

		res := make([]StoreResponse, 0, len(stores))
		for i := range stores {
			res = append(res, toResponse(&stores[i]))
		}

		return c.JSON(res)
	}
}

func GetStoreHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}

		store, err := auth.RequireStoreOwnership(c, storeID)
		if err != nil {
			return err
		}

		return c.JSON(toResponse(store))
	}
}

func UpdateStoreHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}

		store, err := auth.RequireStoreOwnership(c, storeID)
		if err != nil {
			return err
		}

		var body UpdateStoreRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Mağaza adı boş olamaz")
			}
			store.Name = name
		}
		if body.Location != nil {
			store.Location = *body.Location
		}
		if body.Description != nil {
			store.Description = *body.Description
		}
		if body.Phone != nil {
			store.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Email != nil {
			store.Email = strings.TrimSpace(strings.ToLower(*body.Email))
		}
		if body.BusinessRegistrationNumber != nil {
			store.BusinessRegistrationNumber = strings.TrimSpace(*body.BusinessRegistrationNumber)
		}
		if body.OpeningHours != nil {
			store.OpeningHours = *body.OpeningHours
		}
		if body.IsActive != nil {
			store.IsActive = *body.IsActive
		}

		if err := database.DB.Save(store).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mağaza güncellenemedi")
		}

		return c.JSON(toResponse(store))
	}
}

func DeleteStoreHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := parseStoreID(c)
		if err != nil {
			return err
		}

		store, err := auth.RequireStoreOwnership(c, storeID)
		if err != nil {
			return err
		}

		if err := database.DB.Delete(store).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mağaza silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
