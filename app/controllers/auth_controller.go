package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/lumapanel/lumapanel/app/models"
	"github.com/lumapanel/lumapanel/app/repository"
	"github.com/lumapanel/lumapanel/internal/pkg/session"
	"github.com/lumapanel/lumapanel/internal/pkg/usercontext"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new user account.
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if existing, err := repo.GetByEmail(req.Email); err == nil && existing != nil {
		return errConflict(c, "Email already registered")
	}

	user, err := models.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		return errBadRequest(c, err.Error())
	}
	user.Phone = req.Phone

	if err := repo.Create(user); err != nil {
		log.Printf("failed to create user: %v", err)
		return errInternal(c, "Failed to create user")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

// HandleLogin authenticates a user and opens a session.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid credentials"})
		}
		return errInternal(c, "Login failed")
	}

	if !user.CheckPassword(req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid credentials"})
	}

	if !user.IsActive() {
		return errForbidden(c, "Account is not active")
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return errInternal(c, "Session unavailable")
	}
	sess.Set(usercontext.AuthKey, true)
	sess.Set(usercontext.KeyUserID, user.ID)
	sess.Set(usercontext.KeyUsername, user.Name)
	sess.Set(usercontext.KeyIsAdmin, user.IsAdmin())
	sess.Set("prefer_rtl", user.PreferRTL)
	if err := sess.Save(); err != nil {
		return errInternal(c, "Failed to save session")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := repo.Update(user); err != nil {
		log.Printf("failed to update last login for user %d: %v", user.ID, err)
	}

	return c.JSON(fiber.Map{
		"id":       user.ID,
		"name":     user.Name,
		"email":    user.Email,
		"is_admin": user.IsAdmin(),
	})
}

// HandleLogout destroys the current session.
func HandleLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return errInternal(c, "Session unavailable")
	}
	if err := sess.Destroy(); err != nil {
		return errInternal(c, "Failed to destroy session")
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// HandleIssueAPIKey generates a fresh API key for the authenticated user.
// The raw key is only returned once.
func HandleIssueAPIKey(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(userCtx.UserID)
	if err != nil {
		return errNotFound(c, "User not found")
	}

	raw, err := user.GenerateAPIKey()
	if err != nil {
		return errInternal(c, "Failed to generate API key")
	}
	if err := repo.Update(user); err != nil {
		return errInternal(c, "Failed to store API key")
	}

	return c.JSON(fiber.Map{"api_key": raw})
}

// HandleRevokeAPIKey revokes the authenticated user's API key.
func HandleRevokeAPIKey(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(userCtx.UserID)
	if err != nil {
		return errNotFound(c, "User not found")
	}

	if !user.HasValidAPIKey() {
		return errBadRequest(c, "No active API key")
	}

	user.RevokeAPIKey()
	if err := repo.Update(user); err != nil {
		return errInternal(c, "Failed to revoke API key")
	}

	return c.JSON(fiber.Map{"message": "API key revoked"})
}
