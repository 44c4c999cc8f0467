package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/LwandleM/SafeSuburb/app/models"
	"github.com/LwandleM/SafeSuburb/app/repository"
	"github.com/LwandleM/SafeSuburb/internal/pkg/session"
	"github.com/LwandleM/SafeSuburb/internal/pkg/usercontext"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new, unapproved account.
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "Invalid request body",
		})
	}

	user, err := models.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		return errorResponse(c, err)
	}
	user.Phone = req.Phone
	user.Location = req.Location

	repo := repository.GetGlobalFactory().GetRepositories().User
	if _, err := repo.GetByEmail(req.Email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "conflict",
			"message": "An account with this email already exists",
		})
	}

	// The pre-check above races with concurrent registrations; the unique
	// key on email is the authoritative answer and maps to the same 409.
	if err := repo.Create(user); err != nil {
		if !errors.Is(err, repository.ErrDuplicateEmail) {
			log.Errorf("[Auth] creating account for %s: %v", req.Email, err)
		}
		return errorResponse(c, err)
	}

	log.Infof("[Auth] new account %d (%s) awaiting approval", user.ID, user.Email)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       user.ID,
		"name":     user.Name,
		"email":    user.Email,
		"approved": user.Approved,
	})
}

// HandleLogin verifies credentials and opens a session.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "Invalid request body",
		})
	}

	repo := repository.GetGlobalFactory().GetRepositories().User
	user, err := repo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalidCredentials(c)
		}
		return errorResponse(c, err)
	}

	if !user.CheckPassword(req.Password) {
		return invalidCredentials(c)
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return errorResponse(c, err)
	}
	sess.Set(session.KeyUserID, user.ID)
	sess.Set(session.KeyUserName, user.Name)
	sess.Set(session.KeyUserRole, user.Role)
	sess.Set(session.KeyApproved, strconv.FormatBool(user.Approved))
	if err := sess.Save(); err != nil {
		return errorResponse(c, err)
	}

	if err := repo.UpdateLastLogin(user.ID, time.Now()); err != nil {
		log.Warnf("[Auth] recording last login for %d: %v", user.ID, err)
	}

	return c.JSON(fiber.Map{
		"id":       user.ID,
		"name":     user.Name,
		"role":     user.Role,
		"approved": user.Approved,
	})
}

func invalidCredentials(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":   "unauthorized",
		"message": "Invalid email or password",
	})
}

// HandleLogout tears down the session and drops the user's live feeds.
func HandleLogout(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		if derr := sess.Destroy(); derr != nil {
			log.Warnf("[Auth] destroying session for %d: %v", userID, derr)
		}
	}

	if userID != 0 && deps.Feeds != nil {
		deps.Feeds.DropUser(userID)
	}

	return c.JSON(fiber.Map{"message": "logged out"})
}

// HandleMe returns the authenticated user's account.
func HandleMe(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	if !uc.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}

	repo := repository.GetGlobalFactory().GetRepositories().User
	user, err := repo.GetByID(uc.UserID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"phone":         user.Phone,
		"location":      user.Location,
		"role":          user.Role,
		"approved":      user.Approved,
		"last_login_at": user.LastLoginAt,
		"created_at":    user.CreatedAt,
	})
}
