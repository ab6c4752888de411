package server

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Signup handles POST /api/auth/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Surname  string `json:"surname"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewBadRequestError("Invalid request body"))
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return fail(c, models.NewBadRequestError("Username, email, and password are required"))
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		return fail(c, models.NewBadRequestError(err.Error()))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return fail(c, models.NewBadRequestError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return fail(c, models.NewBadRequestError(err.Error()))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fail(c, models.NewInternalError(err))
	}

	var user *models.User
	err = s.uow.Do(c.UserContext(), func(tx *repository.Tx) error {
		if existing, err := tx.Users.GetByEmail(c.UserContext(), req.Email); err != nil {
			return err
		} else if existing != nil {
			return models.NewConflictError("A user with this email already exists")
		}
		if existing, err := tx.Users.GetByUsername(c.UserContext(), req.Username); err != nil {
			return err
		} else if existing != nil {
			return models.NewConflictError("This username is taken")
		}

		role, err := tx.Roles.GetByName(c.UserContext(), models.RoleAuthor)
		if err != nil {
			return err
		}
		if role == nil {
			return models.NewInternalError(fmt.Errorf("role %q is not seeded", models.RoleAuthor))
		}

		user = &models.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: string(hash),
			Name:         strings.TrimSpace(req.Name),
			Surname:      strings.TrimSpace(req.Surname),
			RoleID:       role.ID,
			IsActive:     true,
		}
		if err := tx.Users.Create(c.UserContext(), user); err != nil {
			if repository.IsUniqueViolation(err) {
				return models.NewConflictError("A user with this email or username already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return fail(c, err)
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return fail(c, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  toUserSummaryView(user),
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewBadRequestError("Invalid request body"))
	}

	user, err := s.uow.Repos().Users.GetByEmail(c.UserContext(), strings.TrimSpace(req.Email))
	if err != nil {
		return fail(c, err)
	}
	if user == nil || !user.IsActive {
		return fail(c, models.NewUnauthorizedError("Invalid credentials"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return fail(c, models.NewUnauthorizedError("Invalid credentials"))
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return fail(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  toUserSummaryView(user),
	})
}

// ChangePassword handles PUT /api/me/password
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewBadRequestError("Invalid request body"))
	}
	if err := validation.ValidatePassword(req.NewPassword); err != nil {
		return fail(c, models.NewBadRequestError(err.Error()))
	}

	userID := currentUserID(c)
	err := s.uow.Do(c.UserContext(), func(tx *repository.Tx) error {
		user, err := tx.Users.GetByID(c.UserContext(), userID)
		if err != nil {
			return err
		}
		if user == nil {
			return models.NewUnauthorizedError("Account no longer exists")
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
			return models.NewUnauthorizedError("Current password is incorrect")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return models.NewInternalError(err)
		}
		now := time.Now()
		user.PasswordHash = string(hash)
		user.UpdatedAt = &now
		return tx.Users.Update(c.UserContext(), user)
	})
	if err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// generateToken creates a JWT token for the given user ID and username
func (s *Server) generateToken(userID uint, username string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      "quill-api",
		"aud":      "quill-client",
		"exp":      now.Add(time.Hour * 24 * 7).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
