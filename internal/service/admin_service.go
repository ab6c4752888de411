package service

import (
	"context"
	"strings"
	"time"

	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/validation"
)

// AdminUpdateUserInput carries a partial administrative user update. Nil
// fields are left untouched.
type AdminUpdateUserInput struct {
	Name     *string `json:"name"`
	Surname  *string `json:"surname"`
	Username *string `json:"username"`
	IsActive *bool   `json:"is_active"`
}

// AdminService provides user administration: profile edits on any account,
// role changes, and account deactivation. Callers are expected to have
// verified the Admin role already.
type AdminService struct {
	uow repository.UnitOfWork
}

// NewAdminService returns a new AdminService.
func NewAdminService(uow repository.UnitOfWork) *AdminService {
	return &AdminService{uow: uow}
}

// UpdateUser applies a partial update to any user's account.
func (s *AdminService) UpdateUser(ctx context.Context, userID uint, in AdminUpdateUserInput) (*models.User, error) {
	var updated *models.User
	err := s.uow.Do(ctx, func(tx *repository.Tx) error {
		user, err := tx.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return models.NewNotFoundError("User", userID)
		}

		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return models.NewBadRequestError("Name cannot be empty")
			}
			user.Name = name
		}
		if in.Surname != nil {
			user.Surname = strings.TrimSpace(*in.Surname)
		}
		if in.Username != nil {
			username := strings.TrimSpace(*in.Username)
			if err := validation.ValidateUsername(username); err != nil {
				return models.NewBadRequestError(err.Error())
			}
			other, err := tx.Users.GetByUsername(ctx, username)
			if err != nil {
				return err
			}
			if other != nil && other.ID != userID {
				return models.NewConflictError("Username is already taken")
			}
			user.Username = username
		}
		if in.IsActive != nil {
			user.IsActive = *in.IsActive
		}

		now := time.Now()
		user.UpdatedAt = &now
		if err := tx.Users.Update(ctx, user); err != nil {
			if repository.IsUniqueViolation(err) {
				return models.NewConflictError("Username is already taken")
			}
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ChangeRole moves a user into the role with the given id. A role id with no
// matching row is a bad request, not a not-found.
func (s *AdminService) ChangeRole(ctx context.Context, userID, roleID uint) error {
	return s.uow.Do(ctx, func(tx *repository.Tx) error {
		user, err := tx.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return models.NewNotFoundError("User", userID)
		}

		role, err := tx.Roles.GetByID(ctx, roleID)
		if err != nil {
			return err
		}
		if role == nil {
			return models.NewBadRequestError("Role does not exist")
		}

		now := time.Now()
		user.RoleID = role.ID
		user.Role = *role
		user.UpdatedAt = &now
		return tx.Users.Update(ctx, user)
	})
}

// DeactivateUser soft-deletes an account. The row stays so authored posts
// keep their author; login is refused for inactive users.
func (s *AdminService) DeactivateUser(ctx context.Context, userID uint) error {
	return s.uow.Do(ctx, func(tx *repository.Tx) error {
		user, err := tx.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return models.NewNotFoundError("User", userID)
		}

		now := time.Now()
		user.IsActive = false
		user.UpdatedAt = &now
		return tx.Users.Update(ctx, user)
	})
}

// ListRoles returns every role.
func (s *AdminService) ListRoles(ctx context.Context) ([]models.Role, error) {
	return s.uow.Repos().Roles.List(ctx)
}

// GetRole returns the role, or nil when no such role exists.
func (s *AdminService) GetRole(ctx context.Context, id uint) (*models.Role, error) {
	return s.uow.Repos().Roles.GetByID(ctx, id)
}

// GetRoleByName returns the role with the given name, or nil.
func (s *AdminService) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	return s.uow.Repos().Roles.GetByName(ctx, name)
}
