package server

import (
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AdminRequired gates a route group to callers whose account holds the Admin
// role. It runs after AuthRequired, so the caller id is already in locals.
func (s *Server) AdminRequired(c *fiber.Ctx) error {
	user, err := s.uow.Repos().Users.GetByID(c.UserContext(), currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	if user == nil || !user.IsActive {
		return fail(c, models.NewUnauthorizedError("Account no longer exists"))
	}
	if user.Role.Name != models.RoleAdmin {
		return fail(c, models.NewForbiddenError("Administrator access required"))
	}
	return c.Next()
}

// AdminGetUser handles GET /api/admin/users/:userId
func (s *Server) AdminGetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetByID(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	if user == nil {
		return fail(c, models.NewNotFoundError("User", id))
	}
	return c.JSON(user)
}

// AdminUpdateUser handles PUT /api/admin/users/:userId
func (s *Server) AdminUpdateUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	var req service.AdminUpdateUserInput
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewBadRequestError("Invalid request body"))
	}

	user, err := s.adminService.UpdateUser(c.UserContext(), id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// AdminChangeUserRole handles PUT /api/admin/users/:userId/role
func (s *Server) AdminChangeUserRole(c *fiber.Ctx) error {
	id, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	var req struct {
		RoleID uint `json:"role_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewBadRequestError("Invalid request body"))
	}

	if err := s.adminService.ChangeRole(c.UserContext(), id, req.RoleID); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminDeactivateUser handles DELETE /api/admin/users/:userId
func (s *Server) AdminDeactivateUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.adminService.DeactivateUser(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListRoles handles GET /api/roles
func (s *Server) ListRoles(c *fiber.Ctx) error {
	roles, err := s.adminService.ListRoles(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	if roles == nil {
		roles = []models.Role{}
	}
	return c.JSON(roles)
}

// GetRole handles GET /api/roles/:id
func (s *Server) GetRole(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	role, err := s.adminService.GetRole(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	if role == nil {
		return fail(c, models.NewNotFoundError("Role", id))
	}
	return c.JSON(role)
}

// GetRoleByName handles GET /api/roles/by-name/:name
func (s *Server) GetRoleByName(c *fiber.Ctx) error {
	name := c.Params("name")
	role, err := s.adminService.GetRoleByName(c.UserContext(), name)
	if err != nil {
		return fail(c, err)
	}
	if role == nil {
		return fail(c, &models.AppError{Code: models.CodeNotFound, Message: "Role not found"})
	}
	return c.JSON(role)
}
