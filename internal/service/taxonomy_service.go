package service

import (
	"context"
	"strings"
	"time"

	"quill/internal/models"
	"quill/internal/repository"
)

// CategoryService provides category management.
type CategoryService struct {
	uow repository.UnitOfWork
}

// NewCategoryService returns a new CategoryService.
func NewCategoryService(uow repository.UnitOfWork) *CategoryService {
	return &CategoryService{uow: uow}
}

// List returns every category with its computed post count.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.uow.Repos().Categories.List(ctx)
}

// GetByID returns the category with its computed post count.
func (s *CategoryService) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.uow.Repos().Categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, models.NewNotFoundError("Category", id)
	}
	count, err := s.uow.Repos().Posts.CountByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	category.PostCount = count
	return category, nil
}

// Create adds a new category. Names are unique.
func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewBadRequestError("Name is required")
	}

	category := &models.Category{Name: name}
	err := s.uow.Do(ctx, func(tx *repository.Tx) error {
		existing, err := tx.Categories.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return models.NewConflictError("A category with this name already exists")
		}
		if err := tx.Categories.Create(ctx, category); err != nil {
			if repository.IsUniqueViolation(err) {
				return models.NewConflictError("A category with this name already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Rename changes the category name, keeping names unique.
func (s *CategoryService) Rename(ctx context.Context, id uint, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewBadRequestError("Name is required")
	}

	var updated *models.Category
	err := s.uow.Do(ctx, func(tx *repository.Tx) error {
		category, err := tx.Categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if category == nil {
			return models.NewNotFoundError("Category", id)
		}

		other, err := tx.Categories.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if other != nil && other.ID != id {
			return models.NewConflictError("A category with this name already exists")
		}

		now := time.Now()
		category.Name = name
		category.UpdatedAt = &now
		if err := tx.Categories.Update(ctx, category); err != nil {
			return err
		}
		updated = category
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an empty category. Categories still holding posts are kept.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.uow.Do(ctx, func(tx *repository.Tx) error {
		category, err := tx.Categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if category == nil {
			return models.NewNotFoundError("Category", id)
		}
		count, err := tx.Posts.CountByCategory(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return models.NewConflictError("Category still has posts")
		}
		return tx.Categories.Delete(ctx, category)
	})
}

// TagService provides tag management.
type TagService struct {
	uow repository.UnitOfWork
}

// NewTagService returns a new TagService.
func NewTagService(uow repository.UnitOfWork) *TagService {
	return &TagService{uow: uow}
}

// List returns every tag with its computed post count.
func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	return s.uow.Repos().Tags.List(ctx)
}

// GetByID returns the tag with its computed post count.
func (s *TagService) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	tag, err := s.uow.Repos().Tags.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, models.NewNotFoundError("Tag", id)
	}
	count, err := s.uow.Repos().Tags.CountPosts(ctx, id)
	if err != nil {
		return nil, err
	}
	tag.PostCount = count
	return tag, nil
}

// Create adds a new tag. Names are unique.
func (s *TagService) Create(ctx context.Context, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewBadRequestError("Name is required")
	}

	tag := &models.Tag{Name: name}
	err := s.uow.Do(ctx, func(tx *repository.Tx) error {
		existing, err := tx.Tags.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return models.NewConflictError("A tag with this name already exists")
		}
		if err := tx.Tags.Create(ctx, tag); err != nil {
			if repository.IsUniqueViolation(err) {
				return models.NewConflictError("A tag with this name already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// Rename changes the tag name, keeping names unique.
func (s *TagService) Rename(ctx context.Context, id uint, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewBadRequestError("Name is required")
	}

	var updated *models.Tag
	err := s.uow.Do(ctx, func(tx *repository.Tx) error {
		tag, err := tx.Tags.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if tag == nil {
			return models.NewNotFoundError("Tag", id)
		}

		other, err := tx.Tags.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if other != nil && other.ID != id {
			return models.NewConflictError("A tag with this name already exists")
		}

		now := time.Now()
		tag.Name = name
		tag.UpdatedAt = &now
		if err := tx.Tags.Update(ctx, tag); err != nil {
			return err
		}
		updated = tag
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an unused tag. Tags still attached to posts are kept.
func (s *TagService) Delete(ctx context.Context, id uint) error {
	return s.uow.Do(ctx, func(tx *repository.Tx) error {
		tag, err := tx.Tags.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if tag == nil {
			return models.NewNotFoundError("Tag", id)
		}
		count, err := tx.Tags.CountPosts(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return models.NewConflictError("Tag is still attached to posts")
		}
		return tx.Tags.Delete(ctx, tag)
	})
}
