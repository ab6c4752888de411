package service

import (
	"context"
	"strings"
	"time"

	"quill/internal/cache"
	"quill/internal/models"
	"quill/internal/repository"
)

const recentPostsTTL = 2 * time.Minute

// CreatePostInput carries the fields for a new post.
type CreatePostInput struct {
	Title      string            `json:"title"`
	Text       string            `json:"text"`
	Summary    string            `json:"summary"`
	CategoryID uint              `json:"category_id"`
	Status     models.PostStatus `json:"status"`
	TagIDs     []uint            `json:"tag_ids"`
}

// UpdatePostInput carries a partial update. Nil fields are left untouched.
// A nil TagIDs leaves the tag set alone; a non-nil empty slice clears it.
type UpdatePostInput struct {
	Title      *string            `json:"title"`
	Text       *string            `json:"text"`
	Summary    *string            `json:"summary"`
	CategoryID *uint              `json:"category_id"`
	Status     *models.PostStatus `json:"status"`
	TagIDs     *[]uint            `json:"tag_ids"`
}

// PostService provides post business logic: authoring, partial updates with
// tag synchronization, and aggregate reads.
type PostService struct {
	uow repository.UnitOfWork
}

// NewPostService returns a new PostService.
func NewPostService(uow repository.UnitOfWork) *PostService {
	return &PostService{uow: uow}
}

// Create authors a new post for authorID and returns the stored aggregate.
func (s *PostService) Create(ctx context.Context, authorID uint, in CreatePostInput) (*models.Post, error) {
	if err := validatePostContent(in.Title, in.Text, in.Summary); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	if !status.Valid() {
		return nil, models.NewBadRequestError("Unknown post status")
	}

	var postID uint
	err := s.uow.Do(ctx, func(tx *repository.Tx) error {
		if err := requireCategory(ctx, tx, in.CategoryID); err != nil {
			return err
		}
		tags, err := resolveTags(ctx, tx, in.TagIDs)
		if err != nil {
			return err
		}

		post := &models.Post{
			UserID:     authorID,
			Title:      strings.TrimSpace(in.Title),
			Text:       in.Text,
			Summary:    strings.TrimSpace(in.Summary),
			CategoryID: in.CategoryID,
			Status:     status,
			Tags:       tags,
		}
		if err := tx.Posts.Create(ctx, post); err != nil {
			return err
		}
		postID = post.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.DeleteByPrefix(ctx, cache.RecentPostsPrefix())
	return s.uow.Repos().Posts.GetByID(ctx, postID)
}

// Update applies a partial update to the post. Only the caller who authored
// the post may change it. When TagIDs is present the stored tag set is
// replaced wholesale with the resolved set.
func (s *PostService) Update(ctx context.Context, callerID, postID uint, in UpdatePostInput) (*models.Post, error) {
	err := s.uow.Do(ctx, func(tx *repository.Tx) error {
		post, err := tx.Posts.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return models.NewNotFoundError("Post", postID)
		}
		if post.UserID != callerID {
			return models.NewForbiddenError("You can only edit your own posts")
		}

		if in.Title != nil {
			post.Title = strings.TrimSpace(*in.Title)
		}
		if in.Text != nil {
			post.Text = *in.Text
		}
		if in.Summary != nil {
			post.Summary = strings.TrimSpace(*in.Summary)
		}
		if err := validatePostContent(post.Title, post.Text, post.Summary); err != nil {
			return err
		}
		if in.CategoryID != nil && *in.CategoryID != post.CategoryID {
			if err := requireCategory(ctx, tx, *in.CategoryID); err != nil {
				return err
			}
			post.CategoryID = *in.CategoryID
		}
		if in.Status != nil {
			if !in.Status.Valid() {
				return models.NewBadRequestError("Unknown post status")
			}
			post.Status = *in.Status
		}

		now := time.Now()
		post.UpdatedAt = &now
		if err := tx.Posts.Update(ctx, post); err != nil {
			return err
		}

		if in.TagIDs != nil {
			tags, err := resolveTags(ctx, tx, *in.TagIDs)
			if err != nil {
				return err
			}
			if err := tx.Posts.ReplaceTags(ctx, post, tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.DeleteByPrefix(ctx, cache.RecentPostsPrefix())
	return s.uow.Repos().Posts.GetByID(ctx, postID)
}

// Delete removes the post and its tag links. Only the author may delete.
func (s *PostService) Delete(ctx context.Context, callerID, postID uint) error {
	err := s.uow.Do(ctx, func(tx *repository.Tx) error {
		post, err := tx.Posts.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return models.NewNotFoundError("Post", postID)
		}
		if post.UserID != callerID {
			return models.NewForbiddenError("You can only delete your own posts")
		}
		return tx.Posts.Delete(ctx, post)
	})
	if err != nil {
		return err
	}

	cache.DeleteByPrefix(ctx, cache.RecentPostsPrefix())
	return nil
}

// GetByID returns the post aggregate, or nil when no such post exists.
func (s *PostService) GetByID(ctx context.Context, postID uint) (*models.Post, error) {
	return s.uow.Repos().Posts.GetByID(ctx, postID)
}

// GetByAuthor returns every post authored by the user, newest first.
func (s *PostService) GetByAuthor(ctx context.Context, authorID uint) ([]*models.Post, error) {
	return s.uow.Repos().Posts.GetByAuthorID(ctx, authorID)
}

// GetByCategoryID returns every post in the category, newest first.
func (s *PostService) GetByCategoryID(ctx context.Context, categoryID uint) ([]*models.Post, error) {
	return s.uow.Repos().Posts.GetByCategoryID(ctx, categoryID)
}

// GetByCategoryName returns every post in the named category, newest first.
func (s *PostService) GetByCategoryName(ctx context.Context, name string) ([]*models.Post, error) {
	return s.uow.Repos().Posts.GetByCategoryName(ctx, name)
}

// GetByTagName returns every post carrying the named tag. Each returned post
// still carries its complete tag set, not just the matching tag.
func (s *PostService) GetByTagName(ctx context.Context, name string) ([]*models.Post, error) {
	return s.uow.Repos().Posts.GetByTagName(ctx, name)
}

// GetRecent returns the n most recently created posts. The result for each
// feed size is cached briefly; writes invalidate the whole feed cache.
func (s *PostService) GetRecent(ctx context.Context, n int) ([]*models.Post, error) {
	if n < 1 {
		return nil, models.NewBadRequestError("Count must be at least 1")
	}

	key := cache.RecentPostsKey(n)
	var cached []*models.Post
	if cache.GetJSON(ctx, "recent_posts", key, &cached) {
		return cached, nil
	}

	posts, err := s.uow.Repos().Posts.GetRecent(ctx, n)
	if err != nil {
		return nil, err
	}
	cache.SetJSON(ctx, key, posts, recentPostsTTL)
	return posts, nil
}

// GetRecentByAuthor returns the author's n most recently created posts.
func (s *PostService) GetRecentByAuthor(ctx context.Context, authorID uint, n int) ([]*models.Post, error) {
	if n < 1 {
		return nil, models.NewBadRequestError("Count must be at least 1")
	}
	return s.uow.Repos().Posts.GetRecentByAuthor(ctx, authorID, n)
}

// resolveTags turns requested tag ids into stored tags. Duplicate ids
// collapse; any id with no matching tag fails the whole request.
func resolveTags(ctx context.Context, tx *repository.Tx, ids []uint) ([]models.Tag, error) {
	ids = dedupIDs(ids)
	if len(ids) == 0 {
		return []models.Tag{}, nil
	}
	tags, err := tx.Tags.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, models.NewBadRequestError("One or more tag ids do not exist")
	}
	return tags, nil
}

func dedupIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func requireCategory(ctx context.Context, tx *repository.Tx, id uint) error {
	category, err := tx.Categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return models.NewBadRequestError("Category does not exist")
	}
	return nil
}

func validatePostContent(title, text, summary string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewBadRequestError("Title is required")
	}
	if len(title) > 200 {
		return models.NewBadRequestError("Title must be at most 200 characters")
	}
	if strings.TrimSpace(text) == "" {
		return models.NewBadRequestError("Text is required")
	}
	if len(summary) > 300 {
		return models.NewBadRequestError("Summary must be at most 300 characters")
	}
	return nil
}
