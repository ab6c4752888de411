package repository

import (
	"context"
	"time"

	"quill/internal/middleware"
	"quill/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines read and write operations over Post aggregates.
// Reads go through the join-reconstruction path and return full aggregates;
// a missing id yields (nil, nil), never a domain error. Mutations are staged
// on whatever transaction handle the repository is bound to.
type PostRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetByAuthorID(ctx context.Context, authorID uint) ([]*models.Post, error)
	GetByCategoryID(ctx context.Context, categoryID uint) ([]*models.Post, error)
	GetByCategoryName(ctx context.Context, name string) ([]*models.Post, error)
	GetByTagName(ctx context.Context, name string) ([]*models.Post, error)
	GetRecent(ctx context.Context, count int) ([]*models.Post, error)
	GetRecentByAuthor(ctx context.Context, authorID uint, count int) ([]*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	ReplaceTags(ctx context.Context, post *models.Post, tags []models.Tag) error
	Delete(ctx context.Context, post *models.Post) error
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository bound to the given handle.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// postAggregateSelect is the reconstruction join. Column order is pinned to
// scanPostRows. The ORDER BY of each caller must keep rows for one post
// contiguous (any ordering whose keys are constant per post does).
const postAggregateSelect = `
SELECT p.id, p.title, p.text, p.summary, p.status, p.created_at, p.updated_at,
       u.id, u.name, u.surname, u.username, u.profile_picture_url,
       c.id, c.name,
       t.id, t.name
FROM ` // + FROM-clause + WHERE/ORDER appended per query

const postAggregateJoins = ` p
JOIN users u ON u.id = p.user_id
JOIN categories c ON c.id = p.category_id
LEFT JOIN post_tags pt ON pt.post_id = p.id
LEFT JOIN tags t ON t.id = pt.tag_id
`

func (r *postRepository) queryAggregates(ctx context.Context, query string, args ...interface{}) ([]*models.Post, error) {
	start := time.Now()
	rows, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tuples, err := scanPostRows(rows)
	if err != nil {
		return nil, err
	}
	middleware.DatabaseQueryLatency.WithLabelValues("aggregate_select", "posts").
		Observe(time.Since(start).Seconds())

	return assemblePosts(tuples), nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	query := postAggregateSelect + "posts" + postAggregateJoins +
		`WHERE p.id = ? ORDER BY p.id ASC, t.id ASC`
	posts, err := r.queryAggregates(ctx, query, id)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return posts[0], nil
}

func (r *postRepository) GetByAuthorID(ctx context.Context, authorID uint) ([]*models.Post, error) {
	query := postAggregateSelect + "posts" + postAggregateJoins +
		`WHERE p.user_id = ? ORDER BY p.created_at DESC, p.id ASC, t.id ASC`
	return r.queryAggregates(ctx, query, authorID)
}

func (r *postRepository) GetByCategoryID(ctx context.Context, categoryID uint) ([]*models.Post, error) {
	query := postAggregateSelect + "posts" + postAggregateJoins +
		`WHERE p.category_id = ? ORDER BY p.created_at DESC, p.id ASC, t.id ASC`
	return r.queryAggregates(ctx, query, categoryID)
}

func (r *postRepository) GetByCategoryName(ctx context.Context, name string) ([]*models.Post, error) {
	query := postAggregateSelect + "posts" + postAggregateJoins +
		`WHERE c.name = ? ORDER BY p.created_at DESC, p.id ASC, t.id ASC`
	return r.queryAggregates(ctx, query, name)
}

// GetByTagName returns posts carrying the named tag. The filter runs in a
// subquery so matched aggregates still come back with their complete tag set,
// not just the matched tag.
func (r *postRepository) GetByTagName(ctx context.Context, name string) ([]*models.Post, error) {
	query := postAggregateSelect + "posts" + postAggregateJoins +
		`WHERE p.id IN (
    SELECT pt2.post_id FROM post_tags pt2
    JOIN tags t2 ON t2.id = pt2.tag_id
    WHERE t2.name = ?
) ORDER BY p.created_at DESC, p.id ASC, t.id ASC`
	return r.queryAggregates(ctx, query, name)
}

// GetRecent returns the count most recent posts, newest first. The limit
// applies to posts, not join rows, so it sits in a subquery over the root
// table. Recency ties break on ascending id.
func (r *postRepository) GetRecent(ctx context.Context, count int) ([]*models.Post, error) {
	query := postAggregateSelect +
		`(SELECT * FROM posts ORDER BY created_at DESC, id ASC LIMIT ?)` + postAggregateJoins +
		`ORDER BY p.created_at DESC, p.id ASC, t.id ASC`
	return r.queryAggregates(ctx, query, count)
}

func (r *postRepository) GetRecentByAuthor(ctx context.Context, authorID uint, count int) ([]*models.Post, error) {
	query := postAggregateSelect +
		`(SELECT * FROM posts WHERE user_id = ? ORDER BY created_at DESC, id ASC LIMIT ?)` + postAggregateJoins +
		`ORDER BY p.created_at DESC, p.id ASC, t.id ASC`
	return r.queryAggregates(ctx, query, authorID, count)
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	// Omit("Tags.*") stages join rows for already-resolved tags without
	// touching the tags table itself.
	return r.db.WithContext(ctx).Omit("Tags.*").Create(post).Error
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	// Tag associations are replaced explicitly via ReplaceTags, never synced
	// as a side effect of a field update.
	return r.db.WithContext(ctx).Omit("Tags").Save(post).Error
}

func (r *postRepository) ReplaceTags(ctx context.Context, post *models.Post, tags []models.Tag) error {
	return r.db.WithContext(ctx).Model(post).Association("Tags").Replace(&tags)
}

func (r *postRepository) Delete(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Select(clause.Associations).Delete(post).Error
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("user_id = ?", authorID).Count(&n).Error
	return n, err
}

func (r *postRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}
