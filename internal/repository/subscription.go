package repository

import (
	"context"
	"errors"
	"strings"

	"quill/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SubscriptionRepository defines data operations over subscription rows.
// Find is the sole authority on whether an ordered pair has ever existed:
// it returns the row regardless of the active flag, or (nil, nil) when the
// pair was never created. The list queries return active rows only, with
// both endpoint users' summaries joined in.
type SubscriptionRepository interface {
	Find(ctx context.Context, subscriberID, subscribedToID uint) (*models.Subscription, error)
	ListFollowing(ctx context.Context, subscriberID uint) ([]*models.Subscription, error)
	ListFollowers(ctx context.Context, subscribedToID uint) ([]*models.Subscription, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
	Create(ctx context.Context, subscription *models.Subscription) error
	Update(ctx context.Context, subscription *models.Subscription) error
}

// subscriptionRepository implements SubscriptionRepository
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository.
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Find(ctx context.Context, subscriberID, subscribedToID uint) (*models.Subscription, error) {
	var subscription models.Subscription
	err := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND subscribed_to_id = ?", subscriberID, subscribedToID).
		Preload("Subscriber").
		Preload("SubscribedTo").
		First(&subscription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // pair never existed
		}
		return nil, err
	}
	return &subscription, nil
}

// subscriptionSelect joins both endpoint users; column order is pinned to
// scanSubscriptionRows.
const subscriptionSelect = `
SELECT s.id, s.subscriber_id, s.subscribed_to_id, s.is_active, s.created_at, s.updated_at,
       sub.name, sub.surname, sub.username, sub.profile_picture_url,
       tgt.name, tgt.surname, tgt.username, tgt.profile_picture_url
FROM subscriptions s
JOIN users sub ON sub.id = s.subscriber_id
JOIN users tgt ON tgt.id = s.subscribed_to_id
`

func (r *subscriptionRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Subscription, error) {
	rows, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tuples, err := scanSubscriptionRows(rows)
	if err != nil {
		return nil, err
	}
	return assembleSubscriptions(tuples), nil
}

func (r *subscriptionRepository) ListFollowing(ctx context.Context, subscriberID uint) ([]*models.Subscription, error) {
	query := subscriptionSelect + `WHERE s.subscriber_id = ? AND s.is_active = ? ORDER BY s.id ASC`
	return r.list(ctx, query, subscriberID, true)
}

func (r *subscriptionRepository) ListFollowers(ctx context.Context, subscribedToID uint) ([]*models.Subscription, error) {
	query := subscriptionSelect + `WHERE s.subscribed_to_id = ? AND s.is_active = ? ORDER BY s.id ASC`
	return r.list(ctx, query, subscribedToID, true)
}

func (r *subscriptionRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscribed_to_id = ? AND is_active = ?", userID, true).
		Count(&n).Error
	return n, err
}

func (r *subscriptionRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscriber_id = ? AND is_active = ?", userID, true).
		Count(&n).Error
	return n, err
}

func (r *subscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	return r.db.WithContext(ctx).Omit("Subscriber", "SubscribedTo").Create(subscription).Error
}

func (r *subscriptionRepository) Update(ctx context.Context, subscription *models.Subscription) error {
	return r.db.WithContext(ctx).Omit("Subscriber", "SubscribedTo").Save(subscription).Error
}

// IsUniqueViolation reports whether err is a storage-level uniqueness
// constraint violation. Covers Postgres (SQLSTATE 23505 via pgconn) and the
// sqlite dev driver's error text.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
