package models

import (
	"time"
)

// Subscription is a tri-state follow relationship between two users: a row is
// created at most once per ordered (subscriber, subscribed-to) pair and after
// that only toggles IsActive. Rows are never physically deleted, preserving
// history and enabling idempotent re-subscription.
type Subscription struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	SubscriberID   uint       `gorm:"not null;uniqueIndex:idx_subscription_pair,priority:1" json:"subscriber_id"`
	SubscribedToID uint       `gorm:"not null;uniqueIndex:idx_subscription_pair,priority:2;index" json:"subscribed_to_id"`
	Subscriber     User       `gorm:"foreignKey:SubscriberID" json:"subscriber,omitempty"`
	SubscribedTo   User       `gorm:"foreignKey:SubscribedToID" json:"subscribed_to,omitempty"`
	IsActive       bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
}

// TableName specifies the table name for GORM
func (Subscription) TableName() string {
	return "subscriptions"
}

// SubscriptionDate is the moment the relationship became what it currently
// is: the last activation time while active, the original creation time
// otherwise.
func (s *Subscription) SubscriptionDate() time.Time {
	if s.IsActive && s.UpdatedAt != nil {
		return *s.UpdatedAt
	}
	return s.CreatedAt
}
