package server

import (
	"testing"
	"time"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionViewDates(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	reactivated := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	active := []*models.Subscription{{
		Subscriber:   models.User{ID: 1, Username: "ada"},
		SubscribedTo: models.User{ID: 2, Username: "grace"},
		IsActive:     true,
		CreatedAt:    created,
		UpdatedAt:    &reactivated,
	}}

	followers := toFollowerViews(active)
	assert.Equal(t, "ada", followers[0].User.Username)
	assert.Equal(t, reactivated, followers[0].SubscriptionDate,
		"active subscription dates from its last activation")

	following := toFollowingViews(active)
	assert.Equal(t, "grace", following[0].User.Username)

	// A row that was never toggled dates from its creation.
	fresh := []*models.Subscription{{
		Subscriber: models.User{ID: 3},
		IsActive:   true,
		CreatedAt:  created,
	}}
	assert.Equal(t, created, toFollowerViews(fresh)[0].SubscriptionDate)
}

func TestPostViewMapsAggregate(t *testing.T) {
	updated := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)
	post := &models.Post{
		ID:      9,
		Title:   "Hello",
		Text:    "body",
		Summary: "short",
		Status:  models.PostStatusPublished,
		User:    models.User{ID: 1, Username: "ada", Name: "Ada"},
		Category: models.Category{
			ID:   4,
			Name: "Tech",
		},
		Tags:      []models.Tag{{ID: 1, Name: "go"}, {ID: 2, Name: "sql"}},
		UpdatedAt: &updated,
	}

	view := toPostView(post)
	assert.Equal(t, uint(9), view.ID)
	assert.Equal(t, "ada", view.Author.Username)
	assert.Equal(t, "Tech", view.Category.Name)
	assert.Len(t, view.Tags, 2)
	assert.Equal(t, &updated, view.UpdatedAt)

	preview := toPostPreviewView(post)
	assert.Equal(t, "short", preview.Summary)
	assert.Len(t, preview.Tags, 2)
}

func TestPostViewEmptyTagsStayEmptySlice(t *testing.T) {
	view := toPostView(&models.Post{Tags: []models.Tag{}})
	assert.NotNil(t, view.Tags)
	assert.Empty(t, view.Tags)
}
