package repository

import (
	"database/sql"
	"testing"
	"time"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tagSlot(id uint, name string) (sql.NullInt64, sql.NullString) {
	return sql.NullInt64{Int64: int64(id), Valid: true}, sql.NullString{String: name, Valid: true}
}

func postTuple(postID uint, createdAt time.Time) postRow {
	row := postRow{
		PostID:        postID,
		Title:         "title",
		Text:          "text",
		Summary:       "summary",
		Status:        string(models.PostStatusPublished),
		CreatedAt:     createdAt,
		AuthorID:      postID * 10,
		AuthorName:    "Ada",
		AuthorSurname: "Lovelace",
		AuthorUser:    "ada",
		CategoryID:    postID * 100,
		CategoryName:  "science",
	}
	return row
}

func TestAssemblePostsDeduplicatesTags(t *testing.T) {
	now := time.Now()
	base := postTuple(1, now)

	r1 := base
	r1.TagID, r1.TagName = tagSlot(3, "go")
	r2 := base
	r2.TagID, r2.TagName = tagSlot(4, "sql")
	r3 := base
	r3.TagID, r3.TagName = tagSlot(3, "go") // duplicate join row

	posts := assemblePosts([]postRow{r1, r2, r3})

	require.Len(t, posts, 1)
	require.Len(t, posts[0].Tags, 2)
	assert.Equal(t, uint(3), posts[0].Tags[0].ID)
	assert.Equal(t, "go", posts[0].Tags[0].Name)
	assert.Equal(t, uint(4), posts[0].Tags[1].ID)
}

func TestAssemblePostsZeroTags(t *testing.T) {
	// A post with no tags arrives as one row with NULL outer-join slots.
	posts := assemblePosts([]postRow{postTuple(7, time.Now())})

	require.Len(t, posts, 1)
	assert.NotNil(t, posts[0].Tags)
	assert.Empty(t, posts[0].Tags)
}

func TestAssemblePostsMultipleRoots(t *testing.T) {
	now := time.Now()

	a1 := postTuple(1, now)
	a1.Title = "first"
	a1.TagID, a1.TagName = tagSlot(3, "go")
	a2 := a1
	a2.TagID, a2.TagName = tagSlot(4, "sql")

	b1 := postTuple(2, now.Add(-time.Hour))
	b1.Title = "second"
	b1.AuthorID, b1.AuthorUser = 99, "grace"
	b1.CategoryID, b1.CategoryName = 5, "history"

	c1 := postTuple(3, now.Add(-2*time.Hour))
	c1.Title = "third"
	c1.TagID, c1.TagName = tagSlot(3, "go")

	posts := assemblePosts([]postRow{a1, a2, b1, c1})

	require.Len(t, posts, 3)

	// First-seen root order is preserved.
	assert.Equal(t, "first", posts[0].Title)
	assert.Equal(t, "second", posts[1].Title)
	assert.Equal(t, "third", posts[2].Title)

	// Each root carries its own singular records.
	assert.Equal(t, "ada", posts[0].User.Username)
	assert.Equal(t, "grace", posts[1].User.Username)
	assert.Equal(t, uint(5), posts[1].Category.ID)

	// Tag sets stay per-root.
	assert.Len(t, posts[0].Tags, 2)
	assert.Empty(t, posts[1].Tags)
	require.Len(t, posts[2].Tags, 1)
	assert.Equal(t, uint(3), posts[2].Tags[0].ID)
}

func TestAssemblePostsSingularAttachedOnce(t *testing.T) {
	now := time.Now()
	r1 := postTuple(1, now)
	r1.TagID, r1.TagName = tagSlot(1, "a")

	// A later row for the same root with drifting singular columns must not
	// overwrite the already-attached author.
	r2 := r1
	r2.AuthorName = "changed"
	r2.TagID, r2.TagName = tagSlot(2, "b")

	posts := assemblePosts([]postRow{r1, r2})

	require.Len(t, posts, 1)
	assert.Equal(t, "Ada", posts[0].User.Name)
	assert.Len(t, posts[0].Tags, 2)
}

func TestAssemblePostsUpdatedAtNullability(t *testing.T) {
	now := time.Now()
	withNull := postTuple(1, now)

	withValue := postTuple(2, now)
	withValue.UpdatedAt = sql.NullTime{Time: now.Add(time.Minute), Valid: true}

	posts := assemblePosts([]postRow{withNull, withValue})

	require.Len(t, posts, 2)
	assert.Nil(t, posts[0].UpdatedAt)
	require.NotNil(t, posts[1].UpdatedAt)
	assert.Equal(t, now.Add(time.Minute), *posts[1].UpdatedAt)
}

func TestAssembleSubscriptions(t *testing.T) {
	now := time.Now()
	rows := []subscriptionRow{
		{
			SubscriptionID: 11, SubscriberID: 1, SubscribedToID: 2,
			IsActive: true, CreatedAt: now,
			SubscriberUser: "ada", TargetUser: "grace",
		},
		{
			SubscriptionID: 12, SubscriberID: 1, SubscribedToID: 3,
			IsActive: true, CreatedAt: now,
			UpdatedAt:      sql.NullTime{Time: now.Add(time.Hour), Valid: true},
			SubscriberUser: "ada", TargetUser: "alan",
		},
		// accidental fan-out duplicate
		{
			SubscriptionID: 11, SubscriberID: 1, SubscribedToID: 2,
			IsActive: true, CreatedAt: now,
			SubscriberUser: "ada", TargetUser: "grace",
		},
	}

	subs := assembleSubscriptions(rows)

	require.Len(t, subs, 2)
	assert.Equal(t, uint(11), subs[0].ID)
	assert.Equal(t, "ada", subs[0].Subscriber.Username)
	assert.Equal(t, "grace", subs[0].SubscribedTo.Username)
	assert.Nil(t, subs[0].UpdatedAt)
	require.NotNil(t, subs[1].UpdatedAt)
	assert.Equal(t, uint(3), subs[1].SubscribedTo.ID)
}

func TestAssemblePostsEmptyInput(t *testing.T) {
	assert.Empty(t, assemblePosts(nil))
	assert.Empty(t, assembleSubscriptions(nil))
}
