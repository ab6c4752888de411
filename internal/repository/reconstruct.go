// Package repository provides data access layer implementations for the application.
package repository

import (
	"database/sql"
	"time"

	"quill/internal/models"
)

// postRow is one flat tuple from the post aggregate join: the post columns,
// the singular author and category slots, and the (nullable) tag slot from
// the outer join. Tuples for one post are contiguous in the source stream;
// every aggregate query orders by the root id, which is all the assembly
// below relies on.
type postRow struct {
	PostID        uint
	Title         string
	Text          string
	Summary       string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     sql.NullTime
	AuthorID      uint
	AuthorName    string
	AuthorSurname string
	AuthorUser    string
	AuthorPicture string
	CategoryID    uint
	CategoryName  string
	TagID         sql.NullInt64
	TagName       sql.NullString
}

// scanPostRows drains a join result set into postRow tuples.
func scanPostRows(rows *sql.Rows) ([]postRow, error) {
	var tuples []postRow
	for rows.Next() {
		var row postRow
		if err := rows.Scan(
			&row.PostID, &row.Title, &row.Text, &row.Summary, &row.Status,
			&row.CreatedAt, &row.UpdatedAt,
			&row.AuthorID, &row.AuthorName, &row.AuthorSurname, &row.AuthorUser, &row.AuthorPicture,
			&row.CategoryID, &row.CategoryName,
			&row.TagID, &row.TagName,
		); err != nil {
			return nil, err
		}
		tuples = append(tuples, row)
	}
	return tuples, rows.Err()
}

// assemblePosts reconstructs one Post aggregate per distinct root id from
// flat join tuples. Aggregates come out in first-seen order; the author and
// category are attached exactly once; the tag collection keeps first-seen
// order with set semantics (a repeated tag id for the same post is dropped).
// A post whose tag slot is NULL on every tuple still yields an aggregate
// with an empty tag set.
func assemblePosts(tuples []postRow) []*models.Post {
	posts := make([]*models.Post, 0, len(tuples))
	index := make(map[uint]*models.Post, len(tuples))
	seenTags := make(map[uint]map[uint]struct{}, len(tuples))

	for _, row := range tuples {
		post, ok := index[row.PostID]
		if !ok {
			post = &models.Post{
				ID:         row.PostID,
				Title:      row.Title,
				Text:       row.Text,
				Summary:    row.Summary,
				Status:     models.PostStatus(row.Status),
				CreatedAt:  row.CreatedAt,
				UpdatedAt:  nullTimePtr(row.UpdatedAt),
				UserID:     row.AuthorID,
				CategoryID: row.CategoryID,
				User: models.User{
					ID:                row.AuthorID,
					Name:              row.AuthorName,
					Surname:           row.AuthorSurname,
					Username:          row.AuthorUser,
					ProfilePictureURL: row.AuthorPicture,
				},
				Category: models.Category{
					ID:   row.CategoryID,
					Name: row.CategoryName,
				},
				Tags: []models.Tag{},
			}
			index[row.PostID] = post
			seenTags[row.PostID] = make(map[uint]struct{})
			posts = append(posts, post)
		}

		if !row.TagID.Valid {
			continue
		}
		tagID := uint(row.TagID.Int64)
		if _, dup := seenTags[row.PostID][tagID]; dup {
			continue
		}
		seenTags[row.PostID][tagID] = struct{}{}
		post.Tags = append(post.Tags, models.Tag{ID: tagID, Name: row.TagName.String})
	}

	return posts
}

// subscriptionRow is one flat tuple from the subscription join: the
// subscription columns plus both endpoint user summaries. There is no
// multi-valued slot here; the join fans out 1:1.
type subscriptionRow struct {
	SubscriptionID uint
	SubscriberID   uint
	SubscribedToID uint
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      sql.NullTime

	SubscriberName    string
	SubscriberSurname string
	SubscriberUser    string
	SubscriberPicture string

	TargetName    string
	TargetSurname string
	TargetUser    string
	TargetPicture string
}

func scanSubscriptionRows(rows *sql.Rows) ([]subscriptionRow, error) {
	var tuples []subscriptionRow
	for rows.Next() {
		var row subscriptionRow
		if err := rows.Scan(
			&row.SubscriptionID, &row.SubscriberID, &row.SubscribedToID,
			&row.IsActive, &row.CreatedAt, &row.UpdatedAt,
			&row.SubscriberName, &row.SubscriberSurname, &row.SubscriberUser, &row.SubscriberPicture,
			&row.TargetName, &row.TargetSurname, &row.TargetUser, &row.TargetPicture,
		); err != nil {
			return nil, err
		}
		tuples = append(tuples, row)
	}
	return tuples, rows.Err()
}

// assembleSubscriptions reconstructs one Subscription per distinct row id,
// both endpoint users attached exactly once, first-seen order preserved.
func assembleSubscriptions(tuples []subscriptionRow) []*models.Subscription {
	subs := make([]*models.Subscription, 0, len(tuples))
	seen := make(map[uint]struct{}, len(tuples))

	for _, row := range tuples {
		if _, dup := seen[row.SubscriptionID]; dup {
			continue
		}
		seen[row.SubscriptionID] = struct{}{}

		subs = append(subs, &models.Subscription{
			ID:             row.SubscriptionID,
			SubscriberID:   row.SubscriberID,
			SubscribedToID: row.SubscribedToID,
			IsActive:       row.IsActive,
			CreatedAt:      row.CreatedAt,
			UpdatedAt:      nullTimePtr(row.UpdatedAt),
			Subscriber: models.User{
				ID:                row.SubscriberID,
				Name:              row.SubscriberName,
				Surname:           row.SubscriberSurname,
				Username:          row.SubscriberUser,
				ProfilePictureURL: row.SubscriberPicture,
			},
			SubscribedTo: models.User{
				ID:                row.SubscribedToID,
				Name:              row.TargetName,
				Surname:           row.TargetSurname,
				Username:          row.TargetUser,
				ProfilePictureURL: row.TargetPicture,
			},
		})
	}

	return subs
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
