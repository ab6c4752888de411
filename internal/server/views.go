package server

import (
	"time"

	"quill/internal/models"
	"quill/internal/service"
)

// UserSummaryView is the compact author representation embedded in other views.
type UserSummaryView struct {
	ID                uint   `json:"id"`
	Username          string `json:"username"`
	Name              string `json:"name"`
	Surname           string `json:"surname"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
}

// UserProfileView is the public profile page payload: the summary plus
// counters and a few recent posts.
type UserProfileView struct {
	UserSummaryView
	Stats       *service.UserStats `json:"stats"`
	RecentPosts []PostPreviewView  `json:"recent_posts"`
}

// PostView is the full post aggregate as rendered to clients.
type PostView struct {
	ID        uint            `json:"id"`
	Title     string          `json:"title"`
	Text      string          `json:"text"`
	Summary   string          `json:"summary"`
	Status    string          `json:"status"`
	Author    UserSummaryView `json:"author"`
	Category  CategoryView    `json:"category"`
	Tags      []TagView       `json:"tags"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

// PostPreviewView is the feed representation: the body text is omitted.
type PostPreviewView struct {
	ID        uint            `json:"id"`
	Title     string          `json:"title"`
	Summary   string          `json:"summary"`
	Status    string          `json:"status"`
	Author    UserSummaryView `json:"author"`
	Category  CategoryView    `json:"category"`
	Tags      []TagView       `json:"tags"`
	CreatedAt time.Time       `json:"created_at"`
}

// CategoryView renders a category, with the post count when it was computed.
type CategoryView struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	PostCount int64  `json:"post_count,omitempty"`
}

// TagView renders a tag, with the post count when it was computed.
type TagView struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	PostCount int64  `json:"post_count,omitempty"`
}

// SubscriptionView renders one follow edge from the perspective of a list:
// followers lists show the subscriber, following lists show the target.
type SubscriptionView struct {
	User             UserSummaryView `json:"user"`
	SubscriptionDate time.Time       `json:"subscription_date"`
}

func toUserSummaryView(u *models.User) UserSummaryView {
	return UserSummaryView{
		ID:                u.ID,
		Username:          u.Username,
		Name:              u.Name,
		Surname:           u.Surname,
		ProfilePictureURL: u.ProfilePictureURL,
	}
}

func toCategoryView(c *models.Category) CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name, PostCount: c.PostCount}
}

func toTagView(t *models.Tag) TagView {
	return TagView{ID: t.ID, Name: t.Name, PostCount: t.PostCount}
}

func toTagViews(tags []models.Tag) []TagView {
	views := make([]TagView, 0, len(tags))
	for i := range tags {
		views = append(views, toTagView(&tags[i]))
	}
	return views
}

func toPostView(p *models.Post) PostView {
	return PostView{
		ID:        p.ID,
		Title:     p.Title,
		Text:      p.Text,
		Summary:   p.Summary,
		Status:    string(p.Status),
		Author:    toUserSummaryView(&p.User),
		Category:  toCategoryView(&p.Category),
		Tags:      toTagViews(p.Tags),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPostPreviewView(p *models.Post) PostPreviewView {
	return PostPreviewView{
		ID:        p.ID,
		Title:     p.Title,
		Summary:   p.Summary,
		Status:    string(p.Status),
		Author:    toUserSummaryView(&p.User),
		Category:  toCategoryView(&p.Category),
		Tags:      toTagViews(p.Tags),
		CreatedAt: p.CreatedAt,
	}
}

func toPostPreviewViews(posts []*models.Post) []PostPreviewView {
	views := make([]PostPreviewView, 0, len(posts))
	for _, p := range posts {
		views = append(views, toPostPreviewView(p))
	}
	return views
}

// toFollowerViews renders a followers list: each edge shows the subscriber.
func toFollowerViews(subs []*models.Subscription) []SubscriptionView {
	views := make([]SubscriptionView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, SubscriptionView{
			User:             toUserSummaryView(&sub.Subscriber),
			SubscriptionDate: sub.SubscriptionDate(),
		})
	}
	return views
}

// toFollowingViews renders a following list: each edge shows the target user.
func toFollowingViews(subs []*models.Subscription) []SubscriptionView {
	views := make([]SubscriptionView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, SubscriptionView{
			User:             toUserSummaryView(&sub.SubscribedTo),
			SubscriptionDate: sub.SubscriptionDate(),
		})
	}
	return views
}
