// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"quill/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// seedPassword is shared by every seeded account. It satisfies the signup
// password policy so seeded users work against the auth endpoints.
const seedPassword = "Password123!"

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var categoryNames = []string{
	"Technology", "Science", "Travel", "Food", "Music",
	"Books", "Gaming", "Fitness", "Finance", "Art",
}

var tagNames = []string{
	"go", "postgres", "redis", "docker", "kubernetes", "linux",
	"recipes", "reviews", "howto", "opinion", "news", "deepdive",
	"beginner", "advanced", "photography", "diy",
}

// Seed populates the database with test data. Roles must already be seeded.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)
	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	categories, err := createCategories(db)
	if err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}
	tags, err := createTags(db)
	if err != nil {
		return fmt.Errorf("failed to create tags: %w", err)
	}
	log.Printf("created %d categories and %d tags", len(categories), len(tags))

	posts, err := createPosts(db, users, categories, tags, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	n, err := createSubscriptions(db, users)
	if err != nil {
		return fmt.Errorf("failed to create subscriptions: %w", err)
	}
	log.Printf("created %d subscriptions", n)

	log.Printf("Seeding complete. All test users have the password: %s", seedPassword)
	return nil
}

func clearData(db *gorm.DB) error {
	sql := `TRUNCATE TABLE post_tags, posts, tags, categories, subscriptions, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(db *gorm.DB, n int) ([]models.User, error) {
	var authorRole models.Role
	if err := db.Where("name = ?", models.RoleAuthor).First(&authorRole).Error; err != nil {
		return nil, fmt.Errorf("author role missing (run migrations first): %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		users = append(users, models.User{
			Name:         first,
			Surname:      last,
			Username:     strings.ToLower(fmt.Sprintf("%s_%s%d", first, last, i)),
			Email:        strings.ToLower(fmt.Sprintf("%s.%s%d@example.com", first, last, i)),
			PasswordHash: string(hash),
			RoleID:       authorRole.ID,
			IsActive:     true,
		})
	}
	if err := db.CreateInBatches(&users, 100).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func createCategories(db *gorm.DB) ([]models.Category, error) {
	categories := make([]models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		categories = append(categories, models.Category{Name: name})
	}
	if err := db.Create(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func createTags(db *gorm.DB) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		tags = append(tags, models.Tag{Name: name})
	}
	if err := db.Create(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func createPosts(db *gorm.DB, users []models.User, categories []models.Category, tags []models.Tag, n int) ([]models.Post, error) {
	if len(users) == 0 || len(categories) == 0 {
		return nil, fmt.Errorf("users and categories are required before posts")
	}

	statuses := []models.PostStatus{
		models.PostStatusPublished, models.PostStatusPublished,
		models.PostStatusPublished, models.PostStatusDraft,
	}

	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		post := models.Post{
			UserID:     users[rand.Intn(len(users))].ID,
			Title:      gofakeit.Sentence(5),
			Text:       gofakeit.Paragraph(2, 4, 8, "\n\n"),
			Summary:    gofakeit.Sentence(10),
			CategoryID: categories[rand.Intn(len(categories))].ID,
			Status:     statuses[rand.Intn(len(statuses))],
			Tags:       pickTags(tags, rand.Intn(4)),
			CreatedAt:  time.Now().Add(-time.Duration(rand.Intn(90*24)) * time.Hour),
		}
		posts = append(posts, post)
	}
	if err := db.CreateInBatches(&posts, 50).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// pickTags selects up to n distinct tags.
func pickTags(tags []models.Tag, n int) []models.Tag {
	if n > len(tags) {
		n = len(tags)
	}
	picked := make([]models.Tag, 0, n)
	for _, i := range rand.Perm(len(tags))[:n] {
		picked = append(picked, tags[i])
	}
	return picked
}

func createSubscriptions(db *gorm.DB, users []models.User) (int, error) {
	if len(users) < 2 {
		return 0, nil
	}

	created := 0
	seen := map[[2]uint]bool{}
	target := len(users) * 3
	for attempts := 0; created < target && attempts < target*10; attempts++ {
		a := users[rand.Intn(len(users))].ID
		b := users[rand.Intn(len(users))].ID
		if a == b || seen[[2]uint{a, b}] {
			continue
		}
		seen[[2]uint{a, b}] = true

		sub := models.Subscription{
			SubscriberID:   a,
			SubscribedToID: b,
			IsActive:       rand.Intn(10) > 1, // a few cancelled follows for realism
			CreatedAt:      time.Now().Add(-time.Duration(rand.Intn(60*24)) * time.Hour),
		}
		if !sub.IsActive {
			cancelled := sub.CreatedAt.Add(time.Duration(rand.Intn(72)) * time.Hour)
			sub.UpdatedAt = &cancelled
		}
		if err := db.Create(&sub).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
