package server

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserTestServer() (*fiber.App, *postRepoStub) {
	posts := newPostRepoStub()
	uow := &stubUoW{tx: &repository.Tx{
		Users: &userRepoStub{users: map[uint]*models.User{
			1: {ID: 1, Username: "ada", Name: "Ada"},
			2: {ID: 2, Username: "grace", Name: "Grace"},
			3: {ID: 3, Username: "linus", Name: "Linus"},
		}},
		Posts:         posts,
		Subscriptions: newSubRepoStub(),
	}}
	s := &Server{
		userService: service.NewUserService(uow),
		postService: service.NewPostService(uow),
	}

	app := fiber.New()
	app.Get("/users", s.ListUsers)
	app.Get("/users/by-username/:username", s.GetUserProfileByUsername)
	return app, posts
}

func TestListUsersEndpoint(t *testing.T) {
	app, _ := newUserTestServer()

	resp, err := app.Test(httptest.NewRequest("GET", "/users", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body []UserSummaryView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body, 3)
	assert.Equal(t, "ada", body[0].Username)
}

func TestListUsersEndpointPagination(t *testing.T) {
	app, _ := newUserTestServer()

	resp, err := app.Test(httptest.NewRequest("GET", "/users?limit=1&offset=1", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body []UserSummaryView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "grace", body[0].Username)
}

func TestGetUserProfileByUsername(t *testing.T) {
	app, posts := newUserTestServer()
	for i := uint(1); i <= 5; i++ {
		posts.posts[i] = &models.Post{ID: i, UserID: 2, Title: "post", Status: models.PostStatusPublished}
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/users/by-username/grace", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body UserProfileView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, uint(2), body.ID)
	require.NotNil(t, body.Stats)
	assert.Equal(t, int64(5), body.Stats.PostCount)
	assert.Len(t, body.RecentPosts, 3)
}

func TestGetUserProfileByUsernameUnknown(t *testing.T) {
	app, _ := newUserTestServer()

	resp, err := app.Test(httptest.NewRequest("GET", "/users/by-username/nobody", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
