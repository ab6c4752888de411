package service

import (
	"context"
	"errors"

	"quill/internal/models"
	"quill/internal/repository"
)

// fakeUnitOfWork runs the transaction body directly against the stub bundle.
type fakeUnitOfWork struct {
	tx *repository.Tx
}

func (f *fakeUnitOfWork) Do(ctx context.Context, fn func(tx *repository.Tx) error) error {
	return fn(f.tx)
}

func (f *fakeUnitOfWork) Repos() *repository.Tx {
	return f.tx
}

func newFakeUoW() (*fakeUnitOfWork, *repository.Tx) {
	tx := &repository.Tx{
		Users:         noopUserRepo(),
		Roles:         noopRoleRepo(),
		Posts:         noopPostRepo(),
		Tags:          noopTagRepo(),
		Categories:    noopCategoryRepo(),
		Subscriptions: noopSubscriptionRepo(),
	}
	return &fakeUnitOfWork{tx: tx}, tx
}

type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	listFn          func(context.Context, int, int) ([]models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:    func(context.Context, string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		listFn:          func(context.Context, int, int) ([]models.User, error) { return nil, nil },
		createFn:        func(context.Context, *models.User) error { return nil },
		updateFn:        func(context.Context, *models.User) error { return nil },
	}
}

type roleRepoStub struct {
	getByIDFn   func(context.Context, uint) (*models.Role, error)
	getByNameFn func(context.Context, string) (*models.Role, error)
	listFn      func(context.Context) ([]models.Role, error)
}

func (s *roleRepoStub) GetByID(ctx context.Context, id uint) (*models.Role, error) {
	return s.getByIDFn(ctx, id)
}
func (s *roleRepoStub) GetByName(ctx context.Context, name string) (*models.Role, error) {
	return s.getByNameFn(ctx, name)
}
func (s *roleRepoStub) List(ctx context.Context) ([]models.Role, error) {
	return s.listFn(ctx)
}

func noopRoleRepo() *roleRepoStub {
	return &roleRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Role, error) {
			return &models.Role{ID: id, Name: models.RoleAuthor}, nil
		},
		getByNameFn: func(_ context.Context, name string) (*models.Role, error) {
			return &models.Role{ID: 2, Name: name}, nil
		},
		listFn: func(context.Context) ([]models.Role, error) { return nil, nil },
	}
}

type postRepoStub struct {
	getByIDFn           func(context.Context, uint) (*models.Post, error)
	getByAuthorIDFn     func(context.Context, uint) ([]*models.Post, error)
	getByCategoryIDFn   func(context.Context, uint) ([]*models.Post, error)
	getByCategoryNameFn func(context.Context, string) ([]*models.Post, error)
	getByTagNameFn      func(context.Context, string) ([]*models.Post, error)
	getRecentFn         func(context.Context, int) ([]*models.Post, error)
	getRecentByAuthorFn func(context.Context, uint, int) ([]*models.Post, error)
	createFn            func(context.Context, *models.Post) error
	updateFn            func(context.Context, *models.Post) error
	replaceTagsFn       func(context.Context, *models.Post, []models.Tag) error
	deleteFn            func(context.Context, *models.Post) error
	countByAuthorFn     func(context.Context, uint) (int64, error)
	countByCategoryFn   func(context.Context, uint) (int64, error)
}

func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetByAuthorID(ctx context.Context, authorID uint) ([]*models.Post, error) {
	return s.getByAuthorIDFn(ctx, authorID)
}
func (s *postRepoStub) GetByCategoryID(ctx context.Context, categoryID uint) ([]*models.Post, error) {
	return s.getByCategoryIDFn(ctx, categoryID)
}
func (s *postRepoStub) GetByCategoryName(ctx context.Context, name string) ([]*models.Post, error) {
	return s.getByCategoryNameFn(ctx, name)
}
func (s *postRepoStub) GetByTagName(ctx context.Context, name string) ([]*models.Post, error) {
	return s.getByTagNameFn(ctx, name)
}
func (s *postRepoStub) GetRecent(ctx context.Context, count int) ([]*models.Post, error) {
	return s.getRecentFn(ctx, count)
}
func (s *postRepoStub) GetRecentByAuthor(ctx context.Context, authorID uint, count int) ([]*models.Post, error) {
	return s.getRecentByAuthorFn(ctx, authorID, count)
}
func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) ReplaceTags(ctx context.Context, post *models.Post, tags []models.Tag) error {
	return s.replaceTagsFn(ctx, post, tags)
}
func (s *postRepoStub) Delete(ctx context.Context, post *models.Post) error {
	return s.deleteFn(ctx, post)
}
func (s *postRepoStub) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.countByAuthorFn(ctx, authorID)
}
func (s *postRepoStub) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	return s.countByCategoryFn(ctx, categoryID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		getByIDFn:           func(context.Context, uint) (*models.Post, error) { return nil, nil },
		getByAuthorIDFn:     func(context.Context, uint) ([]*models.Post, error) { return nil, nil },
		getByCategoryIDFn:   func(context.Context, uint) ([]*models.Post, error) { return nil, nil },
		getByCategoryNameFn: func(context.Context, string) ([]*models.Post, error) { return nil, nil },
		getByTagNameFn:      func(context.Context, string) ([]*models.Post, error) { return nil, nil },
		getRecentFn:         func(context.Context, int) ([]*models.Post, error) { return nil, nil },
		getRecentByAuthorFn: func(context.Context, uint, int) ([]*models.Post, error) { return nil, nil },
		createFn:            func(_ context.Context, p *models.Post) error { p.ID = 1; return nil },
		updateFn:            func(context.Context, *models.Post) error { return nil },
		replaceTagsFn:       func(context.Context, *models.Post, []models.Tag) error { return nil },
		deleteFn:            func(context.Context, *models.Post) error { return nil },
		countByAuthorFn:     func(context.Context, uint) (int64, error) { return 0, nil },
		countByCategoryFn:   func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

type tagRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.Tag, error)
	getByIDsFn   func(context.Context, []uint) ([]models.Tag, error)
	getByNameFn  func(context.Context, string) (*models.Tag, error)
	listFn       func(context.Context) ([]models.Tag, error)
	createFn     func(context.Context, *models.Tag) error
	updateFn     func(context.Context, *models.Tag) error
	deleteFn     func(context.Context, *models.Tag) error
	countPostsFn func(context.Context, uint) (int64, error)
}

func (s *tagRepoStub) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	return s.getByIDFn(ctx, id)
}
func (s *tagRepoStub) GetByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *tagRepoStub) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	return s.getByNameFn(ctx, name)
}
func (s *tagRepoStub) List(ctx context.Context) ([]models.Tag, error) {
	return s.listFn(ctx)
}
func (s *tagRepoStub) Create(ctx context.Context, tag *models.Tag) error {
	return s.createFn(ctx, tag)
}
func (s *tagRepoStub) Update(ctx context.Context, tag *models.Tag) error {
	return s.updateFn(ctx, tag)
}
func (s *tagRepoStub) Delete(ctx context.Context, tag *models.Tag) error {
	return s.deleteFn(ctx, tag)
}
func (s *tagRepoStub) CountPosts(ctx context.Context, tagID uint) (int64, error) {
	return s.countPostsFn(ctx, tagID)
}

func noopTagRepo() *tagRepoStub {
	return &tagRepoStub{
		getByIDFn: func(context.Context, uint) (*models.Tag, error) { return nil, nil },
		getByIDsFn: func(_ context.Context, ids []uint) ([]models.Tag, error) {
			tags := make([]models.Tag, 0, len(ids))
			for _, id := range ids {
				tags = append(tags, models.Tag{ID: id})
			}
			return tags, nil
		},
		getByNameFn:  func(context.Context, string) (*models.Tag, error) { return nil, nil },
		listFn:       func(context.Context) ([]models.Tag, error) { return nil, nil },
		createFn:     func(context.Context, *models.Tag) error { return nil },
		updateFn:     func(context.Context, *models.Tag) error { return nil },
		deleteFn:     func(context.Context, *models.Tag) error { return nil },
		countPostsFn: func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

type categoryRepoStub struct {
	getByIDFn   func(context.Context, uint) (*models.Category, error)
	getByNameFn func(context.Context, string) (*models.Category, error)
	listFn      func(context.Context) ([]models.Category, error)
	createFn    func(context.Context, *models.Category) error
	updateFn    func(context.Context, *models.Category) error
	deleteFn    func(context.Context, *models.Category) error
}

func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return s.getByNameFn(ctx, name)
}
func (s *categoryRepoStub) List(ctx context.Context) ([]models.Category, error) {
	return s.listFn(ctx)
}
func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	return s.createFn(ctx, category)
}
func (s *categoryRepoStub) Update(ctx context.Context, category *models.Category) error {
	return s.updateFn(ctx, category)
}
func (s *categoryRepoStub) Delete(ctx context.Context, category *models.Category) error {
	return s.deleteFn(ctx, category)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id, Name: "general"}, nil
		},
		getByNameFn: func(context.Context, string) (*models.Category, error) { return nil, nil },
		listFn:      func(context.Context) ([]models.Category, error) { return nil, nil },
		createFn:    func(_ context.Context, c *models.Category) error { c.ID = 1; return nil },
		updateFn:    func(context.Context, *models.Category) error { return nil },
		deleteFn:    func(context.Context, *models.Category) error { return nil },
	}
}

type subscriptionRepoStub struct {
	findFn           func(context.Context, uint, uint) (*models.Subscription, error)
	listFollowingFn  func(context.Context, uint) ([]*models.Subscription, error)
	listFollowersFn  func(context.Context, uint) ([]*models.Subscription, error)
	countFollowersFn func(context.Context, uint) (int64, error)
	countFollowingFn func(context.Context, uint) (int64, error)
	createFn         func(context.Context, *models.Subscription) error
	updateFn         func(context.Context, *models.Subscription) error
}

func (s *subscriptionRepoStub) Find(ctx context.Context, subscriberID, subscribedToID uint) (*models.Subscription, error) {
	return s.findFn(ctx, subscriberID, subscribedToID)
}
func (s *subscriptionRepoStub) ListFollowing(ctx context.Context, subscriberID uint) ([]*models.Subscription, error) {
	return s.listFollowingFn(ctx, subscriberID)
}
func (s *subscriptionRepoStub) ListFollowers(ctx context.Context, subscribedToID uint) ([]*models.Subscription, error) {
	return s.listFollowersFn(ctx, subscribedToID)
}
func (s *subscriptionRepoStub) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowersFn(ctx, userID)
}
func (s *subscriptionRepoStub) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowingFn(ctx, userID)
}
func (s *subscriptionRepoStub) Create(ctx context.Context, subscription *models.Subscription) error {
	return s.createFn(ctx, subscription)
}
func (s *subscriptionRepoStub) Update(ctx context.Context, subscription *models.Subscription) error {
	return s.updateFn(ctx, subscription)
}

func noopSubscriptionRepo() *subscriptionRepoStub {
	return &subscriptionRepoStub{
		findFn:           func(context.Context, uint, uint) (*models.Subscription, error) { return nil, nil },
		listFollowingFn:  func(context.Context, uint) ([]*models.Subscription, error) { return nil, nil },
		listFollowersFn:  func(context.Context, uint) ([]*models.Subscription, error) { return nil, nil },
		countFollowersFn: func(context.Context, uint) (int64, error) { return 0, nil },
		countFollowingFn: func(context.Context, uint) (int64, error) { return 0, nil },
		createFn:         func(_ context.Context, s *models.Subscription) error { s.ID = 1; return nil },
		updateFn:         func(context.Context, *models.Subscription) error { return nil },
	}
}

func appErrCode(err error) string {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return ""
	}
	return appErr.Code
}
