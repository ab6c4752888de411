package repository

import (
	"context"

	"gorm.io/gorm"
)

// Tx bundles every repository bound to one database handle. Inside
// UnitOfWork.Do that handle is a transaction: mutations staged through any
// repository in the bundle commit or roll back together.
type Tx struct {
	Users         UserRepository
	Roles         RoleRepository
	Posts         PostRepository
	Tags          TagRepository
	Categories    CategoryRepository
	Subscriptions SubscriptionRepository
}

func newTx(db *gorm.DB) *Tx {
	return &Tx{
		Users:         NewUserRepository(db),
		Roles:         NewRoleRepository(db),
		Posts:         NewPostRepository(db),
		Tags:          NewTagRepository(db),
		Categories:    NewCategoryRepository(db),
		Subscriptions: NewSubscriptionRepository(db),
	}
}

// UnitOfWork is the transactional boundary for service-layer operations.
type UnitOfWork interface {
	// Do runs fn inside a single database transaction. Every mutation staged
	// through the Tx repositories applies in issuance order and commits
	// atomically; any returned error rolls the whole transaction back.
	// Context cancellation propagates into every storage call.
	Do(ctx context.Context, fn func(tx *Tx) error) error

	// Repos returns a repository bundle over the base connection for plain
	// reads that need no transactional scope.
	Repos() *Tx
}

type gormUnitOfWork struct {
	db    *gorm.DB
	repos *Tx
}

// NewUnitOfWork creates a UnitOfWork over the given database connection.
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{
		db:    db,
		repos: newTx(db),
	}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(tx *Tx) error) error {
	return u.db.WithContext(ctx).Transaction(func(txDB *gorm.DB) error {
		return fn(newTx(txDB))
	})
}

func (u *gormUnitOfWork) Repos() *Tx {
	return u.repos
}
