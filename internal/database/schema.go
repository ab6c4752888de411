package database

import (
	"errors"
	"log/slog"

	"quill/internal/config"
	"quill/internal/middleware"
	"quill/internal/models"

	"gorm.io/gorm"
)

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.Role{},
		&models.User{},
		&models.Category{},
		&models.Tag{},
		&models.Post{},
		&models.Subscription{},
	}
}

// EnsureSchemaExtras applies constraints AutoMigrate cannot express.
//
// The pair-uniqueness index on subscriptions comes from the model tags; the
// self-subscription CHECK lives here. Postgres only: sqlite (dev/test) relies
// on the service-layer guard.
func EnsureSchemaExtras(db *gorm.DB, cfg *config.Config) error {
	if cfg.DBDriver != "postgres" {
		return nil
	}

	stmts := []string{
		`ALTER TABLE subscriptions DROP CONSTRAINT IF EXISTS chk_subscriptions_not_self`,
		`ALTER TABLE subscriptions ADD CONSTRAINT chk_subscriptions_not_self CHECK (subscriber_id <> subscribed_to_id)`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			middleware.Logger.Warn("schema extra failed",
				slog.String("stmt", stmt), slog.String("error", err.Error()))
			return err
		}
	}
	return nil
}

// SeedRoles creates the built-in roles when missing.
func SeedRoles(db *gorm.DB) error {
	for _, name := range []string{models.RoleAdmin, models.RoleAuthor} {
		var role models.Role
		err := db.Where("name = ?", name).First(&role).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&models.Role{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}
