package db

import (
	"fmt"

	"socialbook/models"

	"gorm.io/gorm"
)

func Migrate(orm *gorm.DB) error {
	err := orm.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Post{},
		&models.LikePost{},
		&models.Comment{},
		&models.Follow{},
		&models.Block{},
		&models.Notification{},
	)
	if err != nil {
		return err
	}
	if orm.Dialector.Name() == DriverPostgres {
		return CreateSearchIndexes(orm)
	}
	return nil
}

// CreateSearchIndexes создает индексы для поиска профилей по подстроке имени
func CreateSearchIndexes(orm *gorm.DB) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS pg_trgm;`,
		`CREATE INDEX IF NOT EXISTS idx_users_username_trgm ON users USING gin (lower(username) gin_trgm_ops);`,
		// лента сортируется по времени внутри автора
		`CREATE INDEX IF NOT EXISTS idx_posts_user_created_at ON posts (author, created_at DESC);`,
	}
	for _, stmt := range statements {
		if err := orm.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to apply %q: %w", stmt, err)
		}
	}
	return nil
}
