package db

import (
	_ "video-svc/migrations"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

// Migrate applies the Go migrations registered by the migrations package.
func Migrate(database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	goose.SetBaseFS(nil)
	return goose.Up(sqlDB, ".")
}
