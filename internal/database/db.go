package database

import (
	"fmt"

	"github.com/higgsterrier/Novel-Publishing-App/internal/config"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/models"
	"github.com/higgsterrier/Novel-Publishing-App/internal/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// ConnectDB opens the postgres connection, migrates the schema and seeds the
// genre catalog.
func ConnectDB(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
	}
	if cfg.IsProduction() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := seedGenres(db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to seed genres: %w", err)
	}

	log.Info("Connected to the database successfully")
	return db, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Genre{},
		&models.Novel{},
		&models.Chapter{},
		&models.Rating{},
		&models.RefreshToken{},
	)
}

// seedGenres inserts the fixed genre enumeration, skipping names that are
// already present so startup stays idempotent.
func seedGenres(db *gorm.DB) error {
	genres := make([]models.Genre, 0, len(models.CatalogGenres))
	for _, name := range models.CatalogGenres {
		genres = append(genres, models.Genre{Name: name})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&genres).Error
}
