package postgres

import (
	"fmt"
	"log"

	"github.com/roundbuy/backend-sub000/internal/config"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/migrate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB connects without touching the schema.
func OpenDB(dbCfg config.DisputeDB) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dbCfg.Dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if dbCfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(dbCfg.MaxOpenConns)
	}
	if dbCfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(dbCfg.MaxIdleConns)
	}
	return db, nil
}

func MustInitDB(cfg *config.DisputeConfig) *gorm.DB {
	db, err := OpenDB(cfg.DisputeDB)
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	if err := migrate.RunMigrations(db, cfg.DisputeDB.MigrationPath); err != nil {
		log.Fatalf("failed to migrate db: %v\n", err.Error())
	}

	return db
}
