package persistence

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"visitsync-service/internal/infrastructure/config"
)

// NewHISConnection opens the read-only GORM connection to the HIS MySQL
// database. The HIS schema belongs to the hospital system; nothing is ever
// migrated or written through this handle.
func NewHISConnection(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=Asia%%2FBangkok",
		cfg.HISUser, cfg.HISPassword, cfg.HISHost, cfg.HISPort, cfg.HISName)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect HIS database: %w", err)
	}
	return db, nil
}

// NewLocalConnection opens the GORM connection to the local reporting
// PostgreSQL database
func NewLocalConnection(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=Asia/Bangkok",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect local database: %w", err)
	}
	return db, nil
}
