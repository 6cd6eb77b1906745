package config

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// OpenDB اتصال به دیتابیس MySQL را راه‌اندازی می‌کند
func OpenDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	Logger.Info("Database connected")
	return db, nil
}

func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB() // گرفتن *sql.DB از *gorm.DB
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
