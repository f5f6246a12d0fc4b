package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TypeMySQL  = "mysql"
	TypeSQLite = "sqlite"

	DefaultSQLiteDSN = "herhaalbot.db"
)

// NewGormDB opens the run history database.
// dbType is "mysql" or "sqlite" (anything else falls back to sqlite); an empty dsn
// selects a local sqlite file.
func NewGormDB(dbType, dsn string) (*gorm.DB, error) {
	dialector, err := dialectorFor(dbType, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(log.New(os.Stdout, "[gorm] ", log.LstdFlags), logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s history database: %w", dbType, err)
	}
	return db, nil
}

func dialectorFor(dbType, dsn string) (gorm.Dialector, error) {
	if dbType == TypeMySQL {
		if dsn == "" {
			return nil, fmt.Errorf("DB_DSN is required for %s", TypeMySQL)
		}
		return mysql.Open(dsn), nil
	}
	if dsn == "" {
		dsn = DefaultSQLiteDSN
		log.Printf("herhaalbot: run history in %s", dsn)
	}
	return sqlite.Open(dsn), nil
}

// AutoMigrate creates or updates the tables of models.
func AutoMigrate(db *gorm.DB, models ...interface{}) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("migrating history tables: %w", err)
	}
	return nil
}
