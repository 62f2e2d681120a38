package config

import (
	gormlogrus "github.com/onrik/gorm-logrus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kendall-kelly/garage-jobs-api/models"
)

// ConnectDatabase opens the database described by cfg.
// The returned handle is shared by every request; callers pass it explicitly.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogrus.New(),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	log.WithField("driver", cfg.DatabaseDriver).Info("Database connection established successfully")
	return db, nil
}

// Migrate creates any missing tables, columns and indexes
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}
	return nil
}

// PingDatabase checks that the underlying connection pool is reachable
func PingDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get database instance")
	}
	if err := sqlDB.Ping(); err != nil {
		return errors.Wrap(err, "database connection failed")
	}
	return nil
}

// CloseDatabase releases the connection pool
func CloseDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get database instance")
	}
	return sqlDB.Close()
}

func dialectorFor(cfg *Config) (gorm.Dialector, error) {
	switch cfg.DatabaseDriver {
	case DriverPostgres:
		return postgres.Open(cfg.DatabaseURL), nil
	case DriverSQLite:
		return sqlite.Open(cfg.DatabaseURL), nil
	default:
		return nil, errors.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}
