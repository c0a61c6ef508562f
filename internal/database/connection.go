package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// connectAttempts bounds how long startup waits for a database container
const connectAttempts = 5

var firstRetryDelay = time.Second

// InitDatabase opens and pings the configured database, retrying with a
// doubling delay, then sizes the connection pool for the driver
func InitDatabase(cfg DatabaseConfig) (*gorm.DB, error) {
	driver := strings.ToLower(cfg.Driver)
	dialector, err := dialectorFor(driver, cfg.DSN())
	if err != nil {
		return nil, err
	}

	delay := firstRetryDelay
	for attempt := 1; ; attempt++ {
		db, err := open(dialector)
		if err == nil {
			sqlDB, _ := db.DB()
			configureConnectionPool(sqlDB, driver)
			log.WithFields(logrus.Fields{"db_driver": driver, "attempt": attempt}).Info("Database connected")
			return db, nil
		}
		if attempt == connectAttempts {
			return nil, fmt.Errorf("connect to %s after %d attempts: %w", driver, attempt, err)
		}

		log.WithError(err).WithFields(logrus.Fields{
			"attempt": attempt,
			"delay":   delay.String(),
		}).Warn("Database not reachable, retrying")
		time.Sleep(delay)
		delay *= 2
	}
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres", "postgresql":
		return postgres.Open(dsn), nil
	case "sqlite", "":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s (supported: postgres, sqlite)", driver)
	}
}

func open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, gormConfig())
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// gormConfig turns driver specific constraint violations into gorm.ErrDuplicatedKey
// and gorm.ErrForeignKeyViolated
func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

func configureConnectionPool(sqlDB *sql.DB, driver string) {
	if driver == "sqlite" || driver == "" {
		// sqlite serialises writers; one connection avoids "database is locked"
		sqlDB.SetMaxOpenConns(1)
		return
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
}
