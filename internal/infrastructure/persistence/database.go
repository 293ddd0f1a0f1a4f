// Package persistence is the gorm backend behind the entity repositories:
// readers, searchers and writers for every entity plus the translation of
// search criteria to SQL.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/shopcore/backend/internal/infrastructure/config"
	"github.com/shopcore/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database owns the gorm connection pool shared by all entity stores
type Database struct {
	DB     *gorm.DB
	logger *zap.Logger
}

// NewDatabase opens a postgres connection pool and logs SQL through zap
func NewDatabase(cfg *config.DatabaseConfig, logCfg *config.LogConfig, zapLogger *zap.Logger) (*Database, error) {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	level := gormlogger.Warn
	if logCfg != nil {
		level = logger.MapGormLogLevel(logCfg.Level)
	}
	gormLog := logger.NewGormLogger(zapLogger, level, logger.WithSlowThreshold(cfg.SlowQueryThreshold))

	db, err := openDatabase(postgres.Open(cfg.DSN()), gormLog, zapLogger)
	if err != nil {
		return nil, err
	}
	if err := db.configurePool(cfg); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.Ping(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	zapLogger.Info("Connected to database",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.DBName),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
	)
	return db, nil
}

func openDatabase(dialector gorm.Dialector, gormLog gormlogger.Interface, zapLogger *zap.Logger) (*Database, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLog,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Database{DB: db, logger: zapLogger}, nil
}

func (d *Database) configurePool(cfg *config.DatabaseConfig) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
	return nil
}

// Ping checks that the database answers
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Close logs the final pool usage and closes the pool
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	stats := sqlDB.Stats()
	d.logger.Debug("Closing database pool",
		zap.Int("open", stats.OpenConnections),
		zap.Int("in_use", stats.InUse),
		zap.Int64("wait_count", stats.WaitCount),
		zap.Duration("wait_duration", stats.WaitDuration),
	)
	return sqlDB.Close()
}
