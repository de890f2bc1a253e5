package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"jackut/internal/config"
	"jackut/internal/models"
)

// gormLogWriter feeds gorm's SQL log lines into zerolog.
type gormLogWriter struct {
	log zerolog.Logger
}

func (w gormLogWriter) Printf(format string, args ...interface{}) {
	w.log.Debug().Msgf(strings.TrimSpace(format), args...)
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// BuildDSN renders the connection string for cfg.
func BuildDSN(cfg config.DatabaseConfig) (string, error) {
	switch cfg.Type {
	case "postgres":
		var dsnParts []string
		dsnParts = append(dsnParts, fmt.Sprintf("host=%s", cfg.Host))
		dsnParts = append(dsnParts, fmt.Sprintf("port=%d", cfg.Port))
		dsnParts = append(dsnParts, fmt.Sprintf("user=%s", cfg.User))
		dsnParts = append(dsnParts, fmt.Sprintf("dbname=%s", cfg.DBName))
		if cfg.Password != "" {
			dsnParts = append(dsnParts, fmt.Sprintf("password=%s", cfg.Password))
		}
		dsnParts = append(dsnParts, fmt.Sprintf("sslmode=%s", cfg.SSLMode))
		return strings.Join(dsnParts, " "), nil
	default:
		return "", fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// InitDB opens the database connection using the provided configuration.
func InitDB(cfg config.DatabaseConfig, log zerolog.Logger) (*gorm.DB, error) {
	dsn, err := BuildDSN(cfg)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		gormLogWriter{log: log.With().Str("component", "gorm").Logger()},
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// AutoMigrateTables creates or updates the tables used by the snapshot backend.
func AutoMigrateTables(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.SnapshotRecord{}); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	return nil
}

// GormSnapshotStore keeps the snapshot as one row of snapshot_records.
type GormSnapshotStore struct {
	db   *gorm.DB
	name string
}

func NewGormSnapshotStore(db *gorm.DB, name string) *GormSnapshotStore {
	return &GormSnapshotStore{db: db, name: name}
}

func (s *GormSnapshotStore) Load(ctx context.Context) (*Snapshot, error) {
	var rec models.SnapshotRecord
	err := s.db.WithContext(ctx).Where("name = ?", s.name).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", s.name, err)
	}
	return DecodeSnapshot(rec.Payload)
}

// Save upserts the row keyed by the snapshot name.
func (s *GormSnapshotStore) Save(ctx context.Context, snap *Snapshot) error {
	payload, sum, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	rec := models.SnapshotRecord{
		Name:     s.name,
		Version:  SnapshotVersion,
		Checksum: sum,
		SavedAt:  snap.SavedAt.UTC(),
		Payload:  payload,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"version", "checksum", "saved_at", "payload", "updated_at", "deleted_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", s.name, err)
	}
	return nil
}

// Delete removes the row permanently so a later Save starts from a clean slate.
func (s *GormSnapshotStore) Delete(ctx context.Context) error {
	err := s.db.WithContext(ctx).Unscoped().Where("name = ?", s.name).Delete(&models.SnapshotRecord{}).Error
	if err != nil {
		return fmt.Errorf("delete snapshot %q: %w", s.name, err)
	}
	return nil
}
