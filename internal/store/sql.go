package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"peerprep/interview/internal/session"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SnapshotRow holds one serialised snapshot per schema version
type SnapshotRow struct {
	SchemaVersion string    `gorm:"primaryKey;size:64"`
	Revision      uint64    `gorm:"not null"`
	Payload       string    `gorm:"type:text;not null"`
	SavedAt       time.Time `gorm:"not null"`
	UpdatedAt     time.Time
}

func (SnapshotRow) TableName() string {
	return "interview_snapshots"
}

// PostgresConfig is the connection settings for the postgres driver
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode)
}

func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return db, nil
}

func OpenPostgres(cfg PostgresConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// SQL stores snapshots through gorm, for sqlite or postgres
type SQL struct {
	db     *gorm.DB
	driver string
}

// NewSQL migrates the snapshot table and returns a store over it
func NewSQL(db *gorm.DB, driver string) (*SQL, error) {
	if err := db.AutoMigrate(&SnapshotRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &SQL{db: db, driver: driver}, nil
}

func (s *SQL) Load(ctx context.Context) (*session.Snapshot, error) {
	var row SnapshotRow
	err := s.db.WithContext(ctx).Where("schema_version = ?", session.SchemaVersion).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return decode([]byte(row.Payload))
}

func (s *SQL) Save(ctx context.Context, snap *session.Snapshot) error {
	data, err := encode(snap)
	if err != nil {
		return err
	}
	row := SnapshotRow{
		SchemaVersion: snap.SchemaVersion,
		Revision:      snap.Revision,
		Payload:       string(data),
		SavedAt:       snap.SavedAt,
	}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *SQL) Name() string { return s.driver }

func (s *SQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
