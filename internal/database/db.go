package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/zaqqye/signage_backend/internal/config"
)

// StoredDocument is one row of the documents table.
type StoredDocument struct {
	Name      string `gorm:"size:64;primaryKey"`
	Body      []byte `gorm:"type:bytea"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (StoredDocument) TableName() string { return "documents" }

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
	)
	return gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&StoredDocument{})
}

// PostgresStore keeps the documents as rows and serializes updates with row locks.
type PostgresStore struct {
	DB *gorm.DB
}

func NewPostgresStore(cfg *config.Config) (*PostgresStore, error) {
	db, err := Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}
	return &PostgresStore{DB: db}, nil
}

func (s *PostgresStore) Load(ctx context.Context, doc Document) ([]byte, error) {
	var row StoredDocument
	err := s.DB.WithContext(ctx).Where("name = ?", string(doc)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", doc, err)
	}
	if len(row.Body) == 0 {
		return nil, ErrNotExist
	}
	return row.Body, nil
}

func (s *PostgresStore) Save(ctx context.Context, doc Document, data []byte) error {
	row := StoredDocument{Name: string(doc), Body: data}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save %s: %w", doc, err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, doc Document, fn UpdateFunc) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// make sure the row exists so FOR UPDATE has something to lock
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&StoredDocument{Name: string(doc)}).Error; err != nil {
			return err
		}
		var row StoredDocument
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("name = ?", string(doc)).First(&row).Error; err != nil {
			return err
		}
		var current []byte
		if len(row.Body) > 0 {
			current = row.Body
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		return tx.Model(&StoredDocument{}).Where("name = ?", string(doc)).
			Update("body", next).Error
	})
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
