package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// PostgresConfig holds connection settings for the hosted document database.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

type document struct {
	Collection string    `gorm:"primaryKey;size:512"`
	ID         string    `gorm:"primaryKey;size:64"`
	Data       string    `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

func (document) TableName() string { return "documents" }

// Postgres stores documents in a jsonb column through gorm.
type Postgres struct {
	db *gorm.DB
}

// OpenPostgres connects to PostgreSQL and migrates the documents table.
func OpenPostgres(cfg PostgresConfig) (*Postgres, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&document{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Postgres{db: db}, nil
}

func (p *Postgres) List(ctx context.Context, path string) ([]Record, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}

	var docs []document
	if err := p.db.WithContext(ctx).
		Where("collection = ?", path).
		Order("created_at, id").
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", path, err)
	}

	results := make([]Record, 0, len(docs))
	for _, d := range docs {
		rec, err := unmarshalFields(d.ID, d.Data)
		if err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	return results, nil
}

func (p *Postgres) Get(ctx context.Context, path, id string) (Record, error) {
	if err := ValidatePath(path); err != nil {
		return Record{}, err
	}

	var d document
	err := p.db.WithContext(ctx).
		Where("collection = ? AND id = ?", path, id).
		First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Record{}, fmt.Errorf("%s/%s: %w", path, id, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to get %s/%s: %w", path, id, err)
	}
	return unmarshalFields(d.ID, d.Data)
}

func (p *Postgres) Create(ctx context.Context, path string, fields Fields) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", err
	}
	data, err := marshalFields(fields)
	if err != nil {
		return "", err
	}

	d := document{Collection: path, ID: NewID(), Data: data}
	if err := p.db.WithContext(ctx).Create(&d).Error; err != nil {
		return "", fmt.Errorf("failed to insert into %s: %w", path, err)
	}
	return d.ID, nil
}

func (p *Postgres) Update(ctx context.Context, path, id string, fields Fields) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	patch, err := marshalFields(fields)
	if err != nil {
		return err
	}

	result := p.db.WithContext(ctx).
		Model(&document{}).
		Where("collection = ? AND id = ?", path, id).
		Updates(map[string]any{
			"data":       gorm.Expr("data || ?::jsonb", patch),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update %s/%s: %w", path, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s/%s: %w", path, id, ErrNotFound)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, path, id string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if err := p.db.WithContext(ctx).
		Where("collection = ? AND id = ?", path, id).
		Delete(&document{}).Error; err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", path, id, err)
	}
	return nil
}

func (p *Postgres) Put(ctx context.Context, path, id string, fields Fields) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	data, err := marshalFields(fields)
	if err != nil {
		return err
	}

	d := document{Collection: path, ID: id, Data: data}
	if err := p.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&d).Error; err != nil {
		return fmt.Errorf("failed to put %s/%s: %w", path, id, err)
	}
	return nil
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return fmt.Errorf("failed to retrieve sql.DB: %w", err)
	}
	return sqlDB.Close()
}
