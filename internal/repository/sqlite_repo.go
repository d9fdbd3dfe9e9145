package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"inventory-lab/internal/domain"
	"inventory-lab/internal/service"

	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteRepository is the Lab1 store: a single database file managed by GORM.
type SQLiteRepository struct {
	sqlDB *sql.DB
	db    *gorm.DB
}

var _ service.InventoryRepository = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens (or creates) the database file and migrates the
// schema.
func NewSQLiteRepository(ctx context.Context, dbPath string) (*SQLiteRepository, error) {
	if dbDir := filepath.Dir(dbPath); dbDir != "" {
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	// SQLite serialises writers anyway.
	sqlDB.SetMaxOpenConns(1)

	gormLogger := logger.New(log.Default(), logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})

	db, err := gorm.Open(sqlite.New(sqlite.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to initialise gorm: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&siteRecord{}, &countryRecord{}, &tagRecord{}, &deviceRecord{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	slog.Info("sqlite database ready", "path", dbPath)
	return &SQLiteRepository{sqlDB: sqlDB, db: db}, nil
}

// --- Sites ---

func (r *SQLiteRepository) CreateSite(ctx context.Context, site *domain.Site) error {
	rec := newSiteRecord(site)
	return translate(r.db.WithContext(ctx).Create(&rec).Error)
}

func (r *SQLiteRepository) ListSites(ctx context.Context) ([]*domain.Site, error) {
	var recs []siteRecord
	if err := r.db.WithContext(ctx).Order("name").Find(&recs).Error; err != nil {
		return nil, err
	}
	sites := make([]*domain.Site, 0, len(recs))
	for i := range recs {
		sites = append(sites, recs[i].toDomain())
	}
	return sites, nil
}

func (r *SQLiteRepository) GetSiteByID(ctx context.Context, id string) (*domain.Site, error) {
	return r.findSite(ctx, "id = ?", id)
}

func (r *SQLiteRepository) GetSiteByName(ctx context.Context, name string) (*domain.Site, error) {
	return r.findSite(ctx, "name = ?", name)
}

func (r *SQLiteRepository) findSite(ctx context.Context, query string, arg string) (*domain.Site, error) {
	var rec siteRecord
	err := r.db.WithContext(ctx).Where(query, arg).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}

// DeleteSite removes the site and detaches any device located there.
func (r *SQLiteRepository) DeleteSite(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&deviceRecord{}).Where("site_id = ?", id).Update("site_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&siteRecord{}, "id = ?", id).Error
	})
}

// --- Countries ---

func (r *SQLiteRepository) CreateCountry(ctx context.Context, country *domain.Country) error {
	rec := newCountryRecord(country)
	return translate(r.db.WithContext(ctx).Create(&rec).Error)
}

func (r *SQLiteRepository) ListCountries(ctx context.Context) ([]*domain.Country, error) {
	var recs []countryRecord
	if err := r.db.WithContext(ctx).Order("name").Find(&recs).Error; err != nil {
		return nil, err
	}
	countries := make([]*domain.Country, 0, len(recs))
	for i := range recs {
		countries = append(countries, recs[i].toDomain())
	}
	return countries, nil
}

func (r *SQLiteRepository) GetCountryByID(ctx context.Context, id string) (*domain.Country, error) {
	return r.findCountry(ctx, "id = ?", id)
}

func (r *SQLiteRepository) GetCountryByName(ctx context.Context, name string) (*domain.Country, error) {
	return r.findCountry(ctx, "name = ?", name)
}

func (r *SQLiteRepository) findCountry(ctx context.Context, query string, arg string) (*domain.Country, error) {
	var rec countryRecord
	err := r.db.WithContext(ctx).Where(query, arg).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}

func (r *SQLiteRepository) DeleteCountry(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&countryRecord{}, "id = ?", id).Error
}

// --- Tags ---

func (r *SQLiteRepository) CreateTag(ctx context.Context, tag *domain.Tag) error {
	rec := newTagRecord(tag)
	return translate(r.db.WithContext(ctx).Create(&rec).Error)
}

func (r *SQLiteRepository) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	var recs []tagRecord
	if err := r.db.WithContext(ctx).Order("name").Find(&recs).Error; err != nil {
		return nil, err
	}
	tags := make([]*domain.Tag, 0, len(recs))
	for i := range recs {
		t := recs[i].toDomain()
		tags = append(tags, &t)
	}
	return tags, nil
}

func (r *SQLiteRepository) GetTagByID(ctx context.Context, id string) (*domain.Tag, error) {
	return r.findTag(ctx, "id = ?", id)
}

func (r *SQLiteRepository) GetTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	return r.findTag(ctx, "name = ?", name)
}

func (r *SQLiteRepository) findTag(ctx context.Context, query string, arg string) (*domain.Tag, error) {
	var rec tagRecord
	err := r.db.WithContext(ctx).Where(query, arg).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t := rec.toDomain()
	return &t, nil
}

func (r *SQLiteRepository) DeleteTag(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM device_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&tagRecord{}, "id = ?", id).Error
	})
}

// --- Devices ---

func (r *SQLiteRepository) CreateDevice(ctx context.Context, device *domain.Device) error {
	rec := newDeviceRecord(device)
	// Tags already exist; only the join rows are written.
	return translate(r.db.WithContext(ctx).Omit("Tags.*").Create(&rec).Error)
}

func (r *SQLiteRepository) ListDevices(ctx context.Context) ([]*domain.Device, error) {
	var recs []deviceRecord
	err := r.db.WithContext(ctx).
		Preload("Site").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Order("name").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	devices := make([]*domain.Device, 0, len(recs))
	for i := range recs {
		devices = append(devices, recs[i].toDomain())
	}
	return devices, nil
}

func (r *SQLiteRepository) GetDeviceByID(ctx context.Context, id string) (*domain.Device, error) {
	return r.findDevice(ctx, "id = ?", id)
}

func (r *SQLiteRepository) GetDeviceByName(ctx context.Context, name string) (*domain.Device, error) {
	return r.findDevice(ctx, "name = ?", name)
}

func (r *SQLiteRepository) findDevice(ctx context.Context, query string, arg string) (*domain.Device, error) {
	var rec deviceRecord
	err := r.db.WithContext(ctx).
		Preload("Site").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Where(query, arg).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}

func (r *SQLiteRepository) DeleteDevice(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM device_tags WHERE device_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&deviceRecord{}, "id = ?", id).Error
	})
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.sqlDB.PingContext(ctx)
}

func (r *SQLiteRepository) Close(context.Context) error {
	return r.sqlDB.Close()
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %w", service.ErrAlreadyExists, err)
	}
	return err
}
