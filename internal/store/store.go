// Package store persists applications, stockbrokers and admin users behind
// gorm repositories. Postgres in production; tests run against sqlite.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/apelng/offerintake/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Open connects to Postgres and migrates the schema.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Stockbroker{},
		&model.Application{},
		&model.AdminUser{},
	); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// Applications is the repository for share applications.
type Applications struct {
	db *gorm.DB
}

// NewApplications returns an application repository over db.
func NewApplications(db *gorm.DB) *Applications {
	return &Applications{db: db}
}

// Create persists a new application and reloads its stockbroker association.
func (r *Applications) Create(ctx context.Context, app *model.Application) error {
	if err := r.db.WithContext(ctx).Create(app).Error; err != nil {
		return fmt.Errorf("creating application: %w", err)
	}
	return r.db.WithContext(ctx).
		Preload("Stockbroker").
		First(app, app.ID).Error
}

// GetByID loads one application with its stockbroker.
func (r *Applications) GetByID(ctx context.Context, id uint) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).
		Preload("Stockbroker").
		First(&app, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading application %d: %w", id, err)
	}
	return &app, nil
}

// ListQuery filters and paginates application listings.
type ListQuery struct {
	Page   int
	Limit  int
	Status model.Status
}

// List returns a page of applications, newest first, plus the total count
// for the filter.
func (r *Applications) List(ctx context.Context, q ListQuery) ([]model.Application, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}

	tx := r.db.WithContext(ctx).Model(&model.Application{})
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting applications: %w", err)
	}

	var apps []model.Application
	err := tx.Preload("Stockbroker").
		Order("created_at DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&apps).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing applications: %w", err)
	}
	return apps, total, nil
}

// UpdateStatus sets the review status and returns the updated record.
func (r *Applications) UpdateStatus(ctx context.Context, id uint, status model.Status) (*model.Application, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("updating application %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Statistics summarizes applications for the admin dashboard.
type Statistics struct {
	Total       int64 `json:"total"`
	Pending     int64 `json:"pending"`
	Submitted   int64 `json:"submitted"`
	Approved    int64 `json:"approved"`
	Rejected    int64 `json:"rejected"`
	TotalShares int64 `json:"totalShares"`
	TotalAmount int64 `json:"totalAmount"`
}

// Statistics computes per-status counts and share/amount sums.
func (r *Applications) Statistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{}

	counts := []struct {
		status model.Status
		dest   *int64
	}{
		{"", &stats.Total},
		{model.StatusPending, &stats.Pending},
		{model.StatusSubmitted, &stats.Submitted},
		{model.StatusApproved, &stats.Approved},
		{model.StatusRejected, &stats.Rejected},
	}
	for _, c := range counts {
		tx := r.db.WithContext(ctx).Model(&model.Application{})
		if c.status != "" {
			tx = tx.Where("status = ?", c.status)
		}
		if err := tx.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("counting applications: %w", err)
		}
	}

	type sums struct {
		Shares int64
		Amount int64
	}
	var s sums
	err := r.db.WithContext(ctx).
		Model(&model.Application{}).
		Select("COALESCE(SUM(shares_applied), 0) AS shares, COALESCE(SUM(amount_payable_kobo), 0) AS amount").
		Scan(&s).Error
	if err != nil {
		return nil, fmt.Errorf("summing applications: %w", err)
	}
	stats.TotalShares = s.Shares
	stats.TotalAmount = s.Amount

	return stats, nil
}

// Stockbrokers is the repository for the broker directory.
type Stockbrokers struct {
	db *gorm.DB
}

// NewStockbrokers returns a stockbroker repository over db.
func NewStockbrokers(db *gorm.DB) *Stockbrokers {
	return &Stockbrokers{db: db}
}

// List returns all stockbrokers ordered by name.
func (r *Stockbrokers) List(ctx context.Context) ([]model.Stockbroker, error) {
	var brokers []model.Stockbroker
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&brokers).Error; err != nil {
		return nil, fmt.Errorf("listing stockbrokers: %w", err)
	}
	return brokers, nil
}

// Admins is the repository for administrative users.
type Admins struct {
	db *gorm.DB
}

// NewAdmins returns an admin repository over db.
func NewAdmins(db *gorm.DB) *Admins {
	return &Admins{db: db}
}

// Create registers a new admin. Fails on duplicate email.
func (r *Admins) Create(ctx context.Context, admin *model.AdminUser) error {
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}
	return nil
}

// GetByEmail loads one admin by email address.
func (r *Admins) GetByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	var admin model.AdminUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading admin %s: %w", email, err)
	}
	return &admin, nil
}
