package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tokoadmin/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOfferRepository is a GORM implementation of OfferRepository.
type GORMOfferRepository struct {
	db *gorm.DB
}

// NewGORMOfferRepository creates a new instance of GORMOfferRepository.
func NewGORMOfferRepository(db *gorm.DB) *GORMOfferRepository {
	return &GORMOfferRepository{db: db}
}

// List retrieves one page of offers matching f at now.
func (r *GORMOfferRepository) List(ctx context.Context, f models.ListFilter, now time.Time) ([]models.Offer, int64, error) {
	order, err := orderClause(f, offerColumns, "title ASC")
	if err != nil {
		return nil, 0, err
	}
	scope := func(q *gorm.DB) *gorm.DB {
		if f.Search != "" {
			p := likePattern(f.Search)
			q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", p, p)
		}
		if f.Category != "" {
			// categories are stored as a JSON array of strings
			q = q.Where("categories LIKE ?", `%"`+f.Category+`"%`)
		}
		return displayStatusWhere(q, canonicalStatus(f.Status), now)
	}
	offers, total, err := findPage[models.Offer](r.db.WithContext(ctx), scope, f, order)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list offers: %w", err)
	}
	return offers, total, nil
}

// GetByID retrieves an offer by ID.
func (r *GORMOfferRepository) GetByID(ctx context.Context, id string) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.WithContext(ctx).First(&offer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NotFound("offer", id)
		}
		return nil, fmt.Errorf("failed to get offer by ID %s: %w", id, err)
	}
	return &offer, nil
}

// Create inserts an offer.
func (r *GORMOfferRepository) Create(ctx context.Context, offer *models.Offer) error {
	if offer.ID == "" {
		offer.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(offer).Error; err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}
	return nil
}

// Update saves every editable offer column.
func (r *GORMOfferRepository) Update(ctx context.Context, offer *models.Offer) error {
	res := r.db.WithContext(ctx).Model(&models.Offer{}).Where("id = ?", offer.ID).
		Select("title", "description", "discount_type", "value", "min_order_amount", "max_discount",
			"usage_limit", "usage_count", "target_audience", "categories", "priority",
			"conversion_rate", "is_public", "start_date", "end_date", "is_active").
		Updates(offer)
	if res.Error != nil {
		return fmt.Errorf("failed to update offer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NotFound("offer", offer.ID)
	}
	return nil
}

// Delete soft-deletes an offer.
func (r *GORMOfferRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Offer{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete offer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NotFound("offer", id)
	}
	return nil
}
