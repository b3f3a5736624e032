package repositories

import (
	"context"
	"strings"
	"sync"
	"time"

	"tokoadmin/internal/models"

	"github.com/google/uuid"
)

// MemoryOfferRepository is an in-memory implementation of OfferRepository.
type MemoryOfferRepository struct {
	offers map[string]models.Offer
	mu     sync.RWMutex
}

// NewMemoryOfferRepository creates a new instance of MemoryOfferRepository.
func NewMemoryOfferRepository() *MemoryOfferRepository {
	return &MemoryOfferRepository{offers: make(map[string]models.Offer)}
}

var priorityRank = map[string]int{"low": 0, "medium": 1, "high": 2}

var offerLess = map[string]lessFunc[models.Offer]{
	"title":           func(a, b models.Offer) bool { return a.Title < b.Title },
	"end_date":        func(a, b models.Offer) bool { return a.EndDate.Before(b.EndDate) },
	"start_date":      func(a, b models.Offer) bool { return a.StartDate.Before(b.StartDate) },
	"priority":        func(a, b models.Offer) bool { return priorityRank[a.Priority] < priorityRank[b.Priority] },
	"conversion_rate": func(a, b models.Offer) bool { return a.ConversionRate < b.ConversionRate },
	"created_at":      func(a, b models.Offer) bool { return a.CreatedAt.Before(b.CreatedAt) },
}

func offerMatches(o models.Offer, f models.ListFilter, now time.Time) bool {
	if f.Search != "" && !containsFold(o.Title, f.Search) && !containsFold(o.Description, f.Search) {
		return false
	}
	if f.Status != "" && !strings.EqualFold(string(o.DisplayStatus(now)), f.Status) {
		return false
	}
	if f.Category != "" {
		for _, c := range o.Categories {
			if c == f.Category {
				return true
			}
		}
		return false
	}
	return true
}

// List returns one page of offers matching f.
func (r *MemoryOfferRepository) List(ctx context.Context, f models.ListFilter, now time.Time) ([]models.Offer, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Offer, 0, len(r.offers))
	for _, o := range r.offers {
		if offerMatches(o, f, now) {
			o.Categories = append([]string(nil), o.Categories...)
			matched = append(matched, o)
		}
	}
	return sortAndPage(matched, f, offerLess, offerLess["title"])
}

// GetByID returns an offer by its ID.
func (r *MemoryOfferRepository) GetByID(ctx context.Context, id string) (*models.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.offers[id]
	if !ok {
		return nil, models.NotFound("offer", id)
	}
	o.Categories = append([]string(nil), o.Categories...)
	return &o, nil
}

// Create adds a new offer.
func (r *MemoryOfferRepository) Create(ctx context.Context, offer *models.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if offer.ID == "" {
		offer.ID = uuid.New().String()
	}
	now := time.Now()
	offer.CreatedAt, offer.UpdatedAt = now, now
	r.offers[offer.ID] = *offer
	return nil
}

// Update replaces an existing offer.
func (r *MemoryOfferRepository) Update(ctx context.Context, offer *models.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.offers[offer.ID]
	if !ok {
		return models.NotFound("offer", offer.ID)
	}
	offer.CreatedAt = existing.CreatedAt
	offer.UpdatedAt = time.Now()
	r.offers[offer.ID] = *offer
	return nil
}

// Delete removes an offer.
func (r *MemoryOfferRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.offers[id]; !ok {
		return models.NotFound("offer", id)
	}
	delete(r.offers, id)
	return nil
}
