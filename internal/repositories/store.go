package repositories

import (
	"fmt"

	"tokoadmin/internal/models"
	"tokoadmin/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Store groups every repository behind one backend.
type Store struct {
	Products ProductRepository
	Orders   OrderRepository
	Coupons  CouponRepository
	Offers   OfferRepository
	Users    UserRepository
}

// NewMemoryStore returns a Store backed by in-memory maps.
func NewMemoryStore() *Store {
	return &Store{
		Products: NewMemoryProductRepository(),
		Orders:   NewMemoryOrderRepository(),
		Coupons:  NewMemoryCouponRepository(),
		Offers:   NewMemoryOfferRepository(),
		Users:    NewMemoryUserRepository(),
	}
}

// NewGORMStore returns a Store backed by db.
func NewGORMStore(db *gorm.DB) *Store {
	return &Store{
		Products: NewGORMProductRepository(db),
		Orders:   NewGORMOrderRepository(db),
		Coupons:  NewGORMCouponRepository(db),
		Offers:   NewGORMOfferRepository(db),
		Users:    NewGORMUserRepository(db),
	}
}

// OpenDB connects to driver ("sqlite" or "postgres") and migrates the schema.
// GORM logs go through log.
func OpenDB(driver, dsn string, log logger.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         NewGORMLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table the store uses.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{},
		&models.Coupon{}, &models.Offer{}, &models.User{})
	if err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	// Earlier schemas kept deleted rows inside a plain unique index.
	for model, index := range map[interface{}]string{&models.Product{}: "idx_products_sku", &models.Coupon{}: "idx_coupons_code"} {
		if db.Migrator().HasIndex(model, index) {
			if err := db.Migrator().DropIndex(model, index); err != nil {
				return fmt.Errorf("failed to drop index %s: %w", index, err)
			}
		}
	}
	return nil
}
