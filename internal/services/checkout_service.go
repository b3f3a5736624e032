package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"tokoadmin/internal/models"
	"tokoadmin/internal/repositories"

	"github.com/shopspring/decimal"
)

// CartLine is a product reference and quantity as sent by a client.
type CartLine struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// QuoteRequest asks for the price of a cart.
type QuoteRequest struct {
	Items          []CartLine `json:"items" validate:"required,min=1,dive"`
	ShippingMethod string     `json:"shipping_method" validate:"required"`
	CouponCode     string     `json:"coupon_code"`
}

// QuoteLine is one priced cart line.
type QuoteLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Quote is the priced breakdown of a cart.
type Quote struct {
	Lines          []QuoteLine           `json:"lines"`
	ShippingMethod string                `json:"shipping_method"`
	CouponCode     string                `json:"coupon_code,omitempty"`
	Totals         models.CheckoutTotals `json:"totals"`
}

// CheckoutService prices carts against current catalog prices.
type CheckoutService struct {
	products repositories.ProductRepository
	coupons  repositories.CouponRepository
	shipping map[string]models.ShippingMethod
	taxRate  decimal.Decimal
	Now      func() time.Time
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(products repositories.ProductRepository, coupons repositories.CouponRepository, shipping map[string]models.ShippingMethod, taxRate decimal.Decimal) *CheckoutService {
	return &CheckoutService{
		products: products,
		coupons:  coupons,
		shipping: shipping,
		taxRate:  taxRate,
		Now:      time.Now,
	}
}

// ShippingMethods lists the configured methods ordered by charge.
func (s *CheckoutService) ShippingMethods() []models.ShippingMethod {
	methods := make([]models.ShippingMethod, 0, len(s.shipping))
	for _, m := range s.shipping {
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool {
		if methods[i].Charge.Equal(methods[j].Charge) {
			return methods[i].Name < methods[j].Name
		}
		return methods[i].Charge.LessThan(methods[j].Charge)
	})
	return methods
}

// mergeLines folds repeated products into one line, keeping first-seen order.
func mergeLines(lines []CartLine) ([]CartLine, error) {
	merged := make([]CartLine, 0, len(lines))
	index := make(map[string]int)
	for _, l := range lines {
		if l.ProductID == "" {
			return nil, models.NewValidationError("product_id", "is required")
		}
		if l.Quantity <= 0 {
			return nil, models.NewValidationError("quantity", "must be greater than zero for product %s", l.ProductID)
		}
		if i, ok := index[l.ProductID]; ok {
			merged[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(merged)
		merged = append(merged, l)
	}
	if len(merged) == 0 {
		return nil, models.NewValidationError("items", "at least one item is required")
	}
	return merged, nil
}

// Quote prices req. Prices come from the catalog, never from the request.
func (s *CheckoutService) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	lines, err := mergeLines(req.Items)
	if err != nil {
		return nil, err
	}
	method, ok := s.shipping[req.ShippingMethod]
	if !ok {
		return nil, models.NewValidationError("shipping_method", "unknown shipping method %q", req.ShippingMethod)
	}

	quote := &Quote{ShippingMethod: method.Name, Lines: make([]QuoteLine, 0, len(lines))}
	cart := make([]models.CartItem, 0, len(lines))
	for _, l := range lines {
		product, err := s.products.GetByID(ctx, l.ProductID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, models.NewValidationError("product_id", "product %s does not exist", l.ProductID)
			}
			return nil, err
		}
		item := models.CartItem{Price: product.Price, DiscountedPrice: product.DiscountedPrice, Quantity: l.Quantity}
		cart = append(cart, item)
		quote.Lines = append(quote.Lines, QuoteLine{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  l.Quantity,
			UnitPrice: item.EffectivePrice(),
			LineTotal: item.EffectivePrice().Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2),
		})
	}

	discount := decimal.Zero
	if code := strings.TrimSpace(req.CouponCode); code != "" {
		coupon, err := s.coupons.GetByCode(ctx, code)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, models.NewValidationError("coupon_code", "coupon %s does not exist", code)
			}
			return nil, err
		}
		if discount, err = coupon.DiscountFor(models.Subtotal(cart), s.Now()); err != nil {
			return nil, err
		}
		quote.CouponCode = coupon.Code
	}

	quote.Totals = models.ComputeTotals(cart, method, discount, s.taxRate)
	return quote, nil
}
