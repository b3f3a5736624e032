package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is published to the broker on order transitions and stock changes.
type Event struct {
	Type      string           `json:"type"`
	OrderID   string           `json:"order_id,omitempty"`
	ProductID string           `json:"product_id,omitempty"`
	Status    string           `json:"status"`
	Stage     string           `json:"stage,omitempty"`
	Total     *decimal.Decimal `json:"total,omitempty"`
	Quantity  *int             `json:"quantity,omitempty"`
	Reason    string           `json:"reason,omitempty"`
	Occurred  time.Time        `json:"occurred"`
}

// OrderEvent builds the event for order after action.
func OrderEvent(action OrderAction, order *Order, now time.Time) Event {
	total := order.TotalAmount
	return Event{
		Type:     "order." + string(action),
		OrderID:  order.ID,
		Status:   string(order.Status),
		Stage:    string(order.Stage),
		Total:    &total,
		Reason:   order.Reason,
		Occurred: now,
	}
}

// StockEvent builds the event for a stock level change of product.
func StockEvent(product *Product, now time.Time) Event {
	qty := product.CurrentStock
	status := product.StockStatus()
	return Event{
		Type:      "stock." + string(status),
		ProductID: product.ID,
		Status:    string(status),
		Quantity:  &qty,
		Occurred:  now,
	}
}
