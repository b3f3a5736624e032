package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle bucket an order sits in.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRejected   OrderStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled, OrderRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further action is accepted.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled || s == OrderRejected
}

// FulfillmentStage is the inner pipeline of a processing order.
type FulfillmentStage string

const (
	StagePicking      FulfillmentStage = "picking"
	StagePacking      FulfillmentStage = "packing"
	StageQualityCheck FulfillmentStage = "quality_check"
	StageReadyToShip  FulfillmentStage = "ready_to_ship"
)

var fulfillmentStages = []FulfillmentStage{StagePicking, StagePacking, StageQualityCheck, StageReadyToShip}

func (s FulfillmentStage) index() int {
	for i, st := range fulfillmentStages {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is a known stage.
func (s FulfillmentStage) Valid() bool { return s.index() >= 0 }

// Next returns the stage that follows s. ok is false for ready_to_ship and unknown stages.
func (s FulfillmentStage) Next() (next FulfillmentStage, ok bool) {
	i := s.index()
	if i < 0 || i == len(fulfillmentStages)-1 {
		return "", false
	}
	return fulfillmentStages[i+1], true
}

// PaymentStatus of an order.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentFailed  PaymentStatus = "failed"
)

// OrderAction is an admin or customer command against an order.
type OrderAction string

const (
	ActionApprove OrderAction = "approve"
	ActionReject  OrderAction = "reject"
	ActionShip    OrderAction = "ship"
	ActionDeliver OrderAction = "deliver"
	ActionCancel  OrderAction = "cancel"
)

// ParseOrderAction validates a raw action name.
func ParseOrderAction(raw string) (OrderAction, error) {
	a := OrderAction(raw)
	switch a {
	case ActionApprove, ActionReject, ActionShip, ActionDeliver, ActionCancel:
		return a, nil
	}
	return "", NewValidationError("action", "unknown order action %q", raw)
}

// Transition returns the status reached by applying action to an order in status/stage.
// Transitions only move forward; cancelled and rejected are terminal states.
func Transition(status OrderStatus, stage FulfillmentStage, action OrderAction) (OrderStatus, error) {
	switch {
	case status == OrderPending && action == ActionApprove:
		return OrderProcessing, nil
	case status == OrderPending && action == ActionReject:
		return OrderRejected, nil
	case status == OrderPending && action == ActionCancel:
		return OrderCancelled, nil
	case status == OrderProcessing && action == ActionShip:
		if stage != StageReadyToShip {
			return status, fmt.Errorf("%w: stage is %q", ErrStageNotReady, stage)
		}
		return OrderShipped, nil
	case status == OrderProcessing && action == ActionCancel:
		return OrderCancelled, nil
	case status == OrderShipped && action == ActionDeliver:
		return OrderDelivered, nil
	}
	return status, fmt.Errorf("%w: cannot %s an order that is %s", ErrInvalidTransition, action, status)
}

// OrderItem is a single line of an order with the price captured at order time.
type OrderItem struct {
	ID          uint            `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID     string          `json:"-" gorm:"type:varchar(64);index"`
	ProductID   string          `json:"product_id" gorm:"type:varchar(36)"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2)"`
}

// Order represents a customer order.
type Order struct {
	ID             string           `json:"id" gorm:"primaryKey;type:varchar(64)"`
	CustomerName   string           `json:"customer_name"`
	CustomerEmail  string           `json:"customer_email" gorm:"index"`
	Items          []OrderItem      `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Subtotal       decimal.Decimal  `json:"subtotal" gorm:"type:decimal(12,2)"`
	Discount       decimal.Decimal  `json:"discount" gorm:"type:decimal(12,2)"`
	Tax            decimal.Decimal  `json:"tax" gorm:"type:decimal(12,2)"`
	Shipping       decimal.Decimal  `json:"shipping" gorm:"type:decimal(12,2)"`
	TotalAmount    decimal.Decimal  `json:"total_amount" gorm:"type:decimal(12,2)"`
	ShippingMethod string           `json:"shipping_method"`
	CouponCode     string           `json:"coupon_code,omitempty"`
	Status         OrderStatus      `json:"status" gorm:"type:varchar(20);index"`
	Stage          FulfillmentStage `json:"stage,omitempty" gorm:"type:varchar(20)"`
	PaymentStatus  PaymentStatus    `json:"payment_status" gorm:"type:varchar(20)"`
	Reason         string           `json:"reason,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ItemCount is the total quantity across all lines.
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// Apply moves the order through action. On error the order is left unchanged.
func (o *Order) Apply(action OrderAction, reason string, now time.Time) error {
	next, err := Transition(o.Status, o.Stage, action)
	if err != nil {
		return err
	}
	o.Status = next
	switch next {
	case OrderProcessing:
		o.Stage = StagePicking
	case OrderShipped, OrderDelivered:
		o.Stage = ""
	case OrderCancelled, OrderRejected:
		o.Stage = ""
		o.Reason = reason
	}
	o.UpdatedAt = now
	return nil
}

// SetStage moves a processing order to target, which must be the immediate successor
// of the current stage.
func (o *Order) SetStage(target FulfillmentStage, now time.Time) error {
	if !target.Valid() {
		return NewValidationError("stage", "unknown fulfillment stage %q", target)
	}
	if o.Status != OrderProcessing {
		return fmt.Errorf("%w: order is %s, not processing", ErrInvalidTransition, o.Status)
	}
	next, ok := o.Stage.Next()
	if !ok || next != target {
		return fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidTransition, o.Stage, target)
	}
	o.Stage = target
	o.UpdatedAt = now
	return nil
}

// AdvanceStage moves a processing order to its next fulfillment stage.
func (o *Order) AdvanceStage(now time.Time) error {
	next, ok := o.Stage.Next()
	if !ok {
		return fmt.Errorf("%w: no stage after %q", ErrInvalidTransition, o.Stage)
	}
	return o.SetStage(next, now)
}
