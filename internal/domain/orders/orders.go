//nolint:wrapcheck
package orders

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/andymarkow/gamevault/internal/domain/guard"
	"github.com/google/uuid"
)

var (
	ErrInGameIDEmpty    = errors.New("order in-game id is empty")
	ErrQuantityInvalid  = errors.New("order quantity must be positive")
	ErrUserIDInvalid    = errors.New("order user id is invalid")
	ErrItemIDInvalid    = errors.New("order item id is invalid")
	ErrUnitPriceInvalid = errors.New("order unit price must be positive")
	ErrTotalOverflow    = errors.New("order total price is out of range")
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) String() string {
	return string(s)
}

func ParseOrderStatus(status string) (OrderStatus, error) {
	switch OrderStatus(status) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return OrderStatus(status), nil
	default:
		return "", fmt.Errorf("unknown order status: %s", status)
	}
}

// IsFinal reports whether the status accepts no further transitions.
func (s OrderStatus) IsFinal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Order is a store purchase paid with coins at placement time.
type Order struct {
	id          int64
	number      string
	userID      int64
	itemID      int64
	quantity    int
	totalPrice  int64
	inGameID    string
	inGameName  string
	status      OrderStatus
	adminNotes  string
	createdAt   time.Time
	completedAt time.Time
}

func CreateOrder(userID, itemID int64, unitPrice int64, quantity int, inGameID, inGameName string) (*Order, error) {
	if userID <= 0 {
		return nil, ErrUserIDInvalid
	}

	if itemID <= 0 {
		return nil, ErrItemIDInvalid
	}

	if quantity <= 0 {
		return nil, ErrQuantityInvalid
	}

	if unitPrice <= 0 {
		return nil, ErrUnitPriceInvalid
	}

	if int64(quantity) > math.MaxInt64/unitPrice {
		return nil, fmt.Errorf("%d x %d: %w", unitPrice, quantity, ErrTotalOverflow)
	}

	if strings.TrimSpace(inGameID) == "" {
		return nil, ErrInGameIDEmpty
	}

	return &Order{
		number:     newOrderNumber(),
		userID:     userID,
		itemID:     itemID,
		quantity:   quantity,
		totalPrice: unitPrice * int64(quantity),
		inGameID:   inGameID,
		inGameName: inGameName,
		status:     OrderStatusPending,
		createdAt:  time.Now(),
	}, nil
}

func newOrderNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))

	return "ORD-" + id[:10]
}

// Record is the persisted form of an order.
type Record struct {
	ID          int64
	Number      string
	UserID      int64
	ItemID      int64
	Quantity    int
	TotalPrice  int64
	InGameID    string
	InGameName  string
	Status      OrderStatus
	AdminNotes  string
	CreatedAt   time.Time
	CompletedAt time.Time
}

func NewOrder(r Record) *Order {
	return &Order{
		id:          r.ID,
		number:      r.Number,
		userID:      r.UserID,
		itemID:      r.ItemID,
		quantity:    r.Quantity,
		totalPrice:  r.TotalPrice,
		inGameID:    r.InGameID,
		inGameName:  r.InGameName,
		status:      r.Status,
		adminNotes:  r.AdminNotes,
		createdAt:   r.CreatedAt,
		completedAt: r.CompletedAt,
	}
}

func (o *Order) Record() Record {
	return Record{
		ID:          o.id,
		Number:      o.number,
		UserID:      o.userID,
		ItemID:      o.itemID,
		Quantity:    o.quantity,
		TotalPrice:  o.totalPrice,
		InGameID:    o.inGameID,
		InGameName:  o.inGameName,
		Status:      o.status,
		AdminNotes:  o.adminNotes,
		CreatedAt:   o.createdAt,
		CompletedAt: o.completedAt,
	}
}

func (o *Order) ID() int64 {
	return o.id
}

func (o *Order) Number() string {
	return o.number
}

func (o *Order) UserID() int64 {
	return o.userID
}

func (o *Order) ItemID() int64 {
	return o.itemID
}

func (o *Order) Quantity() int {
	return o.quantity
}

func (o *Order) TotalPrice() int64 {
	return o.totalPrice
}

func (o *Order) InGameID() string {
	return o.inGameID
}

func (o *Order) InGameName() string {
	return o.inGameName
}

func (o *Order) Status() OrderStatus {
	return o.status
}

func (o *Order) AdminNotes() string {
	return o.adminNotes
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) CompletedAt() time.Time {
	return o.completedAt
}

func (o *Order) SetID(id int64) {
	o.id = id
}

// Transition moves the order to status. Only pending and processing orders
// may move; completed and cancelled are final.
func (o *Order) Transition(status OrderStatus, notes string, at time.Time) error {
	if o.status.IsFinal() {
		return fmt.Errorf("order %s is %s: %w", o.number, o.status, guard.ErrAlreadyProcessed)
	}

	switch status {
	case OrderStatusProcessing:
		if o.status != OrderStatusPending {
			return fmt.Errorf("order %s is %s: %w", o.number, o.status, guard.ErrAlreadyProcessed)
		}
	case OrderStatusCompleted:
		o.completedAt = at
	case OrderStatusCancelled:
	default:
		return fmt.Errorf("order %s to %q: %w", o.number, status, guard.ErrInvalidTransition)
	}

	o.status = status

	if notes != "" {
		o.adminNotes = notes
	}

	return nil
}
