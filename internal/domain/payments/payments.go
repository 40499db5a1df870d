//nolint:wrapcheck
package payments

import (
	"errors"
	"fmt"
	"time"

	"github.com/andymarkow/gamevault/internal/domain/guard"
	"github.com/shopspring/decimal"
)

var (
	ErrCoinsAmountInvalid   = errors.New("coins amount must be positive")
	ErrPaymentAmountInvalid = errors.New("payment amount must be positive")
	ErrPaymentMethodEmpty   = errors.New("payment method is empty")
	ErrUserIDInvalid        = errors.New("payment user id is invalid")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) String() string {
	return string(s)
}

func ParseStatus(status string) (Status, error) {
	switch Status(status) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(status), nil
	default:
		return "", fmt.Errorf("unknown payment status: %s", status)
	}
}

// Payment is a user request to buy coins with an off-platform payment
// whose proof is reviewed by an administrator.
type Payment struct {
	id             int64
	userID         int64
	coinsAmount    int64
	paymentAmount  decimal.Decimal
	paymentMethod  string
	transactionRef string
	screenshotURL  string
	status         Status
	adminNotes     string
	processedBy    int64
	processedAt    time.Time
	createdAt      time.Time
}

func CreatePayment(
	userID, coinsAmount int64, paymentAmount decimal.Decimal,
	paymentMethod, transactionRef, screenshotURL string,
) (*Payment, error) {
	if userID <= 0 {
		return nil, ErrUserIDInvalid
	}

	if coinsAmount <= 0 {
		return nil, ErrCoinsAmountInvalid
	}

	if !paymentAmount.IsPositive() {
		return nil, ErrPaymentAmountInvalid
	}

	if paymentMethod == "" {
		return nil, ErrPaymentMethodEmpty
	}

	return &Payment{
		userID:         userID,
		coinsAmount:    coinsAmount,
		paymentAmount:  paymentAmount,
		paymentMethod:  paymentMethod,
		transactionRef: transactionRef,
		screenshotURL:  screenshotURL,
		status:         StatusPending,
		createdAt:      time.Now(),
	}, nil
}

// Record is the persisted form of a payment.
type Record struct {
	ID             int64
	UserID         int64
	CoinsAmount    int64
	PaymentAmount  decimal.Decimal
	PaymentMethod  string
	TransactionRef string
	ScreenshotURL  string
	Status         Status
	AdminNotes     string
	ProcessedBy    int64
	ProcessedAt    time.Time
	CreatedAt      time.Time
}

func NewPayment(r Record) *Payment {
	return &Payment{
		id:             r.ID,
		userID:         r.UserID,
		coinsAmount:    r.CoinsAmount,
		paymentAmount:  r.PaymentAmount,
		paymentMethod:  r.PaymentMethod,
		transactionRef: r.TransactionRef,
		screenshotURL:  r.ScreenshotURL,
		status:         r.Status,
		adminNotes:     r.AdminNotes,
		processedBy:    r.ProcessedBy,
		processedAt:    r.ProcessedAt,
		createdAt:      r.CreatedAt,
	}
}

func (p *Payment) Record() Record {
	return Record{
		ID:             p.id,
		UserID:         p.userID,
		CoinsAmount:    p.coinsAmount,
		PaymentAmount:  p.paymentAmount,
		PaymentMethod:  p.paymentMethod,
		TransactionRef: p.transactionRef,
		ScreenshotURL:  p.screenshotURL,
		Status:         p.status,
		AdminNotes:     p.adminNotes,
		ProcessedBy:    p.processedBy,
		ProcessedAt:    p.processedAt,
		CreatedAt:      p.createdAt,
	}
}

func (p *Payment) ID() int64 {
	return p.id
}

func (p *Payment) UserID() int64 {
	return p.userID
}

func (p *Payment) CoinsAmount() int64 {
	return p.coinsAmount
}

func (p *Payment) PaymentAmount() decimal.Decimal {
	return p.paymentAmount
}

func (p *Payment) PaymentMethod() string {
	return p.paymentMethod
}

func (p *Payment) TransactionRef() string {
	return p.transactionRef
}

func (p *Payment) ScreenshotURL() string {
	return p.screenshotURL
}

func (p *Payment) Status() Status {
	return p.status
}

func (p *Payment) AdminNotes() string {
	return p.adminNotes
}

func (p *Payment) ProcessedBy() int64 {
	return p.processedBy
}

func (p *Payment) ProcessedAt() time.Time {
	return p.processedAt
}

func (p *Payment) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Payment) SetID(id int64) {
	p.id = id
}

func (p *Payment) Approve(adminID int64, notes string, at time.Time) error {
	return p.process(StatusApproved, adminID, notes, at)
}

func (p *Payment) Reject(adminID int64, notes string, at time.Time) error {
	return p.process(StatusRejected, adminID, notes, at)
}

func (p *Payment) process(status Status, adminID int64, notes string, at time.Time) error {
	if p.status != StatusPending {
		return fmt.Errorf("payment %d is %s: %w", p.id, p.status, guard.ErrAlreadyProcessed)
	}

	p.status = status
	p.processedBy = adminID
	p.processedAt = at

	if notes != "" {
		p.adminNotes = notes
	}

	return nil
}

// Stats is the dashboard summary of payment requests.
type Stats struct {
	Pending        int
	ApprovedSince  int
	ApprovedAmount decimal.Decimal
}
