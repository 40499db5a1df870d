//nolint:wrapcheck
package withdrawals

import (
	"errors"
	"fmt"
	"time"

	"github.com/andymarkow/gamevault/internal/domain/guard"
)

// MinAmount is the smallest withdrawal a user may request.
const MinAmount int64 = 10

var (
	ErrAmountTooSmall      = fmt.Errorf("minimum withdrawal amount is %d coins", MinAmount)
	ErrPaymentMethodEmpty  = errors.New("withdrawal payment method is empty")
	ErrAccountDetailsEmpty = errors.New("withdrawal account details are empty")
	ErrUserIDInvalid       = errors.New("withdrawal user id is invalid")
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
		return "", fmt.Errorf("unknown withdrawal status: %s", status)
	}
}

// Withdrawal is a request to convert coins back to an external payment.
// The coins leave the wallet when the request is created.
type Withdrawal struct {
	id             int64
	userID         int64
	amount         int64
	paymentMethod  string
	accountDetails string
	qrURL          string
	status         Status
	adminNotes     string
	processedBy    int64
	processedAt    time.Time
	createdAt      time.Time
}

func CreateWithdrawal(userID, amount int64, paymentMethod, accountDetails, qrURL string) (*Withdrawal, error) {
	if userID <= 0 {
		return nil, ErrUserIDInvalid
	}

	if amount < MinAmount {
		return nil, ErrAmountTooSmall
	}

	if paymentMethod == "" {
		return nil, ErrPaymentMethodEmpty
	}

	if accountDetails == "" {
		return nil, ErrAccountDetailsEmpty
	}

	return &Withdrawal{
		userID:         userID,
		amount:         amount,
		paymentMethod:  paymentMethod,
		accountDetails: accountDetails,
		qrURL:          qrURL,
		status:         StatusPending,
		createdAt:      time.Now(),
	}, nil
}

// Record is the persisted form of a withdrawal.
type Record struct {
	ID             int64
	UserID         int64
	Amount         int64
	PaymentMethod  string
	AccountDetails string
	QRURL          string
	Status         Status
	AdminNotes     string
	ProcessedBy    int64
	ProcessedAt    time.Time
	CreatedAt      time.Time
}

func NewWithdrawal(r Record) *Withdrawal {
	return &Withdrawal{
		id:             r.ID,
		userID:         r.UserID,
		amount:         r.Amount,
		paymentMethod:  r.PaymentMethod,
		accountDetails: r.AccountDetails,
		qrURL:          r.QRURL,
		status:         r.Status,
		adminNotes:     r.AdminNotes,
		processedBy:    r.ProcessedBy,
		processedAt:    r.ProcessedAt,
		createdAt:      r.CreatedAt,
	}
}

func (w *Withdrawal) Record() Record {
	return Record{
		ID:             w.id,
		UserID:         w.userID,
		Amount:         w.amount,
		PaymentMethod:  w.paymentMethod,
		AccountDetails: w.accountDetails,
		QRURL:          w.qrURL,
		Status:         w.status,
		AdminNotes:     w.adminNotes,
		ProcessedBy:    w.processedBy,
		ProcessedAt:    w.processedAt,
		CreatedAt:      w.createdAt,
	}
}

func (w *Withdrawal) ID() int64 {
	return w.id
}

func (w *Withdrawal) UserID() int64 {
	return w.userID
}

func (w *Withdrawal) Amount() int64 {
	return w.amount
}

func (w *Withdrawal) PaymentMethod() string {
	return w.paymentMethod
}

func (w *Withdrawal) AccountDetails() string {
	return w.accountDetails
}

func (w *Withdrawal) QRURL() string {
	return w.qrURL
}

func (w *Withdrawal) Status() Status {
	return w.status
}

func (w *Withdrawal) AdminNotes() string {
	return w.adminNotes
}

func (w *Withdrawal) ProcessedBy() int64 {
	return w.processedBy
}

func (w *Withdrawal) ProcessedAt() time.Time {
	return w.processedAt
}

func (w *Withdrawal) CreatedAt() time.Time {
	return w.createdAt
}

func (w *Withdrawal) SetID(id int64) {
	w.id = id
}

func (w *Withdrawal) Approve(adminID int64, notes string, at time.Time) error {
	return w.process(StatusApproved, adminID, notes, at)
}

func (w *Withdrawal) Reject(adminID int64, notes string, at time.Time) error {
	return w.process(StatusRejected, adminID, notes, at)
}

func (w *Withdrawal) process(status Status, adminID int64, notes string, at time.Time) error {
	if w.status != StatusPending {
		return fmt.Errorf("withdrawal %d is %s: %w", w.id, w.status, guard.ErrAlreadyProcessed)
	}

	w.status = status
	w.adminNotes = notes
	w.processedBy = adminID
	w.processedAt = at

	return nil
}

// Filter narrows the withdrawal listing. Empty fields match everything.
type Filter struct {
	Status Status
	Search string
}

// Stats is the withdrawal queue summary.
type Stats struct {
	Total          int
	Pending        int
	Approved       int
	Rejected       int
	AmountPending  int64
	AmountApproved int64
}
