// Package ledger holds the append-only record of coin balance changes.
package ledger

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrKindUnknown   = errors.New("ledger entry kind is unknown")
	ErrAmountZero    = errors.New("ledger entry amount is zero")
	ErrUserIDInvalid = errors.New("ledger entry user id is invalid")
	ErrAmountSign    = errors.New("ledger entry amount sign does not match its kind")
)

// Kind is the reason of a balance change.
type Kind string

const (
	KindDeposit         Kind = "deposit"
	KindTournamentWin   Kind = "tournament_win"
	KindAdminAdjustment Kind = "admin_adjustment"
	KindRefund          Kind = "refund"
	KindWithdrawal      Kind = "withdrawal"
	KindPurchase        Kind = "purchase"
	KindTournamentEntry Kind = "tournament_entry"
)

func (k Kind) String() string {
	return string(k)
}

func ParseKind(kind string) (Kind, error) {
	switch Kind(kind) {
	case KindDeposit, KindTournamentWin, KindAdminAdjustment, KindRefund,
		KindWithdrawal, KindPurchase, KindTournamentEntry:
		return Kind(kind), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrKindUnknown, kind)
	}
}

// CheckAmount rejects a zero amount and an amount whose sign contradicts the
// kind. Admin adjustments may go either way.
func CheckAmount(kind Kind, amount int64) error {
	if amount == 0 {
		return ErrAmountZero
	}

	switch kind {
	case KindDeposit, KindTournamentWin, KindRefund:
		if amount < 0 {
			return fmt.Errorf("%s of %d: %w", kind, amount, ErrAmountSign)
		}
	case KindWithdrawal, KindPurchase, KindTournamentEntry:
		if amount > 0 {
			return fmt.Errorf("%s of %d: %w", kind, amount, ErrAmountSign)
		}
	case KindAdminAdjustment:
	default:
		return fmt.Errorf("%w: %s", ErrKindUnknown, kind)
	}

	return nil
}

// Entry is an immutable ledger row. BalanceAfter is the account balance
// right after Amount was applied.
type Entry struct {
	id           int64
	userID       int64
	kind         Kind
	amount       int64
	balanceAfter int64
	description  string
	createdAt    time.Time
}

func NewEntry(userID int64, kind Kind, amount, balanceAfter int64, description string, createdAt time.Time) (*Entry, error) {
	if userID <= 0 {
		return nil, ErrUserIDInvalid
	}

	if err := CheckAmount(kind, amount); err != nil {
		return nil, err
	}

	return &Entry{
		userID:       userID,
		kind:         kind,
		amount:       amount,
		balanceAfter: balanceAfter,
		description:  description,
		createdAt:    createdAt,
	}, nil
}

// RestoreEntry rebuilds a persisted entry.
func RestoreEntry(id, userID int64, kind Kind, amount, balanceAfter int64, description string, createdAt time.Time) *Entry {
	return &Entry{
		id:           id,
		userID:       userID,
		kind:         kind,
		amount:       amount,
		balanceAfter: balanceAfter,
		description:  description,
		createdAt:    createdAt,
	}
}

func (e *Entry) ID() int64 {
	return e.id
}

func (e *Entry) UserID() int64 {
	return e.userID
}

func (e *Entry) Kind() Kind {
	return e.kind
}

func (e *Entry) Amount() int64 {
	return e.amount
}

func (e *Entry) BalanceAfter() int64 {
	return e.balanceAfter
}

func (e *Entry) Description() string {
	return e.description
}

func (e *Entry) CreatedAt() time.Time {
	return e.createdAt
}

// SetID is called once by the storage layer on insert.
func (e *Entry) SetID(id int64) {
	e.id = id
}
