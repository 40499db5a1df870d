// Package dbmodels holds the row shapes of the relational schema and their
// conversion to domain records. Nullable columns are mapped to zero values.
package dbmodels

import (
	"database/sql"
	"time"

	"github.com/andymarkow/gamevault/internal/domain/orders"
	"github.com/andymarkow/gamevault/internal/domain/payments"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/domain/withdrawals"
	"github.com/shopspring/decimal"
)

type User struct {
	ID                int64
	Username          string
	Email             string
	PasswordHash      string
	Role              string
	Coins             int64
	TournamentsWon    int
	TournamentsPlayed int
	CreatedAt         time.Time
}

func (u User) Record() users.Record {
	return users.Record{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		Role:              users.Role(u.Role),
		Coins:             u.Coins,
		TournamentsWon:    u.TournamentsWon,
		TournamentsPlayed: u.TournamentsPlayed,
		CreatedAt:         u.CreatedAt,
	}
}

type PaymentRequest struct {
	ID             int64
	UserID         int64
	CoinsAmount    int64
	PaymentAmount  decimal.Decimal
	PaymentMethod  string
	TransactionRef string
	ScreenshotURL  string
	Status         string
	AdminNotes     string
	ProcessedBy    sql.NullInt64
	ProcessedAt    sql.NullTime
	CreatedAt      time.Time
}

func (p PaymentRequest) Record() payments.Record {
	return payments.Record{
		ID:             p.ID,
		UserID:         p.UserID,
		CoinsAmount:    p.CoinsAmount,
		PaymentAmount:  p.PaymentAmount,
		PaymentMethod:  p.PaymentMethod,
		TransactionRef: p.TransactionRef,
		ScreenshotURL:  p.ScreenshotURL,
		Status:         payments.Status(p.Status),
		AdminNotes:     p.AdminNotes,
		ProcessedBy:    p.ProcessedBy.Int64,
		ProcessedAt:    p.ProcessedAt.Time,
		CreatedAt:      p.CreatedAt,
	}
}

type WithdrawalRequest struct {
	ID             int64
	UserID         int64
	Amount         int64
	PaymentMethod  string
	AccountDetails string
	QRURL          string
	Status         string
	AdminNotes     string
	ProcessedBy    sql.NullInt64
	ProcessedAt    sql.NullTime
	CreatedAt      time.Time
}

func (w WithdrawalRequest) Record() withdrawals.Record {
	return withdrawals.Record{
		ID:             w.ID,
		UserID:         w.UserID,
		Amount:         w.Amount,
		PaymentMethod:  w.PaymentMethod,
		AccountDetails: w.AccountDetails,
		QRURL:          w.QRURL,
		Status:         withdrawals.Status(w.Status),
		AdminNotes:     w.AdminNotes,
		ProcessedBy:    w.ProcessedBy.Int64,
		ProcessedAt:    w.ProcessedAt.Time,
		CreatedAt:      w.CreatedAt,
	}
}

type Order struct {
	ID          int64
	Number      string
	UserID      int64
	ItemID      int64
	Quantity    int
	TotalPrice  int64
	InGameID    string
	InGameName  string
	Status      string
	AdminNotes  string
	CreatedAt   time.Time
	CompletedAt sql.NullTime
}

func (o Order) Record() orders.Record {
	return orders.Record{
		ID:          o.ID,
		Number:      o.Number,
		UserID:      o.UserID,
		ItemID:      o.ItemID,
		Quantity:    o.Quantity,
		TotalPrice:  o.TotalPrice,
		InGameID:    o.InGameID,
		InGameName:  o.InGameName,
		Status:      orders.OrderStatus(o.Status),
		AdminNotes:  o.AdminNotes,
		CreatedAt:   o.CreatedAt,
		CompletedAt: o.CompletedAt.Time,
	}
}

// NullTime maps the zero time to NULL.
func NullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// NullInt64 maps zero to NULL.
func NullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}
