package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andymarkow/gamevault/internal/domain/catalog"
	"github.com/andymarkow/gamevault/internal/domain/chats"
	"github.com/andymarkow/gamevault/internal/domain/ledger"
	"github.com/andymarkow/gamevault/internal/domain/notifications"
	"github.com/andymarkow/gamevault/internal/domain/orders"
	"github.com/andymarkow/gamevault/internal/domain/payments"
	"github.com/andymarkow/gamevault/internal/domain/tournaments"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/domain/withdrawals"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type PaymentRequest struct {
	Coins          int64           `json:"coins_amount"    validate:"required,gt=0"`
	Amount         decimal.Decimal `json:"payment_amount"`
	Method         string          `json:"payment_method"  validate:"required"`
	TransactionRef string          `json:"transaction_ref"`
	ScreenshotURL  string          `json:"screenshot_url"  validate:"omitempty,url"`
}

type WithdrawalRequest struct {
	Amount         int64  `json:"amount"          validate:"required,gte=10"`
	Method         string `json:"payment_method"  validate:"required"`
	AccountDetails string `json:"account_details" validate:"required"`
	QRURL          string `json:"qr_url"          validate:"omitempty,url"`
}

type OrderRequest struct {
	ItemID     int64  `json:"item_id"      validate:"required,gt=0"`
	Quantity   int    `json:"quantity"     validate:"required,gt=0"`
	InGameID   string `json:"in_game_id"   validate:"required"`
	InGameName string `json:"in_game_name"`
}

type JoinRequest struct {
	InGameName string `json:"in_game_name" validate:"required"`
	InGameID   string `json:"in_game_id"`
}

type ResultRequest struct {
	Claim         string `json:"claim"          validate:"required,oneof=won lost"`
	ScreenshotURL string `json:"screenshot_url" validate:"omitempty,url"`
}

type ChatRequest struct {
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required"`
}

type NotesRequest struct {
	Notes string `json:"notes"`
}

type ActionRequest struct {
	Action string `json:"action" validate:"required"`
	Notes  string `json:"notes"`
}

type BulkRequest struct {
	IDs    []int64 `json:"ids"    validate:"required,min=1,dive,gt=0"`
	Action string  `json:"action"`
	Amount int64   `json:"amount"`
}

type CoinsRequest struct {
	Amount int64  `json:"amount" validate:"required,gt=0"`
	Reason string `json:"reason"`
}

type OrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=processing completed cancelled"`
	Notes  string `json:"notes"`
}

type GameRequest struct {
	Name         string `json:"name"          validate:"required,max=100"`
	Slug         string `json:"slug"`
	Icon         string `json:"icon"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
	Active       *bool  `json:"is_active"`
}

type PaymentMethodRequest struct {
	Name          string `json:"name"           validate:"required,max=100"`
	Type          string `json:"method_type"    validate:"required,oneof=bank wallet qr other"`
	AccountNumber string `json:"account_number" validate:"max=100"`
	AccountName   string `json:"account_name"   validate:"max=100"`
	Instructions  string `json:"instructions"`
	QRCodeURL     string `json:"qr_code_url"    validate:"omitempty,url"`
	DisplayOrder  int    `json:"display_order"`
	Active        *bool  `json:"is_active"`
}

type ItemRequest struct {
	GameID int64  `json:"game_id" validate:"required,gt=0"`
	Name   string `json:"name"    validate:"required,max=200"`
	Price  int64  `json:"price"   validate:"required,gt=0"`
}

type TournamentRequest struct {
	Title           string    `json:"title"            validate:"required,max=200"`
	Game            string    `json:"game"`
	Description     string    `json:"description"`
	EntryFee        int64     `json:"entry_fee"        validate:"gte=0"`
	PrizePool       int64     `json:"prize_pool"       validate:"gte=0"`
	MaxParticipants int       `json:"max_participants" validate:"required,gte=2"`
	StartsAt        time.Time `json:"starts_at"        validate:"required"`
}

type RoomRequest struct {
	RoomID       string `json:"room_id"       validate:"required"`
	RoomPassword string `json:"room_password" validate:"required"`
}

type PlacementRequest struct {
	Position int   `json:"position"  validate:"gte=0"`
	PrizeWon int64 `json:"prize_won" validate:"gte=0"`
}

type ResolveRequest struct {
	WinnerClaimID int64 `json:"winner_claim_id" validate:"required,gt=0"`
}

type ReplyRequest struct {
	Reply string `json:"reply" validate:"required"`
}

type BalanceResponse struct {
	Coins int64 `json:"coins"`
}

type UserResponse struct {
	ID                int64     `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email,omitempty"`
	Role              string    `json:"role"`
	Coins             int64     `json:"coins"`
	TournamentsWon    int       `json:"total_tournaments_won"`
	TournamentsPlayed int       `json:"total_tournaments_played"`
	CreatedAt         time.Time `json:"created_at"`
}

func NewUserResponse(u *users.User) UserResponse {
	return UserResponse{
		ID:                u.ID(),
		Username:          u.Username(),
		Email:             u.Email(),
		Role:              u.Role().String(),
		Coins:             u.Coins(),
		TournamentsWon:    u.TournamentsWon(),
		TournamentsPlayed: u.TournamentsPlayed(),
		CreatedAt:         u.CreatedAt(),
	}
}

type LedgerEntryResponse struct {
	ID           int64     `json:"id"`
	Kind         string    `json:"kind"`
	Amount       int64     `json:"amount"`
	BalanceAfter int64     `json:"balance_after"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewLedgerEntryResponse(e *ledger.Entry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:           e.ID(),
		Kind:         e.Kind().String(),
		Amount:       e.Amount(),
		BalanceAfter: e.BalanceAfter(),
		Description:  e.Description(),
		CreatedAt:    e.CreatedAt(),
	}
}

type NotificationResponse struct {
	ID        int64     `json:"id"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func NewNotificationResponse(n *notifications.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Category:  string(n.Category),
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

type PaymentResponse struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	Coins          int64           `json:"coins_amount"`
	Amount         decimal.Decimal `json:"payment_amount"`
	Method         string          `json:"payment_method"`
	TransactionRef string          `json:"transaction_ref,omitempty"`
	ScreenshotURL  string          `json:"screenshot_url,omitempty"`
	Status         string          `json:"status"`
	AdminNotes     string          `json:"admin_notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func NewPaymentResponse(p *payments.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             p.ID(),
		UserID:         p.UserID(),
		Coins:          p.CoinsAmount(),
		Amount:         p.PaymentAmount(),
		Method:         p.PaymentMethod(),
		TransactionRef: p.TransactionRef(),
		ScreenshotURL:  p.ScreenshotURL(),
		Status:         p.Status().String(),
		AdminNotes:     p.AdminNotes(),
		CreatedAt:      p.CreatedAt(),
	}
}

type WithdrawalResponse struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Amount         int64     `json:"amount"`
	Method         string    `json:"payment_method"`
	AccountDetails string    `json:"account_details"`
	QRURL          string    `json:"qr_url,omitempty"`
	Status         string    `json:"status"`
	AdminNotes     string    `json:"admin_notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewWithdrawalResponse(w *withdrawals.Withdrawal) WithdrawalResponse {
	return WithdrawalResponse{
		ID:             w.ID(),
		UserID:         w.UserID(),
		Amount:         w.Amount(),
		Method:         w.PaymentMethod(),
		AccountDetails: w.AccountDetails(),
		QRURL:          w.QRURL(),
		Status:         w.Status().String(),
		AdminNotes:     w.AdminNotes(),
		CreatedAt:      w.CreatedAt(),
	}
}

type OrderResponse struct {
	ID         int64     `json:"id"`
	Number     string    `json:"order_number"`
	UserID     int64     `json:"user_id"`
	ItemID     int64     `json:"item_id"`
	Quantity   int       `json:"quantity"`
	TotalPrice int64     `json:"total_price"`
	InGameID   string    `json:"in_game_id"`
	InGameName string    `json:"in_game_name,omitempty"`
	Status     string    `json:"status"`
	AdminNotes string    `json:"admin_notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewOrderResponse(o *orders.Order) OrderResponse {
	return OrderResponse{
		ID:         o.ID(),
		Number:     o.Number(),
		UserID:     o.UserID(),
		ItemID:     o.ItemID(),
		Quantity:   o.Quantity(),
		TotalPrice: o.TotalPrice(),
		InGameID:   o.InGameID(),
		InGameName: o.InGameName(),
		Status:     o.Status().String(),
		AdminNotes: o.AdminNotes(),
		CreatedAt:  o.CreatedAt(),
	}
}

type GameResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Icon         string `json:"icon"`
	Description  string `json:"description,omitempty"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

func NewGameResponse(g *catalog.Game) GameResponse {
	return GameResponse{
		ID:           g.ID,
		Name:         g.Name,
		Slug:         g.Slug,
		Icon:         g.Icon,
		Description:  g.Description,
		DisplayOrder: g.DisplayOrder,
		IsActive:     g.IsActive,
	}
}

type PaymentMethodResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"method_type"`
	AccountNumber string `json:"account_number,omitempty"`
	AccountName   string `json:"account_name,omitempty"`
	Instructions  string `json:"instructions,omitempty"`
	QRCodeURL     string `json:"qr_code_url,omitempty"`
	DisplayOrder  int    `json:"display_order"`
	IsActive      bool   `json:"is_active"`
}

func NewPaymentMethodResponse(m *catalog.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{
		ID:            m.ID,
		Name:          m.Name,
		Type:          string(m.Type),
		AccountNumber: m.AccountNumber,
		AccountName:   m.AccountName,
		Instructions:  m.Instructions,
		QRCodeURL:     m.QRCodeURL,
		DisplayOrder:  m.DisplayOrder,
		IsActive:      m.IsActive,
	}
}

type PaymentMethodsResponse struct {
	Methods     []PaymentMethodResponse `json:"methods"`
	ActiveCount int                     `json:"active_count"`
}

type ItemResponse struct {
	ID          int64  `json:"id"`
	GameID      int64  `json:"game_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Featured    bool   `json:"featured"`
	IsActive    bool   `json:"is_active"`
}

func NewItemResponse(i *catalog.Item) ItemResponse {
	return ItemResponse{
		ID:          i.ID,
		GameID:      i.GameID,
		Name:        i.Name,
		Description: i.Description,
		Price:       i.Price,
		Featured:    i.Featured,
		IsActive:    i.IsActive,
	}
}

type TournamentResponse struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Game            string    `json:"game"`
	Description     string    `json:"description,omitempty"`
	EntryFee        int64     `json:"entry_fee"`
	PrizePool       int64     `json:"prize_pool"`
	MaxParticipants int       `json:"max_participants"`
	StartsAt        time.Time `json:"starts_at"`
	Status          string    `json:"status"`
	RoomID          string    `json:"room_id,omitempty"`
	RoomPassword    string    `json:"room_password,omitempty"`
}

func NewTournamentResponse(t *tournaments.Tournament) TournamentResponse {
	return TournamentResponse{
		ID:              t.ID,
		Title:           t.Title,
		Game:            t.Game,
		Description:     t.Description,
		EntryFee:        t.EntryFee,
		PrizePool:       t.PrizePool,
		MaxParticipants: t.MaxParticipants,
		StartsAt:        t.StartsAt,
		Status:          t.Status.String(),
		RoomID:          t.RoomID,
		RoomPassword:    t.RoomPassword,
	}
}

type ParticipantResponse struct {
	ID           int64     `json:"id"`
	TournamentID int64     `json:"tournament_id"`
	UserID       int64     `json:"user_id"`
	InGameName   string    `json:"in_game_name"`
	InGameID     string    `json:"in_game_id,omitempty"`
	Position     int       `json:"position,omitempty"`
	PrizeWon     int64     `json:"prize_won"`
	PrizeAwarded bool      `json:"prize_awarded"`
	JoinedAt     time.Time `json:"joined_at"`
}

func NewParticipantResponse(p *tournaments.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:           p.ID,
		TournamentID: p.TournamentID,
		UserID:       p.UserID,
		InGameName:   p.InGameName,
		InGameID:     p.InGameID,
		Position:     p.Position,
		PrizeWon:     p.PrizeWon,
		PrizeAwarded: p.PrizeAwarded,
		JoinedAt:     p.JoinedAt,
	}
}

type ResultResponse struct {
	ID            int64     `json:"id"`
	TournamentID  int64     `json:"tournament_id"`
	UserID        int64     `json:"user_id"`
	Claim         string    `json:"claim"`
	ScreenshotURL string    `json:"screenshot_url,omitempty"`
	Status        string    `json:"status"`
	AdminNotes    string    `json:"admin_notes,omitempty"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

func NewResultResponse(r *tournaments.Result) ResultResponse {
	return ResultResponse{
		ID:            r.ID,
		TournamentID:  r.TournamentID,
		UserID:        r.UserID,
		Claim:         string(r.Claim),
		ScreenshotURL: r.ScreenshotURL,
		Status:        string(r.Status),
		AdminNotes:    r.AdminNotes,
		SubmittedAt:   r.SubmittedAt,
	}
}

type ChatResponse struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	AdminReply string    `json:"admin_reply,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewChatResponse(m *chats.Message) ChatResponse {
	return ChatResponse{
		ID:         m.ID,
		UserID:     m.UserID,
		Subject:    m.Subject,
		Message:    m.Body,
		Status:     string(m.Status),
		AdminReply: m.AdminReply,
		CreatedAt:  m.CreatedAt,
	}
}

type BulkResponse struct {
	Processed []int64 `json:"processed"`
	Skipped   []int64 `json:"skipped"`
}

type DashboardResponse struct {
	TotalUsers        int               `json:"total_users"`
	TotalTournaments  int               `json:"total_tournaments"`
	ActiveTournaments int               `json:"active_tournaments"`
	PendingPayments   int               `json:"pending_payments"`
	PendingOrders     int               `json:"pending_orders"`
	Revenue           decimal.Decimal   `json:"total_revenue"`
	NewUsers          int               `json:"new_users"`
	ApprovedPayments  int               `json:"approved_payments"`
	RecentUsers       []UserResponse    `json:"recent_users"`
	RecentPayments    []PaymentResponse `json:"recent_payments"`
	RecentOrders      []OrderResponse   `json:"recent_orders"`
}

// Map converts every element of list with fn.
func Map[T, R any](list []T, fn func(T) R) []R {
	out := make([]R, 0, len(list))

	for _, v := range list {
		out = append(out, fn(v))
	}

	return out
}
