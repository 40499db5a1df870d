// Package catalog describes the store: game categories and the items sold in them.
package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

var (
	ErrGameNameEmpty = errors.New("game name is empty")
	ErrItemNameEmpty = errors.New("item name is empty")
	ErrItemPrice     = errors.New("item price must be positive")
	ErrGameIDInvalid = errors.New("item game id is invalid")
	ErrItemInactive  = errors.New("item is not available")
	ErrGameHasItems  = errors.New("game has store items")

	ErrMethodNameEmpty   = errors.New("payment method name is empty")
	ErrMethodTypeUnknown = errors.New("payment method type is unknown")
)

const (
	defaultGameIcon   = "gamepad"
	defaultItemAmount = 1
)

type Game struct {
	ID           int64
	Name         string
	Slug         string
	Icon         string
	Description  string
	DisplayOrder int
	IsActive     bool
	CreatedAt    time.Time
}

// NewGame builds a game category. The slug is derived from the name when
// none is given.
func NewGame(name, gameSlug, icon, description string, displayOrder int, active bool) (*Game, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrGameNameEmpty
	}

	if gameSlug == "" {
		gameSlug = name
	}

	if icon == "" {
		icon = defaultGameIcon
	}

	return &Game{
		Name:         name,
		Slug:         slug.Make(gameSlug),
		Icon:         icon,
		Description:  description,
		DisplayOrder: displayOrder,
		IsActive:     active,
		CreatedAt:    time.Now(),
	}, nil
}

// Update replaces the editable fields. The slug is rebuilt from gameSlug, or
// from the new name when gameSlug is empty.
func (g *Game) Update(name, gameSlug, icon, description string, displayOrder int, active bool) error {
	updated, err := NewGame(name, gameSlug, icon, description, displayOrder, active)
	if err != nil {
		return err
	}

	updated.ID = g.ID
	updated.CreatedAt = g.CreatedAt

	*g = *updated

	return nil
}

func (g *Game) Toggle() {
	g.IsActive = !g.IsActive
}

type Item struct {
	ID          int64
	GameID      int64
	Name        string
	Description string
	Price       int64
	Quantity    int
	Featured    bool
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewItem builds an active store item. The description defaults to the name.
func NewItem(gameID int64, name string, price int64) (*Item, error) {
	if err := validateItem(gameID, name, price); err != nil {
		return nil, err
	}

	now := time.Now()

	return &Item{
		GameID:      gameID,
		Name:        name,
		Description: name,
		Price:       price,
		Quantity:    defaultItemAmount,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (i *Item) Update(gameID int64, name string, price int64) error {
	if err := validateItem(gameID, name, price); err != nil {
		return err
	}

	i.GameID = gameID
	i.Name = name
	i.Description = name
	i.Price = price
	i.UpdatedAt = time.Now()

	return nil
}

func (i *Item) Toggle() {
	i.IsActive = !i.IsActive
	i.UpdatedAt = time.Now()
}

func validateItem(gameID int64, name string, price int64) error {
	if gameID <= 0 {
		return ErrGameIDInvalid
	}

	if strings.TrimSpace(name) == "" {
		return ErrItemNameEmpty
	}

	if price <= 0 {
		return ErrItemPrice
	}

	return nil
}

type MethodType string

const (
	MethodTypeBank   MethodType = "bank"
	MethodTypeWallet MethodType = "wallet"
	MethodTypeQR     MethodType = "qr"
	MethodTypeOther  MethodType = "other"
)

func ParseMethodType(t string) (MethodType, error) {
	switch MethodType(t) {
	case MethodTypeBank, MethodTypeWallet, MethodTypeQR, MethodTypeOther:
		return MethodType(t), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrMethodTypeUnknown, t)
	}
}

// PaymentMethod is an account users transfer money to before filing a
// payment request.
type PaymentMethod struct {
	ID            int64
	Name          string
	Type          MethodType
	AccountNumber string
	AccountName   string
	Instructions  string
	QRCodeURL     string
	DisplayOrder  int
	IsActive      bool
	CreatedAt     time.Time
}

type MethodParams struct {
	Name          string
	Type          string
	AccountNumber string
	AccountName   string
	Instructions  string
	QRCodeURL     string
	DisplayOrder  int
	Active        bool
}

func NewPaymentMethod(p MethodParams) (*PaymentMethod, error) {
	m := &PaymentMethod{CreatedAt: time.Now()}

	if err := m.Update(p); err != nil {
		return nil, err
	}

	return m, nil
}

// Update replaces the editable fields. An empty QR code URL keeps the
// current one.
func (m *PaymentMethod) Update(p MethodParams) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return ErrMethodNameEmpty
	}

	methodType, err := ParseMethodType(p.Type)
	if err != nil {
		return err
	}

	m.Name = name
	m.Type = methodType
	m.AccountNumber = p.AccountNumber
	m.AccountName = p.AccountName
	m.Instructions = p.Instructions
	m.DisplayOrder = p.DisplayOrder
	m.IsActive = p.Active

	if p.QRCodeURL != "" {
		m.QRCodeURL = p.QRCodeURL
	}

	return nil
}

func (m *PaymentMethod) Toggle() {
	m.IsActive = !m.IsActive
}
