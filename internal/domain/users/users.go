package users

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserLoginEmpty     = errors.New("user login is empty")
	ErrUserPasswdEmpty    = errors.New("user password is empty")
	ErrUserPasswdTooShort = errors.New("user password is too short")
	ErrNegativeBalance    = errors.New("balance would become negative")
)

// MinAdminPasswordLen is the minimal length of an administrator password.
const MinAdminPasswordLen = 8

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

// Principal is the acting identity attached to every back-office operation.
type Principal struct {
	ID       int64
	Username string
	Role     Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// User is a platform account. Coins is the wallet balance and is changed
// only through AdjustCoins.
type User struct {
	id                int64
	username          string
	email             string
	passwordHash      string
	role              Role
	coins             int64
	tournamentsWon    int
	tournamentsPlayed int
	createdAt         time.Time
}

// CreateUser validates credentials and returns a new user with a hashed password.
func CreateUser(username, email, password string, role Role) (*User, error) {
	if err := ValidateLogin(username); err != nil {
		return nil, err
	}

	if err := validatePassword(password, role); err != nil {
		return nil, err
	}

	passwordHash, err := getPasswordHash(password)
	if err != nil {
		return nil, fmt.Errorf("getPasswordHash: %w", err)
	}

	return &User{
		username:     strings.TrimSpace(username),
		email:        strings.TrimSpace(email),
		passwordHash: passwordHash,
		role:         role,
		createdAt:    time.Now(),
	}, nil
}

// Record is the persisted form of a user.
type Record struct {
	ID                int64
	Username          string
	Email             string
	PasswordHash      string
	Role              Role
	Coins             int64
	TournamentsWon    int
	TournamentsPlayed int
	CreatedAt         time.Time
}

// NewUser restores a user from its persisted state.
func NewUser(r Record) (*User, error) {
	if err := ValidateLogin(r.Username); err != nil {
		return nil, err
	}

	return &User{
		id:                r.ID,
		username:          r.Username,
		email:             r.Email,
		passwordHash:      r.PasswordHash,
		role:              r.Role,
		coins:             r.Coins,
		tournamentsWon:    r.TournamentsWon,
		tournamentsPlayed: r.TournamentsPlayed,
		createdAt:         r.CreatedAt,
	}, nil
}

func (u *User) Record() Record {
	return Record{
		ID:                u.id,
		Username:          u.username,
		Email:             u.email,
		PasswordHash:      u.passwordHash,
		Role:              u.role,
		Coins:             u.coins,
		TournamentsWon:    u.tournamentsWon,
		TournamentsPlayed: u.tournamentsPlayed,
		CreatedAt:         u.createdAt,
	}
}

func (u *User) ID() int64 {
	return u.id
}

func (u *User) Username() string {
	return u.username
}

func (u *User) Email() string {
	return u.email
}

func (u *User) PasswordHash() string {
	return u.passwordHash
}

func (u *User) Role() Role {
	return u.role
}

func (u *User) Coins() int64 {
	return u.coins
}

func (u *User) TournamentsWon() int {
	return u.tournamentsWon
}

func (u *User) TournamentsPlayed() int {
	return u.tournamentsPlayed
}

func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

func (u *User) SetID(id int64) {
	u.id = id
}

func (u *User) Principal() Principal {
	return Principal{ID: u.id, Username: u.username, Role: u.role}
}

// AdjustCoins adds delta to the balance. The balance is left untouched
// when the result would be negative.
func (u *User) AdjustCoins(delta int64) error {
	if u.coins+delta < 0 {
		return ErrNegativeBalance
	}

	u.coins += delta

	return nil
}

func (u *User) AddTournamentWin() {
	u.tournamentsWon++
}

func (u *User) AddTournamentPlayed() {
	u.tournamentsPlayed++
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)) //nolint:wrapcheck
}

func getPasswordHash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt.GenerateFromPassword: %w", err)
	}

	return string(hash), nil
}

func ValidateLogin(login string) error {
	if strings.TrimSpace(login) == "" {
		return ErrUserLoginEmpty
	}

	return nil
}

func validatePassword(password string, role Role) error {
	if password == "" {
		return ErrUserPasswdEmpty
	}

	if role == RoleAdmin && len(password) < MinAdminPasswordLen {
		return ErrUserPasswdTooShort
	}

	return nil
}
