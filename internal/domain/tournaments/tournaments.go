package tournaments

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andymarkow/gamevault/internal/domain/guard"
)

// RoomWindow is how long before the start room details may be published.
const RoomWindow = 5 * time.Minute

var (
	ErrTitleEmpty         = errors.New("tournament title is empty")
	ErrEntryFeeNegative   = errors.New("tournament entry fee is negative")
	ErrPrizePoolNegative  = errors.New("tournament prize pool is negative")
	ErrMaxParticipants    = errors.New("tournament needs at least two participants")
	ErrRoomDetailsMissing = errors.New("both room id and password are required")
	ErrRoomWindowClosed   = errors.New("room details can only be set within 5 minutes of the start")
	ErrNotStarted         = errors.New("tournament has not started yet")
	ErrNotOpen            = errors.New("tournament is not open for registration")
	ErrFull               = errors.New("tournament is full")
	ErrAlreadyJoined      = errors.New("user already joined the tournament")
	ErrNotParticipant     = errors.New("user is not a tournament participant")
	ErrInGameNameEmpty    = errors.New("in-game name is empty")
	ErrNoPrize            = errors.New("participant has no prize to award")
	ErrPositionInvalid    = errors.New("participant position is invalid")
	ErrClaimInvalid       = errors.New("result claim must be won or lost")
	ErrClaimSubmitted     = errors.New("result already submitted")
	ErrDisputeNotPair     = errors.New("dispute must consist of exactly two claims")
)

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsFinal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func ParseStatus(status string) (Status, error) {
	switch Status(status) {
	case StatusUpcoming, StatusOngoing, StatusCompleted, StatusCancelled:
		return Status(status), nil
	default:
		return "", fmt.Errorf("unknown tournament status: %s", status)
	}
}

type Tournament struct {
	ID              int64
	Title           string
	Game            string
	Description     string
	EntryFee        int64
	PrizePool       int64
	MaxParticipants int
	StartsAt        time.Time
	Status          Status
	RoomID          string
	RoomPassword    string
	RoomSetAt       time.Time
	CreatedBy       int64
	CreatedAt       time.Time
}

type Params struct {
	Title           string
	Game            string
	Description     string
	EntryFee        int64
	PrizePool       int64
	MaxParticipants int
	StartsAt        time.Time
}

func NewTournament(p Params, createdBy int64) (*Tournament, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, ErrTitleEmpty
	}

	if p.EntryFee < 0 {
		return nil, ErrEntryFeeNegative
	}

	if p.PrizePool < 0 {
		return nil, ErrPrizePoolNegative
	}

	if p.MaxParticipants < 2 {
		return nil, ErrMaxParticipants
	}

	return &Tournament{
		Title:           p.Title,
		Game:            p.Game,
		Description:     p.Description,
		EntryFee:        p.EntryFee,
		PrizePool:       p.PrizePool,
		MaxParticipants: p.MaxParticipants,
		StartsAt:        p.StartsAt,
		Status:          StatusUpcoming,
		CreatedBy:       createdBy,
		CreatedAt:       time.Now(),
	}, nil
}

func (t *Tournament) alreadyProcessed() error {
	return fmt.Errorf("tournament %d is %s: %w", t.ID, t.Status, guard.ErrAlreadyProcessed)
}

func (t *Tournament) Start() error {
	if t.Status != StatusUpcoming {
		return t.alreadyProcessed()
	}

	t.Status = StatusOngoing

	return nil
}

// Complete closes the tournament regardless of its start time.
func (t *Tournament) Complete() error {
	if t.Status.IsFinal() {
		return t.alreadyProcessed()
	}

	t.Status = StatusCompleted

	return nil
}

// Finish closes a tournament whose start time has passed.
func (t *Tournament) Finish(now time.Time) error {
	if t.Status.IsFinal() {
		return t.alreadyProcessed()
	}

	if t.StartsAt.After(now) {
		return ErrNotStarted
	}

	t.Status = StatusCompleted

	return nil
}

func (t *Tournament) Cancel() error {
	if t.Status.IsFinal() {
		return t.alreadyProcessed()
	}

	t.Status = StatusCancelled

	return nil
}

func (t *Tournament) SetRoom(roomID, roomPassword string, now time.Time) error {
	if t.Status.IsFinal() {
		return t.alreadyProcessed()
	}

	if roomID == "" || roomPassword == "" {
		return ErrRoomDetailsMissing
	}

	if t.StartsAt.Sub(now) > RoomWindow {
		return ErrRoomWindowClosed
	}

	t.RoomID = roomID
	t.RoomPassword = roomPassword
	t.RoomSetAt = now

	return nil
}

// CheckJoin reports whether one more participant may register.
func (t *Tournament) CheckJoin(participants int) error {
	if t.Status != StatusUpcoming {
		return ErrNotOpen
	}

	if participants >= t.MaxParticipants {
		return ErrFull
	}

	return nil
}

type Participant struct {
	ID           int64
	TournamentID int64
	UserID       int64
	InGameName   string
	InGameID     string
	Position     int
	PrizeWon     int64
	PrizeAwarded bool
	JoinedAt     time.Time
}

func NewParticipant(tournamentID, userID int64, inGameName, inGameID string) (*Participant, error) {
	if strings.TrimSpace(inGameName) == "" {
		return nil, ErrInGameNameEmpty
	}

	return &Participant{
		TournamentID: tournamentID,
		UserID:       userID,
		InGameName:   inGameName,
		InGameID:     inGameID,
		JoinedAt:     time.Now(),
	}, nil
}

func (p *Participant) SetPlacement(position int, prize int64) error {
	if p.PrizeAwarded {
		return fmt.Errorf("participant %d prize: %w", p.ID, guard.ErrAlreadyProcessed)
	}

	if position < 0 || prize < 0 {
		return ErrPositionInvalid
	}

	p.Position = position
	p.PrizeWon = prize

	return nil
}

// MarkAwarded flags the prize as paid. A prize is paid at most once.
func (p *Participant) MarkAwarded() error {
	if p.PrizeAwarded {
		return fmt.Errorf("participant %d prize: %w", p.ID, guard.ErrAlreadyProcessed)
	}

	if p.PrizeWon <= 0 {
		return ErrNoPrize
	}

	p.PrizeAwarded = true

	return nil
}

type Claim string

const (
	ClaimWon  Claim = "won"
	ClaimLost Claim = "lost"
)

type ResultStatus string

const (
	ResultPending  ResultStatus = "pending"
	ResultVerified ResultStatus = "verified"
	ResultDisputed ResultStatus = "disputed"
	ResultResolved ResultStatus = "resolved"
)

// Result is a participant's claim about a match outcome with a screenshot as proof.
type Result struct {
	ID            int64
	TournamentID  int64
	UserID        int64
	Claim         Claim
	ScreenshotURL string
	Status        ResultStatus
	AdminNotes    string
	SubmittedAt   time.Time
}

func NewResult(tournamentID, userID int64, claim Claim, screenshotURL string) (*Result, error) {
	if claim != ClaimWon && claim != ClaimLost {
		return nil, ErrClaimInvalid
	}

	return &Result{
		TournamentID:  tournamentID,
		UserID:        userID,
		Claim:         claim,
		ScreenshotURL: screenshotURL,
		Status:        ResultPending,
		SubmittedAt:   time.Now(),
	}, nil
}

// Reconcile compares two pending claims for the same match. Matching
// claims (both won or both lost) are disputed, complementary ones verified.
func Reconcile(a, b *Result) {
	status := ResultVerified
	if a.Claim == b.Claim {
		status = ResultDisputed
	}

	a.Status = status
	b.Status = status
}

func (r *Result) Resolve(note string) error {
	if r.Status != ResultDisputed {
		return fmt.Errorf("result %d is %s: %w", r.ID, r.Status, guard.ErrAlreadyProcessed)
	}

	r.Status = ResultResolved
	r.AdminNotes = note

	return nil
}
