package tournaments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andymarkow/gamevault/internal/domain/guard"
)

func newTestTournament(t *testing.T, startsAt time.Time) *Tournament {
	t.Helper()

	tr, err := NewTournament(Params{
		Title:           "Cup",
		EntryFee:        10,
		PrizePool:       100,
		MaxParticipants: 2,
		StartsAt:        startsAt,
	}, 1)
	require.NoError(t, err)

	return tr
}

func TestNewTournament(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr error
	}{
		{name: "valid", params: Params{Title: "Cup", MaxParticipants: 2}},
		{name: "empty title", params: Params{Title: " ", MaxParticipants: 2}, wantErr: ErrTitleEmpty},
		{name: "negative fee", params: Params{Title: "Cup", EntryFee: -1, MaxParticipants: 2}, wantErr: ErrEntryFeeNegative},
		{name: "negative prize", params: Params{Title: "Cup", PrizePool: -1, MaxParticipants: 2}, wantErr: ErrPrizePoolNegative},
		{name: "single seat", params: Params{Title: "Cup", MaxParticipants: 1}, wantErr: ErrMaxParticipants},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NewTournament(tt.params, 1)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, StatusUpcoming, tr.Status)
		})
	}
}

func TestTournament_Lifecycle(t *testing.T) {
	now := time.Now()

	t.Run("start then complete", func(t *testing.T) {
		tr := newTestTournament(t, now)

		require.NoError(t, tr.Start())
		require.ErrorIs(t, tr.Start(), guard.ErrAlreadyProcessed)
		require.ErrorIs(t, tr.CheckJoin(0), ErrNotOpen)
		require.NoError(t, tr.Complete())
		require.ErrorIs(t, tr.Cancel(), guard.ErrAlreadyProcessed)
	})

	t.Run("finish waits for the start time", func(t *testing.T) {
		tr := newTestTournament(t, now.Add(time.Hour))

		require.ErrorIs(t, tr.Finish(now), ErrNotStarted)
		require.NoError(t, tr.Finish(now.Add(2*time.Hour)))
		assert.Equal(t, StatusCompleted, tr.Status)
	})

	t.Run("join capacity", func(t *testing.T) {
		tr := newTestTournament(t, now)

		require.NoError(t, tr.CheckJoin(1))
		require.ErrorIs(t, tr.CheckJoin(2), ErrFull)
	})
}

func TestTournament_SetRoom(t *testing.T) {
	start := time.Date(2024, 7, 1, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		now     time.Time
		roomID  string
		wantErr error
	}{
		{name: "too early", now: start.Add(-6 * time.Minute), roomID: "r1", wantErr: ErrRoomWindowClosed},
		{name: "exactly five minutes", now: start.Add(-RoomWindow), roomID: "r1"},
		{name: "after start", now: start.Add(time.Minute), roomID: "r1"},
		{name: "missing id", now: start, roomID: "", wantErr: ErrRoomDetailsMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTournament(t, start)

			err := tr.SetRoom(tt.roomID, "pw", tt.now)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, tr.RoomID)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.roomID, tr.RoomID)
			assert.Equal(t, tt.now, tr.RoomSetAt)
		})
	}
}

func TestParticipant_Prize(t *testing.T) {
	p, err := NewParticipant(1, 2, "ace", "")
	require.NoError(t, err)

	require.ErrorIs(t, p.MarkAwarded(), ErrNoPrize)
	require.ErrorIs(t, p.SetPlacement(-1, 10), ErrPositionInvalid)

	require.NoError(t, p.SetPlacement(1, 50))
	require.NoError(t, p.MarkAwarded())
	require.ErrorIs(t, p.MarkAwarded(), guard.ErrAlreadyProcessed)
	require.ErrorIs(t, p.SetPlacement(2, 10), guard.ErrAlreadyProcessed)

	_, err = NewParticipant(1, 2, " ", "")
	require.ErrorIs(t, err, ErrInGameNameEmpty)
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		a, b Claim
		want ResultStatus
	}{
		{a: ClaimWon, b: ClaimLost, want: ResultVerified},
		{a: ClaimLost, b: ClaimWon, want: ResultVerified},
		{a: ClaimWon, b: ClaimWon, want: ResultDisputed},
		{a: ClaimLost, b: ClaimLost, want: ResultDisputed},
	}

	for _, tt := range tests {
		t.Run(string(tt.a)+"_"+string(tt.b), func(t *testing.T) {
			a, err := NewResult(1, 1, tt.a, "")
			require.NoError(t, err)

			b, err := NewResult(1, 2, tt.b, "")
			require.NoError(t, err)

			Reconcile(a, b)

			assert.Equal(t, tt.want, a.Status)
			assert.Equal(t, tt.want, b.Status)
		})
	}
}

func TestResult_Resolve(t *testing.T) {
	r, err := NewResult(1, 1, ClaimWon, "")
	require.NoError(t, err)

	require.ErrorIs(t, r.Resolve("note"), guard.ErrAlreadyProcessed)

	r.Status = ResultDisputed

	require.NoError(t, r.Resolve("Admin declared alice as winner"))
	assert.Equal(t, ResultResolved, r.Status)
	assert.Equal(t, "Admin declared alice as winner", r.AdminNotes)
}
