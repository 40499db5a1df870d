package orders

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andymarkow/gamevault/internal/domain/guard"
)

func TestCreateOrder(t *testing.T) {
	o, err := CreateOrder(1, 2, 25, 4, "player-1", "Ace")
	require.NoError(t, err)

	assert.Equal(t, int64(100), o.TotalPrice())
	assert.Equal(t, OrderStatusPending, o.Status())
	assert.Regexp(t, `^ORD-[0-9A-F]{10}$`, o.Number())

	other, err := CreateOrder(1, 2, 25, 1, "player-1", "")
	require.NoError(t, err)
	assert.NotEqual(t, o.Number(), other.Number())

	_, err = CreateOrder(1, 2, 25, 0, "player-1", "")
	require.ErrorIs(t, err, ErrQuantityInvalid)

	_, err = CreateOrder(1, 2, 25, 1, " ", "")
	require.ErrorIs(t, err, ErrInGameIDEmpty)
}

func TestCreateOrder_TotalOverflow(t *testing.T) {
	tests := []struct {
		name      string
		unitPrice int64
		quantity  int
		wantErr   error
	}{
		{name: "wraps to a small negative total", unitPrice: 100, quantity: 184467440737095506, wantErr: ErrTotalOverflow},
		{name: "just above the limit", unitPrice: 2, quantity: math.MaxInt64/2 + 1, wantErr: ErrTotalOverflow},
		{name: "exactly at the limit", unitPrice: 2, quantity: math.MaxInt64 / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := CreateOrder(1, 2, tt.unitPrice, tt.quantity, "player-1", "")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Positive(t, o.TotalPrice())
		})
	}
}

func TestOrder_Transition(t *testing.T) {
	at := time.Now()

	tests := []struct {
		name    string
		path    []OrderStatus
		wantErr error
	}{
		{name: "pending to processing to completed", path: []OrderStatus{OrderStatusProcessing, OrderStatusCompleted}},
		{name: "pending to cancelled", path: []OrderStatus{OrderStatusCancelled}},
		{name: "processing twice", path: []OrderStatus{OrderStatusProcessing, OrderStatusProcessing},
			wantErr: guard.ErrAlreadyProcessed},
		{name: "completed is final", path: []OrderStatus{OrderStatusCompleted, OrderStatusCancelled},
			wantErr: guard.ErrAlreadyProcessed},
		{name: "back to pending", path: []OrderStatus{OrderStatusPending}, wantErr: guard.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := CreateOrder(1, 2, 10, 1, "player-1", "")
			require.NoError(t, err)

			for i, status := range tt.path {
				err = o.Transition(status, "", at)
				if i < len(tt.path)-1 {
					require.NoError(t, err)
				}
			}

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.path[len(tt.path)-1], o.Status())
		})
	}
}
