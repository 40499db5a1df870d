package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGame_Update(t *testing.T) {
	g, err := NewGame("Free Fire", "", "", "", 1, true)
	require.NoError(t, err)

	g.ID = 7
	created := g.CreatedAt

	tests := []struct {
		name     string
		gameName string
		gameSlug string
		wantSlug string
		wantErr  error
	}{
		{name: "slug follows the new name", gameName: "Free Fire MAX", wantSlug: "free-fire-max"},
		{name: "explicit slug", gameName: "Free Fire MAX", gameSlug: "FF Max", wantSlug: "ff-max"},
		{name: "empty name", gameName: "  ", wantErr: ErrGameNameEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Update(tt.gameName, tt.gameSlug, "", "battle royale", 3, false)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSlug, g.Slug)
			assert.Equal(t, int64(7), g.ID)
			assert.Equal(t, created, g.CreatedAt)
			assert.Equal(t, "gamepad", g.Icon)
			assert.False(t, g.IsActive)
		})
	}

	assert.Equal(t, "ff-max", g.Slug, "failed update keeps the game unchanged")
}

func TestNewPaymentMethod(t *testing.T) {
	m, err := NewPaymentMethod(MethodParams{
		Name:          " eSewa ",
		Type:          "wallet",
		AccountNumber: "9800000000",
		QRCodeURL:     "https://cdn.example.com/qr.png",
		Active:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, "eSewa", m.Name)
	assert.Equal(t, MethodTypeWallet, m.Type)

	require.NoError(t, m.Update(MethodParams{Name: "eSewa", Type: "qr"}))
	assert.Equal(t, "https://cdn.example.com/qr.png", m.QRCodeURL)
	assert.False(t, m.IsActive)

	m.Toggle()
	assert.True(t, m.IsActive)

	_, err = NewPaymentMethod(MethodParams{Name: "", Type: "bank"})
	require.ErrorIs(t, err, ErrMethodNameEmpty)

	_, err = NewPaymentMethod(MethodParams{Name: "Cash", Type: "barter"})
	require.ErrorIs(t, err, ErrMethodTypeUnknown)
}
