package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		role     Role
		wantErr  error
	}{
		{name: "user", username: "alice", password: "x", role: RoleUser},
		{name: "admin", username: "root", password: "long-enough", role: RoleAdmin},
		{name: "empty login", username: "  ", password: "x", role: RoleUser, wantErr: ErrUserLoginEmpty},
		{name: "empty password", username: "alice", password: "", role: RoleUser, wantErr: ErrUserPasswdEmpty},
		{name: "short admin password", username: "root", password: "short", role: RoleAdmin,
			wantErr: ErrUserPasswdTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := CreateUser(tt.username, "", tt.password, tt.role)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, tt.password, usr.PasswordHash())
			require.NoError(t, usr.CheckPassword(tt.password))
			require.Error(t, usr.CheckPassword(tt.password+"!"))
			assert.Equal(t, tt.role == RoleAdmin, usr.Principal().IsAdmin())
		})
	}
}

func TestUser_AdjustCoins(t *testing.T) {
	usr, err := NewUser(Record{ID: 1, Username: "alice", Coins: 50})
	require.NoError(t, err)

	require.NoError(t, usr.AdjustCoins(-50))
	assert.Equal(t, int64(0), usr.Coins())

	require.ErrorIs(t, usr.AdjustCoins(-1), ErrNegativeBalance)
	assert.Equal(t, int64(0), usr.Coins())
}
