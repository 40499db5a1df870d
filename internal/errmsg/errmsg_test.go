package errmsg

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/andymarkow/gamevault/internal/backoffice"
	"github.com/andymarkow/gamevault/internal/domain/guard"
	"github.com/andymarkow/gamevault/internal/domain/tournaments"
	"github.com/andymarkow/gamevault/internal/portal"
	"github.com/andymarkow/gamevault/internal/storage"
	"github.com/andymarkow/gamevault/internal/wallet"
)

func TestFromError(t *testing.T) {
	type payload struct {
		Name string `validate:"required"`
	}

	verr := validator.New().Struct(payload{})

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{name: "validation", err: verr, wantCode: http.StatusUnprocessableEntity},
		{name: "already processed", err: fmt.Errorf("payment 1: %w", guard.ErrAlreadyProcessed),
			wantCode: http.StatusConflict, wantMsg: "already processed"},
		{name: "insufficient funds", err: fmt.Errorf("apply: %w", wallet.ErrInsufficientFunds),
			wantCode: http.StatusPaymentRequired},
		{name: "forbidden", err: fmt.Errorf("user 2: %w", backoffice.ErrForbidden), wantCode: http.StatusForbidden},
		{name: "bad credentials", err: portal.ErrInvalidCredentials, wantCode: http.StatusUnauthorized},
		{name: "duplicate user", err: fmt.Errorf("store: %w", storage.ErrUserAlreadyExists),
			wantCode: http.StatusConflict, wantMsg: "user already exists"},
		{name: "not participant", err: tournaments.ErrNotParticipant, wantCode: http.StatusForbidden},
		{name: "not found", err: fmt.Errorf("repo: %w", storage.ErrTournamentNotFound),
			wantCode: http.StatusNotFound, wantMsg: "tournament not found"},
		{name: "domain conflict", err: fmt.Errorf("tx: %w", tournaments.ErrFull),
			wantCode: http.StatusConflict, wantMsg: "tournament is full"},
		{name: "invalid input", err: fmt.Errorf("new: %w", tournaments.ErrClaimInvalid),
			wantCode: http.StatusUnprocessableEntity, wantMsg: "result claim must be won or lost"},
		{name: "unknown", err: errors.New("connection reset"),
			wantCode: http.StatusInternalServerError, wantMsg: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err)

			assert.Equal(t, tt.wantCode, got.Code)

			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, got.Error())
			}
		})
	}
}
