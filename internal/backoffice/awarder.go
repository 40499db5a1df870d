package backoffice

import (
	"context"
	"fmt"

	"github.com/andymarkow/gamevault/internal/domain/ledger"
	"github.com/andymarkow/gamevault/internal/domain/tournaments"
	"github.com/andymarkow/gamevault/internal/storage"
	"github.com/andymarkow/gamevault/internal/wallet"
)

// PrizeAwarder pays out a match decided by an administrator. It runs inside
// the dispute resolution transaction and must write only through repo.
type PrizeAwarder interface {
	AwardWinner(ctx context.Context, repo storage.Repo, t *tournaments.Tournament, winnerID, loserID int64) error
}

// PoolAwarder credits the whole prize pool to the winner and counts the win.
type PoolAwarder struct {
	mutator *wallet.Mutator
}

func NewPoolAwarder(mutator *wallet.Mutator) *PoolAwarder {
	return &PoolAwarder{mutator: mutator}
}

func (a *PoolAwarder) AwardWinner(
	ctx context.Context, repo storage.Repo, t *tournaments.Tournament, winnerID, _ int64,
) error {
	if t.PrizePool > 0 {
		if _, err := a.mutator.Apply(ctx, repo, winnerID, t.PrizePool, ledger.KindTournamentWin,
			fmt.Sprintf("Prize for %s (dispute resolved)", t.Title)); err != nil {
			return fmt.Errorf("mutator.Apply: %w", err)
		}
	}

	winner, err := repo.GetUserForUpdate(ctx, winnerID)
	if err != nil {
		return fmt.Errorf("repo.GetUserForUpdate: %w", err)
	}

	winner.AddTournamentWin()

	if err := repo.UpdateUser(ctx, winner); err != nil {
		return fmt.Errorf("repo.UpdateUser: %w", err)
	}

	return nil
}
