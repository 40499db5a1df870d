package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/andymarkow/gamevault/internal/domain/ledger"
	"github.com/andymarkow/gamevault/internal/domain/notifications"
	"github.com/andymarkow/gamevault/internal/domain/tournaments"
	"github.com/andymarkow/gamevault/internal/storage"
)

func (s *Service) Tournaments(ctx context.Context) ([]*tournaments.Tournament, error) {
	list, err := s.store.ListTournaments(ctx, tournaments.StatusUpcoming, tournaments.StatusOngoing)
	if err != nil {
		return nil, fmt.Errorf("store.ListTournaments: %w", err)
	}

	return list, nil
}

// JoinTournament registers the user and charges the entry fee.
func (s *Service) JoinTournament(
	ctx context.Context, userID, tournamentID int64, inGameName, inGameID string,
) (*tournaments.Participant, error) {
	var (
		participant *tournaments.Participant
		title       string
	)

	err := s.store.WithinTx(ctx, func(repo storage.Repo) error {
		t, err := repo.GetTournamentForUpdate(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("repo.GetTournamentForUpdate: %w", err)
		}

		joined, err := repo.ListParticipants(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("repo.ListParticipants: %w", err)
		}

		if hasParticipant(joined, userID) {
			return tournaments.ErrAlreadyJoined
		}

		if err := t.CheckJoin(len(joined)); err != nil {
			return err //nolint:wrapcheck
		}

		p, err := tournaments.NewParticipant(t.ID, userID, inGameName, inGameID)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if err := repo.CreateParticipant(ctx, p); err != nil {
			if errors.Is(err, storage.ErrParticipantAlreadyExists) {
				return tournaments.ErrAlreadyJoined
			}

			return fmt.Errorf("repo.CreateParticipant: %w", err)
		}

		if t.EntryFee > 0 {
			if _, err := s.wallet.Mutator().Apply(ctx, repo, userID, -t.EntryFee, ledger.KindTournamentEntry,
				"Entry fee for "+t.Title); err != nil {
				return fmt.Errorf("mutator.Apply: %w", err)
			}
		}

		usr, err := repo.GetUserForUpdate(ctx, userID)
		if err != nil {
			return fmt.Errorf("repo.GetUserForUpdate: %w", err)
		}

		usr.AddTournamentPlayed()

		if err := repo.UpdateUser(ctx, usr); err != nil {
			return fmt.Errorf("repo.UpdateUser: %w", err)
		}

		participant, title = p, t.Title

		return nil
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	s.notifier.Notify(ctx, userID, notifications.CategoryTournament, "Tournament Joined",
		fmt.Sprintf("You have joined %s.", title), fmt.Sprintf("/tournaments/%d/", tournamentID))

	s.log.Info("Tournament joined", slog.Int64("tournament_id", tournamentID), slog.Int64("user_id", userID))

	return participant, nil
}

// SubmitResult files the user's claim about the match. When the opponent
// has already claimed, the two claims are reconciled into verified or
// disputed.
func (s *Service) SubmitResult(
	ctx context.Context, userID, tournamentID int64, claim tournaments.Claim, screenshotURL string,
) (*tournaments.Result, error) {
	result, err := tournaments.NewResult(tournamentID, userID, claim, screenshotURL)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	err = s.store.WithinTx(ctx, func(repo storage.Repo) error {
		t, err := repo.GetTournamentForUpdate(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("repo.GetTournamentForUpdate: %w", err)
		}

		if t.Status == tournaments.StatusCancelled {
			return fmt.Errorf("tournament %d is cancelled: %w", t.ID, tournaments.ErrNotOpen)
		}

		participants, err := repo.ListParticipants(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("repo.ListParticipants: %w", err)
		}

		if !hasParticipant(participants, userID) {
			return tournaments.ErrNotParticipant
		}

		claims, err := repo.ListResults(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("repo.ListResults: %w", err)
		}

		var opponent *tournaments.Result

		for _, c := range claims {
			if c.UserID == userID {
				return tournaments.ErrClaimSubmitted
			}

			if c.Status == tournaments.ResultPending && opponent == nil {
				opponent = c
			}
		}

		if opponent != nil {
			tournaments.Reconcile(opponent, result)

			if err := repo.UpdateResult(ctx, opponent); err != nil {
				return fmt.Errorf("repo.UpdateResult: %w", err)
			}
		}

		if err := repo.CreateResult(ctx, result); err != nil {
			return fmt.Errorf("repo.CreateResult: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	s.log.Info("Result submitted",
		slog.Int64("tournament_id", tournamentID),
		slog.Int64("user_id", userID),
		slog.String("status", string(result.Status)),
	)

	return result, nil
}

func hasParticipant(participants []*tournaments.Participant, userID int64) bool {
	for _, p := range participants {
		if p.UserID == userID {
			return true
		}
	}

	return false
}
