package backoffice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/andymarkow/gamevault/internal/domain/ledger"
	"github.com/andymarkow/gamevault/internal/domain/notifications"
	"github.com/andymarkow/gamevault/internal/domain/tournaments"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/storage"
)

var ErrClaimNotDisputed = errors.New("winning claim is not part of the dispute")

func tournamentLink(id int64) string {
	return fmt.Sprintf("/tournaments/%d/", id)
}

func (s *Service) ListTournaments(
	ctx context.Context, actor users.Principal, statuses ...tournaments.Status,
) ([]*tournaments.Tournament, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	list, err := s.store.ListTournaments(ctx, statuses...)
	if err != nil {
		return nil, fmt.Errorf("store.ListTournaments: %w", err)
	}

	return list, nil
}

// ListFullTournaments returns the upcoming tournaments that reached capacity.
func (s *Service) ListFullTournaments(ctx context.Context, actor users.Principal) ([]*tournaments.Tournament, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	upcoming, err := s.store.ListTournaments(ctx, tournaments.StatusUpcoming)
	if err != nil {
		return nil, fmt.Errorf("store.ListTournaments: %w", err)
	}

	full := make([]*tournaments.Tournament, 0)

	for _, t := range upcoming {
		participants, err := s.store.ListParticipants(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("store.ListParticipants: %w", err)
		}

		if len(participants) >= t.MaxParticipants {
			full = append(full, t)
		}
	}

	return full, nil
}

func (s *Service) ListParticipants(
	ctx context.Context, actor users.Principal, tournamentID int64,
) ([]*tournaments.Participant, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	list, err := s.store.ListParticipants(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("store.ListParticipants: %w", err)
	}

	return list, nil
}

func (s *Service) CreateTournament(
	ctx context.Context, actor users.Principal, params tournaments.Params,
) (*tournaments.Tournament, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	t, err := tournaments.NewTournament(params, actor.ID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if err := s.store.CreateTournament(ctx, t); err != nil {
		return nil, fmt.Errorf("store.CreateTournament: %w", err)
	}

	s.log.Info("Tournament created", slog.Int64("tournament_id", t.ID), slog.Int64("admin_id", actor.ID))

	return t, nil
}

// updateTournament locks a tournament, applies change and persists it.
func (s *Service) updateTournament(
	ctx context.Context, tournamentID int64, change func(t *tournaments.Tournament) error,
) (*tournaments.Tournament, []*tournaments.Participant, error) {
	var (
		tournament   *tournaments.Tournament
		participants []*tournaments.Participant
	)

	err := s.withinTx(ctx, func(repo storage.Repo) error {
		t, err := repo.GetTournamentForUpdate(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("repo.GetTournamentForUpdate: %w", err)
		}

		if err := change(t); err != nil {
			return err
		}

		if err := repo.UpdateTournament(ctx, t); err != nil {
			return fmt.Errorf("repo.UpdateTournament: %w", err)
		}

		participants, err = repo.ListParticipants(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("repo.ListParticipants: %w", err)
		}

		tournament = t

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return tournament, participants, nil
}

func (s *Service) StartTournament(
	ctx context.Context, actor users.Principal, tournamentID int64,
) (*tournaments.Tournament, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	t, _, err := s.updateTournament(ctx, tournamentID, func(t *tournaments.Tournament) error {
		return t.Start()
	})

	return t, err
}

func (s *Service) CompleteTournament(
	ctx context.Context, actor users.Principal, tournamentID int64,
) (*tournaments.Tournament, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	t, _, err := s.updateTournament(ctx, tournamentID, func(t *tournaments.Tournament) error {
		return t.Complete()
	})

	return t, err
}

func (s *Service) BulkStartTournaments(ctx context.Context, actor users.Principal, ids []int64) (BulkResult, error) {
	if err := authorize(actor); err != nil {
		return BulkResult{}, err
	}

	return s.bulk("start tournament", ids, func(id int64) error {
		_, err := s.StartTournament(ctx, actor, id)

		return err
	})
}

func (s *Service) BulkCompleteTournaments(ctx context.Context, actor users.Principal, ids []int64) (BulkResult, error) {
	if err := authorize(actor); err != nil {
		return BulkResult{}, err
	}

	return s.bulk("complete tournament", ids, func(id int64) error {
		_, err := s.CompleteTournament(ctx, actor, id)

		return err
	})
}

// SetRoom publishes the lobby credentials and tells every participant.
func (s *Service) SetRoom(
	ctx context.Context, actor users.Principal, tournamentID int64, roomID, roomPassword string,
) (*tournaments.Tournament, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	t, participants, err := s.updateTournament(ctx, tournamentID, func(t *tournaments.Tournament) error {
		return t.SetRoom(roomID, roomPassword, s.now())
	})
	if err != nil {
		return nil, err
	}

	for _, p := range participants {
		s.notifier.Notify(ctx, p.UserID, notifications.CategoryTournament, "Room Details Available",
			fmt.Sprintf("Room details for %q are now available. Room ID: %s, Password: %s",
				t.Title, t.RoomID, t.RoomPassword), tournamentLink(t.ID))
	}

	s.log.Info("Tournament room set", slog.Int64("tournament_id", t.ID), slog.Int("participants", len(participants)))

	return t, nil
}

// FinishTournament closes a started tournament and invites participants to
// submit their results.
func (s *Service) FinishTournament(
	ctx context.Context, actor users.Principal, tournamentID int64,
) (*tournaments.Tournament, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	t, participants, err := s.updateTournament(ctx, tournamentID, func(t *tournaments.Tournament) error {
		return t.Finish(s.now())
	})
	if err != nil {
		return nil, err
	}

	for _, p := range participants {
		s.notifier.Notify(ctx, p.UserID, notifications.CategoryTournament, "Tournament Finished",
			fmt.Sprintf("%q has finished. You can now submit your results.", t.Title), tournamentLink(t.ID))
	}

	return t, nil
}

// CancelTournament refunds the entry fee to every participant and marks the
// tournament cancelled, all in one transaction.
func (s *Service) CancelTournament(
	ctx context.Context, actor users.Principal, tournamentID int64,
) (*tournaments.Tournament, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	var (
		tournament   *tournaments.Tournament
		participants []*tournaments.Participant
	)

	err := s.withinTx(ctx, func(repo storage.Repo) error {
		t, err := repo.GetTournamentForUpdate(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("repo.GetTournamentForUpdate: %w", err)
		}

		if err := t.Cancel(); err != nil {
			return err //nolint:wrapcheck
		}

		participants, err = repo.ListParticipants(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("repo.ListParticipants: %w", err)
		}

		if t.EntryFee > 0 {
			for _, p := range participants {
				if _, err := s.mutator.Apply(ctx, repo, p.UserID, t.EntryFee, ledger.KindRefund,
					"Refund for cancelled tournament: "+t.Title); err != nil {
					return fmt.Errorf("mutator.Apply: %w", err)
				}
			}
		}

		if err := repo.UpdateTournament(ctx, t); err != nil {
			return fmt.Errorf("repo.UpdateTournament: %w", err)
		}

		tournament = t

		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, p := range participants {
		s.notifier.Notify(ctx, p.UserID, notifications.CategoryTournament, "Tournament Cancelled",
			fmt.Sprintf("Tournament %q has been cancelled by admin. Your entry fee has been refunded.",
				tournament.Title), tournamentLink(tournament.ID))
	}

	s.log.Info("Tournament cancelled",
		slog.Int64("tournament_id", tournament.ID),
		slog.Int("refunds", len(participants)),
		slog.Int64("admin_id", actor.ID),
	)

	return tournament, nil
}

func (s *Service) BulkCancelTournaments(ctx context.Context, actor users.Principal, ids []int64) (BulkResult, error) {
	if err := authorize(actor); err != nil {
		return BulkResult{}, err
	}

	return s.bulk("cancel tournament", ids, func(id int64) error {
		_, err := s.CancelTournament(ctx, actor, id)

		return err
	})
}

func (s *Service) SetPlacement(
	ctx context.Context, actor users.Principal, participantID int64, position int, prize int64,
) (*tournaments.Participant, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	var participant *tournaments.Participant

	err := s.withinTx(ctx, func(repo storage.Repo) error {
		p, err := repo.GetParticipantForUpdate(ctx, participantID)
		if err != nil {
			return fmt.Errorf("repo.GetParticipantForUpdate: %w", err)
		}

		if err := p.SetPlacement(position, prize); err != nil {
			return err //nolint:wrapcheck
		}

		if err := repo.UpdateParticipant(ctx, p); err != nil {
			return fmt.Errorf("repo.UpdateParticipant: %w", err)
		}

		participant = p

		return nil
	})
	if err != nil {
		return nil, err
	}

	return participant, nil
}

// AwardPrize pays a participant's placement prize once. A first place also
// counts as a tournament win.
func (s *Service) AwardPrize(
	ctx context.Context, actor users.Principal, participantID int64,
) (*tournaments.Participant, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	var (
		participant *tournaments.Participant
		tournament  *tournaments.Tournament
	)

	err := s.withinTx(ctx, func(repo storage.Repo) error {
		p, err := repo.GetParticipantForUpdate(ctx, participantID)
		if err != nil {
			return fmt.Errorf("repo.GetParticipantForUpdate: %w", err)
		}

		if err := p.MarkAwarded(); err != nil {
			return err //nolint:wrapcheck
		}

		t, err := repo.GetTournament(ctx, p.TournamentID)
		if err != nil {
			return fmt.Errorf("repo.GetTournament: %w", err)
		}

		if _, err := s.mutator.Apply(ctx, repo, p.UserID, p.PrizeWon, ledger.KindTournamentWin,
			fmt.Sprintf("Prize for %s (Position: %d)", t.Title, p.Position)); err != nil {
			return fmt.Errorf("mutator.Apply: %w", err)
		}

		if p.Position == 1 {
			winner, err := repo.GetUserForUpdate(ctx, p.UserID)
			if err != nil {
				return fmt.Errorf("repo.GetUserForUpdate: %w", err)
			}

			winner.AddTournamentWin()

			if err := repo.UpdateUser(ctx, winner); err != nil {
				return fmt.Errorf("repo.UpdateUser: %w", err)
			}
		}

		if err := repo.UpdateParticipant(ctx, p); err != nil {
			return fmt.Errorf("repo.UpdateParticipant: %w", err)
		}

		participant, tournament = p, t

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, participant.UserID, notifications.CategoryTournament, "Prize Won!",
		fmt.Sprintf("Congratulations! You won %d coins in %s!", participant.PrizeWon, tournament.Title),
		tournamentLink(tournament.ID))

	return participant, nil
}

func (s *Service) BulkAwardPrizes(ctx context.Context, actor users.Principal, ids []int64) (BulkResult, error) {
	if err := authorize(actor); err != nil {
		return BulkResult{}, err
	}

	return s.bulk("award prize", ids, func(id int64) error {
		_, err := s.AwardPrize(ctx, actor, id)

		return err
	})
}

func (s *Service) ListResults(
	ctx context.Context, actor users.Principal, tournamentID int64, statuses ...tournaments.ResultStatus,
) ([]*tournaments.Result, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	list, err := s.store.ListResults(ctx, tournamentID, statuses...)
	if err != nil {
		return nil, fmt.Errorf("store.ListResults: %w", err)
	}

	return list, nil
}

// ResolveDispute settles a tournament whose two result claims contradict
// each other. The owner of winnerClaimID is declared the winner, the pair is
// handed to the prize awarder and both claims are marked resolved.
func (s *Service) ResolveDispute(
	ctx context.Context, actor users.Principal, tournamentID, winnerClaimID int64,
) ([]*tournaments.Result, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	var (
		resolved []*tournaments.Result
		winnerID int64
		loserID  int64
		title    string
	)

	err := s.withinTx(ctx, func(repo storage.Repo) error {
		t, err := repo.GetTournamentForUpdate(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("repo.GetTournamentForUpdate: %w", err)
		}

		claims, err := repo.ListResults(ctx, t.ID, tournaments.ResultDisputed)
		if err != nil {
			return fmt.Errorf("repo.ListResults: %w", err)
		}

		if len(claims) != 2 {
			return fmt.Errorf("tournament %d has %d disputed claims: %w",
				t.ID, len(claims), tournaments.ErrDisputeNotPair)
		}

		var winner, loser *tournaments.Result

		switch winnerClaimID {
		case claims[0].ID:
			winner, loser = claims[0], claims[1]
		case claims[1].ID:
			winner, loser = claims[1], claims[0]
		default:
			return fmt.Errorf("claim %d: %w", winnerClaimID, ErrClaimNotDisputed)
		}

		winnerUser, err := repo.GetUser(ctx, winner.UserID)
		if err != nil {
			return fmt.Errorf("repo.GetUser: %w", err)
		}

		if err := s.awarder.AwardWinner(ctx, repo, t, winner.UserID, loser.UserID); err != nil {
			return fmt.Errorf("awarder.AwardWinner: %w", err)
		}

		note := fmt.Sprintf("Admin declared %s as winner", winnerUser.Username())

		for _, claim := range claims {
			if err := claim.Resolve(note); err != nil {
				return err //nolint:wrapcheck
			}

			if err := repo.UpdateResult(ctx, claim); err != nil {
				return fmt.Errorf("repo.UpdateResult: %w", err)
			}
		}

		resolved = claims
		winnerID, loserID, title = winner.UserID, loser.UserID, t.Title

		return nil
	})
	if err != nil {
		return nil, err
	}

	link := tournamentLink(tournamentID)

	s.notifier.Notify(ctx, winnerID, notifications.CategoryTournament, "Dispute Resolved",
		fmt.Sprintf("The dispute in %s was resolved in your favour.", title), link)
	s.notifier.Notify(ctx, loserID, notifications.CategoryTournament, "Dispute Resolved",
		fmt.Sprintf("The dispute in %s was resolved in favour of your opponent.", title), link)

	s.log.Info("Dispute resolved",
		slog.Int64("tournament_id", tournamentID),
		slog.Int64("winner_id", winnerID),
		slog.Int64("admin_id", actor.ID),
	)

	return resolved, nil
}
