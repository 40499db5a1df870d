package inmemory

import (
	"context"
	"slices"

	"github.com/andymarkow/gamevault/internal/domain/tournaments"
	"github.com/andymarkow/gamevault/internal/storage"
)

func (r *repo) CreateTournament(_ context.Context, t *tournaments.Tournament) error {
	defer r.lock()()

	t.ID = r.st.nextID()
	r.st.tournaments[t.ID] = *t

	return nil
}

func (r *repo) getTournament(id int64) (*tournaments.Tournament, error) {
	t, ok := r.st.tournaments[id]
	if !ok {
		return nil, storage.ErrTournamentNotFound
	}

	return &t, nil
}

func (r *repo) GetTournament(_ context.Context, id int64) (*tournaments.Tournament, error) {
	defer r.lock()()

	return r.getTournament(id)
}

func (r *repo) GetTournamentForUpdate(_ context.Context, id int64) (*tournaments.Tournament, error) {
	defer r.lock()()

	return r.getTournament(id)
}

func (r *repo) UpdateTournament(_ context.Context, t *tournaments.Tournament) error {
	defer r.lock()()

	if _, ok := r.st.tournaments[t.ID]; !ok {
		return storage.ErrTournamentNotFound
	}

	r.st.tournaments[t.ID] = *t

	return nil
}

// ListTournaments returns the matching tournaments, soonest start first.
func (r *repo) ListTournaments(_ context.Context, statuses ...tournaments.Status) ([]*tournaments.Tournament, error) {
	defer r.lock()()

	list := make([]*tournaments.Tournament, 0)

	for _, t := range r.st.tournaments {
		if len(statuses) == 0 || slices.Contains(statuses, t.Status) {
			list = append(list, &t)
		}
	}

	slices.SortFunc(list, func(a, b *tournaments.Tournament) int {
		if c := a.StartsAt.Compare(b.StartsAt); c != 0 {
			return c
		}

		return int(a.ID - b.ID)
	})

	return list, nil
}

func (r *repo) CountTournaments(_ context.Context, statuses ...tournaments.Status) (int, error) {
	defer r.lock()()

	var count int

	for _, t := range r.st.tournaments {
		if len(statuses) == 0 || slices.Contains(statuses, t.Status) {
			count++
		}
	}

	return count, nil
}

func (r *repo) CreateParticipant(_ context.Context, p *tournaments.Participant) error {
	defer r.lock()()

	if _, ok := r.st.tournaments[p.TournamentID]; !ok {
		return storage.ErrTournamentNotFound
	}

	if _, ok := r.st.users[p.UserID]; !ok {
		return storage.ErrUserNotFound
	}

	for _, existing := range r.st.participants {
		if existing.TournamentID == p.TournamentID && existing.UserID == p.UserID {
			return storage.ErrParticipantAlreadyExists
		}
	}

	p.ID = r.st.nextID()
	r.st.participants[p.ID] = *p

	return nil
}

func (r *repo) GetParticipantForUpdate(_ context.Context, id int64) (*tournaments.Participant, error) {
	defer r.lock()()

	p, ok := r.st.participants[id]
	if !ok {
		return nil, storage.ErrParticipantNotFound
	}

	return &p, nil
}

func (r *repo) UpdateParticipant(_ context.Context, p *tournaments.Participant) error {
	defer r.lock()()

	if _, ok := r.st.participants[p.ID]; !ok {
		return storage.ErrParticipantNotFound
	}

	r.st.participants[p.ID] = *p

	return nil
}

// ListParticipants returns the participants in joining order.
func (r *repo) ListParticipants(_ context.Context, tournamentID int64) ([]*tournaments.Participant, error) {
	defer r.lock()()

	list := make([]*tournaments.Participant, 0)

	for _, p := range r.st.participants {
		if p.TournamentID == tournamentID {
			list = append(list, &p)
		}
	}

	slices.SortFunc(list, func(a, b *tournaments.Participant) int { return int(a.ID - b.ID) })

	return list, nil
}

func (r *repo) CreateResult(_ context.Context, res *tournaments.Result) error {
	defer r.lock()()

	if _, ok := r.st.tournaments[res.TournamentID]; !ok {
		return storage.ErrTournamentNotFound
	}

	res.ID = r.st.nextID()
	r.st.results[res.ID] = *res

	return nil
}

func (r *repo) GetResult(_ context.Context, id int64) (*tournaments.Result, error) {
	defer r.lock()()

	res, ok := r.st.results[id]
	if !ok {
		return nil, storage.ErrResultNotFound
	}

	return &res, nil
}

func (r *repo) UpdateResult(_ context.Context, res *tournaments.Result) error {
	defer r.lock()()

	if _, ok := r.st.results[res.ID]; !ok {
		return storage.ErrResultNotFound
	}

	r.st.results[res.ID] = *res

	return nil
}

func (r *repo) ListResults(
	_ context.Context, tournamentID int64, statuses ...tournaments.ResultStatus,
) ([]*tournaments.Result, error) {
	defer r.lock()()

	list := make([]*tournaments.Result, 0)

	for _, res := range r.st.results {
		if res.TournamentID != tournamentID {
			continue
		}

		if len(statuses) > 0 && !slices.Contains(statuses, res.Status) {
			continue
		}

		list = append(list, &res)
	}

	slices.SortFunc(list, func(a, b *tournaments.Result) int { return int(a.ID - b.ID) })

	return list, nil
}
