package pgstorage

import (
	"context"
	"database/sql"

	"github.com/andymarkow/gamevault/internal/domain/tournaments"
	"github.com/andymarkow/gamevault/internal/storage"
	"github.com/andymarkow/gamevault/internal/storage/dbmodels"
)

const tournamentColumns = `id, title, game, description, entry_fee, prize_pool, max_participants,` +
	` starts_at, status, room_id, room_password, room_set_at, created_by, created_at`

func scanTournament(row scanner) (*tournaments.Tournament, error) {
	var (
		t         tournaments.Tournament
		roomSetAt sql.NullTime
	)

	if err := row.Scan(&t.ID, &t.Title, &t.Game, &t.Description, &t.EntryFee, &t.PrizePool,
		&t.MaxParticipants, &t.StartsAt, &t.Status, &t.RoomID, &t.RoomPassword, &roomSetAt,
		&t.CreatedBy, &t.CreatedAt); err != nil {
		return nil, err //nolint:wrapcheck
	}

	t.RoomSetAt = roomSetAt.Time

	return &t, nil
}

func (q *queries) CreateTournament(ctx context.Context, t *tournaments.Tournament) error {
	id, err := q.insert(ctx, nil,
		`INSERT INTO tournaments (title, game, description, entry_fee, prize_pool, max_participants,`+
			` starts_at, status, created_by, created_at)`+
			` VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		t.Title, t.Game, t.Description, t.EntryFee, t.PrizePool, t.MaxParticipants,
		t.StartsAt, t.Status.String(), t.CreatedBy, t.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrUserNotFound
		}

		return err
	}

	t.ID = id

	return nil
}

func (q *queries) getTournament(ctx context.Context, query string, id int64) (*tournaments.Tournament, error) {
	var t *tournaments.Tournament

	err := q.getOne(ctx, storage.ErrTournamentNotFound, func(row scanner) error {
		var err error
		t, err = scanTournament(row)

		return err
	}, query, id)
	if err != nil {
		return nil, err
	}

	return t, nil
}

func (q *queries) GetTournament(ctx context.Context, id int64) (*tournaments.Tournament, error) {
	return q.getTournament(ctx, `SELECT `+tournamentColumns+` FROM tournaments WHERE id = $1`, id)
}

func (q *queries) GetTournamentForUpdate(ctx context.Context, id int64) (*tournaments.Tournament, error) {
	return q.getTournament(ctx, `SELECT `+tournamentColumns+` FROM tournaments WHERE id = $1 FOR UPDATE`, id)
}

func (q *queries) UpdateTournament(ctx context.Context, t *tournaments.Tournament) error {
	return q.update(ctx, storage.ErrTournamentNotFound,
		`UPDATE tournaments SET title = $1, description = $2, status = $3, room_id = $4, room_password = $5,`+
			` room_set_at = $6 WHERE id = $7`,
		t.Title, t.Description, t.Status.String(), t.RoomID, t.RoomPassword,
		dbmodels.NullTime(t.RoomSetAt), t.ID,
	)
}

func (q *queries) ListTournaments(ctx context.Context, statuses ...tournaments.Status) ([]*tournaments.Tournament, error) {
	var list []*tournaments.Tournament

	err := q.getMany(ctx,
		func() { list = make([]*tournaments.Tournament, 0) },
		func(row scanner) error {
			t, err := scanTournament(row)
			if err != nil {
				return err
			}

			list = append(list, t)

			return nil
		},
		`SELECT `+tournamentColumns+` FROM tournaments WHERE $1::text[] IS NULL OR status = ANY($1)`+
			` ORDER BY starts_at, id`,
		statusArray(statuses),
	)
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (q *queries) CountTournaments(ctx context.Context, statuses ...tournaments.Status) (int, error) {
	return q.count(ctx, `SELECT count(*) FROM tournaments WHERE $1::text[] IS NULL OR status = ANY($1)`,
		statusArray(statuses))
}

const participantColumns = `id, tournament_id, user_id, in_game_name, in_game_id, position, prize_won,` +
	` prize_awarded, joined_at`

func scanParticipant(row scanner) (*tournaments.Participant, error) {
	var p tournaments.Participant

	if err := row.Scan(&p.ID, &p.TournamentID, &p.UserID, &p.InGameName, &p.InGameID, &p.Position,
		&p.PrizeWon, &p.PrizeAwarded, &p.JoinedAt); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &p, nil
}

func (q *queries) CreateParticipant(ctx context.Context, p *tournaments.Participant) error {
	id, err := q.insert(ctx, storage.ErrParticipantAlreadyExists,
		`INSERT INTO tournament_participants (tournament_id, user_id, in_game_name, in_game_id, joined_at)`+
			` VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		p.TournamentID, p.UserID, p.InGameName, p.InGameID, p.JoinedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrTournamentNotFound
		}

		return err
	}

	p.ID = id

	return nil
}

func (q *queries) GetParticipantForUpdate(ctx context.Context, id int64) (*tournaments.Participant, error) {
	var p *tournaments.Participant

	err := q.getOne(ctx, storage.ErrParticipantNotFound, func(row scanner) error {
		var err error
		p, err = scanParticipant(row)

		return err
	}, `SELECT `+participantColumns+` FROM tournament_participants WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (q *queries) UpdateParticipant(ctx context.Context, p *tournaments.Participant) error {
	return q.update(ctx, storage.ErrParticipantNotFound,
		`UPDATE tournament_participants SET position = $1, prize_won = $2, prize_awarded = $3 WHERE id = $4`,
		p.Position, p.PrizeWon, p.PrizeAwarded, p.ID,
	)
}

func (q *queries) ListParticipants(ctx context.Context, tournamentID int64) ([]*tournaments.Participant, error) {
	var list []*tournaments.Participant

	err := q.getMany(ctx,
		func() { list = make([]*tournaments.Participant, 0) },
		func(row scanner) error {
			p, err := scanParticipant(row)
			if err != nil {
				return err
			}

			list = append(list, p)

			return nil
		},
		`SELECT `+participantColumns+` FROM tournament_participants WHERE tournament_id = $1 ORDER BY id`,
		tournamentID,
	)
	if err != nil {
		return nil, err
	}

	return list, nil
}

const resultColumns = `id, tournament_id, user_id, claim, screenshot_url, status, admin_notes, submitted_at`

func scanResult(row scanner) (*tournaments.Result, error) {
	var r tournaments.Result

	if err := row.Scan(&r.ID, &r.TournamentID, &r.UserID, &r.Claim, &r.ScreenshotURL, &r.Status,
		&r.AdminNotes, &r.SubmittedAt); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &r, nil
}

func (q *queries) CreateResult(ctx context.Context, r *tournaments.Result) error {
	id, err := q.insert(ctx, nil,
		`INSERT INTO tournament_results (tournament_id, user_id, claim, screenshot_url, status, submitted_at)`+
			` VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		r.TournamentID, r.UserID, string(r.Claim), r.ScreenshotURL, string(r.Status), r.SubmittedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrTournamentNotFound
		}

		return err
	}

	r.ID = id

	return nil
}

func (q *queries) GetResult(ctx context.Context, id int64) (*tournaments.Result, error) {
	var r *tournaments.Result

	err := q.getOne(ctx, storage.ErrResultNotFound, func(row scanner) error {
		var err error
		r, err = scanResult(row)

		return err
	}, `SELECT `+resultColumns+` FROM tournament_results WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}

	return r, nil
}

func (q *queries) UpdateResult(ctx context.Context, r *tournaments.Result) error {
	return q.update(ctx, storage.ErrResultNotFound,
		`UPDATE tournament_results SET status = $1, admin_notes = $2 WHERE id = $3`,
		string(r.Status), r.AdminNotes, r.ID,
	)
}

func (q *queries) ListResults(
	ctx context.Context, tournamentID int64, statuses ...tournaments.ResultStatus,
) ([]*tournaments.Result, error) {
	var list []*tournaments.Result

	err := q.getMany(ctx,
		func() { list = make([]*tournaments.Result, 0) },
		func(row scanner) error {
			r, err := scanResult(row)
			if err != nil {
				return err
			}

			list = append(list, r)

			return nil
		},
		`SELECT `+resultColumns+` FROM tournament_results`+
			` WHERE tournament_id = $1 AND ($2::text[] IS NULL OR status = ANY($2))`+
			` ORDER BY id FOR UPDATE`,
		tournamentID, statusArray(statuses),
	)
	if err != nil {
		return nil, err
	}

	return list, nil
}
