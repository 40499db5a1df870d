package handlers

import (
	"context"
	"net/http"

	"github.com/andymarkow/gamevault/internal/backoffice"
	"github.com/andymarkow/gamevault/internal/domain/tournaments"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/errmsg"
	"github.com/andymarkow/gamevault/internal/server/models"
)

func (h *Handlers) AdminListTournaments(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var (
		list []*tournaments.Tournament
		err  error
	)

	switch v := r.URL.Query().Get("status"); v {
	case "":
		list, err = h.backoffice.ListTournaments(r.Context(), p)
	case "full":
		list, err = h.backoffice.ListFullTournaments(r.Context(), p)
	default:
		status, perr := tournaments.ParseStatus(v)
		if perr != nil {
			handleError(w, errmsg.ErrRequestParamInvalid)

			return
		}

		list, err = h.backoffice.ListTournaments(r.Context(), p, status)
	}

	if err != nil {
		h.fail(w, "backoffice.ListTournaments()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.Map(list, models.NewTournamentResponse))
}

func (h *Handlers) CreateTournament(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req models.TournamentRequest
	if !h.decode(w, r, &req) {
		return
	}

	t, err := h.backoffice.CreateTournament(r.Context(), p, tournaments.Params{
		Title:           req.Title,
		Game:            req.Game,
		Description:     req.Description,
		EntryFee:        req.EntryFee,
		PrizePool:       req.PrizePool,
		MaxParticipants: req.MaxParticipants,
		StartsAt:        req.StartsAt,
	})
	if err != nil {
		h.fail(w, "backoffice.CreateTournament()", err)

		return
	}

	handleJSONResponse(w, http.StatusCreated, models.NewTournamentResponse(t))
}

type tournamentOp func(ctx context.Context, actor users.Principal, id int64) (*tournaments.Tournament, error)

// tournamentAction serves the lifecycle endpoints that take only an id.
func (h *Handlers) tournamentAction(op string, fn tournamentOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := h.principal(w, r)
		if !ok {
			return
		}

		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}

		t, err := fn(r.Context(), p, id)
		if err != nil {
			h.fail(w, op, err)

			return
		}

		handleJSONResponse(w, http.StatusOK, models.NewTournamentResponse(t))
	}
}

func (h *Handlers) StartTournament(w http.ResponseWriter, r *http.Request) {
	h.tournamentAction("backoffice.StartTournament()", h.backoffice.StartTournament)(w, r)
}

func (h *Handlers) CompleteTournament(w http.ResponseWriter, r *http.Request) {
	h.tournamentAction("backoffice.CompleteTournament()", h.backoffice.CompleteTournament)(w, r)
}

func (h *Handlers) FinishTournament(w http.ResponseWriter, r *http.Request) {
	h.tournamentAction("backoffice.FinishTournament()", h.backoffice.FinishTournament)(w, r)
}

func (h *Handlers) CancelTournament(w http.ResponseWriter, r *http.Request) {
	h.tournamentAction("backoffice.CancelTournament()", h.backoffice.CancelTournament)(w, r)
}

func (h *Handlers) SetTournamentRoom(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req models.RoomRequest
	if !h.decode(w, r, &req) {
		return
	}

	t, err := h.backoffice.SetRoom(r.Context(), p, id, req.RoomID, req.RoomPassword)
	if err != nil {
		h.fail(w, "backoffice.SetRoom()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.NewTournamentResponse(t))
}

func (h *Handlers) BulkTournaments(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req models.BulkRequest
	if !h.decode(w, r, &req) {
		return
	}

	var (
		res backoffice.BulkResult
		err error
	)

	switch req.Action {
	case "start":
		res, err = h.backoffice.BulkStartTournaments(r.Context(), p, req.IDs)
	case "complete":
		res, err = h.backoffice.BulkCompleteTournaments(r.Context(), p, req.IDs)
	case "cancel":
		res, err = h.backoffice.BulkCancelTournaments(r.Context(), p, req.IDs)
	default:
		handleError(w, errmsg.ErrRequestPayloadInvalid)

		return
	}

	if err != nil {
		h.fail(w, "backoffice.BulkTournaments()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, bulkResponse(res))
}

func (h *Handlers) ListParticipants(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	list, err := h.backoffice.ListParticipants(r.Context(), p, id)
	if err != nil {
		h.fail(w, "backoffice.ListParticipants()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.Map(list, models.NewParticipantResponse))
}

func (h *Handlers) SetPlacement(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req models.PlacementRequest
	if !h.decode(w, r, &req) {
		return
	}

	participant, err := h.backoffice.SetPlacement(r.Context(), p, id, req.Position, req.PrizeWon)
	if err != nil {
		h.fail(w, "backoffice.SetPlacement()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.NewParticipantResponse(participant))
}

func (h *Handlers) AwardPrizes(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req models.BulkRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.backoffice.BulkAwardPrizes(r.Context(), p, req.IDs)
	if err != nil {
		h.fail(w, "backoffice.BulkAwardPrizes()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, bulkResponse(res))
}

func (h *Handlers) ListResults(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var statuses []tournaments.ResultStatus
	if v := r.URL.Query().Get("status"); v != "" {
		statuses = append(statuses, tournaments.ResultStatus(v))
	}

	list, err := h.backoffice.ListResults(r.Context(), p, id, statuses...)
	if err != nil {
		h.fail(w, "backoffice.ListResults()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.Map(list, models.NewResultResponse))
}

func (h *Handlers) ResolveDispute(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req models.ResolveRequest
	if !h.decode(w, r, &req) {
		return
	}

	resolved, err := h.backoffice.ResolveDispute(r.Context(), p, id, req.WinnerClaimID)
	if err != nil {
		h.fail(w, "backoffice.ResolveDispute()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.Map(resolved, models.NewResultResponse))
}
