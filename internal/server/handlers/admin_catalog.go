package handlers

import (
	"net/http"
	"strconv"

	"github.com/andymarkow/gamevault/internal/backoffice"
	"github.com/andymarkow/gamevault/internal/errmsg"
	"github.com/andymarkow/gamevault/internal/server/models"
)

func (h *Handlers) ListGames(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	list, err := h.backoffice.ListGames(r.Context(), p)
	if err != nil {
		h.fail(w, "backoffice.ListGames()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.Map(list, models.NewGameResponse))
}

func (h *Handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req models.GameRequest
	if !h.decode(w, r, &req) {
		return
	}

	game, err := h.backoffice.CreateGame(r.Context(), p, gameParams(req))
	if err != nil {
		h.fail(w, "backoffice.CreateGame()", err)

		return
	}

	handleJSONResponse(w, http.StatusCreated, models.NewGameResponse(game))
}

func (h *Handlers) UpdateGame(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req models.GameRequest
	if !h.decode(w, r, &req) {
		return
	}

	game, err := h.backoffice.UpdateGame(r.Context(), p, id, gameParams(req))
	if err != nil {
		h.fail(w, "backoffice.UpdateGame()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.NewGameResponse(game))
}

// gameParams treats a missing is_active as active.
func gameParams(req models.GameRequest) backoffice.GameParams {
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	return backoffice.GameParams{
		Name:         req.Name,
		Slug:         req.Slug,
		Icon:         req.Icon,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
		Active:       active,
	}
}

func (h *Handlers) ToggleGame(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	game, err := h.backoffice.ToggleGame(r.Context(), p, id)
	if err != nil {
		h.fail(w, "backoffice.ToggleGame()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.NewGameResponse(game))
}

func (h *Handlers) DeleteGame(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.backoffice.DeleteGame(r.Context(), p, id); err != nil {
		h.fail(w, "backoffice.DeleteGame()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, &JSONResponse{Message: "ok"})
}

func (h *Handlers) ListItems(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var gameID int64

	if v := r.URL.Query().Get("game"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			handleError(w, errmsg.ErrRequestParamInvalid)

			return
		}

		gameID = id
	}

	list, err := h.backoffice.ListItems(r.Context(), p, gameID)
	if err != nil {
		h.fail(w, "backoffice.ListItems()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.Map(list, models.NewItemResponse))
}

func (h *Handlers) CreateItem(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req models.ItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	item, err := h.backoffice.CreateItem(r.Context(), p, req.GameID, req.Name, req.Price)
	if err != nil {
		h.fail(w, "backoffice.CreateItem()", err)

		return
	}

	handleJSONResponse(w, http.StatusCreated, models.NewItemResponse(item))
}

func (h *Handlers) UpdateItem(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req models.ItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	item, err := h.backoffice.UpdateItem(r.Context(), p, id, req.GameID, req.Name, req.Price)
	if err != nil {
		h.fail(w, "backoffice.UpdateItem()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.NewItemResponse(item))
}

func (h *Handlers) ToggleItem(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	item, err := h.backoffice.ToggleItem(r.Context(), p, id)
	if err != nil {
		h.fail(w, "backoffice.ToggleItem()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.NewItemResponse(item))
}

func (h *Handlers) BulkItems(w http.ResponseWriter, r *http.Request) {
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
	case "feature", "unfeature":
		res, err = h.backoffice.SetItemsFeatured(r.Context(), p, req.IDs, req.Action == "feature")
	case "activate", "deactivate":
		res, err = h.backoffice.SetItemsActive(r.Context(), p, req.IDs, req.Action == "activate")
	default:
		handleError(w, errmsg.ErrRequestPayloadInvalid)

		return
	}

	if err != nil {
		h.fail(w, "backoffice.BulkItems()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, bulkResponse(res))
}
