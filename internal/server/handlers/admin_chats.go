package handlers

import (
	"context"
	"net/http"

	"github.com/andymarkow/gamevault/internal/domain/chats"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/errmsg"
	"github.com/andymarkow/gamevault/internal/server/models"
)

func (h *Handlers) ListChats(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	filter := chats.Filter{Search: r.URL.Query().Get("search")}

	if v := r.URL.Query().Get("status"); v != "" {
		status, err := chats.ParseStatus(v)
		if err != nil {
			handleError(w, errmsg.ErrRequestParamInvalid)

			return
		}

		filter.Status = status
	}

	list, err := h.backoffice.ListChats(r.Context(), p, filter)
	if err != nil {
		h.fail(w, "backoffice.ListChats()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.Map(list, models.NewChatResponse))
}

func (h *Handlers) GetChatStats(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	stats, err := h.backoffice.ChatStats(r.Context(), p)
	if err != nil {
		h.fail(w, "backoffice.ChatStats()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, map[string]int{
		"total":    stats.Total,
		"new":      stats.New,
		"read":     stats.Read,
		"replied":  stats.Replied,
		"resolved": stats.Resolved,
	})
}

type chatOp func(ctx context.Context, actor users.Principal, id int64) (*chats.Message, error)

func (h *Handlers) chatAction(op string, fn chatOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := h.principal(w, r)
		if !ok {
			return
		}

		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}

		m, err := fn(r.Context(), p, id)
		if err != nil {
			h.fail(w, op, err)

			return
		}

		handleJSONResponse(w, http.StatusOK, models.NewChatResponse(m))
	}
}

func (h *Handlers) OpenChat(w http.ResponseWriter, r *http.Request) {
	h.chatAction("backoffice.OpenChat()", h.backoffice.OpenChat)(w, r)
}

func (h *Handlers) MarkChatRead(w http.ResponseWriter, r *http.Request) {
	h.chatAction("backoffice.MarkChatRead()", h.backoffice.MarkChatRead)(w, r)
}

func (h *Handlers) ResolveChat(w http.ResponseWriter, r *http.Request) {
	h.chatAction("backoffice.ResolveChat()", h.backoffice.ResolveChat)(w, r)
}

func (h *Handlers) ReplyChat(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req models.ReplyRequest
	if !h.decode(w, r, &req) {
		return
	}

	m, err := h.backoffice.ReplyChat(r.Context(), p, id, req.Reply)
	if err != nil {
		h.fail(w, "backoffice.ReplyChat()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.NewChatResponse(m))
}
