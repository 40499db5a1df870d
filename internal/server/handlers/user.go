package handlers

import (
	"net/http"
	"strconv"

	"github.com/andymarkow/gamevault/internal/domain/tournaments"
	"github.com/andymarkow/gamevault/internal/errmsg"
	"github.com/andymarkow/gamevault/internal/portal"
	"github.com/andymarkow/gamevault/internal/server/models"
)

func (h *Handlers) UserRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	usr, err := h.portal.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.fail(w, "portal.Register()", err)

		return
	}

	h.writeToken(w, http.StatusCreated, usr)
}

func (h *Handlers) UserLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	usr, err := h.portal.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, "portal.Login()", err)

		return
	}

	h.writeToken(w, http.StatusOK, usr)
}

func (h *Handlers) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	usr, err := h.portal.Profile(r.Context(), p.ID)
	if err != nil {
		h.fail(w, "portal.Profile()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.NewUserResponse(usr))
}

func (h *Handlers) GetUserBalance(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	coins, err := h.portal.Balance(r.Context(), p.ID)
	if err != nil {
		h.fail(w, "portal.Balance()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.BalanceResponse{Coins: coins})
}

func (h *Handlers) GetUserLedger(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	entries, err := h.portal.History(r.Context(), p.ID)
	if err != nil {
		h.fail(w, "portal.History()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.Map(entries, models.NewLedgerEntryResponse))
}

func (h *Handlers) GetUserNotifications(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	list, err := h.portal.Notifications(r.Context(), p.ID)
	if err != nil {
		h.fail(w, "portal.Notifications()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.Map(list, models.NewNotificationResponse))
}

func (h *Handlers) CreatePaymentRequest(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req models.PaymentRequest
	if !h.decode(w, r, &req) {
		return
	}

	payment, err := h.portal.RequestPayment(r.Context(), p.ID, portal.PaymentParams{
		Coins:          req.Coins,
		Amount:         req.Amount,
		Method:         req.Method,
		TransactionRef: req.TransactionRef,
		ScreenshotURL:  req.ScreenshotURL,
	})
	if err != nil {
		h.fail(w, "portal.RequestPayment()", err)

		return
	}

	handleJSONResponse(w, http.StatusCreated, models.NewPaymentResponse(payment))
}

func (h *Handlers) CreateWithdrawalRequest(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req models.WithdrawalRequest
	if !h.decode(w, r, &req) {
		return
	}

	withdrawal, err := h.portal.RequestWithdrawal(r.Context(), p.ID, portal.WithdrawalParams{
		Amount:         req.Amount,
		Method:         req.Method,
		AccountDetails: req.AccountDetails,
		QRURL:          req.QRURL,
	})
	if err != nil {
		h.fail(w, "portal.RequestWithdrawal()", err)

		return
	}

	handleJSONResponse(w, http.StatusCreated, models.NewWithdrawalResponse(withdrawal))
}

func (h *Handlers) CreateUserOrder(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req models.OrderRequest
	if !h.decode(w, r, &req) {
		return
	}

	order, err := h.portal.PlaceOrder(r.Context(), p.ID, portal.OrderParams{
		ItemID:     req.ItemID,
		Quantity:   req.Quantity,
		InGameID:   req.InGameID,
		InGameName: req.InGameName,
	})
	if err != nil {
		h.fail(w, "portal.PlaceOrder()", err)

		return
	}

	handleJSONResponse(w, http.StatusCreated, models.NewOrderResponse(order))
}

func (h *Handlers) GetUserOrders(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	list, err := h.portal.Orders(r.Context(), p.ID)
	if err != nil {
		h.fail(w, "portal.Orders()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.Map(list, models.NewOrderResponse))
}

func (h *Handlers) GetStoreItems(w http.ResponseWriter, r *http.Request) {
	var gameID int64

	if v := r.URL.Query().Get("game"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			handleError(w, errmsg.ErrRequestParamInvalid)

			return
		}

		gameID = id
	}

	items, err := h.portal.Store(r.Context(), gameID)
	if err != nil {
		h.fail(w, "portal.Store()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.Map(items, models.NewItemResponse))
}

func (h *Handlers) GetPaymentMethods(w http.ResponseWriter, r *http.Request) {
	list, err := h.portal.PaymentMethods(r.Context())
	if err != nil {
		h.fail(w, "portal.PaymentMethods()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.Map(list, models.NewPaymentMethodResponse))
}

func (h *Handlers) GetTournaments(w http.ResponseWriter, r *http.Request) {
	list, err := h.portal.Tournaments(r.Context())
	if err != nil {
		h.fail(w, "portal.Tournaments()", err)

		return
	}

	resp := models.Map(list, models.NewTournamentResponse)

	// Room credentials are only handed out to participants through notifications.
	for i := range resp {
		resp[i].RoomID, resp[i].RoomPassword = "", ""
	}

	handleJSONResponse(w, http.StatusOK, resp)
}

func (h *Handlers) JoinTournament(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req models.JoinRequest
	if !h.decode(w, r, &req) {
		return
	}

	participant, err := h.portal.JoinTournament(r.Context(), p.ID, id, req.InGameName, req.InGameID)
	if err != nil {
		h.fail(w, "portal.JoinTournament()", err)

		return
	}

	handleJSONResponse(w, http.StatusCreated, models.NewParticipantResponse(participant))
}

func (h *Handlers) SubmitTournamentResult(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req models.ResultRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.portal.SubmitResult(r.Context(), p.ID, id, tournaments.Claim(req.Claim), req.ScreenshotURL)
	if err != nil {
		h.fail(w, "portal.SubmitResult()", err)

		return
	}

	handleJSONResponse(w, http.StatusCreated, models.NewResultResponse(result))
}

func (h *Handlers) CreateChatMessage(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req models.ChatRequest
	if !h.decode(w, r, &req) {
		return
	}

	m, err := h.portal.SendMessage(r.Context(), p.ID, req.Subject, req.Message)
	if err != nil {
		h.fail(w, "portal.SendMessage()", err)

		return
	}

	handleJSONResponse(w, http.StatusCreated, models.NewChatResponse(m))
}
