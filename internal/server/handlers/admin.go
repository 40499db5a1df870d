package handlers

import (
	"net/http"

	"github.com/andymarkow/gamevault/internal/backoffice"
	"github.com/andymarkow/gamevault/internal/domain/orders"
	"github.com/andymarkow/gamevault/internal/domain/payments"
	"github.com/andymarkow/gamevault/internal/domain/withdrawals"
	"github.com/andymarkow/gamevault/internal/errmsg"
	"github.com/andymarkow/gamevault/internal/server/models"
)

func bulkResponse(res backoffice.BulkResult) models.BulkResponse {
	return models.BulkResponse{Processed: res.Processed, Skipped: res.Skipped}
}

func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	d, err := h.backoffice.Dashboard(r.Context(), p)
	if err != nil {
		h.fail(w, "backoffice.Dashboard()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.DashboardResponse{
		TotalUsers:        d.TotalUsers,
		TotalTournaments:  d.TotalTournaments,
		ActiveTournaments: d.ActiveTournaments,
		PendingPayments:   d.PendingPayments,
		PendingOrders:     d.PendingOrders,
		Revenue:           d.Revenue,
		NewUsers:          d.NewUsers,
		ApprovedPayments:  d.ApprovedPayments,
		RecentUsers:       models.Map(d.RecentUsers, models.NewUserResponse),
		RecentPayments:    models.Map(d.RecentPayments, models.NewPaymentResponse),
		RecentOrders:      models.Map(d.RecentOrders, models.NewOrderResponse),
	})
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	list, err := h.backoffice.ListUsers(r.Context(), p, r.URL.Query().Get("search"))
	if err != nil {
		h.fail(w, "backoffice.ListUsers()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.Map(list, models.NewUserResponse))
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	usr, err := h.backoffice.GetUser(r.Context(), p, id)
	if err != nil {
		h.fail(w, "backoffice.GetUser()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.NewUserResponse(usr))
}

func (h *Handlers) AddUserCoins(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req models.CoinsRequest
	if !h.decode(w, r, &req) {
		return
	}

	entry, err := h.backoffice.AddCoins(r.Context(), p, id, req.Amount, req.Reason)
	if err != nil {
		h.fail(w, "backoffice.AddCoins()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.NewLedgerEntryResponse(entry))
}

// BulkUsers grants or deducts the same amount of coins for many users.
func (h *Handlers) BulkUsers(w http.ResponseWriter, r *http.Request) {
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
	case "grant":
		res, err = h.backoffice.BulkGrantCoins(r.Context(), p, req.IDs, req.Amount)
	case "deduct":
		res, err = h.backoffice.BulkDeductCoins(r.Context(), p, req.IDs, req.Amount)
	default:
		handleError(w, errmsg.ErrRequestPayloadInvalid)

		return
	}

	if err != nil {
		h.fail(w, "backoffice.BulkUsers()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, bulkResponse(res))
}

func (h *Handlers) ListPayments(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var statuses []payments.Status

	if v := r.URL.Query().Get("status"); v != "" {
		status, err := payments.ParseStatus(v)
		if err != nil {
			handleError(w, errmsg.ErrRequestParamInvalid)

			return
		}

		statuses = append(statuses, status)
	}

	list, err := h.backoffice.ListPayments(r.Context(), p, statuses...)
	if err != nil {
		h.fail(w, "backoffice.ListPayments()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.Map(list, models.NewPaymentResponse))
}

func (h *Handlers) ApprovePayment(w http.ResponseWriter, r *http.Request) {
	h.processPayment(w, r, true)
}

func (h *Handlers) RejectPayment(w http.ResponseWriter, r *http.Request) {
	h.processPayment(w, r, false)
}

func (h *Handlers) processPayment(w http.ResponseWriter, r *http.Request, approve bool) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req models.NotesRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}

	var (
		payment *payments.Payment
		err     error
	)

	if approve {
		payment, err = h.backoffice.ApprovePayment(r.Context(), p, id, req.Notes)
	} else {
		payment, err = h.backoffice.RejectPayment(r.Context(), p, id, req.Notes)
	}

	if err != nil {
		h.fail(w, "backoffice.ProcessPayment()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.NewPaymentResponse(payment))
}

func (h *Handlers) BulkPayments(w http.ResponseWriter, r *http.Request) {
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
	case "approve":
		res, err = h.backoffice.BulkApprovePayments(r.Context(), p, req.IDs)
	case "reject":
		res, err = h.backoffice.BulkRejectPayments(r.Context(), p, req.IDs)
	default:
		handleError(w, errmsg.ErrRequestPayloadInvalid)

		return
	}

	if err != nil {
		h.fail(w, "backoffice.BulkPayments()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, bulkResponse(res))
}

func (h *Handlers) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	filter := withdrawals.Filter{Search: r.URL.Query().Get("search")}

	if v := r.URL.Query().Get("status"); v != "" {
		status, err := withdrawals.ParseStatus(v)
		if err != nil {
			handleError(w, errmsg.ErrRequestParamInvalid)

			return
		}

		filter.Status = status
	}

	list, err := h.backoffice.ListWithdrawals(r.Context(), p, filter)
	if err != nil {
		h.fail(w, "backoffice.ListWithdrawals()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.Map(list, models.NewWithdrawalResponse))
}

func (h *Handlers) GetWithdrawalStats(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	stats, err := h.backoffice.WithdrawalStats(r.Context(), p)
	if err != nil {
		h.fail(w, "backoffice.WithdrawalStats()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, map[string]int64{
		"total":           int64(stats.Total),
		"pending":         int64(stats.Pending),
		"approved":        int64(stats.Approved),
		"rejected":        int64(stats.Rejected),
		"amount_pending":  stats.AmountPending,
		"amount_approved": stats.AmountApproved,
	})
}

func (h *Handlers) ProcessWithdrawal(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req models.ActionRequest
	if !h.decode(w, r, &req) {
		return
	}

	withdrawal, err := h.backoffice.ProcessWithdrawal(r.Context(), p, id,
		backoffice.WithdrawalAction(req.Action), req.Notes)
	if err != nil {
		h.fail(w, "backoffice.ProcessWithdrawal()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.NewWithdrawalResponse(withdrawal))
}

func (h *Handlers) BulkWithdrawals(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req models.BulkRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.backoffice.BulkProcessWithdrawals(r.Context(), p, req.IDs, backoffice.WithdrawalAction(req.Action))
	if err != nil {
		h.fail(w, "backoffice.BulkProcessWithdrawals()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, bulkResponse(res))
}

func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var statuses []orders.OrderStatus

	if v := r.URL.Query().Get("status"); v != "" {
		status, err := orders.ParseOrderStatus(v)
		if err != nil {
			handleError(w, errmsg.ErrRequestParamInvalid)

			return
		}

		statuses = append(statuses, status)
	}

	list, err := h.backoffice.ListOrders(r.Context(), p, statuses...)
	if err != nil {
		h.fail(w, "backoffice.ListOrders()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.Map(list, models.NewOrderResponse))
}

func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req models.OrderStatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	order, err := h.backoffice.UpdateOrderStatus(r.Context(), p, id, orders.OrderStatus(req.Status), req.Notes)
	if err != nil {
		h.fail(w, "backoffice.UpdateOrderStatus()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.NewOrderResponse(order))
}

func (h *Handlers) BulkOrders(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req models.BulkRequest
	if !h.decode(w, r, &req) {
		return
	}

	status, err := orders.ParseOrderStatus(req.Action)
	if err != nil {
		handleError(w, errmsg.ErrRequestPayloadInvalid)

		return
	}

	res, err := h.backoffice.BulkUpdateOrders(r.Context(), p, req.IDs, status)
	if err != nil {
		h.fail(w, "backoffice.BulkUpdateOrders()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, bulkResponse(res))
}
