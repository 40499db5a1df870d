package handlers

import (
	"net/http"

	"github.com/andymarkow/gamevault/internal/domain/catalog"
	"github.com/andymarkow/gamevault/internal/server/models"
)

func (h *Handlers) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	list, active, err := h.backoffice.ListPaymentMethods(r.Context(), p)
	if err != nil {
		h.fail(w, "backoffice.ListPaymentMethods()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.PaymentMethodsResponse{
		Methods:     models.Map(list, models.NewPaymentMethodResponse),
		ActiveCount: active,
	})
}

func (h *Handlers) CreatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req models.PaymentMethodRequest
	if !h.decode(w, r, &req) {
		return
	}

	m, err := h.backoffice.CreatePaymentMethod(r.Context(), p, methodParams(req))
	if err != nil {
		h.fail(w, "backoffice.CreatePaymentMethod()", err)

		return
	}

	handleJSONResponse(w, http.StatusCreated, models.NewPaymentMethodResponse(m))
}

func (h *Handlers) UpdatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req models.PaymentMethodRequest
	if !h.decode(w, r, &req) {
		return
	}

	m, err := h.backoffice.UpdatePaymentMethod(r.Context(), p, id, methodParams(req))
	if err != nil {
		h.fail(w, "backoffice.UpdatePaymentMethod()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.NewPaymentMethodResponse(m))
}

func (h *Handlers) TogglePaymentMethod(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	m, err := h.backoffice.TogglePaymentMethod(r.Context(), p, id)
	if err != nil {
		h.fail(w, "backoffice.TogglePaymentMethod()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.NewPaymentMethodResponse(m))
}

func (h *Handlers) DeletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.backoffice.DeletePaymentMethod(r.Context(), p, id); err != nil {
		h.fail(w, "backoffice.DeletePaymentMethod()", err)

		return
	}

	handleJSONResponse(w, http.StatusOK, &JSONResponse{Message: "ok"})
}

func methodParams(req models.PaymentMethodRequest) catalog.MethodParams {
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	return catalog.MethodParams{
		Name:          req.Name,
		Type:          req.Type,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
		Instructions:  req.Instructions,
		QRCodeURL:     req.QRCodeURL,
		DisplayOrder:  req.DisplayOrder,
		Active:        active,
	}
}
