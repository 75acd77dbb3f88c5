package handler

import (
	"net/http"

	"sewa-be/internal/auth"
	"sewa-be/internal/shipping"
	"sewa-be/internal/utils"
)

func (h *Handler) ListShippings(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CallerFrom(r.Context())

	records, err := h.ShippingSvc.List(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) CreateShipping(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CallerFrom(r.Context())

	var input shipping.CreateShippingInput
	if err := decode(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	s, err := h.ShippingSvc.Create(r.Context(), caller, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, s)
}

func (h *Handler) GetShipping(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CallerFrom(r.Context())
	orderID, err := pathID(r, "order_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	s, err := h.ShippingSvc.GetByOrder(r.Context(), caller, orderID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, s)
}
