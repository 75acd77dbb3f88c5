package handler

import (
	"net/http"

	"sewa-be/internal/auth"
	"sewa-be/internal/order"
	"sewa-be/internal/utils"
)

// ListOrders accepts ?status=, ?limit=, ?page= and, for staff, ?user_id=.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CallerFrom(r.Context())
	q := r.URL.Query()

	filter := order.ListFilter{
		Limit: queryInt32(r, "limit"),
		Page:  queryInt32(r, "page"),
	}
	if s := q.Get("status"); s != "" {
		status := order.Status(s)
		filter.Status = &status
	}
	if v := q.Get("user_id"); v != "" {
		uid, err := utils.ToUint(v)
		if err != nil {
			writeError(w, r, errInvalidID)
			return
		}
		filter.UserID = &uid
	}

	orders, err := h.OrderSvc.ListOrders(r.Context(), caller, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CallerFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.OrderSvc.GetOrder(r.Context(), caller, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

// TransitionOrder serves one registered action route; unregistered action
// paths never reach it and fall through to 404.
func (h *Handler) TransitionOrder(action order.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := auth.CallerFrom(r.Context())
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}

		o, err := h.OrderSvc.Transition(r.Context(), caller, id, action)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, o)
	}
}
