package handler

import (
	"net/http"

	"sewa-be/internal/auth"
	"sewa-be/internal/sellerrequest"
	"sewa-be/internal/utils"
)

func (h *Handler) ListSellerRequests(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CallerFrom(r.Context())

	reqs, err := h.SellerRequestSvc.List(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, reqs)
}

func (h *Handler) SubmitSellerRequest(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CallerFrom(r.Context())

	req, err := h.SellerRequestSvc.Submit(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) GetSellerRequest(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CallerFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	req, err := h.SellerRequestSvc.Get(r.Context(), caller, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) ReviewSellerRequest(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CallerFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input sellerrequest.ReviewInput
	if err := decode(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	req, err := h.SellerRequestSvc.Review(r.Context(), caller, id, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, req)
}
