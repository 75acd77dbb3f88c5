package handler

import (
	"net/http"

	"sewa-be/internal/auth"
	"sewa-be/internal/cart"
	"sewa-be/internal/idempotency"
	"sewa-be/internal/logger"
	"sewa-be/internal/order"
	"sewa-be/internal/utils"

	"go.uber.org/zap"
)

type updateCartLineRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) ListCart(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CallerFrom(r.Context())

	lines, err := h.CartSvc.ListLines(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, lines)
}

func (h *Handler) AddCartLine(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CallerFrom(r.Context())

	var input cart.AddLineInput
	if err := decode(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	line, err := h.CartSvc.AddLine(r.Context(), caller, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, line)
}

func (h *Handler) GetCartLine(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CallerFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	line, err := h.CartSvc.GetLine(r.Context(), caller, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, line)
}

func (h *Handler) UpdateCartLine(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CallerFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateCartLineRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	line, err := h.CartSvc.UpdateLine(r.Context(), caller, id, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, line)
}

func (h *Handler) RemoveCartLine(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CallerFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.CartSvc.RemoveLine(r.Context(), caller, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Checkout honours an optional Idempotency-Key. A replayed key answers with
// the order it produced the first time instead of checking out again.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, _ := auth.CallerFrom(ctx)
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "handler"),
		zap.String("method", "Checkout"),
	)

	var input order.CheckoutInput
	if err := decode(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	store := h.idempotencyStore()
	key := idempotency.Key(r)
	if key != "" {
		existing, err := store.Claim(ctx, caller.UserID, key)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if existing != 0 {
			h.replayCheckout(w, r, existing)
			return
		}
	}

	res, err := h.OrderSvc.Checkout(ctx, caller, input)
	if err != nil {
		if key != "" {
			if relErr := store.Release(ctx, caller.UserID, key); relErr != nil {
				log.Warn("failed to release idempotency key", zap.Error(relErr))
			}
		}
		writeError(w, r, err)
		return
	}

	if key != "" {
		if err := store.Complete(ctx, caller.UserID, key, res.OrderID); err != nil {
			log.Warn("failed to record idempotency key",
				zap.Uint("order_id", res.OrderID),
				zap.Error(err),
			)
		}
	}

	utils.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) replayCheckout(w http.ResponseWriter, r *http.Request, orderID uint) {
	caller, _ := auth.CallerFrom(r.Context())

	o, err := h.OrderSvc.GetOrder(r.Context(), caller, orderID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order.CheckoutResult{
		OrderID:    o.ID,
		TotalPrice: o.TotalPrice,
		Message:    "order already created",
	})
}

func (h *Handler) idempotencyStore() idempotency.Store {
	if h.Idempotency == nil {
		return idempotency.NoopStore{}
	}
	return h.Idempotency
}
