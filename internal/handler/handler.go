package handler

import (
	"net/http"
	"strconv"

	"sewa-be/internal/apperror"
	"sewa-be/internal/cart"
	"sewa-be/internal/idempotency"
	"sewa-be/internal/logger"
	"sewa-be/internal/order"
	"sewa-be/internal/product"
	"sewa-be/internal/sellerrequest"
	"sewa-be/internal/shipping"
	"sewa-be/internal/user"
	"sewa-be/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var (
	errInvalidID   = apperror.Validation("invalid id")
	errInvalidBody = apperror.Validation("invalid request body")
)

// Handler exposes the services over REST.
type Handler struct {
	UserSvc          user.Service
	ProductSvc       product.Service
	CartSvc          cart.Service
	OrderSvc         order.Service
	ShippingSvc      shipping.Service
	SellerRequestSvc sellerrequest.Service
	Idempotency      idempotency.Store

	// SecureCookie marks the access_token cookie Secure.
	SecureCookie bool
}

// writeError maps err to its HTTP status. Internal errors are logged with
// their cause; the client only sees the sentinel message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("layer", "handler"),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	utils.WriteJSONError(w, apperror.MessageOf(err), status)
}

func decode(r *http.Request, dst any) error {
	if err := utils.DecodeJSON(r, dst); err != nil {
		return apperror.Wrap(errInvalidBody, err)
	}
	return nil
}

func pathID(r *http.Request, name string) (uint, error) {
	id, err := utils.ToUint(chi.URLParam(r, name))
	if err != nil {
		return 0, errInvalidID
	}
	return id, nil
}

// queryInt32 returns nil when the parameter is absent or not a number.
func queryInt32(r *http.Request, name string) *int32 {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return nil
	}
	out := int32(n)
	return &out
}
