package handler

import (
	"net/http"
	"time"

	"sewa-be/internal/auth"
	"sewa-be/internal/user"
	"sewa-be/internal/utils"
)

const accessTokenMaxAge = 24 * time.Hour

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var input user.RegisterInput
	if err := decode(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.UserSvc.Register(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setAccessToken(w, res.Token)
	utils.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input user.LoginInput
	if err := decode(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.UserSvc.Login(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setAccessToken(w, res.Token)
	utils.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) setAccessToken(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(accessTokenMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
