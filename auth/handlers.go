package auth

import (
	"errors"
	"net/http"
	"strings"

	"staybook/utils"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// BearerToken extracts the token from an "Authorization: Bearer ..." header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 8 || !strings.EqualFold(h[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in LoginInput
	if err := utils.DecodeJSON(w, r, &in, false); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	sess, err := h.svc.Login(r.Context(), in)
	if errors.Is(err, ErrInvalidCredentials) {
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("login failed")
		utils.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":   true,
		"token":     sess.Token,
		"expiresAt": sess.ExpiresAt,
		"username":  sess.Identity.Username,
		"role":      sess.Identity.Role,
	})
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.svc.Logout(r.Context(), BearerToken(r)); err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		log.Error().Err(err).Msg("logout failed")
		utils.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Logged out successfully"})
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "user": id})
}

// CreateUser handles POST /api/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in NewUserInput
	if err := utils.DecodeJSON(w, r, &in, true); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	u, err := h.svc.CreateUser(r.Context(), in)
	var verrs validator.ValidationErrors
	switch {
	case err == nil:
		utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "user": u})
	case errors.As(err, &verrs):
		utils.RespondWithError(w, http.StatusBadRequest, "invalid "+strings.ToLower(verrs[0].Field()))
	case errors.Is(err, ErrUserExists):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Msg("create user failed")
		utils.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
