package booking

import (
	"errors"
	"net/http"

	"staybook/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	svc      *Service
	hub      *Hub
	invoicer *Invoicer
}

func NewHandler(svc *Service, hub *Hub, invoicer *Invoicer) *Handler {
	return &Handler{svc: svc, hub: hub, invoicer: invoicer}
}

// CreateBooking handles POST /api/bookings.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req Request
	if err := utils.DecodeJSON(w, r, &req, false); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	b, err := h.svc.Create(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}

	log.Info().Str("bookingId", b.ID).Float64("totalAmount", b.TotalAmount).Msg("booking created")
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success":       true,
		"bookingId":     b.ID,
		"totalAmount":   b.TotalAmount,
		"pricePerNight": b.PricePerNight,
		"nights":        b.Nights,
	})
}

// QuoteBooking handles POST /api/bookings/quote.
func (h *Handler) QuoteBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req Request
	if err := utils.DecodeJSON(w, r, &req, false); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	_, q, err := h.svc.Quote(req)
	if err != nil {
		h.fail(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":       true,
		"pricePerNight": q.PricePerNight,
		"nights":        q.Nights,
		"base":          q.Base,
		"surcharge":     q.Surcharge,
		"totalAmount":   q.Total,
	})
}

// ListBookings handles GET /api/bookings.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "bookings": bookings})
}

// UpdateBooking handles PUT /api/bookings/:id.
func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var p Patch
	if err := utils.DecodeJSON(w, r, &p, true); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	b, err := h.svc.Update(r.Context(), ps.ByName("id"), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "booking": b})
}

// DeleteBooking handles DELETE /api/bookings/:id.
func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.svc.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.fail(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// Invoice handles GET /api/invoices/:id.
func (h *Handler) Invoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	b, err := h.svc.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, err)
		return
	}

	pdf, err := h.invoicer.Render(*b)
	if err != nil {
		h.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+b.ID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// Live handles GET /api/live/bookings.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.hub.Serve(w, r)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		utils.RespondWithError(w, http.StatusBadRequest, ve.Reason)
	case errors.Is(err, ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "booking not found")
	case errors.Is(err, ErrConflict):
		utils.RespondWithError(w, http.StatusConflict, "booking was modified, reload and retry")
	default:
		log.Error().Err(err).Msg("booking request failed")
		utils.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
