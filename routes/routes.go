package routes

import (
	"fmt"
	"net/http"

	"staybook/auth"
	"staybook/booking"
	"staybook/middleware"
	"staybook/ratelim"

	"github.com/julienschmidt/httprouter"
)

type Deps struct {
	Bookings *booking.Handler
	Auth     *auth.Handler
	Gate     *middleware.Gate
	Limiter  *ratelim.RateLimiter
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func New(d Deps) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Index)

	AddBookingRoutes(router, d)
	AddAuthRoutes(router, d)
	return router
}

func AddBookingRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/bookings", d.Limiter.Limit(d.Bookings.CreateBooking))
	router.POST("/api/bookings/quote", d.Limiter.Limit(d.Bookings.QuoteBooking))
	router.GET("/api/bookings", d.Gate.Require(auth.Staff, d.Bookings.ListBookings))
	router.PUT("/api/bookings/:id", d.Gate.Require(auth.Staff, d.Bookings.UpdateBooking))
	router.DELETE("/api/bookings/:id", d.Gate.Require(auth.AdminOnly, d.Bookings.DeleteBooking))
	router.GET("/api/invoices/:id", d.Gate.Require(auth.Staff, d.Bookings.Invoice))
	router.GET("/api/live/bookings", d.Gate.Require(auth.Staff, d.Bookings.Live))
}

func AddAuthRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/auth/login", d.Limiter.Limit(d.Auth.Login))
	router.POST("/api/auth/logout", d.Gate.Authenticate(d.Auth.Logout))
	router.GET("/api/auth/me", d.Gate.Authenticate(d.Auth.Me))
	router.POST("/api/users", d.Gate.Require(auth.AdminOnly, d.Auth.CreateUser))
}
