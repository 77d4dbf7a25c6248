package http

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/propertybazaar/server/internal/auth"
	"github.com/propertybazaar/server/internal/http/handlers"
	"github.com/propertybazaar/server/internal/middleware"
	"github.com/propertybazaar/server/internal/repo"
)

// Deps holds everything the router wires into handlers
type Deps struct {
	OTPService     handlers.OTPService
	JWTService     *auth.JWTService
	Properties     repo.PropertyRepo
	Appointments   repo.AppointmentRepo
	SavedLists     repo.SavedListRepo
	Users          handlers.UserLookup
	OTPLimiter     *middleware.RateLimiter
	AllowedOrigins []string
	// TrustProxy rewrites RemoteAddr from forwarding headers before rate limiting
	TrustProxy bool
	Logger     *zap.Logger
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if d.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	healthHandler := handlers.NewHealthHandler()
	r.Get("/health", healthHandler.ServeHTTP)

	otpHandler := handlers.NewOTPHandler(d.OTPService, d.JWTService, d.Logger)
	propertyHandler := handlers.NewPropertyHandler(d.Properties, d.Logger)
	appointmentHandler := handlers.NewAppointmentHandler(d.Appointments, d.Logger)
	toolsHandler := handlers.NewToolsHandler(d.Logger)
	savedHandler := handlers.NewSavedHandler(d.SavedLists, d.Logger)
	meHandler := handlers.NewMeHandler(d.Users, d.Logger)

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.RateLimitMiddleware(d.OTPLimiter, middleware.GetIPKey)).Post("/otp", otpHandler.HandleOTP)

		r.Get("/properties", propertyHandler.HandleList)
		r.Post("/properties", propertyHandler.HandleCreate)
		r.Get("/properties/{id}", propertyHandler.HandleGet)
		r.Post("/book-appointment", appointmentHandler.HandleBook)

		r.Route("/tools", func(r chi.Router) {
			r.Get("/emi", toolsHandler.HandleEMI)
			r.Get("/banks", toolsHandler.HandleBanks)
			r.Get("/predict", toolsHandler.HandlePredict)
		})

		// Protected routes (require valid session token)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(d.JWTService))
			r.Get("/me", meHandler.HandleMe)
			r.Get("/saved", savedHandler.HandleGet)
			r.Put("/saved", savedHandler.HandlePut)
		})
	})

	return r
}
