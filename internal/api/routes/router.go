package routes

import (
	"net/http"
	"strings"

	"github.com/carelink/backend/internal/api/handlers"
	"github.com/carelink/backend/internal/api/middleware"
	"github.com/carelink/backend/internal/infrastructure/observability"
)

// DashboardStatsPath is cached by the cache middleware and invalidated on writes
const DashboardStatsPath = "/api/dashboard/stats"

// Handlers groups the HTTP handlers served by the router
type Handlers struct {
	Users         *handlers.UserHandler
	Appointments  *handlers.AppointmentHandler
	Payments      *handlers.PaymentHandler
	NursePayments *handlers.NursePaymentHandler
	Blogs         *handlers.BlogHandler
	Notifications *handlers.NotificationHandler
	Stream        *handlers.SSEHandler
	Contact       *handlers.ContactHandler
	Dashboard     *handlers.DashboardHandler
}

// Options configures the router's middleware
type Options struct {
	CORSOrigin string
	UploadDir  string
}

// Router holds all route handlers
type Router struct {
	mux      *http.ServeMux
	handlers Handlers
	options  Options

	cacheMiddleware *middleware.CacheMiddleware
	rateLimiter     *middleware.RateLimiter
	metrics         *observability.Metrics
}

// NewRouter creates a new router. cacheMiddleware, rateLimiter and metrics
// may be nil.
func NewRouter(
	h Handlers,
	options Options,
	cacheMiddleware *middleware.CacheMiddleware,
	rateLimiter *middleware.RateLimiter,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		handlers:        h,
		options:         options,
		cacheMiddleware: cacheMiddleware,
		rateLimiter:     rateLimiter,
		metrics:         metrics,
	}
}

func (r *Router) limited(fn http.HandlerFunc) http.Handler {
	if r.rateLimiter == nil {
		return fn
	}
	return r.rateLimiter.LimitFunc(fn)
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	h := r.handlers

	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Users
	r.mux.Handle("POST /api/register", r.limited(h.Users.Register))
	r.mux.Handle("POST /api/login", r.limited(h.Users.Login))
	r.mux.HandleFunc("GET /api/users", h.Users.ListUsers)
	r.mux.HandleFunc("POST /api/users", h.Users.CreateUser)
	r.mux.HandleFunc("GET /api/users/{id}", h.Users.GetUser)
	r.mux.HandleFunc("PATCH /api/users/{id}", h.Users.UpdateUser)
	r.mux.HandleFunc("DELETE /api/users/{id}", h.Users.DeleteUser)

	// Appointments
	r.mux.HandleFunc("GET /api/appointments", h.Appointments.ListAppointments)
	r.mux.HandleFunc("POST /api/appointments", h.Appointments.CreateAppointment)
	r.mux.HandleFunc("GET /api/appointments/{id}", h.Appointments.GetAppointment)
	r.mux.HandleFunc("PATCH /api/appointments/{id}", h.Appointments.UpdateAppointment)
	r.mux.HandleFunc("GET /api/appointments/patient/{patient_id}", h.Appointments.ListPatientAppointments)

	// Payments
	r.mux.HandleFunc("GET /api/payments", h.Payments.ListPayments)
	r.mux.HandleFunc("POST /api/payments", h.Payments.CreatePayment)
	r.mux.HandleFunc("GET /api/payments/patient/{patient_id}", h.Payments.ListPatientPayments)

	// Nurse payments
	r.mux.HandleFunc("POST /api/nurse-payments/calculate", h.NursePayments.Calculate)
	r.mux.HandleFunc("POST /api/nurse-payments/pay", h.NursePayments.Pay)
	r.mux.HandleFunc("GET /api/nurse-payments", h.NursePayments.ListNursePayments)
	r.mux.HandleFunc("GET /api/nurse-payments/{id}", h.NursePayments.GetNursePayment)
	r.mux.HandleFunc("GET /api/nurse-payments/nurse/{nurse_id}", h.NursePayments.ListByNurse)

	// Blogs
	r.mux.HandleFunc("GET /api/blogs", h.Blogs.ListBlogs)
	r.mux.HandleFunc("POST /api/blogs", h.Blogs.CreateBlog)
	r.mux.HandleFunc("GET /api/blogs/search", h.Blogs.SearchBlogs)
	r.mux.HandleFunc("POST /api/blogs/sample", h.Blogs.CreateSampleBlog)
	r.mux.HandleFunc("GET /api/blogs/{id}", h.Blogs.GetBlog)
	r.mux.HandleFunc("PUT /api/blogs/{id}", h.Blogs.UpdateBlog)
	r.mux.HandleFunc("DELETE /api/blogs/{id}", h.Blogs.DeleteBlog)

	// Notifications
	r.mux.HandleFunc("POST /api/notifications", h.Notifications.CreateNotification)
	r.mux.HandleFunc("GET /api/notifications/user/{user_id}", h.Notifications.ListUserNotifications)
	r.mux.HandleFunc("PATCH /api/notifications/{id}/read", h.Notifications.MarkRead)
	if h.Stream != nil {
		r.mux.HandleFunc("GET /api/stream/notifications/user/{user_id}", h.Stream.StreamUserNotifications)
	}

	// Contact
	r.mux.Handle("POST /api/contact", r.limited(h.Contact.SubmitContact))
	r.mux.HandleFunc("GET /api/contact-messages", h.Contact.ListContactMessages)
	r.mux.HandleFunc("PATCH /api/contact-messages/{id}", h.Contact.UpdateContactMessage)

	// Dashboard
	r.mux.HandleFunc("GET "+DashboardStatsPath, h.Dashboard.GetStats)

	// Uploaded blog images
	if r.options.UploadDir != "" {
		r.mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", noDirListing(http.FileServer(http.Dir(r.options.UploadDir)))))
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.InvalidateOnWrite(DashboardStatsPath)(handler)
		handler = r.cacheMiddleware.Middleware(handler)
	}

	// Apply HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics, r.mux)(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(r.options.CORSOrigin)(handler)

	return handler
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "" || strings.HasSuffix(req.URL.Path, "/") {
			http.NotFound(w, req)
			return
		}
		next.ServeHTTP(w, req)
	})
}
