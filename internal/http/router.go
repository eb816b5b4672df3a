package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"aigate/internal/config"
	"aigate/internal/http/handlers"
	middlewarex "aigate/internal/http/middleware"
	"aigate/internal/services/accounts"
	"aigate/internal/services/auth"
	"aigate/internal/services/dashboard"
	"aigate/internal/services/proxies"
	"aigate/internal/store/repositories"
	"aigate/internal/upstream"
)

// RouterDependencies holds all dependencies for the HTTP router
type RouterDependencies struct {
	Config           config.Cfg
	AuthService      *auth.Service
	AccountService   *accounts.Service
	ProxyService     *proxies.Service
	DashboardService *dashboard.Service
	GroupRepo        repositories.GroupRepository
	AnnouncementRepo repositories.AnnouncementRepository
	UserRepo         repositories.UserRepository
	UpstreamRegistry *upstream.Registry
	Redis            *redis.Client
}

// NewRouter creates the admin API router
func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	// Health check (public)
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Console login (public)
	r.Post("/auth/login", handlers.Login(deps.AuthService))

	// Console API (session token required, viewers read-only)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarex.SessionAuth(deps.AuthService))
		r.Use(middlewarex.RateLimit(deps.Redis, deps.Config.Sec.RateLimitPerMin))
		r.Use(middlewarex.RequireWriter)

		r.Get("/dashboard", handlers.Dashboard(deps.DashboardService))

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", handlers.ListAccounts(deps.AccountService))
			r.Post("/", handlers.CreateAccount(deps.AccountService))
			r.Get("/{id}", handlers.GetAccount(deps.AccountService))
			r.Put("/{id}", handlers.UpdateAccount(deps.AccountService))
			r.Delete("/{id}", handlers.DeleteAccount(deps.AccountService))
			r.Post("/{id}/key", handlers.RegenerateAccountKey(deps.AccountService))
		})

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", handlers.ListGroups(deps.GroupRepo))
			r.Post("/", handlers.CreateGroup(deps.GroupRepo))
			r.Get("/{id}", handlers.GetGroup(deps.GroupRepo))
			r.Put("/{id}", handlers.UpdateGroup(deps.GroupRepo))
			r.Delete("/{id}", handlers.DeleteGroup(deps.GroupRepo))
		})

		r.Route("/proxies", func(r chi.Router) {
			r.Get("/", handlers.ListProxies(deps.ProxyService))
			r.Post("/", handlers.CreateProxy(deps.ProxyService, deps.UpstreamRegistry))
			r.Get("/{id}", handlers.GetProxy(deps.ProxyService))
			r.Put("/{id}", handlers.UpdateProxy(deps.ProxyService))
			r.Delete("/{id}", handlers.DeleteProxy(deps.ProxyService))
		})

		r.Route("/announcements", func(r chi.Router) {
			r.Get("/", handlers.ListAnnouncements(deps.AnnouncementRepo))
			r.Post("/", handlers.CreateAnnouncement(deps.AnnouncementRepo))
			r.Get("/{id}", handlers.GetAnnouncement(deps.AnnouncementRepo))
			r.Put("/{id}", handlers.UpdateAnnouncement(deps.AnnouncementRepo))
			r.Delete("/{id}", handlers.DeleteAnnouncement(deps.AnnouncementRepo))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", handlers.ListUsers(deps.UserRepo))
			r.Post("/", handlers.CreateUser(deps.UserRepo))
			r.Get("/{id}", handlers.GetUser(deps.UserRepo))
			r.Put("/{id}", handlers.UpdateUser(deps.UserRepo))
			r.Delete("/{id}", handlers.DeleteUser(deps.UserRepo))
		})
	})

	return r
}
