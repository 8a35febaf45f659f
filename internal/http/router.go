package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/rolodex/internal/domain"
	"github.com/aussiebroadwan/rolodex/internal/service"
	"github.com/aussiebroadwan/rolodex/internal/store"
	"github.com/aussiebroadwan/rolodex/pkg/httpx"
	"github.com/aussiebroadwan/rolodex/pkg/slogx"

	_ "github.com/aussiebroadwan/rolodex/api" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	AuthService    *service.AuthService
	UserService    *service.UserService
	ContactService *service.ContactService

	// AvatarDir, when set, is served as static files under /static/avatars/.
	AvatarDir string
}

func NewRouter(
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	ban httpx.BanConfig,
	cors httpx.CORSConfig,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Outermost first: ban check, then CORS, then request logging.
	r.middlewares = []httpx.Middleware{
		httpx.BanMiddleware(ban),
		httpx.CORSMiddleware(cors),
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerEmail()
	r.registerUsers()
	r.registerContacts()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Rolodex API
//	@version		0.1.0
//	@description	Contacts management API with JWT session authentication.
//	@description
//	@description				Login returns an access and refresh token pair. The refresh token is
//	@description				rotated on every use; presenting a stale one revokes the session.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/rolodex
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /signup - strict rate limit by IP (account creation)
	r.Mux.Handle("POST /v1/auth/signup",
		httpx.Chain(&SignupHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /login - strict rate limit by IP (credential guessing)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(&LoginHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /refresh - moderate rate limit by IP
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(&RefreshHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerEmail() {
	// GET /confirm/{token} - moderate rate limit by IP (link clicks)
	r.Mux.Handle("GET /v1/email/confirm/{token}",
		httpx.Chain(&ConfirmEmailHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /request - strict rate limit by IP (mail-out abuse)
	r.Mux.Handle("POST /v1/email/request",
		httpx.Chain(&RequestEmailHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerUsers() {
	// GET /me - lenient rate limit by user
	r.Mux.Handle("GET /v1/users/me",
		httpx.Chain(&MeHandler{},
			RequireAuth(r.AuthService),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// PATCH /me/avatar - avatar limit by user (one upload per window)
	r.Mux.Handle("PATCH /v1/users/me/avatar",
		httpx.Chain(&AvatarHandler{UserService: r.UserService},
			RequireAuth(r.AuthService),
			httpx.RateLimitByUser(httpx.AvatarLimit),
		),
	)
}

func (r *Router) registerContacts() {
	h := &ContactsHandler{ContactService: r.ContactService}

	secured := func(hf http.HandlerFunc) http.Handler {
		return httpx.Chain(hf,
			RequireAuth(r.AuthService),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("POST /v1/contacts", secured(h.HandleCreate))
	r.Mux.Handle("GET /v1/contacts", secured(h.HandleList))
	r.Mux.Handle("GET /v1/contacts/{id}", secured(h.HandleGet))
	r.Mux.Handle("PUT /v1/contacts/{id}", secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/contacts/{id}", secured(h.HandleDelete))
}

func (r *Router) registerAdmin() {
	h := &AdminUsersHandler{UserService: r.UserService}

	// GET /admin/users/{id} - moderate rate limit by user, role-gated
	r.Mux.Handle("GET /v1/admin/users/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			RequireAuth(r.AuthService),
			RequireRole(r.AuthService, domain.RoleAdmin, domain.RoleModerator),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// PATCH /admin/users/{id}/role - admin only
	r.Mux.Handle("PATCH /v1/admin/users/{id}/role",
		httpx.Chain(http.HandlerFunc(h.HandleUpdateRole),
			RequireAuth(r.AuthService),
			RequireRole(r.AuthService, domain.RoleAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))

	if r.AvatarDir != "" {
		r.Mux.Handle("GET /static/avatars/",
			http.StripPrefix("/static/avatars/", http.FileServer(http.Dir(r.AvatarDir))))
	}
}
