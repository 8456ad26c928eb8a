package router

import (
	"net/http"

	"github.com/UmangSachdeva/MessMate/handlers"
	"github.com/UmangSachdeva/MessMate/helpers"
	"github.com/UmangSachdeva/MessMate/metrics"
	"github.com/UmangSachdeva/MessMate/middleware"
	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/realtime"
	"github.com/gorilla/context"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Deps struct {
	Handler    *handlers.Handler
	Auth       *middleware.Auth
	Hub        *realtime.Hub
	Tokens     realtime.TokenVerifier
	Responder  helpers.Responder
	Log        *logrus.Entry
	CORSOrigin string
}

// groups holds the three API subrouters. Public routes are tried first,
// then authenticated ones, then admin-only ones, so a static path such as
// /users/me wins over an admin /users/{id}.
type groups struct {
	public    *mux.Router
	protected *mux.Router
	admin     *mux.Router
}

func Router(d Deps) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(d.Log), middleware.Recovery(d.Responder), metrics.PrometheusMiddleware)

	r.HandleFunc("/health", d.Handler.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/socket", realtime.ServeWS(d.Hub, d.Tokens, d.CORSOrigin)).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	g := groups{
		public:    api.NewRoute().Subrouter(),
		protected: api.NewRoute().Subrouter(),
		admin:     api.NewRoute().Subrouter(),
	}
	g.protected.Use(d.Auth.AuthenticationMiddleware)
	g.admin.Use(d.Auth.AuthenticationMiddleware, d.Auth.RequireRole(models.RoleAdmin))

	authRoutes(g, d.Handler)
	walletRoutes(g, d.Handler)
	menuRoutes(g, d.Handler)
	bookingRoutes(g, d.Handler)
	inventoryRoutes(g, d.Handler)
	feedbackRoutes(g, d.Handler)
	notificationRoutes(g, d.Handler)
	analyticsRoutes(g, d.Handler)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		d.Responder.Fail(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		d.Responder.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}

// Handler is the router wrapped for serving: CORS answers preflights before
// route matching and gorilla/context is cleared after every request.
func Handler(d Deps) http.Handler {
	return middleware.CORSMiddleware(d.CORSOrigin)(context.ClearHandler(Router(d)))
}
