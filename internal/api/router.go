package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/ecolatam/gateway/internal/api/handler"
	"github.com/ecolatam/gateway/internal/api/middleware"
	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/core/service"
	infrahttp "github.com/ecolatam/gateway/internal/infrastructure/http"
	"github.com/ecolatam/gateway/internal/infrastructure/http/handlers"
)

// Handlers groups the BFF handlers the route table points at.
type Handlers struct {
	Auth     *handler.AuthHandler
	Ecoguia  *handler.EcoguiaHandler
	Users    *handler.UsersHandler
	Kyc      *handler.KycHandler
	Catalogs *handler.CatalogsHandler
	Search   *handler.SearchHandler
	Social   *handler.SocialHandler
}

// Deps is everything NewRouter needs.
type Deps struct {
	Handlers Handlers
	Guard    *service.Guard
	Scope    middleware.ScopeConfig
	Health   map[string]handlers.Pinger
	Log      zerolog.Logger
	// Registerer receives the inbound request metrics. Defaults to the
	// Prometheus default registerer.
	Registerer prometheus.Registerer
}

// Route is one entry of the route table. A nil Guard makes the route public;
// an empty requirement only demands an authenticated visitor.
type Route struct {
	Method  string
	Path    string
	Handler echo.HandlerFunc
	Guard   *service.RouteRequirement
}

var (
	authenticated = &service.RouteRequirement{}
	admins        = &service.RouteRequirement{Roles: []string{domain.RoleAdmin, domain.RoleSuperAdmin}, Mode: domain.MatchAny}
	vips          = &service.RouteRequirement{Roles: []string{domain.RoleVIP}, Mode: domain.MatchAny}
)

// Routes returns the route table of the BFF.
func Routes(h Handlers) []Route {
	return []Route{
		// --- Auth ---
		{http.MethodPost, "/auth/login", h.Auth.Login, nil},
		{http.MethodPost, "/auth/register", h.Auth.Register, nil},
		{http.MethodPost, "/auth/logout", h.Auth.Logout, nil},
		{http.MethodGet, "/auth/me", h.Auth.Me, authenticated},
		{http.MethodPost, "/auth/refresh", h.Auth.Refresh, authenticated},
		{http.MethodGet, "/auth/roles", h.Auth.Roles, authenticated},

		// --- EcoGuía ---
		{http.MethodGet, "/ecoguia/businesses", h.Ecoguia.ListBusinesses, authenticated},
		{http.MethodPost, "/ecoguia/businesses", h.Ecoguia.CreateBusiness, authenticated},
		{http.MethodGet, "/ecoguia/businesses/:id", h.Ecoguia.GetBusiness, authenticated},
		{http.MethodGet, "/ecoguia/businesses/:id/products", h.Ecoguia.BusinessProducts, authenticated},
		{http.MethodGet, "/ecoguia/businesses/:id/services", h.Ecoguia.BusinessServices, authenticated},
		{http.MethodPost, "/ecoguia/businesses/:id/kyc", h.Ecoguia.SubmitBusinessKyc, authenticated},
		{http.MethodGet, "/ecoguia/products", h.Ecoguia.ListProducts, authenticated},
		{http.MethodGet, "/ecoguia/products/:id", h.Ecoguia.GetProduct, authenticated},
		{http.MethodGet, "/ecoguia/services", h.Ecoguia.ListServices, authenticated},
		{http.MethodGet, "/ecoguia/services/:id", h.Ecoguia.GetService, authenticated},

		// --- Users ---
		{http.MethodGet, "/users", h.Users.List, authenticated},
		{http.MethodPost, "/users", h.Users.Create, authenticated},
		{http.MethodPut, "/users", h.Users.Update, authenticated},
		{http.MethodDelete, "/users", h.Users.Delete, authenticated},
		{http.MethodGet, "/users/:id", h.Users.Get, authenticated},
		{http.MethodGet, "/users/:id/kyc", h.Kyc.Get, authenticated},
		{http.MethodPost, "/users/:id/kyc", h.Kyc.Submit, authenticated},

		// --- Location catalogs ---
		{http.MethodGet, "/catalogs/paises", h.Catalogs.Paises, nil},
		{http.MethodGet, "/catalogs/provincias", h.Catalogs.Provincias, nil},
		{http.MethodGet, "/catalogs/cantones", h.Catalogs.Cantones, nil},
		{http.MethodGet, "/catalogs/distritos", h.Catalogs.Distritos, nil},

		// --- Administration ---
		{http.MethodGet, "/admin/catalogs/:type", h.Catalogs.ListCatalog, admins},
		{http.MethodGet, "/admin/catalogs/:type/all", h.Catalogs.ListCatalogAll, admins},
		{http.MethodGet, "/admin/catalogs/:type/:id", h.Catalogs.GetCatalogItem, admins},
		{http.MethodPost, "/admin/catalogs/:type", h.Catalogs.CreateCatalogItem, admins},
		{http.MethodPut, "/admin/catalogs/:type", h.Catalogs.UpdateCatalogItem, admins},
		{http.MethodDelete, "/admin/catalogs/:type/:id", h.Catalogs.DeleteCatalogItem, admins},
		{http.MethodGet, "/admin/categories", h.Catalogs.ListCategories, admins},
		{http.MethodGet, "/admin/categories/all", h.Catalogs.ListCategoriesAll, admins},
		{http.MethodGet, "/admin/categories/:id", h.Catalogs.GetCategory, admins},
		{http.MethodPost, "/admin/categories", h.Catalogs.CreateCategory, admins},
		{http.MethodPut, "/admin/categories", h.Catalogs.UpdateCategory, admins},
		{http.MethodDelete, "/admin/categories/:id", h.Catalogs.DeleteCategory, admins},

		// --- Search ---
		{http.MethodGet, "/search", h.Search.Search, authenticated},

		// --- Social ---
		{http.MethodGet, "/social/feed", h.Social.Feed, authenticated},
		{http.MethodPost, "/social/posts", h.Social.CreatePost, authenticated},
		{http.MethodPost, "/social/posts/:id/like", h.Social.Like, authenticated},
		{http.MethodGet, "/social/vip", h.Social.VIPFeed, vips},
		{http.MethodPost, "/social/volunteer/offer", h.Social.OfferVolunteer, authenticated},
		{http.MethodPost, "/social/volunteer/request", h.Social.RequestVolunteers, authenticated},
		{http.MethodPost, "/social/guide/contact", h.Social.ContactGuide, authenticated},
		{http.MethodPost, "/social/inspection", h.Social.RequestInspection, authenticated},
	}
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "ecolatam_gateway",
		Registerer: registerer,
	}))

	// --- Health, metrics and docs (no visitor scope) ---
	infrahttp.RegisterOperational(e, deps.Health)

	scope := middleware.Scope(deps.Scope)
	for _, r := range Routes(deps.Handlers) {
		mws := []echo.MiddlewareFunc{scope}
		if r.Guard != nil {
			mws = append(mws, middleware.Require(deps.Guard, r.Guard))
		}
		e.Add(r.Method, r.Path, r.Handler, mws...)
	}

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
