// Package httpapi mediates HTTP requests onto the resource tree: it walks
// the request path to a resource, enforces its policy and dispatches the
// verb to the matching operation.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"citeapi.org/internal/auth"
	"citeapi.org/internal/obs"
	"citeapi.org/internal/organization"
	"citeapi.org/internal/person"
	"citeapi.org/internal/resource"
	"citeapi.org/internal/store"
	"citeapi.org/internal/user"
)

// ReadyProbe — readiness check backed by a DB ping when one is configured.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Deps carries the stores and services the resource tree is built over.
type Deps struct {
	Users         user.Store
	People        store.Collection
	Organizations store.Collection
	Auth          *auth.Service
}

// API — HTTP слой.
type API struct {
	mux        *http.ServeMux
	root       resource.Resource
	auth       *auth.Service
	readyProbe ReadyProbe
	version    string

	rateBurst  int
	ratePerSec int
}

// Option configures the API at construction time.
type Option func(*API)

// WithRateLimit overrides the per-IP token bucket parameters.
func WithRateLimit(burst, perSecond int) Option {
	return func(a *API) {
		if burst > 0 {
			a.rateBurst = burst
		}
		if perSecond > 0 {
			a.ratePerSec = perSecond
		}
	}
}

func New(rp ReadyProbe, version string, deps Deps, opts ...Option) (*API, error) {
	a := &API{
		mux:        http.NewServeMux(),
		readyProbe: rp,
		auth:       deps.Auth,
		version:    version,
		rateBurst:  50,
		ratePerSec: 25,
	}
	for _, opt := range opts {
		opt(a)
	}

	root, err := buildTree(deps)
	if err != nil {
		return nil, err
	}
	a.root = root

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// everything else under /v1/ goes through the resource tree
	a.mux.HandleFunc("/v1/", a.handleResource)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a, nil
}

// buildTree composes the traversal tree once at bootstrap. Documents are
// not part of the tree; collections resolve them per request.
func buildTree(deps Deps) (resource.Resource, error) {
	root, err := resource.NewIndex(nil, "v1")
	if err != nil {
		return nil, err
	}

	users, err := user.NewCollection(root, deps.Users, deps.Auth)
	if err != nil {
		return nil, err
	}
	if err := resource.Attach(root, "users", users); err != nil {
		return nil, err
	}

	session, err := auth.NewSession(users, deps.Auth)
	if err != nil {
		return nil, err
	}
	if err := resource.Attach(users, "auth", session); err != nil {
		return nil, err
	}

	conf, err := auth.NewConfirmation(users, deps.Auth)
	if err != nil {
		return nil, err
	}
	if err := resource.Attach(users, "conf", conf); err != nil {
		return nil, err
	}

	people, err := person.NewCollection(root, deps.People)
	if err != nil {
		return nil, err
	}
	if err := resource.Attach(root, "people", people); err != nil {
		return nil, err
	}

	orgs, err := organization.NewCollection(root, deps.Organizations)
	if err != nil {
		return nil, err
	}
	if err := resource.Attach(root, "organizations", orgs); err != nil {
		return nil, err
	}

	return root, nil
}

// Handler возвращает http.Handler для сервера (без доп. аргументов).
func (a *API) Handler() http.Handler {
	h := http.Handler(a.mux)
	h = MaxBodyBytes(h, 1<<20)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = SecurityHeaders(h)
	h = Logging(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// --- Handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "citeapi",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "citeapi",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}
