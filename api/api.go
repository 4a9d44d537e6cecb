// Package api exposes the election lifecycle over HTTP: elections are
// registered with the key of their committee, voters submit encrypted
// ballots, and committee members post the decrypt shares of the closed tally.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/vocdoni/private-voting/log"
	stg "github.com/vocdoni/private-voting/storage"
)

// APIConfig type represents the configuration for the API HTTP server.
// It includes the host, port and the storage instance shared with the
// sequencer.
type APIConfig struct {
	Host    string
	Port    int
	Storage *stg.Storage
}

// API type represents the API HTTP server.
type API struct {
	router  *chi.Mux
	storage *stg.Storage
	server  *http.Server
	addr    net.Addr
}

// New creates a new API instance with the given configuration and starts
// serving HTTP requests in the background. Port 0 picks a free port, see Addr.
func New(conf *APIConfig) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.Storage == nil {
		return nil, fmt.Errorf("missing storage instance")
	}
	a := &API{
		storage: conf.Storage,
	}

	// Initialize router
	a.initRouter()
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", conf.Host, conf.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}
	a.addr = ln.Addr()
	a.server = &http.Server{
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infow("starting API server", "address", a.addr.String())
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw(err, "API server failed")
		}
	}()
	return a, nil
}

// Router returns the chi router for testing purposes
func (a *API) Router() *chi.Mux {
	return a.router
}

// Addr returns the address the server listens on.
func (a *API) Addr() net.Addr {
	return a.addr
}

// Stop shuts down the HTTP server, waiting for active requests until ctx is done.
func (a *API) Stop(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// registerHandlers registers all the API handlers.
func (a *API) registerHandlers() {
	log.Infow("register handler", "endpoint", PingEndpoint, "method", "GET")
	a.router.Get(PingEndpoint, func(w http.ResponseWriter, r *http.Request) {
		httpWriteOK(w)
	})
	// elections
	log.Infow("register handler", "endpoint", ElectionsEndpoint, "method", "POST")
	a.router.Post(ElectionsEndpoint, a.newElection)
	log.Infow("register handler", "endpoint", ElectionsEndpoint, "method", "GET")
	a.router.Get(ElectionsEndpoint, a.elections)
	log.Infow("register handler", "endpoint", ElectionEndpoint, "method", "GET")
	a.router.Get(ElectionEndpoint, a.election)
	log.Infow("register handler", "endpoint", CloseEndpoint, "method", "POST")
	a.router.Post(CloseEndpoint, a.closeElection)
	// ballots
	log.Infow("register handler", "endpoint", BallotsEndpoint, "method", "POST")
	a.router.Post(BallotsEndpoint, a.newBallot)
	log.Infow("register handler", "endpoint", TallyEndpoint, "method", "GET")
	a.router.Get(TallyEndpoint, a.tally)
	// decryption
	log.Infow("register handler", "endpoint", SharesEndpoint, "method", "POST")
	a.router.Post(SharesEndpoint, a.newDecryptShare)
	log.Infow("register handler", "endpoint", ResultEndpoint, "method", "GET")
	a.router.Get(ResultEndpoint, a.result)
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() {
	// Create the router with a basic middleware stack
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.ThrottleBacklog(5000, 40000, 60*time.Second))
	a.router.Use(middleware.Timeout(45 * time.Second))

	// Register the API handlers
	a.registerHandlers()
}
