package service

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/vocdoni/private-voting/api"
	"github.com/vocdoni/private-voting/log"
	"github.com/vocdoni/private-voting/storage"
)

// APIService represents a service that manages the HTTP API server.
type APIService struct {
	storage *storage.Storage
	api     *api.API
	mu      sync.Mutex
	host    string
	port    int
}

// NewAPI creates a new APIService instance.
func NewAPI(storage *storage.Storage, host string, port int) *APIService {
	return &APIService{
		storage: storage,
		host:    host,
		port:    port,
	}
}

// Start begins the API server. It returns an error if the service
// is already running or if it fails to start.
func (as *APIService) Start(ctx context.Context) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.api != nil {
		return fmt.Errorf("service already running")
	}
	a, err := api.New(&api.APIConfig{
		Host:    as.host,
		Port:    as.port,
		Storage: as.storage,
	})
	if err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}
	as.api = a
	return nil
}

// Stop halts the API server. The storage is owned by the caller and stays open.
func (as *APIService) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.api == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := as.api.Stop(ctx); err != nil {
		log.Warnw("API server stopped with error", "error", err.Error())
	}
	as.api = nil
}

// HostPort returns the host and the port the API server listens on. Once
// started with port 0, the port is the one picked by the system.
func (as *APIService) HostPort() (string, int) {
	as.mu.Lock()
	defer as.mu.Unlock()
	if as.api != nil {
		if addr, ok := as.api.Addr().(*net.TCPAddr); ok {
			return as.host, addr.Port
		}
	}
	return as.host, as.port
}
