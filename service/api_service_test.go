package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/private-voting/api/client"
	"github.com/vocdoni/private-voting/storage"
	"go.vocdoni.io/dvote/db/metadb"
)

func TestAPIService(t *testing.T) {
	c := qt.New(t)

	// the test database is closed by its own cleanup, after the deferred
	// service stops
	store, err := storage.New(metadb.NewTest(t))
	c.Assert(err, qt.IsNil)

	// Port 0 lets the OS choose an available port
	apiService := NewAPI(store, "127.0.0.1", 0)
	ctx := context.Background()

	c.Assert(apiService.Start(ctx), qt.IsNil)
	defer apiService.Stop()

	host, port := apiService.HostPort()
	c.Assert(port, qt.Not(qt.Equals), 0)
	_, err = client.New(fmt.Sprintf("http://%s:%d", host, port))
	c.Assert(err, qt.IsNil)

	// Test stopping and restarting
	apiService.Stop()
	c.Assert(apiService.Start(ctx), qt.IsNil)

	// Test starting an already running service
	c.Assert(apiService.Start(ctx), qt.ErrorMatches, "service already running")
}

func TestSequencerService(t *testing.T) {
	c := qt.New(t)
	store, err := storage.New(metadb.NewTest(t))
	c.Assert(err, qt.IsNil)

	_, err = NewSequencer(store, 0)
	c.Assert(err, qt.IsNotNil)

	ss, err := NewSequencer(store, 10*time.Millisecond)
	c.Assert(err, qt.IsNil)
	c.Assert(ss.Start(context.Background()), qt.IsNil)
	c.Assert(ss.Start(context.Background()), qt.IsNotNil)
	ss.Stop()
	c.Assert(ss.Start(context.Background()), qt.IsNil)
	ss.Stop()
}
