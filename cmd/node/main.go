package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/vocdoni/private-voting/config"
	"github.com/vocdoni/private-voting/log"
	"github.com/vocdoni/private-voting/service"
	"github.com/vocdoni/private-voting/storage"
	"go.vocdoni.io/dvote/db/metadb"
)

func main() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	host := flag.String("host", config.DefaultAPIHost, "API listen address")
	port := flag.Int("port", config.DefaultAPIPort, "API listen port")
	datadir := flag.String("datadir", filepath.Join(home, config.DefaultDatadir), "data directory")
	logLevel := flag.String("log.level", "info", "log level (debug, info, warn, error)")
	logOutput := flag.String("log.output", "stdout", "log output (stdout, stderr or a file path)")
	dbType := flag.String("db.type", config.DefaultDBType, "key-value database backend")
	interval := flag.Duration("sequencer.interval", config.DefaultSequencerInterval, "time the sequencer waits when the ballot queue is empty")
	flag.Parse()
	log.Init(*logLevel, *logOutput, nil)

	database, err := metadb.New(*dbType, filepath.Join(*datadir, "db"))
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	stg, err := storage.New(database)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer stg.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	seq, err := service.NewSequencer(stg, *interval)
	if err != nil {
		log.Fatalf("failed to create sequencer: %v", err)
	}
	if err := seq.Start(ctx); err != nil {
		log.Fatalf("failed to start sequencer: %v", err)
	}
	defer seq.Stop()

	api := service.NewAPI(stg, *host, *port)
	if err := api.Start(ctx); err != nil {
		log.Fatalf("failed to start API: %v", err)
	}
	defer api.Stop()

	h, p := api.HostPort()
	log.Infow("node ready", "host", h, "port", p, "datadir", *datadir)
	<-ctx.Done()
	log.Infow("shutting down")
}
