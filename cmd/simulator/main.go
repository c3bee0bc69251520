// Command simulator runs a fake administrative API with synthetic match
// activity, for exercising the pipeline without a real game server.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/frontline/internal/simulator"
	"github.com/okian/frontline/pkg/logger"
)

func main() {
	addr := flag.String("addr", ":8010", "listen address")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	killEvery := flag.Duration("kill-every", 2*time.Second, "interval between synthetic kills")
	matchEvery := flag.Duration("match-every", 2*time.Minute, "interval between synthetic match ends")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get().Named("simulator")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	roster := simulator.DefaultRoster()
	sim := simulator.New(roster)
	gen := simulator.NewGenerator(sim, roster, *seed, *killEvery, *matchEvery)
	go gen.Run(ctx)

	mux := http.NewServeMux()
	sim.Register(mux)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info(ctx, "fake administrative API listening", logger.String("addr", *addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "server failed", logger.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	log.Info(context.Background(), "simulator stopped", logger.String("summary", gen.Summary()))
}
