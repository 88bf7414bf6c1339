package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"citeapi.org/internal/auth"
	"citeapi.org/internal/httpapi"
	"citeapi.org/internal/obs"
	"citeapi.org/internal/store"
	"citeapi.org/internal/store/pg"
	"citeapi.org/internal/token"
	"citeapi.org/internal/user"
)

var (
	version = "0.3.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	addr := os.Getenv("CITEAPI_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	deps := httpapi.Deps{}
	probe := httpapi.ReadyProbe{}

	var pgStore *pg.Store
	if dsn := os.Getenv("CITEAPI_PG_DSN"); dsn != "" {
		var err error
		pgStore, err = pg.Open(dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		probe.DB = pgStore.DB()
		deps.Users = pgStore.Users()
		deps.People = pgStore.People()
		deps.Organizations = pgStore.Organizations()
		deps.Auth = auth.NewService(user.NewAuthBridge(pgStore.Users()), pgStore.Tokens())
	} else {
		// dev mode: everything in process
		mem := store.NewMemory()
		users := user.NewMemStore(mem)
		deps.Users = users
		deps.People = mem.Collection("people")
		deps.Organizations = mem.Collection("organizations")
		deps.Auth = auth.NewService(user.NewAuthBridge(users), token.NewMemStore())
	}

	api, err := httpapi.New(probe, version, deps)
	if err != nil {
		log.Fatalf("build api: %v", err)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting citeapi %s on %s", version, srv.Addr)

	// graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if pgStore != nil {
		_ = pgStore.Close()
	}
	log.Println("Stopped")
}
