// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hail/internal/auth"
	"hail/internal/config"
	httptransport "hail/internal/http"
	"hail/internal/infra"
	"hail/internal/logging"
	"hail/internal/modules/admin"
	"hail/internal/modules/driver"
	"hail/internal/modules/ride"
	"hail/internal/modules/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer redisClient.Close()

	tokens := auth.NewManager(cfg.Auth)

	rideStore := ride.NewPGStore(dbPool)
	rejections := ride.NewRedisRejections(redisClient)

	driverStore := driver.NewPGStore(dbPool)
	driverSvc := driver.NewService(driverStore, rideStore)

	rideSvc := ride.NewService(rideStore, rejections, driverSvc)

	userStore := user.NewPGStore(dbPool)
	userSvc := user.NewService(userStore, driverSvc)

	adminSvc := admin.NewService(admin.NewPGStore(dbPool))

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Users:    userSvc,
		Drivers:  driverSvc,
		Rides:    rideSvc,
		Admin:    adminSvc,
		Verifier: tokens,
		Tokens:   tokens,
		Logger:   logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
