package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"dive-server/config"
	game "dive-server/src"
	api "dive-server/src/api"
	"dive-server/src/rpc"
	"dive-server/src/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := api.LoadConfig()
	tuning, err := config.Load(cfg.GameConfig)
	if err != nil {
		log.Fatalf("game config error: %v", err)
	}

	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	st, err := store.Open(openCtx, store.Options{
		Driver:        cfg.StoreDriver,
		DatabaseURL:   cfg.PostgresDSN(),
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
	})
	cancel()
	if err != nil {
		log.Fatalf("score store error: %v", err)
	}

	// Core game server
	gs := game.NewGameServer(tuning, st, cfg.PlayFPS)
	gs.OnScore = func(s store.Score) {
		log.Printf("Dive recorded: %s reached %.2f m as %s", s.Name, s.Depth, s.Character)
	}
	gs.Run(ctx)

	counters := &api.Counters{}
	metrics := api.NewMetricsHandler(gs, counters)
	r := api.NewRouter(cfg, api.Deps{Store: st, Game: gs, Counters: counters, Metrics: metrics})

	// gRPC score service
	rs := rpc.NewServer(st)
	rs.OnStored = func(store.Score) { go gs.BroadcastLeaderboard(context.Background()) }
	grpcServer := rpc.NewGRPCServer(rs)
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("gRPC listen error: %v", err)
	}
	go func() {
		log.Printf("gRPC score service on %s", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Printf("gRPC serve error: %v", err)
		}
	}()

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	go func() {
		log.Printf("Server started on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	metrics.SetWebSocketStatus(api.WebSocketStopping)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
	grpcServer.GracefulStop()
	if err := st.Close(shutdownCtx); err != nil {
		log.Printf("store close error: %v", err)
	}
}
