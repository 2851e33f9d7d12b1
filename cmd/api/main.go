package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"lightbox/api/internal/app"
	"lightbox/api/internal/config"
	"lightbox/api/internal/feed"
	"lightbox/api/internal/search"
)

func main() {
	cfg := config.Load()

	store := feed.NewStore(feed.Options{
		SeedCount:     cfg.SeedCount,
		CommentCap:    cfg.CommentCap,
		CommentMaxLen: cfg.CommentMaxLen,
		CommentTail:   cfg.CommentTail,
		GrowthMargin:  cfg.GrowthMargin,
		DefaultURL:    cfg.DefaultPhotoURL,
	})

	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
		defer meiliClient.Close()
	}

	service := app.New(cfg, store, meiliClient)
	service.Bootstrap()

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin, cfg.StaticDir)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Lightbox API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
