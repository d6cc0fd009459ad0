package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"video-portal/cmd/config"
	"video-portal/pkg/api"
	"video-portal/pkg/database"
	"video-portal/pkg/handlers"
	"video-portal/pkg/logger"
	"video-portal/pkg/s3"
	"video-portal/pkg/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	if err != nil {
		logrus.WithError(err).Fatal("configure logger")
	}
	gin.SetMode(cfg.Server.Mode)

	// Initialize the local store
	store, err := database.Open(cfg.StoragePath)
	if err != nil {
		log.WithError(err).Fatal("open storage")
	}
	defer store.Close()

	tokens := session.NewTokenStore(store, log)
	opts := []api.Option{
		api.WithTimeout(cfg.API.Timeout),
		api.WithUserAgent(cfg.API.UserAgent),
		api.WithLogger(log),
	}
	if cfg.Media.S3Bucket != "" {
		p, err := s3.NewPresigner(cfg.Media.S3Bucket, cfg.Media.S3Region, cfg.Media.PresignTTL)
		if err != nil {
			log.WithError(err).Fatal("configure media presigner")
		}
		opts = append(opts, api.WithPresigner(p))
	}
	client := api.New(cfg.API.BaseURL, tokens, opts...)

	sess := session.New(client, tokens, log)
	sess.Init()
	defer sess.Close()

	watchLater, err := session.LoadWatchLater(store, log)
	if err != nil {
		log.WithError(err).Fatal("load watch later")
	}

	h := handlers.New(handlers.Options{
		Client:         client,
		Session:        sess,
		WatchLater:     watchLater,
		Log:            log,
		MaxUploadBytes: cfg.UploadMaxBytes,
	})
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.Server.Addr, "api": client.BaseURL()}).Info("portal listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("serve")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}
