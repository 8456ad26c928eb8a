package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UmangSachdeva/MessMate/config"
	"github.com/UmangSachdeva/MessMate/handlers"
	"github.com/UmangSachdeva/MessMate/helpers"
	"github.com/UmangSachdeva/MessMate/mediastore"
	"github.com/UmangSachdeva/MessMate/middleware"
	"github.com/UmangSachdeva/MessMate/realtime"
	"github.com/UmangSachdeva/MessMate/router"
	"github.com/UmangSachdeva/MessMate/store"
	"github.com/UmangSachdeva/MessMate/store/memstore"
	"github.com/UmangSachdeva/MessMate/store/mongostore"
	"github.com/UmangSachdeva/MessMate/utils"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	logger := config.NewLogger(cfg)
	log := logger.WithField("service", "messmate")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		st          *store.Store
		mongoClient *mongo.Client
	)
	switch cfg.StoreBackend {
	case config.BackendMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		client, db, err := config.ConnectToMongo(connectCtx, cfg)
		cancel()
		if err != nil {
			log.WithError(err).Fatal("Could not connect to MongoDB")
		}
		mongoClient = client
		st = mongostore.New(db)
	default:
		log.Warn("Using in-memory store; data is lost on restart")
		st = memstore.New()
	}

	tokens := utils.NewTokenIssuer(cfg.SecretKey, cfg.TokenTTL)
	hub := realtime.NewHub(log)

	var media mediastore.Store
	if c := mediastore.New(cfg.MediaStoreURL, cfg.MediaStoreKey); c != nil {
		media = c
	} else {
		log.Warn("MEDIA_STORE_URL not set; image uploads are disabled")
	}

	res := helpers.Responder{Log: log, Debug: cfg.IsDevelopment()}
	svc := handlers.NewServices(handlers.Wiring{
		Store:    st,
		Tokens:   tokens,
		Media:    media,
		Notifier: hub,
		Cutoff:   cfg.BookingCutoff,
		Log:      log,
	})

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: router.Handler(router.Deps{
			Handler:    handlers.New(svc, res),
			Auth:       middleware.NewAuth(tokens, res),
			Hub:        hub,
			Tokens:     tokens,
			Responder:  res,
			Log:        log,
			CORSOrigin: cfg.CORSOrigin,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "env": cfg.Env, "store": cfg.StoreBackend}).Info("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.WithError(err).Error("Disconnecting from MongoDB")
		}
	}
}
