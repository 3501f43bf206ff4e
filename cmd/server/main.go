package main

import (
	"context"
	"log"
	"net/http"

	"github.com/PedroFNMDEV/SextoCommit/internal/api"
	"github.com/PedroFNMDEV/SextoCommit/internal/auth"
	"github.com/PedroFNMDEV/SextoCommit/internal/config"
	"github.com/PedroFNMDEV/SextoCommit/internal/db"
	"github.com/PedroFNMDEV/SextoCommit/internal/notify"
	"github.com/PedroFNMDEV/SextoCommit/internal/service"
	"github.com/PedroFNMDEV/SextoCommit/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	sqdb, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer sqdb.Close()
	if cfg.StoreDriver == "sqlite" {
		if err := db.ApplyMigrationFile(sqdb, "migrations/001_init.sql"); err != nil {
			log.Fatalf("migration: %v", err)
		}
	}

	st := store.New(sqdb)
	if cfg.BootstrapAdminEmail != "" && cfg.BootstrapAdminPassword != "" {
		hash, err := auth.HashPassword(cfg.BootstrapAdminPassword)
		if err != nil {
			log.Fatalf("bootstrap admin hash: %v", err)
		}
		if err := st.EnsureAdmin(context.Background(), cfg.BootstrapAdminNome, cfg.BootstrapAdminEmail, hash); err != nil {
			log.Fatalf("bootstrap admin create: %v", err)
		}
	}

	tokens := auth.NewTokenAuthority(cfg.UserTokenSecret, cfg.AdminTokenSecret, cfg.UserTokenTTL, cfg.AdminTokenTTL)
	sender := notify.NewSender(cfg)
	svc := service.New(cfg, st, tokens, sender)
	r := api.NewRouter(cfg, svc, tokens)

	hsrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: cfg.HTTPReadHeaderTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}

	log.Printf("listening on %s driver=%s", cfg.ListenAddr, cfg.StoreDriver)
	if err := hsrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server: %v", err)
	}
}
