package api

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/PedroFNMDEV/SextoCommit/internal/auth"
	"github.com/PedroFNMDEV/SextoCommit/internal/config"
	"github.com/PedroFNMDEV/SextoCommit/internal/middleware"
	"github.com/PedroFNMDEV/SextoCommit/internal/service"
	"github.com/PedroFNMDEV/SextoCommit/internal/store"
	"github.com/PedroFNMDEV/SextoCommit/internal/util"
)

type Handlers struct {
	cfg    config.Config
	svc    *service.Service
	tokens *auth.TokenAuthority
}

func NewRouter(cfg config.Config, svc *service.Service, tokens *auth.TokenAuthority) http.Handler {
	h := &Handlers{cfg: cfg, svc: svc, tokens: tokens}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.SecurityHeaders)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		}))
	}

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		util.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", h.HealthReady)

	loginLimit := middleware.RateLimit("login", cfg.LoginRatePerMinute, cfg.TrustProxy)
	billingLimit := middleware.RateLimit("whmcs", cfg.BillingRatePerMinute, cfg.TrustProxy)

	r.Route("/admin", func(r chi.Router) {
		r.With(loginLimit).Post("/auth/login", h.AdminLogin)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRealm(tokens, auth.RealmAdmin))
			r.Post("/auth/logout", h.AdminLogout)
			r.Get("/dashboard/stats", h.DashboardStats)
			r.Get("/users", h.ListUsers)
			r.Post("/users", h.CreateUser)
			r.Put("/users/{id}", h.UpdateUser)
			r.Patch("/users/{id}/status", h.ChangeUserStatus)
			r.Post("/users/{id}/reset-password", h.ResetUserPassword)
			r.Get("/users/{id}/audit", h.ListUserAudit)
		})
	})

	r.Route("/whmcs", func(r chi.Router) {
		r.Use(billingLimit)
		r.Post("/create-user", h.BillingCreate)
		r.Post("/suspend-user", h.BillingSuspend)
		r.Post("/unsuspend-user", h.BillingUnsuspend)
		r.Post("/terminate-user", h.BillingTerminate)
	})

	r.With(loginLimit).Post("/auth/login", h.Login)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRealm(tokens, auth.RealmUser))
		r.Get("/auth/me", h.Me)
		r.Get("/folders", h.ListFolders)
		r.Post("/folders", h.CreateFolder)
		r.Get("/playlists", h.ListPlaylists)
		r.Post("/playlists", h.CreatePlaylist)
	})

	return r
}

func (h *Handlers) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := map[string]any{
		"checked_at": time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.svc.Store().Ping(r.Context()); err != nil {
		ready["status"] = "degraded"
		ready["error"] = err.Error()
		util.WriteJSON(w, http.StatusServiceUnavailable, ready)
		return
	}
	ready["status"] = "ready"
	util.WriteJSON(w, http.StatusOK, ready)
}

// userMessage strips the sentinel prefix so the caller sees only the
// human-readable part of a wrapped validation or conflict error.
func userMessage(err error, sentinel error) string {
	msg := err.Error()
	if cut, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
		return cut
	}
	return msg
}

// writeServiceError maps service and store failures to the HTTP taxonomy.
// conflictMsg is the route-specific message for uniqueness violations.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error, conflictMsg string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		util.WriteError(w, http.StatusBadRequest, userMessage(err, service.ErrValidation))
	case errors.Is(err, store.ErrConflict):
		msg := conflictMsg
		if m := userMessage(err, store.ErrConflict); m != store.ErrConflict.Error() {
			msg = m
		}
		util.WriteError(w, http.StatusBadRequest, msg)
	case errors.Is(err, service.ErrInvalidCredentials):
		util.WriteError(w, http.StatusUnauthorized, "Credenciais inválidas")
	case errors.Is(err, store.ErrNotFound):
		util.WriteError(w, http.StatusNotFound, "Usuário não encontrado")
	default:
		log.Printf("internal error method=%s path=%s request_id=%s err=%v",
			r.Method, r.URL.Path, middleware.RequestID(r.Context()), err)
		util.WriteError(w, http.StatusInternalServerError, "Erro interno do servidor")
	}
}
