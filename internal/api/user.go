package api

import (
	"net/http"

	"github.com/PedroFNMDEV/SextoCommit/internal/middleware"
	"github.com/PedroFNMDEV/SextoCommit/internal/models"
	"github.com/PedroFNMDEV/SextoCommit/internal/util"
)

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Senha    string `json:"senha"`
	}
	if err := util.DecodeJSON(r, &req); err != nil {
		util.WriteError(w, http.StatusBadRequest, "Requisição inválida")
		return
	}
	// The panel sends "password", older clients send "senha".
	senha := req.Password
	if senha == "" {
		senha = req.Senha
	}
	if req.Email == "" || senha == "" {
		util.WriteError(w, http.StatusBadRequest, "Email e senha são obrigatórios")
		return
	}
	token, acc, err := h.svc.Login(r.Context(), req.Email, senha, middleware.ClientIP(r, h.cfg.TrustProxy))
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	util.WriteOK(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  profilePayload(acc),
	})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		util.WriteError(w, http.StatusUnauthorized, "Token de acesso requerido")
		return
	}
	acc, err := h.svc.Profile(r.Context(), claims.PrincipalID)
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	util.WriteOK(w, http.StatusOK, map[string]any{"user": profilePayload(acc)})
}

// profilePayload exposes the entitlement view of an account. The password
// hash never leaves the store layer.
func profilePayload(acc models.Account) map[string]any {
	return map[string]any{
		"id":           acc.Codigo,
		"nome":         acc.Nome,
		"email":        acc.Email,
		"streamings":   acc.Streamings,
		"espectadores": acc.Espectadores,
		"bitrate":      acc.Bitrate,
		"espaco":       acc.Espaco,
	}
}

func (h *Handlers) ListFolders(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())
	folders, err := h.svc.ListFolders(r.Context(), claims.PrincipalID)
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	util.WriteOK(w, http.StatusOK, map[string]any{"data": folders})
}

func (h *Handlers) CreateFolder(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())
	var req struct {
		Nome string `json:"nome"`
	}
	if err := util.DecodeJSON(r, &req); err != nil {
		util.WriteError(w, http.StatusBadRequest, "Requisição inválida")
		return
	}
	folder, err := h.svc.CreateFolder(r.Context(), claims.PrincipalID, req.Nome)
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	util.WriteOK(w, http.StatusOK, map[string]any{"data": folder})
}

func (h *Handlers) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())
	playlists, err := h.svc.ListPlaylists(r.Context(), claims.PrincipalID)
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	util.WriteOK(w, http.StatusOK, map[string]any{"data": playlists})
}

func (h *Handlers) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())
	var req struct {
		Nome string `json:"nome"`
	}
	if err := util.DecodeJSON(r, &req); err != nil {
		util.WriteError(w, http.StatusBadRequest, "Requisição inválida")
		return
	}
	playlist, err := h.svc.CreatePlaylist(r.Context(), claims.PrincipalID, req.Nome)
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	util.WriteOK(w, http.StatusOK, map[string]any{"data": playlist})
}
