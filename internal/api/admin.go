package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/PedroFNMDEV/SextoCommit/internal/middleware"
	"github.com/PedroFNMDEV/SextoCommit/internal/models"
	"github.com/PedroFNMDEV/SextoCommit/internal/service"
	"github.com/PedroFNMDEV/SextoCommit/internal/util"
)

func (h *Handlers) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Senha string `json:"senha"`
	}
	if err := util.DecodeJSON(r, &req); err != nil {
		util.WriteError(w, http.StatusBadRequest, "Requisição inválida")
		return
	}
	if req.Email == "" || req.Senha == "" {
		util.WriteError(w, http.StatusBadRequest, "Email e senha são obrigatórios")
		return
	}
	token, adm, err := h.svc.AdminLogin(r.Context(), req.Email, req.Senha)
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	util.WriteOK(w, http.StatusOK, map[string]any{
		"token": token,
		"admin": map[string]any{
			"id":           adm.ID,
			"nome":         adm.Nome,
			"email":        adm.Email,
			"nivel_acesso": adm.NivelAcesso,
		},
	})
}

// Bearer tokens are stateless; logout exists so the panel has a call to
// make when it drops its copy.
func (h *Handlers) AdminLogout(w http.ResponseWriter, r *http.Request) {
	util.WriteOK(w, http.StatusOK, map[string]any{"message": "Logout realizado com sucesso"})
}

func (h *Handlers) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.DashboardStats(r.Context(), time.Now().UTC())
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	util.WriteOK(w, http.StatusOK, map[string]any{"data": stats})
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := models.AccountQuery{
		Search:   r.URL.Query().Get("search"),
		Status:   models.AccountStatus(r.URL.Query().Get("status")),
		Sort:     r.URL.Query().Get("orderBy"),
		Order:    r.URL.Query().Get("orderDir"),
		Page:     intQuery(r, "page", 1),
		PageSize: intQuery(r, "limit", 20),
	}
	items, total, err := h.svc.ListAccounts(r.Context(), q)
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	accounts, err := h.svc.Store().AccountTotals(r.Context(), time.Now().UTC())
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	resources, err := h.svc.Store().ResourceTotals(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	totalPages := (total + q.PageSize - 1) / q.PageSize
	util.WriteOK(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"users": items,
			"stats": map[string]any{
				"total_usuarios":     accounts.Total,
				"usuarios_ativos":    accounts.Ativos,
				"usuarios_suspensos": accounts.Suspensos,
				"usuarios_expirados": accounts.Expirados,
				"espaco_total_usado": resources.EspacoUsadoMB,
				"media_espectadores": resources.MediaEspectadores,
			},
			"pagination": map[string]any{
				"currentPage":  q.Page,
				"totalPages":   totalPages,
				"totalItems":   total,
				"itemsPerPage": q.PageSize,
			},
		},
	})
}

type createUserRequest struct {
	Nome             string     `json:"nome"`
	Email            string     `json:"email"`
	Senha            string     `json:"senha"`
	Telefone         *string    `json:"telefone"`
	Streamings       *int       `json:"streamings"`
	Espectadores     *int       `json:"espectadores"`
	Ilimitado        *bool      `json:"espectadores_ilimitado"`
	Bitrate          *int       `json:"bitrate"`
	BitrateMaximo    *int       `json:"bitrate_maximo"`
	Espaco           *int       `json:"espaco"`
	DataExpiracao    *time.Time `json:"data_expiracao"`
	ObservacoesAdmin *string    `json:"observacoes_admin"`
}

func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := util.DecodeJSON(r, &req); err != nil {
		util.WriteError(w, http.StatusBadRequest, "Requisição inválida")
		return
	}
	codigo, err := h.svc.CreateAccount(r.Context(), h.actor(r), service.CreateAccountParams{
		Nome:             req.Nome,
		Email:            req.Email,
		Senha:            req.Senha,
		Telefone:         req.Telefone,
		Streamings:       req.Streamings,
		Espectadores:     req.Espectadores,
		Ilimitado:        req.Ilimitado,
		Bitrate:          req.Bitrate,
		BitrateMaximo:    req.BitrateMaximo,
		Espaco:           req.Espaco,
		DataExpiracao:    req.DataExpiracao,
		ObservacoesAdmin: req.ObservacoesAdmin,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "Email já está em uso")
		return
	}
	util.WriteOK(w, http.StatusOK, map[string]any{
		"message": "Usuário criado com sucesso",
		"user_id": codigo,
	})
}

type updateUserRequest struct {
	Nome             *string    `json:"nome"`
	Email            *string    `json:"email"`
	Telefone         *string    `json:"telefone"`
	Streamings       *int       `json:"streamings"`
	Espectadores     *int       `json:"espectadores"`
	Ilimitado        *bool      `json:"espectadores_ilimitado"`
	Bitrate          *int       `json:"bitrate"`
	BitrateMaximo    *int       `json:"bitrate_maximo"`
	Espaco           *int       `json:"espaco"`
	Status           *string    `json:"status_detalhado"`
	DataExpiracao    *time.Time `json:"data_expiracao"`
	ObservacoesAdmin *string    `json:"observacoes_admin"`
	Motivo           string     `json:"motivo"`
}

func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	codigo, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := util.DecodeJSON(r, &req); err != nil {
		util.WriteError(w, http.StatusBadRequest, "Requisição inválida")
		return
	}
	// Expiry and display notes are replaced outright on every edit, the
	// way the panel has always submitted them.
	err := h.svc.UpdateAccount(r.Context(), h.actor(r), codigo, service.UpdateAccountParams{
		Nome:             req.Nome,
		Email:            req.Email,
		Telefone:         req.Telefone,
		Streamings:       req.Streamings,
		Espectadores:     req.Espectadores,
		Ilimitado:        req.Ilimitado,
		Bitrate:          req.Bitrate,
		BitrateMax:       req.BitrateMaximo,
		Espaco:           req.Espaco,
		Status:           req.Status,
		ReplaceExpiracao: true,
		DataExpiracao:    req.DataExpiracao,
		ReplaceNotes:     true,
		ObservacoesAdmin: req.ObservacoesAdmin,
		Motivo:           req.Motivo,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "Email já está em uso")
		return
	}
	util.WriteOK(w, http.StatusOK, map[string]any{"message": "Usuário atualizado com sucesso"})
}

func (h *Handlers) ChangeUserStatus(w http.ResponseWriter, r *http.Request) {
	codigo, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status_detalhado"`
		Motivo string `json:"motivo"`
	}
	if err := util.DecodeJSON(r, &req); err != nil {
		util.WriteError(w, http.StatusBadRequest, "Requisição inválida")
		return
	}
	if err := h.svc.ChangeStatus(r.Context(), h.actor(r), codigo, req.Status, req.Motivo); err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	util.WriteOK(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Status alterado para %s com sucesso", req.Status),
	})
}

func (h *Handlers) ResetUserPassword(w http.ResponseWriter, r *http.Request) {
	codigo, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		NovaSenha string `json:"nova_senha"`
	}
	if err := util.DecodeJSON(r, &req); err != nil {
		util.WriteError(w, http.StatusBadRequest, "Requisição inválida")
		return
	}
	if err := h.svc.ResetPassword(r.Context(), h.actor(r), codigo, req.NovaSenha); err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	util.WriteOK(w, http.StatusOK, map[string]any{"message": "Senha resetada com sucesso"})
}

func (h *Handlers) ListUserAudit(w http.ResponseWriter, r *http.Request) {
	codigo, ok := pathID(w, r)
	if !ok {
		return
	}
	events, err := h.svc.ListAuditEvents(r.Context(), codigo)
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	util.WriteOK(w, http.StatusOK, map[string]any{"data": events})
}

// actor identifies the authenticated administrator in audit trails.
func (h *Handlers) actor(r *http.Request) string {
	if claims, ok := middleware.ClaimsFrom(r.Context()); ok {
		return claims.Email
	}
	return "admin"
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		util.WriteError(w, http.StatusBadRequest, "ID inválido")
		return 0, false
	}
	return id, true
}

func intQuery(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
