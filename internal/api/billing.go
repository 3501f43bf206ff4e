package api

import (
	"net/http"
	"time"

	"github.com/PedroFNMDEV/SextoCommit/internal/service"
	"github.com/PedroFNMDEV/SextoCommit/internal/util"
)

// The billing plugin retries on anything but a 2xx, so these handlers keep
// the response surface small and stable.

type billingCreateRequest struct {
	WHMCSUserID    int64      `json:"whmcs_user_id"`
	WHMCSServiceID int64      `json:"whmcs_service_id"`
	Nome           string     `json:"nome"`
	Email          string     `json:"email"`
	Senha          string     `json:"senha"`
	Telefone       *string    `json:"telefone"`
	Streamings     *int       `json:"streamings"`
	Espectadores   *int       `json:"espectadores"`
	Ilimitado      *bool      `json:"espectadores_ilimitado"`
	Bitrate        *int       `json:"bitrate"`
	BitrateMaximo  *int       `json:"bitrate_maximo"`
	Espaco         *int       `json:"espaco"`
	DataExpiracao  *time.Time `json:"data_expiracao"`
}

func (h *Handlers) BillingCreate(w http.ResponseWriter, r *http.Request) {
	var req billingCreateRequest
	if err := util.DecodeJSON(r, &req); err != nil {
		util.WriteError(w, http.StatusBadRequest, "Requisição inválida")
		return
	}
	codigo, extID, err := h.svc.BillingCreate(r.Context(), service.BillingCreateParams{
		WHMCSUserID:    req.WHMCSUserID,
		WHMCSServiceID: req.WHMCSServiceID,
		Nome:           req.Nome,
		Email:          req.Email,
		Senha:          req.Senha,
		Telefone:       req.Telefone,
		Streamings:     req.Streamings,
		Espectadores:   req.Espectadores,
		Ilimitado:      req.Ilimitado,
		Bitrate:        req.Bitrate,
		BitrateMaximo:  req.BitrateMaximo,
		Espaco:         req.Espaco,
		DataExpiracao:  req.DataExpiracao,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "Usuário já existe com este email ou IDs WHMCS")
		return
	}
	util.WriteOK(w, http.StatusOK, map[string]any{
		"message":           "Usuário criado com sucesso via WHMCS",
		"user_id":           codigo,
		"streaming_user_id": extID,
	})
}

type billingServiceRequest struct {
	WHMCSServiceID int64  `json:"whmcs_service_id"`
	Motivo         string `json:"motivo"`
}

func (h *Handlers) BillingSuspend(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeBillingService(w, r)
	if !ok {
		return
	}
	if err := h.svc.BillingSuspend(r.Context(), req.WHMCSServiceID, req.Motivo); err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	util.WriteOK(w, http.StatusOK, map[string]any{"message": "Usuário suspenso com sucesso"})
}

func (h *Handlers) BillingUnsuspend(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeBillingService(w, r)
	if !ok {
		return
	}
	if err := h.svc.BillingUnsuspend(r.Context(), req.WHMCSServiceID, req.Motivo); err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	util.WriteOK(w, http.StatusOK, map[string]any{"message": "Usuário reativado com sucesso"})
}

func (h *Handlers) BillingTerminate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeBillingService(w, r)
	if !ok {
		return
	}
	if err := h.svc.BillingTerminate(r.Context(), req.WHMCSServiceID, req.Motivo); err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	util.WriteOK(w, http.StatusOK, map[string]any{"message": "Usuário cancelado com sucesso"})
}

func (h *Handlers) decodeBillingService(w http.ResponseWriter, r *http.Request) (billingServiceRequest, bool) {
	var req billingServiceRequest
	if err := util.DecodeJSON(r, &req); err != nil {
		util.WriteError(w, http.StatusBadRequest, "Requisição inválida")
		return req, false
	}
	if req.WHMCSServiceID <= 0 {
		util.WriteError(w, http.StatusBadRequest, "whmcs_service_id é obrigatório")
		return req, false
	}
	return req, true
}
