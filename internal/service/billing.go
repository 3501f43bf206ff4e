package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PedroFNMDEV/SextoCommit/internal/auth"
	"github.com/PedroFNMDEV/SextoCommit/internal/models"
	"github.com/PedroFNMDEV/SextoCommit/internal/store"
)

// The billing system delivers lifecycle events at least once and retries on
// transport failure. Every operation here is keyed by the external service
// id and safe to apply twice: creation is guarded by the uniqueness check,
// the status transitions converge to the same final state, and the only
// duplicate artifact is an extra audit line per redelivery.

const billingActor = "whmcs"

// BillingCreateParams is the create-user payload sent by the billing plugin.
type BillingCreateParams struct {
	WHMCSUserID    int64
	WHMCSServiceID int64
	Nome           string
	Email          string
	Senha          string
	Telefone       *string
	Streamings     *int
	Espectadores   *int
	Ilimitado      *bool
	Bitrate        *int
	BitrateMaximo  *int
	Espaco         *int
	DataExpiracao  *time.Time
}

// BillingCreate provisions an account from a billing creation event and
// links both external identifiers. Duplicates across email or either
// identifier are a single conflict.
func (s *Service) BillingCreate(ctx context.Context, p BillingCreateParams) (int64, string, error) {
	p.Nome = strings.TrimSpace(p.Nome)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if p.WHMCSUserID <= 0 || p.WHMCSServiceID <= 0 || p.Nome == "" || p.Email == "" || p.Senha == "" {
		return 0, "", validationf("dados obrigatórios: whmcs_user_id, whmcs_service_id, nome, email, senha")
	}
	streamings := intOr(p.Streamings, defaultStreamings)
	espectadores := intOr(p.Espectadores, defaultEspectadores)
	bitrate := intOr(p.Bitrate, defaultBitrate)
	bitrateMax := intOr(p.BitrateMaximo, defaultBitrateMax)
	espaco := intOr(p.Espaco, defaultEspaco)
	if err := checkEntitlements(streamings, espectadores, bitrate, bitrateMax, espaco); err != nil {
		return 0, "", err
	}

	hash, err := auth.HashPassword(p.Senha)
	if err != nil {
		return 0, "", err
	}
	ilimitado := false
	if p.Ilimitado != nil {
		ilimitado = *p.Ilimitado
	}
	notes := "Criado via WHMCS"
	extID := externalID(p.Email, time.Now().UTC())
	codigo, err := s.st.CreateAccount(ctx, store.NewAccountParams{
		ExternalID:     extID,
		Nome:           p.Nome,
		Email:          p.Email,
		PasswordHash:   hash,
		Telefone:       p.Telefone,
		Streamings:     streamings,
		Espectadores:   espectadores,
		Ilimitado:      ilimitado,
		Bitrate:        bitrate,
		BitrateMaximo:  bitrateMax,
		Espaco:         espaco,
		DataExpiracao:  p.DataExpiracao,
		Notes:          &notes,
		WHMCSUserID:    &p.WHMCSUserID,
		WHMCSServiceID: &p.WHMCSServiceID,
		Actor:          billingActor,
		AuditNote:      fmt.Sprintf("Criado via WHMCS (serviço %d)", p.WHMCSServiceID),
	})
	if err != nil {
		return 0, "", err
	}
	return codigo, extID, nil
}

// BillingSuspend drives the account linked to serviceID to suspended.
func (s *Service) BillingSuspend(ctx context.Context, serviceID int64, motivo string) error {
	if motivo == "" {
		motivo = "Suspenso via WHMCS"
	}
	acc, err := s.st.GetAccountByServiceID(ctx, serviceID)
	if err != nil {
		return err
	}
	if err := s.st.ChangeAccountStatus(ctx, acc.Codigo, models.StatusSuspended, billingActor, motivo); err != nil {
		return err
	}
	s.notifyBilling(ctx, "suspend", acc.Email, motivo)
	return nil
}

// BillingUnsuspend reactivates the linked account. A cancelled account is
// not reactivated this way: terminated services must be re-created, so the
// event is reported as a conflict instead of silently resurrecting the
// tenant.
func (s *Service) BillingUnsuspend(ctx context.Context, serviceID int64, motivo string) error {
	if motivo == "" {
		motivo = "Reativado via WHMCS"
	}
	acc, err := s.st.GetAccountByServiceID(ctx, serviceID)
	if err != nil {
		return err
	}
	if acc.Status == models.StatusCancelled {
		return fmt.Errorf("%w: conta cancelada não pode ser reativada via WHMCS", store.ErrConflict)
	}
	return s.st.ChangeAccountStatus(ctx, acc.Codigo, models.StatusActive, billingActor, motivo)
}

// BillingTerminate drives the linked account to cancelled.
func (s *Service) BillingTerminate(ctx context.Context, serviceID int64, motivo string) error {
	if motivo == "" {
		motivo = "Cancelado via WHMCS"
	}
	acc, err := s.st.GetAccountByServiceID(ctx, serviceID)
	if err != nil {
		return err
	}
	if err := s.st.ChangeAccountStatus(ctx, acc.Codigo, models.StatusCancelled, billingActor, motivo); err != nil {
		return err
	}
	s.notifyBilling(ctx, "terminate", acc.Email, motivo)
	return nil
}

// notifyBilling tells the operator channel about a billing-driven lifecycle
// change. Delivery failure never fails the event itself.
func (s *Service) notifyBilling(ctx context.Context, event, email, motivo string) {
	if err := s.sender.SendBillingEvent(ctx, event, email, motivo); err != nil {
		log.Printf("billing notify failed event=%s account=%s err=%v", event, email, err)
	}
}
