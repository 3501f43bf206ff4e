package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PedroFNMDEV/SextoCommit/internal/auth"
	"github.com/PedroFNMDEV/SextoCommit/internal/config"
	"github.com/PedroFNMDEV/SextoCommit/internal/models"
	"github.com/PedroFNMDEV/SextoCommit/internal/notify"
	"github.com/PedroFNMDEV/SextoCommit/internal/store"
)

var (
	// ErrValidation marks missing or malformed input; wrap it with the
	// user-facing message.
	ErrValidation = errors.New("validação")

	ErrInvalidCredentials = errors.New("credenciais inválidas")
)

// Service implements the account registry, the status state machine, the
// billing gateway and the reporting engine over the store.
type Service struct {
	cfg    config.Config
	st     *store.Store
	tokens *auth.TokenAuthority
	sender notify.Sender
}

func New(cfg config.Config, st *store.Store, tokens *auth.TokenAuthority, sender notify.Sender) *Service {
	if sender == nil {
		sender = notify.LogSender{}
	}
	return &Service{cfg: cfg, st: st, tokens: tokens, sender: sender}
}

func (s *Service) Store() *store.Store { return s.st }

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// externalID derives the immutable external-facing identifier: the email
// local-part plus a creation-time suffix that keeps it unique and never
// reused.
func externalID(email string, at time.Time) string {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	return fmt.Sprintf("%s_%d", local, at.UnixMilli())
}

// CreateAccountParams carries the admin creation payload. Nil entitlement
// fields take the platform defaults.
type CreateAccountParams struct {
	Nome             string
	Email            string
	Senha            string
	Telefone         *string
	Streamings       *int
	Espectadores     *int
	Ilimitado        *bool
	Bitrate          *int
	BitrateMaximo    *int
	Espaco           *int
	DataExpiracao    *time.Time
	ObservacoesAdmin *string
}

const (
	defaultStreamings   = 1
	defaultEspectadores = 100
	defaultBitrate      = 2500
	defaultBitrateMax   = 5000
	defaultEspaco       = 1000
)

func intOr(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}

func checkEntitlements(vals ...int) error {
	for _, v := range vals {
		if v < 0 {
			return validationf("limites de recursos não podem ser negativos")
		}
	}
	return nil
}

// CreateAccount registers a tenant from the admin panel: validates required
// fields, applies entitlement defaults, hashes the password and creates the
// account with its default folder in one transaction.
func (s *Service) CreateAccount(ctx context.Context, actor string, p CreateAccountParams) (int64, error) {
	p.Nome = strings.TrimSpace(p.Nome)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if p.Nome == "" || p.Email == "" || p.Senha == "" {
		return 0, validationf("nome, email e senha são obrigatórios")
	}
	streamings := intOr(p.Streamings, defaultStreamings)
	espectadores := intOr(p.Espectadores, defaultEspectadores)
	bitrate := intOr(p.Bitrate, defaultBitrate)
	bitrateMax := intOr(p.BitrateMaximo, defaultBitrateMax)
	espaco := intOr(p.Espaco, defaultEspaco)
	if err := checkEntitlements(streamings, espectadores, bitrate, bitrateMax, espaco); err != nil {
		return 0, err
	}

	hash, err := auth.HashPassword(p.Senha)
	if err != nil {
		return 0, err
	}
	ilimitado := false
	if p.Ilimitado != nil {
		ilimitado = *p.Ilimitado
	}
	return s.st.CreateAccount(ctx, store.NewAccountParams{
		ExternalID:    externalID(p.Email, time.Now().UTC()),
		Nome:          p.Nome,
		Email:         p.Email,
		PasswordHash:  hash,
		Telefone:      p.Telefone,
		Streamings:    streamings,
		Espectadores:  espectadores,
		Ilimitado:     ilimitado,
		Bitrate:       bitrate,
		BitrateMaximo: bitrateMax,
		Espaco:        espaco,
		DataExpiracao: p.DataExpiracao,
		Notes:         p.ObservacoesAdmin,
		Actor:         actor,
		AuditNote:     "Conta criada pelo painel administrativo",
	})
}

// UpdateAccountParams mirrors store.UpdateAccountParams at the service
// boundary; nil fields keep their stored value.
type UpdateAccountParams struct {
	Nome         *string
	Email        *string
	Telefone     *string
	Streamings   *int
	Espectadores *int
	Ilimitado    *bool
	Bitrate      *int
	BitrateMax   *int
	Espaco       *int
	Status       *string

	ReplaceExpiracao bool
	DataExpiracao    *time.Time
	ReplaceNotes     bool
	ObservacoesAdmin *string

	Motivo string
}

// UpdateAccount applies a partial edit with merge semantics.
func (s *Service) UpdateAccount(ctx context.Context, actor string, codigo int64, p UpdateAccountParams) error {
	var status *models.AccountStatus
	if p.Status != nil {
		st := models.AccountStatus(*p.Status)
		if !st.Valid() {
			return validationf("status inválido: %s", *p.Status)
		}
		status = &st
	}
	for _, v := range []*int{p.Streamings, p.Espectadores, p.Bitrate, p.BitrateMax, p.Espaco} {
		if v != nil && *v < 0 {
			return validationf("limites de recursos não podem ser negativos")
		}
	}
	if p.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*p.Email))
		if normalized == "" {
			return validationf("email não pode ser vazio")
		}
		p.Email = &normalized
	}
	return s.st.UpdateAccount(ctx, codigo, store.UpdateAccountParams{
		Nome:             p.Nome,
		Email:            p.Email,
		Telefone:         p.Telefone,
		Streamings:       p.Streamings,
		Espectadores:     p.Espectadores,
		Ilimitado:        p.Ilimitado,
		Bitrate:          p.Bitrate,
		BitrateMax:       p.BitrateMax,
		Espaco:           p.Espaco,
		Status:           status,
		ReplaceExpiracao: p.ReplaceExpiracao,
		DataExpiracao:    p.DataExpiracao,
		ReplaceNotes:     p.ReplaceNotes,
		ObservacoesAdmin: p.ObservacoesAdmin,
		Actor:            actor,
		Motivo:           p.Motivo,
	})
}

// ChangeStatus drives the account status state machine from the panel. Any
// of the four statuses is reachable from any other by an administrator.
func (s *Service) ChangeStatus(ctx context.Context, actor string, codigo int64, statusValue, motivo string) error {
	status := models.AccountStatus(statusValue)
	if !status.Valid() {
		return validationf("status inválido: %s", statusValue)
	}
	desc := fmt.Sprintf("Status alterado para: %s", status)
	if motivo != "" {
		desc += fmt.Sprintf(" - Motivo: %s", motivo)
	}
	return s.st.ChangeAccountStatus(ctx, codigo, status, actor, desc)
}

// ResetPassword rehashes and stores a new credential; the old hash stays
// untouched when validation fails.
func (s *Service) ResetPassword(ctx context.Context, actor string, codigo int64, novaSenha string) error {
	if len(novaSenha) < s.cfg.PasswordMinLength {
		return validationf("nova senha deve ter pelo menos %d caracteres", s.cfg.PasswordMinLength)
	}
	hash, err := auth.HashPassword(novaSenha)
	if err != nil {
		return err
	}
	return s.st.UpdateAccountPassword(ctx, codigo, hash, actor)
}

func (s *Service) ListAccounts(ctx context.Context, q models.AccountQuery) ([]models.AccountListItem, int, error) {
	if q.PageSize <= 0 {
		q.PageSize = 20
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Status != "" && !q.Status.Valid() {
		return nil, 0, validationf("status inválido: %s", q.Status)
	}
	return s.st.ListAccounts(ctx, q)
}

func (s *Service) GetAccount(ctx context.Context, codigo int64) (models.Account, error) {
	return s.st.GetAccountByCodigo(ctx, codigo)
}

func (s *Service) ListAuditEvents(ctx context.Context, codigo int64) ([]models.AuditEvent, error) {
	if _, err := s.st.GetAccountByCodigo(ctx, codigo); err != nil {
		return nil, err
	}
	return s.st.ListAuditEvents(ctx, codigo)
}

// Login authenticates a tenant in the user realm. Only active accounts may
// log in; success updates the last-access fields before the token is issued.
func (s *Service) Login(ctx context.Context, email, senha, ip string) (string, models.Account, error) {
	acc, err := s.st.GetAccountByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", models.Account{}, ErrInvalidCredentials
	}
	if acc.Status != models.StatusActive {
		return "", models.Account{}, ErrInvalidCredentials
	}
	if !auth.VerifyPassword(acc.PasswordHash, senha) {
		return "", models.Account{}, ErrInvalidCredentials
	}
	now := time.Now().UTC()
	if err := s.st.TouchAccountAccess(ctx, acc.Codigo, now, ip); err != nil {
		return "", models.Account{}, err
	}
	acc.UltimoAcessoAt = &now
	acc.UltimoAcessoIP = &ip
	token, err := s.tokens.Issue(auth.RealmUser, acc.Codigo, acc.Email, "")
	if err != nil {
		return "", models.Account{}, err
	}
	return token, acc, nil
}

// AdminLogin authenticates an administrator in the admin realm.
func (s *Service) AdminLogin(ctx context.Context, email, senha string) (string, models.Admin, error) {
	adm, err := s.st.GetAdminByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", models.Admin{}, ErrInvalidCredentials
	}
	if !adm.Ativo {
		return "", models.Admin{}, ErrInvalidCredentials
	}
	if !auth.VerifyPassword(adm.PasswordHash, senha) {
		return "", models.Admin{}, ErrInvalidCredentials
	}
	now := time.Now().UTC()
	if err := s.st.TouchAdminAccess(ctx, adm.ID, now); err != nil {
		return "", models.Admin{}, err
	}
	adm.UltimoAcesso = &now
	token, err := s.tokens.Issue(auth.RealmAdmin, adm.ID, adm.Email, string(adm.NivelAcesso))
	if err != nil {
		return "", models.Admin{}, err
	}
	return token, adm, nil
}

// Profile returns the account behind a user-realm token. Accounts that left
// the active status lose access immediately.
func (s *Service) Profile(ctx context.Context, codigo int64) (models.Account, error) {
	acc, err := s.st.GetAccountByCodigo(ctx, codigo)
	if err != nil {
		return models.Account{}, err
	}
	if acc.Status != models.StatusActive {
		return models.Account{}, store.ErrNotFound
	}
	return acc, nil
}

func (s *Service) ListFolders(ctx context.Context, codigo int64) ([]models.Folder, error) {
	return s.st.ListFolders(ctx, codigo)
}

func (s *Service) CreateFolder(ctx context.Context, codigo int64, nome string) (models.Folder, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return models.Folder{}, validationf("nome da pasta é obrigatório")
	}
	return s.st.CreateFolder(ctx, codigo, nome)
}

func (s *Service) ListPlaylists(ctx context.Context, codigo int64) ([]models.Playlist, error) {
	return s.st.ListPlaylists(ctx, codigo)
}

func (s *Service) CreatePlaylist(ctx context.Context, codigo int64, nome string) (models.Playlist, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return models.Playlist{}, validationf("nome da playlist é obrigatório")
	}
	return s.st.CreatePlaylist(ctx, codigo, nome)
}
