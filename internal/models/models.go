package models

import "time"

// AccountStatus is the detailed lifecycle status of a tenant account. The
// wire values are Portuguese because the WHMCS plugin and the admin panel
// exchange them verbatim.
type AccountStatus string

const (
	StatusActive    AccountStatus = "ativo"
	StatusSuspended AccountStatus = "suspenso"
	StatusExpired   AccountStatus = "expirado"
	StatusCancelled AccountStatus = "cancelado"
)

// Valid reports whether s is one of the four enumerated statuses.
func (s AccountStatus) Valid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

type AdminLevel string

const (
	LevelSuperAdmin AdminLevel = "super_admin"
	LevelAdmin      AdminLevel = "admin"
	LevelModerator  AdminLevel = "moderador"
)

// Account is a tenant of the streaming platform. Codigo is the immutable
// internal key; ExternalID is the immutable external-facing identifier
// derived at creation from the email local-part.
type Account struct {
	Codigo       int64   `json:"codigo"`
	ExternalID   string  `json:"id"`
	Nome         string  `json:"nome"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	Telefone     *string `json:"telefone,omitempty"`

	Streamings            int     `json:"streamings"`
	Espectadores          int     `json:"espectadores"`
	EspectadoresIlimitado bool    `json:"espectadores_ilimitado"`
	Bitrate               int     `json:"bitrate"`
	BitrateMaximo         int     `json:"bitrate_maximo"`
	Espaco                int     `json:"espaco"`
	EspacoUsadoMB         float64 `json:"espaco_usado_mb"`

	Status           AccountStatus `json:"status_detalhado"`
	DataCadastro     time.Time     `json:"data_cadastro"`
	DataExpiracao    *time.Time    `json:"data_expiracao,omitempty"`
	UltimoAcessoAt   *time.Time    `json:"ultimo_acesso_data,omitempty"`
	UltimoAcessoIP   *string       `json:"ultimo_acesso_ip,omitempty"`
	ObservacoesAdmin *string       `json:"observacoes_admin,omitempty"`

	WHMCSUserID    *int64 `json:"whmcs_user_id,omitempty"`
	WHMCSServiceID *int64 `json:"whmcs_service_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountListItem is an Account row annotated with the usage counters the
// admin listing shows alongside each tenant.
type AccountListItem struct {
	Account
	TransmissoesRealizadas int        `json:"transmissoes_realizadas"`
	TotalPlaylists         int        `json:"total_playlists"`
	UltimaTransmissao      *time.Time `json:"ultima_transmissao,omitempty"`
}

// Admin is an administrator principal. Admins are provisioned only at
// bootstrap; the service never creates them at runtime.
type Admin struct {
	ID           int64      `json:"id"`
	Nome         string     `json:"nome"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	NivelAcesso  AdminLevel `json:"nivel_acesso"`
	Ativo        bool       `json:"ativo"`
	UltimoAcesso *time.Time `json:"ultimo_acesso,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type SessionStatus string

const (
	SessionActive   SessionStatus = "ativa"
	SessionPaused   SessionStatus = "pausada"
	SessionFinished SessionStatus = "finalizada"
)

// StreamSession is one broadcast by an account. The reporting engine only
// aggregates over these; live session tracking lives outside this service.
type StreamSession struct {
	ID              int64         `json:"id"`
	AccountCodigo   int64         `json:"id_conta"`
	Titulo          string        `json:"titulo"`
	Descricao       *string       `json:"descricao,omitempty"`
	Status          SessionStatus `json:"status"`
	DataInicio      time.Time     `json:"data_inicio"`
	DataFim         *time.Time    `json:"data_fim,omitempty"`
	ViewersAtual    int           `json:"viewers_atual"`
	ViewersMaximo   int           `json:"viewers_maximo"`
	BitrateAtual    int           `json:"bitrate_atual"`
	DuracaoSegundos int64         `json:"duracao_segundos"`
}

// AuditEvent is one append-only entry in an account's history. Events are
// never updated or deleted; ordering is by occurrence.
type AuditEvent struct {
	ID          string    `json:"id"`
	AccountID   int64     `json:"account_id"`
	Actor       string    `json:"actor"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Folder struct {
	ID            int64     `json:"id"`
	AccountCodigo int64     `json:"-"`
	Nome          string    `json:"nome"`
	CreatedAt     time.Time `json:"created_at"`
}

type Playlist struct {
	ID            int64     `json:"id"`
	AccountCodigo int64     `json:"-"`
	Nome          string    `json:"nome"`
	CreatedAt     time.Time `json:"created_at"`
}

// AccountQuery filters and paginates the admin account listing. Sort must be
// one of the whitelisted columns enforced by the store.
type AccountQuery struct {
	Search   string
	Status   AccountStatus
	Sort     string
	Order    string
	Page     int
	PageSize int
}

// Offset returns the row offset for the requested page.
func (q AccountQuery) Offset() int {
	page := q.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * q.PageSize
}
