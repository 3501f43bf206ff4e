package service

import (
	"context"
	"time"

	"github.com/PedroFNMDEV/SextoCommit/internal/store"
)

// DashboardStats is the fleet-wide snapshot served to the admin dashboard.
// Wire names follow the panel contract.
type DashboardStats struct {
	Usuarios          UsuarioStats               `json:"usuarios"`
	Transmissoes      TransmissaoStats           `json:"transmissoes"`
	Recursos          RecursoStats               `json:"recursos"`
	UsuariosAtivos    []store.TopAccount         `json:"usuarios_ativos"`
	CrescimentoMensal []store.MonthlyGrowthPoint `json:"crescimento_mensal"`
	Resumo            ResumoStats                `json:"resumo"`
}

type UsuarioStats struct {
	TotalUsuarios        int `json:"total_usuarios"`
	UsuariosAtivos       int `json:"usuarios_ativos"`
	UsuariosSuspensos    int `json:"usuarios_suspensos"`
	UsuariosExpirados    int `json:"usuarios_expirados"`
	UsuariosCancelados   int `json:"usuarios_cancelados"`
	NovosUsuariosSemana  int `json:"novos_usuarios_semana"`
	NovosUsuariosMes     int `json:"novos_usuarios_mes"`
	UsuariosAtivosSemana int `json:"usuarios_ativos_semana"`
}

type TransmissaoStats struct {
	TotalTransmissoes  int     `json:"total_transmissoes"`
	TransmissoesAtivas int     `json:"transmissoes_ativas"`
	TransmissoesSemana int     `json:"transmissoes_semana"`
	TransmissoesMes    int     `json:"transmissoes_mes"`
	MediaViewers       float64 `json:"media_viewers"`
	TempoTotalSegundos int64   `json:"tempo_total_transmissao"`
}

type RecursoStats struct {
	EspacoTotalAlocado      int64   `json:"espaco_total_alocado"`
	EspacoTotalUsado        float64 `json:"espaco_total_usado"`
	MediaEspectadoresLimite float64 `json:"media_espectadores_limite"`
	TotalEspectadoresLimite int64   `json:"total_espectadores_limite"`
	UsuariosIlimitados      int     `json:"usuarios_espectadores_ilimitados"`
	MediaBitrate            float64 `json:"media_bitrate"`
	MaiorBitrateMaximo      int     `json:"maior_bitrate_maximo"`
}

type ResumoStats struct {
	TaxaCrescimentoUsuarios float64 `json:"taxa_crescimento_usuarios"`
	UtilizacaoEspaco        float64 `json:"utilizacao_espaco"`
	TempoMedioTransmissao   float64 `json:"tempo_medio_transmissao"`
}

const topAccountsLimit = 10

// DashboardStats aggregates the registry and session history, windowed by
// the trailing week/month relative to now. Every derived ratio is defined
// as zero when its denominator is zero.
func (s *Service) DashboardStats(ctx context.Context, now time.Time) (DashboardStats, error) {
	accounts, err := s.st.AccountTotals(ctx, now)
	if err != nil {
		return DashboardStats{}, err
	}
	sessions, err := s.st.SessionTotals(ctx, now)
	if err != nil {
		return DashboardStats{}, err
	}
	resources, err := s.st.ResourceTotals(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	top, err := s.st.TopAccounts(ctx, topAccountsLimit)
	if err != nil {
		return DashboardStats{}, err
	}
	growth, err := s.st.MonthlyGrowth(ctx, now)
	if err != nil {
		return DashboardStats{}, err
	}

	resumo := ResumoStats{}
	if accounts.NovosMes > 0 {
		resumo.TaxaCrescimentoUsuarios = float64(accounts.NovosSemana) * 4 / float64(accounts.NovosMes) * 100
	}
	if resources.EspacoAlocado > 0 {
		resumo.UtilizacaoEspaco = resources.EspacoUsadoMB / (float64(resources.EspacoAlocado) * 1024) * 100
	}
	if sessions.Total > 0 {
		resumo.TempoMedioTransmissao = float64(sessions.TempoTotalSeg) / float64(sessions.Total)
	}

	return DashboardStats{
		Usuarios: UsuarioStats{
			TotalUsuarios:        accounts.Total,
			UsuariosAtivos:       accounts.Ativos,
			UsuariosSuspensos:    accounts.Suspensos,
			UsuariosExpirados:    accounts.Expirados,
			UsuariosCancelados:   accounts.Cancelados,
			NovosUsuariosSemana:  accounts.NovosSemana,
			NovosUsuariosMes:     accounts.NovosMes,
			UsuariosAtivosSemana: accounts.AtivosSemana,
		},
		Transmissoes: TransmissaoStats{
			TotalTransmissoes:  sessions.Total,
			TransmissoesAtivas: sessions.Ativas,
			TransmissoesSemana: sessions.Semana,
			TransmissoesMes:    sessions.Mes,
			MediaViewers:       sessions.MediaViewers,
			TempoTotalSegundos: sessions.TempoTotalSeg,
		},
		Recursos: RecursoStats{
			EspacoTotalAlocado:      resources.EspacoAlocado,
			EspacoTotalUsado:        resources.EspacoUsadoMB,
			MediaEspectadoresLimite: resources.MediaEspectadores,
			TotalEspectadoresLimite: resources.TotalEspectadores,
			UsuariosIlimitados:      resources.Ilimitados,
			MediaBitrate:            resources.MediaBitrate,
			MaiorBitrateMaximo:      resources.MaiorBitrateMax,
		},
		UsuariosAtivos:    top,
		CrescimentoMensal: growth,
		Resumo:            resumo,
	}, nil
}
