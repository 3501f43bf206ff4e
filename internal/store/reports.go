package store

import (
	"context"
	"database/sql"
	"time"
)

// AccountTotals is the per-status and growth breakdown of the account fleet.
type AccountTotals struct {
	Total        int
	Ativos       int
	Suspensos    int
	Expirados    int
	Cancelados   int
	NovosSemana  int
	NovosMes     int
	AtivosSemana int
}

func (s *Store) AccountTotals(ctx context.Context, now time.Time) (AccountTotals, error) {
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, -1, 0)
	var t AccountTotals
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			SUM(CASE WHEN status_detalhado='ativo' THEN 1 ELSE 0 END),
			SUM(CASE WHEN status_detalhado='suspenso' THEN 1 ELSE 0 END),
			SUM(CASE WHEN status_detalhado='expirado' THEN 1 ELSE 0 END),
			SUM(CASE WHEN status_detalhado='cancelado' THEN 1 ELSE 0 END),
			SUM(CASE WHEN data_cadastro >= ? THEN 1 ELSE 0 END),
			SUM(CASE WHEN data_cadastro >= ? THEN 1 ELSE 0 END),
			SUM(CASE WHEN ultimo_acesso_data >= ? THEN 1 ELSE 0 END)
		FROM contas`,
		weekAgo, monthAgo, weekAgo,
	).Scan(
		&t.Total,
		nullInt{&t.Ativos}, nullInt{&t.Suspensos}, nullInt{&t.Expirados},
		nullInt{&t.Cancelados}, nullInt{&t.NovosSemana}, nullInt{&t.NovosMes},
		nullInt{&t.AtivosSemana},
	)
	return t, err
}

// SessionTotals aggregates the transmission history.
type SessionTotals struct {
	Total         int
	Ativas        int
	Semana        int
	Mes           int
	MediaViewers  float64
	TempoTotalSeg int64
}

func (s *Store) SessionTotals(ctx context.Context, now time.Time) (SessionTotals, error) {
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, -1, 0)
	var t SessionTotals
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			SUM(CASE WHEN status='ativa' THEN 1 ELSE 0 END),
			SUM(CASE WHEN data_inicio >= ? THEN 1 ELSE 0 END),
			SUM(CASE WHEN data_inicio >= ? THEN 1 ELSE 0 END),
			AVG(viewers_maximo),
			SUM(duracao_segundos)
		FROM transmissoes`,
		weekAgo, monthAgo,
	).Scan(
		&t.Total, nullInt{&t.Ativas}, nullInt{&t.Semana}, nullInt{&t.Mes},
		nullFloat{&t.MediaViewers}, nullInt64{&t.TempoTotalSeg},
	)
	return t, err
}

// ResourceTotals aggregates entitlement allocation across the fleet.
type ResourceTotals struct {
	EspacoAlocado     int64
	EspacoUsadoMB     float64
	MediaEspectadores float64
	TotalEspectadores int64
	Ilimitados        int
	MediaBitrate      float64
	MaiorBitrateMax   int
}

func (s *Store) ResourceTotals(ctx context.Context) (ResourceTotals, error) {
	var t ResourceTotals
	err := s.db.QueryRowContext(ctx, `
		SELECT
			SUM(espaco),
			SUM(espaco_usado_mb),
			AVG(espectadores),
			SUM(espectadores),
			SUM(CASE WHEN espectadores_ilimitado=1 THEN 1 ELSE 0 END),
			AVG(bitrate),
			MAX(bitrate_maximo)
		FROM contas`,
	).Scan(
		nullInt64{&t.EspacoAlocado}, nullFloat{&t.EspacoUsadoMB},
		nullFloat{&t.MediaEspectadores}, nullInt64{&t.TotalEspectadores},
		nullInt{&t.Ilimitados}, nullFloat{&t.MediaBitrate},
		nullInt{&t.MaiorBitrateMax},
	)
	return t, err
}

// TopAccount is one row of the most-active ranking.
type TopAccount struct {
	Nome              string     `json:"nome"`
	Email             string     `json:"email"`
	ExternalID        string     `json:"id"`
	TotalTransmissoes int        `json:"total_transmissoes"`
	UltimaTransmissao *time.Time `json:"ultima_transmissao,omitempty"`
	TempoTotalSeg     int64      `json:"tempo_total"`
	MediaViewers      float64    `json:"media_viewers"`
}

// TopAccounts ranks active accounts by transmission count, tie-broken by
// total transmitted time, capped at limit.
func (s *Store) TopAccounts(ctx context.Context, limit int) ([]TopAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			c.nome, c.email, c.id,
			COUNT(t.id),
			MAX(t.data_inicio),
			COALESCE(SUM(t.duracao_segundos), 0),
			COALESCE(AVG(t.viewers_maximo), 0)
		FROM contas c
		LEFT JOIN transmissoes t ON t.id_conta = c.codigo
		WHERE c.status_detalhado = 'ativo'
		GROUP BY c.codigo, c.nome, c.email, c.id
		ORDER BY COUNT(t.id) DESC, COALESCE(SUM(t.duracao_segundos), 0) DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]TopAccount, 0, limit)
	for rows.Next() {
		var a TopAccount
		var last sql.NullTime
		if err := rows.Scan(&a.Nome, &a.Email, &a.ExternalID, &a.TotalTransmissoes, &last, &a.TempoTotalSeg, &a.MediaViewers); err != nil {
			return nil, err
		}
		if last.Valid {
			t := last.Time
			a.UltimaTransmissao = &t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// MonthlyGrowthPoint is the new-account count of one calendar month.
type MonthlyGrowthPoint struct {
	Mes           string `json:"mes"`
	NovosUsuarios int    `json:"novos_usuarios"`
}

// MonthlyGrowth buckets registrations of the trailing twelve months by
// calendar month, most recent first. Bucketing happens in Go so the query
// stays free of dialect-specific date formatting.
func (s *Store) MonthlyGrowth(ctx context.Context, now time.Time) ([]MonthlyGrowthPoint, error) {
	since := now.AddDate(0, -12, 0)
	rows, err := s.db.QueryContext(ctx,
		`SELECT data_cadastro FROM contas WHERE data_cadastro >= ?`, since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var at time.Time
		if err := rows.Scan(&at); err != nil {
			return nil, err
		}
		counts[at.UTC().Format("2006-01")]++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]MonthlyGrowthPoint, 0, 12)
	cursor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		mes := cursor.Format("2006-01")
		if n, ok := counts[mes]; ok {
			out = append(out, MonthlyGrowthPoint{Mes: mes, NovosUsuarios: n})
		}
		cursor = cursor.AddDate(0, -1, 0)
	}
	return out, nil
}

// SUM/AVG return NULL on empty tables; these adapters scan NULL as zero so
// the dashboard stays well-defined on an empty store.

type nullInt struct{ dst *int }

func (n nullInt) Scan(src any) error {
	var v sql.NullInt64
	if err := v.Scan(src); err != nil {
		return err
	}
	*n.dst = int(v.Int64)
	return nil
}

type nullInt64 struct{ dst *int64 }

func (n nullInt64) Scan(src any) error {
	var v sql.NullInt64
	if err := v.Scan(src); err != nil {
		return err
	}
	*n.dst = v.Int64
	return nil
}

type nullFloat struct{ dst *float64 }

func (n nullFloat) Scan(src any) error {
	var v sql.NullFloat64
	if err := v.Scan(src); err != nil {
		return err
	}
	*n.dst = v.Float64
	return nil
}
