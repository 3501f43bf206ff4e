package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PedroFNMDEV/SextoCommit/internal/models"
)

var ErrNotFound = errors.New("not found")
var ErrConflict = errors.New("conflict")

// Store owns all SQL against the relational store. Multi-step sequences
// (duplicate-check then insert, status change plus audit append) run inside
// a single transaction so concurrent requests cannot interleave between the
// check and the write.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const accountColumns = `codigo,id,nome,email,senha,telefone,streamings,espectadores,espectadores_ilimitado,bitrate,bitrate_maximo,espaco,espaco_usado_mb,status_detalhado,data_cadastro,data_expiracao,ultimo_acesso_data,ultimo_acesso_ip,observacoes_admin,whmcs_user_id,whmcs_service_id,created_at,updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (models.Account, error) {
	var a models.Account
	var telefone, lastIP, notes sql.NullString
	var expiracao, lastAccess sql.NullTime
	var whmcsUser, whmcsService sql.NullInt64
	var unlimited int
	err := row.Scan(
		&a.Codigo, &a.ExternalID, &a.Nome, &a.Email, &a.PasswordHash, &telefone,
		&a.Streamings, &a.Espectadores, &unlimited, &a.Bitrate, &a.BitrateMaximo,
		&a.Espaco, &a.EspacoUsadoMB, &a.Status, &a.DataCadastro, &expiracao,
		&lastAccess, &lastIP, &notes, &whmcsUser, &whmcsService,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Account{}, ErrNotFound
	}
	if err != nil {
		return models.Account{}, err
	}
	a.EspectadoresIlimitado = unlimited == 1
	if telefone.Valid {
		v := telefone.String
		a.Telefone = &v
	}
	if expiracao.Valid {
		t := expiracao.Time
		a.DataExpiracao = &t
	}
	if lastAccess.Valid {
		t := lastAccess.Time
		a.UltimoAcessoAt = &t
	}
	if lastIP.Valid {
		v := lastIP.String
		a.UltimoAcessoIP = &v
	}
	if notes.Valid {
		v := notes.String
		a.ObservacoesAdmin = &v
	}
	if whmcsUser.Valid {
		v := whmcsUser.Int64
		a.WHMCSUserID = &v
	}
	if whmcsService.Valid {
		v := whmcsService.Int64
		a.WHMCSServiceID = &v
	}
	return a, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

// noteLine formats one appended line of the display notes field.
func noteLine(at time.Time, description string) string {
	return fmt.Sprintf("[%s] %s", at.Format("2006-01-02 15:04:05"), description)
}

func appendNotes(existing sql.NullString, line string) string {
	if !existing.Valid || strings.TrimSpace(existing.String) == "" {
		return line
	}
	return existing.String + "\n" + line
}

func insertAuditTx(ctx context.Context, tx *sql.Tx, accountID int64, actor, description string, at time.Time) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO audit_events(id,account_id,actor,description,created_at) VALUES(?,?,?,?,?)`,
		uuid.NewString(), accountID, actor, description, at,
	)
	return err
}

// appendAccountHistoryTx records description both as an audit event and as a
// line of the display notes, inside the caller's transaction.
func appendAccountHistoryTx(ctx context.Context, tx *sql.Tx, accountID int64, actor, description string, at time.Time) error {
	var notes sql.NullString
	err := tx.QueryRowContext(ctx, `SELECT observacoes_admin FROM contas WHERE codigo=?`, accountID).Scan(&notes)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE contas SET observacoes_admin=?, updated_at=? WHERE codigo=?`,
		appendNotes(notes, noteLine(at, description)), at, accountID,
	); err != nil {
		return err
	}
	return insertAuditTx(ctx, tx, accountID, actor, description, at)
}

// NewAccountParams carries everything CreateAccount needs. PasswordHash must
// already be hashed; the store never sees plaintext.
type NewAccountParams struct {
	ExternalID     string
	Nome           string
	Email          string
	PasswordHash   string
	Telefone       *string
	Streamings     int
	Espectadores   int
	Ilimitado      bool
	Bitrate        int
	BitrateMaximo  int
	Espaco         int
	DataExpiracao  *time.Time
	Notes          *string
	WHMCSUserID    *int64
	WHMCSServiceID *int64
	Actor          string
	AuditNote      string
}

// CreateAccount inserts the account, its default folder and the creation
// audit event in one transaction. The duplicate check covers email and, when
// linked, both WHMCS identifiers.
func (s *Store) CreateAccount(ctx context.Context, p NewAccountParams) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var exists int64
	var row *sql.Row
	if p.WHMCSUserID != nil || p.WHMCSServiceID != nil {
		row = tx.QueryRowContext(ctx,
			`SELECT codigo FROM contas WHERE email=? OR whmcs_user_id=? OR whmcs_service_id=?`,
			p.Email, p.WHMCSUserID, p.WHMCSServiceID,
		)
	} else {
		row = tx.QueryRowContext(ctx, `SELECT codigo FROM contas WHERE email=?`, p.Email)
	}
	switch err := row.Scan(&exists); err {
	case sql.ErrNoRows:
	case nil:
		return 0, ErrConflict
	default:
		return 0, err
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO contas (
			id, nome, email, senha, telefone, streamings, espectadores,
			espectadores_ilimitado, bitrate, bitrate_maximo, espaco,
			espaco_usado_mb, status_detalhado, data_cadastro, data_expiracao,
			observacoes_admin, whmcs_user_id, whmcs_service_id, created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,0,?,?,?,?,?,?,?,?)`,
		p.ExternalID, p.Nome, p.Email, p.PasswordHash, p.Telefone,
		p.Streamings, p.Espectadores, boolToInt(p.Ilimitado), p.Bitrate,
		p.BitrateMaximo, p.Espaco, models.StatusActive, now, p.DataExpiracao,
		p.Notes, p.WHMCSUserID, p.WHMCSServiceID, now, now,
	)
	if err != nil {
		return 0, err
	}
	codigo, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO folders(id_conta,nome,created_at) VALUES(?,?,?)`,
		codigo, "Vídeos", now,
	); err != nil {
		return 0, err
	}
	if err := insertAuditTx(ctx, tx, codigo, p.Actor, p.AuditNote, now); err != nil {
		return 0, err
	}
	return codigo, tx.Commit()
}

func (s *Store) GetAccountByCodigo(ctx context.Context, codigo int64) (models.Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM contas WHERE codigo=?`, codigo))
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM contas WHERE email=?`, email))
}

func (s *Store) GetAccountByServiceID(ctx context.Context, serviceID int64) (models.Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM contas WHERE whmcs_service_id=?`, serviceID))
}

// UpdateAccountParams uses pointer fields for merge semantics: nil keeps the
// stored value. DataExpiracao and ObservacoesAdmin are replaced outright
// when ReplaceExpiracao/ReplaceNotes is set, matching the panel contract.
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
	Status       *models.AccountStatus

	ReplaceExpiracao bool
	DataExpiracao    *time.Time
	ReplaceNotes     bool
	ObservacoesAdmin *string

	Actor  string
	Motivo string
}

func (s *Store) UpdateAccount(ctx context.Context, codigo int64, p UpdateAccountParams) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	current, err := scanAccount(tx.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM contas WHERE codigo=?`, codigo))
	if err != nil {
		return err
	}

	if p.Email != nil && *p.Email != current.Email {
		var other int64
		err := tx.QueryRowContext(ctx,
			`SELECT codigo FROM contas WHERE email=? AND codigo<>?`, *p.Email, codigo,
		).Scan(&other)
		if err == nil {
			return ErrConflict
		}
		if err != sql.ErrNoRows {
			return err
		}
	}

	merged := current
	if p.Nome != nil {
		merged.Nome = *p.Nome
	}
	if p.Email != nil {
		merged.Email = *p.Email
	}
	if p.Telefone != nil {
		merged.Telefone = p.Telefone
	}
	if p.Streamings != nil {
		merged.Streamings = *p.Streamings
	}
	if p.Espectadores != nil {
		merged.Espectadores = *p.Espectadores
	}
	if p.Ilimitado != nil {
		merged.EspectadoresIlimitado = *p.Ilimitado
	}
	if p.Bitrate != nil {
		merged.Bitrate = *p.Bitrate
	}
	if p.BitrateMax != nil {
		merged.BitrateMaximo = *p.BitrateMax
	}
	if p.Espaco != nil {
		merged.Espaco = *p.Espaco
	}
	if p.Status != nil {
		merged.Status = *p.Status
	}
	if p.ReplaceExpiracao {
		merged.DataExpiracao = p.DataExpiracao
	}
	if p.ReplaceNotes {
		merged.ObservacoesAdmin = p.ObservacoesAdmin
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
		UPDATE contas SET
			nome=?, email=?, telefone=?, streamings=?, espectadores=?,
			espectadores_ilimitado=?, bitrate=?, bitrate_maximo=?, espaco=?,
			status_detalhado=?, data_expiracao=?, observacoes_admin=?, updated_at=?
		WHERE codigo=?`,
		merged.Nome, merged.Email, merged.Telefone, merged.Streamings,
		merged.Espectadores, boolToInt(merged.EspectadoresIlimitado),
		merged.Bitrate, merged.BitrateMaximo, merged.Espaco, merged.Status,
		merged.DataExpiracao, merged.ObservacoesAdmin, now, codigo,
	); err != nil {
		return err
	}

	if p.Motivo != "" {
		if err := appendAccountHistoryTx(ctx, tx, codigo, p.Actor,
			fmt.Sprintf("Conta editada - Motivo: %s", p.Motivo), now); err != nil {
			return err
		}
	} else if p.Status != nil && *p.Status != current.Status {
		if err := appendAccountHistoryTx(ctx, tx, codigo, p.Actor,
			fmt.Sprintf("Status alterado para: %s", *p.Status), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ChangeAccountStatus updates the status and appends the audit trail in one
// transaction. The caller validates the status value.
func (s *Store) ChangeAccountStatus(ctx context.Context, codigo int64, status models.AccountStatus, actor, description string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`UPDATE contas SET status_detalhado=?, updated_at=? WHERE codigo=?`,
		status, now, codigo,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	if err := appendAccountHistoryTx(ctx, tx, codigo, actor, description, now); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateAccountPassword stores the new hash and appends the reset audit
// trail in one transaction.
func (s *Store) UpdateAccountPassword(ctx context.Context, codigo int64, passwordHash, actor string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`UPDATE contas SET senha=?, updated_at=? WHERE codigo=?`,
		passwordHash, now, codigo,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	if err := appendAccountHistoryTx(ctx, tx, codigo, actor, "Senha resetada pelo admin", now); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) TouchAccountAccess(ctx context.Context, codigo int64, at time.Time, ip string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE contas SET ultimo_acesso_data=?, ultimo_acesso_ip=? WHERE codigo=?`,
		at, ip, codigo,
	)
	return err
}

var accountSortColumns = map[string]string{
	"nome":               "nome",
	"email":              "email",
	"status_detalhado":   "status_detalhado",
	"data_cadastro":      "data_cadastro",
	"data_expiracao":     "data_expiracao",
	"ultimo_acesso_data": "ultimo_acesso_data",
	"espaco":             "espaco",
	"espaco_usado_mb":    "espaco_usado_mb",
	"espectadores":       "espectadores",
	"streamings":         "streamings",
}

// ListAccounts returns one page of matching accounts plus the total match
// count. Sort columns are whitelisted; anything else falls back to
// data_cadastro.
func (s *Store) ListAccounts(ctx context.Context, q models.AccountQuery) ([]models.AccountListItem, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	if q.Search != "" {
		where += " AND (nome LIKE ? OR email LIKE ? OR id LIKE ?)"
		term := "%" + q.Search + "%"
		args = append(args, term, term, term)
	}
	if q.Status != "" {
		where += " AND status_detalhado=?"
		args = append(args, q.Status)
	}

	sortCol, ok := accountSortColumns[q.Sort]
	if !ok {
		sortCol = "data_cadastro"
	}
	dir := "DESC"
	if strings.EqualFold(q.Order, "asc") {
		dir = "ASC"
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contas `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + accountColumns + `,
		(SELECT COUNT(*) FROM transmissoes WHERE id_conta = contas.codigo),
		(SELECT COUNT(*) FROM playlists WHERE id_conta = contas.codigo),
		(SELECT MAX(data_inicio) FROM transmissoes WHERE id_conta = contas.codigo)
		FROM contas ` + where +
		` ORDER BY ` + sortCol + ` ` + dir + ` LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, q.PageSize, q.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]models.AccountListItem, 0, q.PageSize)
	for rows.Next() {
		var item models.AccountListItem
		var telefone, lastIP, notes sql.NullString
		var expiracao, lastAccess, lastTx sql.NullTime
		var whmcsUser, whmcsService sql.NullInt64
		var unlimited int
		if err := rows.Scan(
			&item.Codigo, &item.ExternalID, &item.Nome, &item.Email, &item.PasswordHash,
			&telefone, &item.Streamings, &item.Espectadores, &unlimited,
			&item.Bitrate, &item.BitrateMaximo, &item.Espaco, &item.EspacoUsadoMB,
			&item.Status, &item.DataCadastro, &expiracao, &lastAccess, &lastIP,
			&notes, &whmcsUser, &whmcsService, &item.CreatedAt, &item.UpdatedAt,
			&item.TransmissoesRealizadas, &item.TotalPlaylists, &lastTx,
		); err != nil {
			return nil, 0, err
		}
		item.EspectadoresIlimitado = unlimited == 1
		if telefone.Valid {
			v := telefone.String
			item.Telefone = &v
		}
		if expiracao.Valid {
			t := expiracao.Time
			item.DataExpiracao = &t
		}
		if lastAccess.Valid {
			t := lastAccess.Time
			item.UltimoAcessoAt = &t
		}
		if lastIP.Valid {
			v := lastIP.String
			item.UltimoAcessoIP = &v
		}
		if notes.Valid {
			v := notes.String
			item.ObservacoesAdmin = &v
		}
		if whmcsUser.Valid {
			v := whmcsUser.Int64
			item.WHMCSUserID = &v
		}
		if whmcsService.Valid {
			v := whmcsService.Int64
			item.WHMCSServiceID = &v
		}
		if lastTx.Valid {
			t := lastTx.Time
			item.UltimaTransmissao = &t
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (s *Store) ListAuditEvents(ctx context.Context, accountID int64) ([]models.AuditEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,account_id,actor,description,created_at FROM audit_events
		 WHERE account_id=? ORDER BY created_at ASC, id ASC`, accountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.AuditEvent
	for rows.Next() {
		var e models.AuditEvent
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Actor, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (models.Admin, error) {
	var a models.Admin
	var lastAccess sql.NullTime
	var ativo int
	err := s.db.QueryRowContext(ctx,
		`SELECT id,nome,email,senha,nivel_acesso,ativo,ultimo_acesso,created_at
		 FROM administradores WHERE email=?`, email,
	).Scan(&a.ID, &a.Nome, &a.Email, &a.PasswordHash, &a.NivelAcesso, &ativo, &lastAccess, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Admin{}, ErrNotFound
	}
	if err != nil {
		return models.Admin{}, err
	}
	a.Ativo = ativo == 1
	if lastAccess.Valid {
		t := lastAccess.Time
		a.UltimoAcesso = &t
	}
	return a, nil
}

// EnsureAdmin creates or refreshes the bootstrap administrator. Runtime
// admin provisioning does not exist; this is the only write path.
func (s *Store) EnsureAdmin(ctx context.Context, nome, email, passwordHash string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || passwordHash == "" {
		return nil
	}
	_, err := s.GetAdminByEmail(ctx, email)
	if err == ErrNotFound {
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO administradores(nome,email,senha,nivel_acesso,ativo,created_at) VALUES(?,?,?,?,1,?)`,
			nome, email, passwordHash, models.LevelSuperAdmin, time.Now().UTC(),
		)
		return err
	}
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE administradores SET senha=?, ativo=1 WHERE email=?`,
		passwordHash, email,
	)
	return err
}

func (s *Store) TouchAdminAccess(ctx context.Context, id int64, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE administradores SET ultimo_acesso=? WHERE id=?`, at, id)
	return err
}

func (s *Store) ListFolders(ctx context.Context, accountCodigo int64) ([]models.Folder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,id_conta,nome,created_at FROM folders WHERE id_conta=? ORDER BY nome`, accountCodigo,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Folder
	for rows.Next() {
		var f models.Folder
		if err := rows.Scan(&f.ID, &f.AccountCodigo, &f.Nome, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *Store) CreateFolder(ctx context.Context, accountCodigo int64, nome string) (models.Folder, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO folders(id_conta,nome,created_at) VALUES(?,?,?)`,
		accountCodigo, nome, now,
	)
	if err != nil {
		return models.Folder{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Folder{}, err
	}
	return models.Folder{ID: id, AccountCodigo: accountCodigo, Nome: nome, CreatedAt: now}, nil
}

func (s *Store) ListPlaylists(ctx context.Context, accountCodigo int64) ([]models.Playlist, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,id_conta,nome,created_at FROM playlists WHERE id_conta=? ORDER BY nome`, accountCodigo,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Playlist
	for rows.Next() {
		var p models.Playlist
		if err := rows.Scan(&p.ID, &p.AccountCodigo, &p.Nome, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) CreatePlaylist(ctx context.Context, accountCodigo int64, nome string) (models.Playlist, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO playlists(id_conta,nome,created_at) VALUES(?,?,?)`,
		accountCodigo, nome, now,
	)
	if err != nil {
		return models.Playlist{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Playlist{}, err
	}
	return models.Playlist{ID: id, AccountCodigo: accountCodigo, Nome: nome, CreatedAt: now}, nil
}

func (s *Store) CountFolders(ctx context.Context, accountCodigo int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM folders WHERE id_conta=?`, accountCodigo,
	).Scan(&n)
	return n, err
}

// CreateStreamSession records the start of a broadcast. Progress tracking is
// owned by the media pipeline; the service only stores summaries.
func (s *Store) CreateStreamSession(ctx context.Context, sess models.StreamSession) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transmissoes (id_conta,titulo,descricao,status,data_inicio,data_fim,viewers_atual,viewers_maximo,bitrate_atual,duracao_segundos)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		sess.AccountCodigo, sess.Titulo, sess.Descricao, sess.Status,
		sess.DataInicio, sess.DataFim, sess.ViewersAtual, sess.ViewersMaximo,
		sess.BitrateAtual, sess.DuracaoSegundos,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// FinishStreamSession closes a broadcast with its final counters.
func (s *Store) FinishStreamSession(ctx context.Context, id int64, endedAt time.Time, duracaoSegundos int64, viewersMaximo int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE transmissoes SET status=?, data_fim=?, duracao_segundos=?, viewers_maximo=?
		WHERE id=?`,
		models.SessionFinished, endedAt, duracaoSegundos, viewersMaximo, id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
