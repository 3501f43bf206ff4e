package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PedroFNMDEV/SextoCommit/internal/db"
	"github.com/PedroFNMDEV/SextoCommit/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	sqdb, err := db.OpenSQLite(filepath.Join(t.TempDir(), "app.db"), 1, 1, time.Minute)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqdb.Close() })
	if err := db.ApplyMigrationFile(sqdb, filepath.Join("..", "..", "migrations", "001_init.sql")); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
	return New(sqdb)
}

func createTestAccount(t *testing.T, st *Store, email string, extra func(*NewAccountParams)) int64 {
	t.Helper()
	p := NewAccountParams{
		ExternalID:    strings.SplitN(email, "@", 2)[0] + "_1700000000000",
		Nome:          "Conta " + email,
		Email:         email,
		PasswordHash:  "$2a$10$fakehashfakehashfakehashfakehashfakehashfakehashfake",
		Streamings:    1,
		Espectadores:  100,
		Bitrate:       2500,
		BitrateMaximo: 5000,
		Espaco:        1000,
		Actor:         "admin@example.com",
		AuditNote:     "Conta criada pelo painel administrativo",
	}
	if extra != nil {
		extra(&p)
	}
	codigo, err := st.CreateAccount(context.Background(), p)
	if err != nil {
		t.Fatalf("create account %s: %v", email, err)
	}
	return codigo
}

func TestCreateAccountCreatesDefaultFolder(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	codigo := createTestAccount(t, st, "a@x.com", nil)

	acc, err := st.GetAccountByCodigo(ctx, codigo)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if acc.Status != models.StatusActive {
		t.Fatalf("status = %s, want ativo", acc.Status)
	}
	folders, err := st.ListFolders(ctx, codigo)
	if err != nil {
		t.Fatalf("list folders: %v", err)
	}
	if len(folders) != 1 || folders[0].Nome != "Vídeos" {
		t.Fatalf("folders = %+v, want one default folder", folders)
	}
	events, err := st.ListAuditEvents(ctx, codigo)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if len(events) != 1 || events[0].Description != "Conta criada pelo painel administrativo" {
		t.Fatalf("audit events = %+v", events)
	}
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	codigo := createTestAccount(t, st, "a@x.com", nil)
	_, err := st.CreateAccount(ctx, NewAccountParams{
		ExternalID:   "a_1700000000001",
		Nome:         "Duplicada",
		Email:        "a@x.com",
		PasswordHash: "hash",
		Actor:        "admin@example.com",
		AuditNote:    "x",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
	// No partial row and no extra folder from the failed insert.
	n, err := st.CountFolders(ctx, codigo)
	if err != nil {
		t.Fatalf("count folders: %v", err)
	}
	if n != 1 {
		t.Fatalf("folder count = %d, want 1", n)
	}
	if _, _, err := st.ListAccounts(ctx, models.AccountQuery{Page: 1, PageSize: 10}); err != nil {
		t.Fatalf("list: %v", err)
	}
}

func TestCreateAccountDuplicateWHMCSIDs(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	userID, serviceID := int64(10), int64(20)
	createTestAccount(t, st, "b@x.com", func(p *NewAccountParams) {
		p.WHMCSUserID = &userID
		p.WHMCSServiceID = &serviceID
	})

	otherService := int64(99)
	_, err := st.CreateAccount(ctx, NewAccountParams{
		ExternalID:     "c_1700000000002",
		Nome:           "Outra",
		Email:          "c@x.com",
		PasswordHash:   "hash",
		WHMCSUserID:    &userID,
		WHMCSServiceID: &otherService,
		Actor:          "whmcs",
		AuditNote:      "x",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate whmcs_user_id: want ErrConflict, got %v", err)
	}
}

func TestUpdateAccountMergesFields(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	codigo := createTestAccount(t, st, "merge@x.com", nil)

	novoNome := "Novo Nome"
	novoEspaco := 2000
	if err := st.UpdateAccount(ctx, codigo, UpdateAccountParams{
		Nome:   &novoNome,
		Espaco: &novoEspaco,
		Actor:  "admin@example.com",
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	acc, err := st.GetAccountByCodigo(ctx, codigo)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if acc.Nome != novoNome || acc.Espaco != novoEspaco {
		t.Fatalf("merged fields not applied: %+v", acc)
	}
	if acc.Email != "merge@x.com" || acc.Streamings != 1 || acc.Bitrate != 2500 {
		t.Fatalf("untouched fields changed: %+v", acc)
	}
}

func TestUpdateAccountEmailConflict(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	createTestAccount(t, st, "first@x.com", nil)
	codigo := createTestAccount(t, st, "second@x.com", nil)

	taken := "first@x.com"
	err := st.UpdateAccount(ctx, codigo, UpdateAccountParams{Email: &taken, Actor: "admin@example.com"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
}

func TestUpdateAccountUnknown(t *testing.T) {
	st := newTestStore(t)
	nome := "x"
	err := st.UpdateAccount(context.Background(), 9999, UpdateAccountParams{Nome: &nome, Actor: "admin@example.com"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestChangeAccountStatusAppendsHistory(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	codigo := createTestAccount(t, st, "status@x.com", nil)

	desc := "Status alterado para: suspenso - Motivo: non-payment"
	if err := st.ChangeAccountStatus(ctx, codigo, models.StatusSuspended, "admin@example.com", desc); err != nil {
		t.Fatalf("change status: %v", err)
	}

	acc, err := st.GetAccountByCodigo(ctx, codigo)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if acc.Status != models.StatusSuspended {
		t.Fatalf("status = %s", acc.Status)
	}
	if acc.ObservacoesAdmin == nil ||
		!strings.Contains(*acc.ObservacoesAdmin, "suspenso") ||
		!strings.Contains(*acc.ObservacoesAdmin, "non-payment") {
		t.Fatalf("notes missing history line: %v", acc.ObservacoesAdmin)
	}

	events, err := st.ListAuditEvents(ctx, codigo)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if len(events) != 2 || events[1].Description != desc {
		t.Fatalf("audit events = %+v", events)
	}
}

func TestChangeAccountStatusNotesNeverTruncated(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	codigo := createTestAccount(t, st, "trail@x.com", nil)

	for _, step := range []struct {
		status models.AccountStatus
		desc   string
	}{
		{models.StatusSuspended, "Status alterado para: suspenso"},
		{models.StatusActive, "Status alterado para: ativo"},
		{models.StatusCancelled, "Status alterado para: cancelado"},
	} {
		if err := st.ChangeAccountStatus(ctx, codigo, step.status, "admin@example.com", step.desc); err != nil {
			t.Fatalf("change to %s: %v", step.status, err)
		}
	}

	acc, err := st.GetAccountByCodigo(ctx, codigo)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if acc.ObservacoesAdmin == nil {
		t.Fatal("notes empty after three transitions")
	}
	for _, want := range []string{"suspenso", "ativo", "cancelado"} {
		if !strings.Contains(*acc.ObservacoesAdmin, want) {
			t.Fatalf("notes lost %q: %s", want, *acc.ObservacoesAdmin)
		}
	}
}

func TestChangeAccountStatusUnknown(t *testing.T) {
	st := newTestStore(t)
	err := st.ChangeAccountStatus(context.Background(), 9999, models.StatusSuspended, "admin@example.com", "x")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUpdateAccountPassword(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	codigo := createTestAccount(t, st, "pw@x.com", nil)
	if err := st.UpdateAccountPassword(ctx, codigo, "newhash", "admin@example.com"); err != nil {
		t.Fatalf("update password: %v", err)
	}
	acc, err := st.GetAccountByCodigo(ctx, codigo)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if acc.PasswordHash != "newhash" {
		t.Fatalf("hash not replaced")
	}
	if acc.ObservacoesAdmin == nil || !strings.Contains(*acc.ObservacoesAdmin, "Senha resetada pelo admin") {
		t.Fatalf("notes missing reset line: %v", acc.ObservacoesAdmin)
	}
}

func TestListAccountsFilterAndPagination(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for _, email := range []string{"ana@x.com", "bruno@x.com", "carla@x.com", "daniel@y.com", "edu@y.com"} {
		createTestAccount(t, st, email, nil)
	}
	suspensa := createTestAccount(t, st, "parada@y.com", nil)
	if err := st.ChangeAccountStatus(ctx, suspensa, models.StatusSuspended, "admin@example.com", "x"); err != nil {
		t.Fatalf("suspend: %v", err)
	}

	items, total, err := st.ListAccounts(ctx, models.AccountQuery{Page: 1, PageSize: 4, Sort: "email", Order: "asc"})
	if err != nil {
		t.Fatalf("list page 1: %v", err)
	}
	if total != 6 || len(items) != 4 {
		t.Fatalf("page 1: total=%d len=%d", total, len(items))
	}
	items, total, err = st.ListAccounts(ctx, models.AccountQuery{Page: 2, PageSize: 4, Sort: "email", Order: "asc"})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if total != 6 || len(items) != 2 {
		t.Fatalf("page 2: total=%d len=%d", total, len(items))
	}

	// Page beyond the last returns empty with the true total.
	items, total, err = st.ListAccounts(ctx, models.AccountQuery{Page: 5, PageSize: 4})
	if err != nil {
		t.Fatalf("list page 5: %v", err)
	}
	if total != 6 || len(items) != 0 {
		t.Fatalf("beyond last page: total=%d len=%d", total, len(items))
	}

	items, total, err = st.ListAccounts(ctx, models.AccountQuery{Search: "@y.com", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 3 || len(items) != 3 {
		t.Fatalf("search @y.com: total=%d len=%d", total, len(items))
	}

	items, total, err = st.ListAccounts(ctx, models.AccountQuery{Status: models.StatusSuspended, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("status filter: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Email != "parada@y.com" {
		t.Fatalf("status filter: total=%d items=%+v", total, items)
	}
}

func TestListAccountsSortWhitelist(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	createTestAccount(t, st, "zz@x.com", nil)
	createTestAccount(t, st, "aa@x.com", nil)

	items, _, err := st.ListAccounts(ctx, models.AccountQuery{Sort: "email", Order: "asc", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("sort email: %v", err)
	}
	if items[0].Email != "aa@x.com" {
		t.Fatalf("ascending email sort broken: %s first", items[0].Email)
	}

	// A column outside the whitelist must not be interpolated into SQL.
	if _, _, err := st.ListAccounts(ctx, models.AccountQuery{Sort: "senha; DROP TABLE contas", Page: 1, PageSize: 10}); err != nil {
		t.Fatalf("non-whitelisted sort: %v", err)
	}
	if _, err := st.GetAccountByEmail(ctx, "aa@x.com"); err != nil {
		t.Fatalf("table damaged: %v", err)
	}
}

func TestListAccountsAnnotations(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	codigo := createTestAccount(t, st, "annot@x.com", nil)
	start := time.Now().UTC().Add(-time.Hour)
	if _, err := st.CreateStreamSession(ctx, models.StreamSession{
		AccountCodigo: codigo,
		Titulo:        "Transmissão",
		Status:        models.SessionFinished,
		DataInicio:    start,
		ViewersMaximo: 50,
	}); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := st.CreatePlaylist(ctx, codigo, "Principal"); err != nil {
		t.Fatalf("create playlist: %v", err)
	}

	items, _, err := st.ListAccounts(ctx, models.AccountQuery{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len = %d", len(items))
	}
	it := items[0]
	if it.TransmissoesRealizadas != 1 || it.TotalPlaylists != 1 || it.UltimaTransmissao == nil {
		t.Fatalf("annotations = %+v", it)
	}
}

func TestEnsureAdmin(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.EnsureAdmin(ctx, "Administrador", "root@example.com", "hash1"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	adm, err := st.GetAdminByEmail(ctx, "root@example.com")
	if err != nil {
		t.Fatalf("get admin: %v", err)
	}
	if adm.NivelAcesso != models.LevelSuperAdmin || !adm.Ativo {
		t.Fatalf("admin = %+v", adm)
	}

	// Second call refreshes the hash instead of duplicating.
	if err := st.EnsureAdmin(ctx, "Administrador", "root@example.com", "hash2"); err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	adm, err = st.GetAdminByEmail(ctx, "root@example.com")
	if err != nil {
		t.Fatalf("get admin again: %v", err)
	}
	if adm.PasswordHash != "hash2" {
		t.Fatalf("hash not refreshed: %s", adm.PasswordHash)
	}
}

func TestGetAccountByServiceID(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	userID, serviceID := int64(5), int64(55)
	codigo := createTestAccount(t, st, "svc@x.com", func(p *NewAccountParams) {
		p.WHMCSUserID = &userID
		p.WHMCSServiceID = &serviceID
	})

	acc, err := st.GetAccountByServiceID(ctx, serviceID)
	if err != nil {
		t.Fatalf("get by service id: %v", err)
	}
	if acc.Codigo != codigo {
		t.Fatalf("codigo = %d, want %d", acc.Codigo, codigo)
	}
	if _, err := st.GetAccountByServiceID(ctx, 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown service id: want ErrNotFound, got %v", err)
	}
}
