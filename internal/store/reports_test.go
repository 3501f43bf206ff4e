package store

import (
	"context"
	"testing"
	"time"

	"github.com/PedroFNMDEV/SextoCommit/internal/models"
)

func TestAggregatesOnEmptyStore(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	accounts, err := st.AccountTotals(ctx, now)
	if err != nil {
		t.Fatalf("account totals: %v", err)
	}
	if accounts != (AccountTotals{}) {
		t.Fatalf("account totals = %+v", accounts)
	}

	sessions, err := st.SessionTotals(ctx, now)
	if err != nil {
		t.Fatalf("session totals: %v", err)
	}
	if sessions != (SessionTotals{}) {
		t.Fatalf("session totals = %+v", sessions)
	}

	resources, err := st.ResourceTotals(ctx)
	if err != nil {
		t.Fatalf("resource totals: %v", err)
	}
	if resources != (ResourceTotals{}) {
		t.Fatalf("resource totals = %+v", resources)
	}

	top, err := st.TopAccounts(ctx, 10)
	if err != nil {
		t.Fatalf("top accounts: %v", err)
	}
	if len(top) != 0 {
		t.Fatalf("top accounts = %+v", top)
	}
}

func TestTopAccountsRanking(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	heavy := createTestAccount(t, st, "heavy@x.com", nil)
	light := createTestAccount(t, st, "light@x.com", nil)
	parada := createTestAccount(t, st, "parada@x.com", nil)
	if err := st.ChangeAccountStatus(ctx, parada, models.StatusSuspended, "admin@example.com", "x"); err != nil {
		t.Fatalf("suspend: %v", err)
	}

	addSession := func(codigo int64, dur int64) {
		t.Helper()
		if _, err := st.CreateStreamSession(ctx, models.StreamSession{
			AccountCodigo:   codigo,
			Titulo:          "Live",
			Status:          models.SessionFinished,
			DataInicio:      now.Add(-time.Hour),
			DuracaoSegundos: dur,
			ViewersMaximo:   10,
		}); err != nil {
			t.Fatalf("create session: %v", err)
		}
	}
	addSession(heavy, 100)
	addSession(heavy, 200)
	addSession(light, 50)
	addSession(parada, 999)

	top, err := st.TopAccounts(ctx, 10)
	if err != nil {
		t.Fatalf("top accounts: %v", err)
	}
	// Suspended accounts never rank, however active their history.
	if len(top) != 2 {
		t.Fatalf("top = %+v", top)
	}
	if top[0].Email != "heavy@x.com" || top[0].TotalTransmissoes != 2 || top[0].TempoTotalSeg != 300 {
		t.Fatalf("top[0] = %+v", top[0])
	}
	if top[1].Email != "light@x.com" {
		t.Fatalf("top[1] = %+v", top[1])
	}
}

func TestMonthlyGrowthBucketsByMonth(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	createTestAccount(t, st, "now1@x.com", nil)
	createTestAccount(t, st, "now2@x.com", nil)

	points, err := st.MonthlyGrowth(ctx, now)
	if err != nil {
		t.Fatalf("monthly growth: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("points = %+v", points)
	}
	if points[0].Mes != now.Format("2006-01") || points[0].NovosUsuarios != 2 {
		t.Fatalf("current month point = %+v", points[0])
	}
}
