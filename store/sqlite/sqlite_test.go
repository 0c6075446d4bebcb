package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/rental-engine/billing"
	"github.com/warp/rental-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestStore_EmptyCollections(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	tenants, err := st.ListTenants(ctx)
	require.NoError(t, err)
	assert.Empty(t, tenants)

	properties, err := st.ListProperties(ctx)
	require.NoError(t, err)
	assert.Empty(t, properties)

	payments, err := st.ListPayments(ctx)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestStore_TenantRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	tenants := []billing.Tenant{
		{
			ID:         "t1",
			Name:       "Alice",
			IDCard:     "1103700000001",
			Phone:      "081-000-0001",
			PropertyID: "pr1",
			Rent:       billing.NewMoney(5000.75),
			StartDate:  billing.MustParseDate("2024-01-15"),
		},
		{
			// Optional fields absent, no property reference.
			ID:        "t2",
			Name:      "Bob",
			Rent:      billing.NewMoney(4000),
			StartDate: billing.MustParseDate("2023-11-01"),
		},
	}
	require.NoError(t, st.ReplaceTenants(ctx, tenants))

	got, err := st.ListTenants(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alice", got[0].Name)
	assert.Equal(t, billing.PropertyID("pr1"), got[0].PropertyID)
	assert.True(t, got[0].Rent.Equal(billing.NewMoney(5000.75)))
	assert.True(t, got[0].StartDate.Equal(billing.MustParseDate("2024-01-15")))
	assert.Empty(t, got[1].IDCard)
	assert.Empty(t, got[1].Phone)
	assert.True(t, got[1].PropertyID.IsZero())
}

func TestStore_ReplaceIsWholeCollectionOverwrite(t *testing.T) {
	// Replace has no merge semantics: the previous contents vanish.
	ctx := context.Background()
	st := newTestStore(t)

	require.NoError(t, st.ReplaceProperties(ctx, []billing.Property{
		{ID: "a", Name: "Unit A", Address: "1 Main St"},
		{ID: "b", Name: "Unit B"},
	}))
	require.NoError(t, st.ReplaceProperties(ctx, []billing.Property{
		{ID: "c", Name: "Unit C"},
	}))

	got, err := st.ListProperties(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, billing.PropertyID("c"), got[0].ID)
}

func TestStore_PaymentOrderPreserved(t *testing.T) {
	// Collection order is load-bearing (first-seen report ordering), so
	// List must return rows in the order Replace received them - which is
	// not chronological here.
	ctx := context.Background()
	st := newTestStore(t)

	payments := []billing.Payment{
		{ID: "p3", TenantID: "t1", Date: billing.MustParseDate("2024-03-01"), Amount: billing.NewMoney(300)},
		{ID: "p1", TenantID: "t1", Date: billing.MustParseDate("2024-01-01"), Amount: billing.NewMoney(100)},
		{ID: "p2", TenantID: "t2", Date: billing.MustParseDate("2024-02-01"), Amount: billing.NewMoney(200)},
	}
	require.NoError(t, st.ReplacePayments(ctx, payments))

	got, err := st.ListPayments(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, billing.PaymentID("p3"), got[0].ID)
	assert.Equal(t, billing.PaymentID("p1"), got[1].ID)
	assert.Equal(t, billing.PaymentID("p2"), got[2].ID)
}

func TestStore_WorksAsEngineBackend(t *testing.T) {
	// The sqlite store satisfies billing.Store end to end.
	ctx := context.Background()
	st := newTestStore(t)

	require.NoError(t, st.ReplaceTenants(ctx, []billing.Tenant{
		{ID: "t1", Name: "Alice", Rent: billing.NewMoney(5000), StartDate: billing.MustParseDate("2024-01-01")},
	}))
	require.NoError(t, st.ReplacePayments(ctx, []billing.Payment{
		{ID: "p1", TenantID: "t1", Date: billing.MustParseDate("2024-03-01"), Amount: billing.NewMoney(5000)},
	}))

	engine := billing.NewEngine(st)
	engine.Now = func() billing.Date { return billing.MustParseDate("2024-04-01") }

	summary, err := engine.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.OverdueTenants, "March payment is stale against an April 1 due date")

	report, err := engine.RentIncome(ctx)
	require.NoError(t, err)
	assert.True(t, report.Total.Equal(billing.NewMoney(5000)))
}
