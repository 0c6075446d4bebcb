package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/rental-engine/billing"
)

// =============================================================================
// MONTHLY INCOME
// =============================================================================

func TestMonthlyIncome_SumsReferenceMonthOnly(t *testing.T) {
	// Payments in April (100) and March (200) with a reference date in
	// April 2024 sum to 100.
	payments := []billing.Payment{
		payment("p1", "t1", "2024-04-05", 100),
		payment("p2", "t1", "2024-03-05", 200),
	}

	total := billing.MonthlyIncome(payments, billing.MustParseDate("2024-04-20"))
	assert.True(t, total.Equal(billing.NewMoney(100)), "got %s", total)
}

func TestMonthlyIncome_SameMonthDifferentYearExcluded(t *testing.T) {
	payments := []billing.Payment{
		payment("p1", "t1", "2023-04-05", 100),
		payment("p2", "t1", "2024-04-05", 250),
	}

	total := billing.MonthlyIncome(payments, billing.MustParseDate("2024-04-01"))
	assert.True(t, total.Equal(billing.NewMoney(250)), "got %s", total)
}

func TestMonthlyIncome_EmptyCollection(t *testing.T) {
	total := billing.MonthlyIncome(nil, billing.MustParseDate("2024-04-01"))
	assert.True(t, total.IsZero())
}

// =============================================================================
// OVERDUE TENANTS
// =============================================================================

func TestOverdueTenants_FiltersByCalculator(t *testing.T) {
	tenants := []billing.Tenant{
		tenant("current", "2024-04-01", 5000),
		tenant("delinquent", "2024-01-01", 3000),
	}
	payments := []billing.Payment{
		payment("p1", "current", "2024-04-01", 5000),
		payment("p2", "delinquent", "2024-02-01", 3000),
	}

	overdue := billing.OverdueTenants(tenants, payments, billing.MustParseDate("2024-04-10"))
	require.Len(t, overdue, 1)
	assert.Equal(t, billing.TenantID("delinquent"), overdue[0].ID)
}

func TestOverdueReport_DanglingPropertyRendersNA(t *testing.T) {
	tenants := []billing.Tenant{tenant("t1", "2024-01-01", 3000)}
	tenants[0].PropertyID = "vanished"

	lines := billing.OverdueReport(tenants, nil, nil, billing.MustParseDate("2024-04-10"))
	require.Len(t, lines, 1)
	assert.Equal(t, billing.UnknownRef, lines[0].PropertyName)
	assert.Equal(t, "2024-04-01", lines[0].DueDate.String())
	assert.True(t, lines[0].AmountOwed.Equal(billing.NewMoney(3000)))
}

// =============================================================================
// OCCUPANCY
// =============================================================================

func TestOccupancy_RoundedToTwoDecimals(t *testing.T) {
	properties := []billing.Property{
		{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"},
	}
	tenants := []billing.Tenant{tenant("t1", "2024-01-01", 1000)}

	report := billing.Occupancy(properties, tenants)
	require.True(t, report.Defined)
	assert.Equal(t, "33.33", report.Rate.String())
	assert.Equal(t, 3, report.TotalProperties)
	assert.Equal(t, 1, report.Occupied)
}

func TestOccupancy_ZeroProperties_UndefinedSentinel(t *testing.T) {
	// Division by zero must surface as a defined sentinel, never as an
	// unrepresentable numeric value.
	report := billing.Occupancy(nil, nil)
	assert.False(t, report.Defined)
	assert.True(t, report.Rate.IsZero())

	withTenants := billing.Occupancy(nil, []billing.Tenant{tenant("t1", "2024-01-01", 1000)})
	assert.False(t, withTenants.Defined)
}

func TestOccupancy_FullPortfolio(t *testing.T) {
	properties := []billing.Property{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	tenants := []billing.Tenant{
		tenant("t1", "2024-01-01", 1000),
		tenant("t2", "2024-01-01", 1000),
	}

	report := billing.Occupancy(properties, tenants)
	assert.Equal(t, "100", report.Rate.String())
}

// =============================================================================
// INCOME BY MONTH
// =============================================================================

func TestIncomeByMonth_FirstSeenOrderPreserved(t *testing.T) {
	// Keys appear in collection-scan order, NOT chronological order;
	// reports render in insertion order.
	payments := []billing.Payment{
		payment("p1", "t1", "2024-03-05", 200),
		payment("p2", "t1", "2024-01-10", 100),
		payment("p3", "t1", "2024-03-20", 50),
		payment("p4", "t1", "2024-02-01", 75),
	}

	totals := billing.IncomeByMonth(payments)
	require.Len(t, totals, 3)
	assert.Equal(t, "3/2024", totals[0].Month)
	assert.True(t, totals[0].Total.Equal(billing.NewMoney(250)))
	assert.Equal(t, "1/2024", totals[1].Month)
	assert.Equal(t, "2/2024", totals[2].Month)
}

// =============================================================================
// INCOME BY TENANT
// =============================================================================

func TestIncomeByTenant_SeededZeroAndTotals(t *testing.T) {
	tenants := []billing.Tenant{
		tenant("t1", "2024-01-01", 5000),
		tenant("t2", "2024-01-01", 4000),
	}
	payments := []billing.Payment{
		payment("p1", "t1", "2024-01-05", 5000),
		payment("p2", "t1", "2024-02-05", 5000),
	}

	report := billing.IncomeByTenant(tenants, payments)

	// Every known tenant has a line, zero-payment tenants included.
	require.Len(t, report.Lines, 2)
	assert.True(t, report.Lines[0].Income.Equal(billing.NewMoney(10000)))
	assert.True(t, report.Lines[1].Income.IsZero())
	assert.True(t, report.Total.Equal(billing.NewMoney(10000)))

	// Rendering contract: only positive lines.
	positive := report.Positive()
	require.Len(t, positive, 1)
	assert.Equal(t, billing.TenantID("t1"), positive[0].TenantID)
}

func TestIncomeByTenant_UnknownTenantPaymentSkipped(t *testing.T) {
	// A payment referencing an unknown tenant id contributes to neither a
	// line nor the grand total.
	tenants := []billing.Tenant{tenant("t1", "2024-01-01", 5000)}
	payments := []billing.Payment{
		payment("p1", "t1", "2024-01-05", 5000),
		payment("p2", "ghost", "2024-01-05", 9999),
	}

	report := billing.IncomeByTenant(tenants, payments)
	assert.True(t, report.Total.Equal(billing.NewMoney(5000)), "got %s", report.Total)
}

// =============================================================================
// DASHBOARD & STATEMENT
// =============================================================================

func TestDashboard_Counters(t *testing.T) {
	tenants := []billing.Tenant{
		tenant("t1", "2024-01-01", 5000), // paid April 2 against an April 1 due date
		tenant("t2", "2024-02-01", 4000), // nothing paid since the lease began
	}
	properties := []billing.Property{{ID: "a", Name: "A"}}
	payments := []billing.Payment{payment("p1", "t1", "2024-04-02", 5000)}

	summary := billing.Dashboard(tenants, properties, payments, billing.MustParseDate("2024-04-05"))
	assert.Equal(t, 2, summary.TotalTenants)
	assert.Equal(t, 1, summary.TotalProperties)
	assert.True(t, summary.MonthlyIncome.Equal(billing.NewMoney(5000)))
	assert.Equal(t, 1, summary.OverdueTenants) // only t2: t1's payment is not before its due date
}

func TestStatement_HistoryAndStatus(t *testing.T) {
	tn := tenant("t1", "2024-01-15", 5000)
	tn.PropertyID = "a"
	properties := []billing.Property{{ID: "a", Name: "Unit A"}}
	payments := []billing.Payment{
		payment("p1", "t1", "2024-01-15", 5000),
		payment("p2", "t2", "2024-02-01", 9000), // other tenant, excluded
		payment("p3", "t1", "2024-02-15", 5000),
	}

	stmt := billing.Statement(tn, properties, payments, billing.MustParseDate("2024-04-01"))
	assert.Equal(t, "Unit A", stmt.PropertyName)
	require.Len(t, stmt.Payments, 2)
	assert.Equal(t, billing.PaymentID("p1"), stmt.Payments[0].ID)
	assert.True(t, stmt.TotalPaid.Equal(billing.NewMoney(10000)))
	assert.Equal(t, "2024-04-15", stmt.DueDate.String())
	assert.True(t, stmt.Overdue) // last payment Feb 15 < due Apr 15
}

// =============================================================================
// LOOKUPS
// =============================================================================

func TestOccupant_FirstMatchWins(t *testing.T) {
	// A data bug can leave two tenants pointing at one property; the
	// occupant is always the first match in collection order.
	tenants := []billing.Tenant{
		tenant("t1", "2024-01-01", 1000),
		tenant("t2", "2024-01-01", 1000),
	}
	tenants[0].PropertyID = "a"
	tenants[1].PropertyID = "a"

	occupant, ok := billing.Occupant(tenants, "a")
	require.True(t, ok)
	assert.Equal(t, billing.TenantID("t1"), occupant.ID)
}

func TestOccupant_EmptyPropertyIDNeverMatches(t *testing.T) {
	// Tenants without a property reference must not occupy the "empty" id.
	tenants := []billing.Tenant{tenant("t1", "2024-01-01", 1000)}

	_, ok := billing.Occupant(tenants, "")
	assert.False(t, ok)
}
