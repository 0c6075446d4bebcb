/*
calculator.go - Due date and overdue determination

PURPOSE:
  The billing-cycle reconciliation core. For one tenant and the full
  payment collection, answers: which billing period are we in, by which
  date should the most recent period's rent have been paid, and is the
  tenant delinquent?

THE ALGORITHM:
  1. elapsed = whole calendar months between lease start and reference
     date, counted by month arithmetic only (day-of-month ignored)
  2. dueDate = lease start + elapsed months (with month-end overflow
     rolling forward, e.g. Jan 31 + 1 month lands in March)
  3. overdue iff the latest payment predates dueDate; with no payment,
     overdue iff the reference date has passed dueDate

THE ASYMMETRY (deliberate):
  Period counting ignores day-of-month, but the comparison against the
  due date uses the full date. A tenant starting 2024-01-15 checked on
  2024-04-01 has 3 elapsed periods and a due date of 2024-04-15 - not yet
  overdue, because April 1 is before April 15. Checked on 2024-04-20 the
  same tenant is overdue. Changing either half of this would silently
  alter the status of every tenant whose start day is not the 1st.

SEE ALSO:
  - date.go: ElapsedPeriods and Date comparison semantics
  - report.go: Aggregations built on IsOverdue
*/
package billing

// DueDate returns the calendar date by which the most recently elapsed
// billing period's rent should have been paid.
//
// A future-dated lease start yields a negative elapsed count and a due
// date at or before the start date; overdue evaluation proceeds
// unchanged on that result.
func DueDate(tenant Tenant, reference Date) Date {
	elapsed := ElapsedPeriods(tenant.StartDate, reference)
	return tenant.StartDate.AddMonths(elapsed)
}

// LatestPayment selects the tenant's payment with the maximum date. Ties
// are broken by keeping the first maximal element encountered, which
// makes the result stable for a given collection order; any maximal
// element is acceptable since only the date value is compared downstream.
func LatestPayment(payments []Payment, id TenantID) (Payment, bool) {
	var latest Payment
	found := false
	for _, p := range payments {
		if p.TenantID != id {
			continue
		}
		if !found || p.Date.After(latest.Date) {
			latest = p
			found = true
		}
	}
	return latest, found
}

// IsOverdue reports whether the tenant is delinquent as of the reference
// date. Comparisons are strict and date-only: a payment landing exactly
// on the due date is on time, and a tenant whose lease starts today with
// no payments is not overdue.
func IsOverdue(tenant Tenant, payments []Payment, reference Date) bool {
	due := DueDate(tenant, reference)
	if last, ok := LatestPayment(payments, tenant.ID); ok {
		return last.Date.Before(due)
	}
	return reference.After(due)
}
