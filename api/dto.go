/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

DANGLING REFERENCES:
  List and detail responses resolve foreign ids to display names. A
  dangling reference renders as "N/A", never as an error - that contract
  is honored here by delegating resolution to the billing package.
*/
package api

import (
	"github.com/warp/rental-engine/billing"
)

// =============================================================================
// TENANTS
// =============================================================================

// TenantDTO is a tenant with its property reference resolved for display.
type TenantDTO struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	IDCard       string        `json:"idCard,omitempty"`
	Phone        string        `json:"phone,omitempty"`
	PropertyID   string        `json:"propertyId,omitempty"`
	PropertyName string        `json:"propertyName"`
	Rent         billing.Money `json:"rent"`
	StartDate    string        `json:"startDate"`
	Overdue      bool          `json:"overdue"`
}

// SaveTenantRequest creates or updates a tenant.
type SaveTenantRequest struct {
	Name       string        `json:"name"`
	IDCard     string        `json:"idCard"`
	Phone      string        `json:"phone"`
	PropertyID string        `json:"propertyId"`
	Rent       billing.Money `json:"rent"`
	StartDate  string        `json:"startDate"`
}

// StatementDTO is the tenant detail view.
type StatementDTO struct {
	Tenant    TenantDTO     `json:"tenant"`
	Payments  []PaymentDTO  `json:"payments"`
	DueDate   string        `json:"dueDate"`
	Overdue   bool          `json:"overdue"`
	TotalPaid billing.Money `json:"totalPaid"`
}

// =============================================================================
// PROPERTIES
// =============================================================================

// PropertyDTO is a property with its occupant resolved (empty = vacant).
type PropertyDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Occupant string `json:"occupant,omitempty"`
}

type SavePropertyRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// =============================================================================
// PAYMENTS
// =============================================================================

// PaymentDTO is a payment with tenant and property names resolved.
type PaymentDTO struct {
	ID           string        `json:"id"`
	TenantID     string        `json:"tenantId"`
	TenantName   string        `json:"tenantName"`
	PropertyName string        `json:"propertyName"`
	Date         string        `json:"date"`
	Amount       billing.Money `json:"amount"`
}

type SavePaymentRequest struct {
	TenantID string        `json:"tenantId"`
	Date     string        `json:"date"`
	Amount   billing.Money `json:"amount"`
}

// =============================================================================
// DASHBOARD & REPORTS
// =============================================================================

type DashboardDTO struct {
	TotalTenants    int           `json:"totalTenants"`
	TotalProperties int           `json:"totalProperties"`
	MonthlyIncome   billing.Money `json:"monthlyIncome"`
	OverdueTenants  int           `json:"overdueTenants"`
}

type IncomeLineDTO struct {
	Month  string        `json:"month"`
	Income billing.Money `json:"income"`
}

type OverdueLineDTO struct {
	TenantID     string        `json:"tenantId"`
	TenantName   string        `json:"tenantName"`
	PropertyName string        `json:"propertyName"`
	DueDate      string        `json:"dueDate"`
	AmountOwed   billing.Money `json:"amountOwed"`
}

// OccupancyDTO surfaces the undefined-rate sentinel: with zero
// properties Rate is "N/A" and Defined is false.
type OccupancyDTO struct {
	TotalProperties int    `json:"totalProperties"`
	Occupied        int    `json:"occupied"`
	Rate            string `json:"rate"`
	Defined         bool   `json:"defined"`
}

type RentIncomeLineDTO struct {
	TenantID   string        `json:"tenantId"`
	TenantName string        `json:"tenantName"`
	Income     billing.Money `json:"income"`
}

type RentIncomeDTO struct {
	Lines []RentIncomeLineDTO `json:"lines"`
	Total billing.Money       `json:"total"`
}

// =============================================================================
// ERRORS
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
