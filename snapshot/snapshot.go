/*
Package snapshot implements JSON export/import of the full data set.

PURPOSE:
  A snapshot is the full contents of all three collections in one JSON
  document:

    { "tenants": [...], "properties": [...], "payments": [...] }

  Export reads each collection fresh and marshals it. Import validates
  the document, then performs three independent whole-collection
  replaces.

VALIDATION:
  An import is rejected - with no partial apply - when the payload is
  not valid JSON or when any of the three top-level keys is missing. A
  key mapped to an empty array is valid (an empty collection is data);
  only absence rejects.

ATOMICITY:
  The three replaces after validation are NOT transactional. A failure
  between them can leave a partially applied snapshot. This is an
  accepted risk of the store contract, not mitigated here.
*/
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/warp/rental-engine/billing"
)

var (
	// ErrMalformed is returned when the payload is not valid JSON.
	ErrMalformed = errors.New("snapshot is not valid JSON")

	// ErrMissingKey is returned when a required top-level key is absent.
	ErrMissingKey = errors.New("snapshot missing required key")
)

// Snapshot is the wire format. Pointer slices distinguish an absent key
// from an empty collection.
type Snapshot struct {
	Tenants    *[]billing.Tenant   `json:"tenants"`
	Properties *[]billing.Property `json:"properties"`
	Payments   *[]billing.Payment  `json:"payments"`
}

// Take reads all three collections into a Snapshot.
func Take(ctx context.Context, store billing.Store) (Snapshot, error) {
	tenants, err := store.ListTenants(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read tenants: %w", err)
	}
	properties, err := store.ListProperties(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read properties: %w", err)
	}
	payments, err := store.ListPayments(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read payments: %w", err)
	}
	if tenants == nil {
		tenants = []billing.Tenant{}
	}
	if properties == nil {
		properties = []billing.Property{}
	}
	if payments == nil {
		payments = []billing.Payment{}
	}
	return Snapshot{Tenants: &tenants, Properties: &properties, Payments: &payments}, nil
}

// Export serializes the full data set as indented JSON.
func Export(ctx context.Context, store billing.Store) ([]byte, error) {
	snap, err := Take(ctx, store)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(snap, "", "  ")
}

// Parse validates a snapshot payload without applying it.
func Parse(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if snap.Tenants == nil {
		return Snapshot{}, fmt.Errorf("%w: tenants", ErrMissingKey)
	}
	if snap.Properties == nil {
		return Snapshot{}, fmt.Errorf("%w: properties", ErrMissingKey)
	}
	if snap.Payments == nil {
		return Snapshot{}, fmt.Errorf("%w: payments", ErrMissingKey)
	}
	return snap, nil
}

// Import validates the payload and replaces all three collections.
// Validation failures change nothing; after validation the three
// replaces are independent (see package comment on atomicity).
func Import(ctx context.Context, store billing.Store, data []byte) error {
	snap, err := Parse(data)
	if err != nil {
		return err
	}
	if err := store.ReplaceTenants(ctx, *snap.Tenants); err != nil {
		return fmt.Errorf("failed to replace tenants: %w", err)
	}
	if err := store.ReplaceProperties(ctx, *snap.Properties); err != nil {
		return fmt.Errorf("failed to replace properties: %w", err)
	}
	if err := store.ReplacePayments(ctx, *snap.Payments); err != nil {
		return fmt.Errorf("failed to replace payments: %w", err)
	}
	return nil
}
