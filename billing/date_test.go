package billing_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/rental-engine/billing"
)

func TestElapsedPeriods(t *testing.T) {
	cases := []struct {
		name             string
		start, reference string
		want             int
	}{
		{"same month", "2024-04-01", "2024-04-25", 0},
		{"three months", "2024-01-15", "2024-04-01", 3},
		{"across year boundary", "2023-11-20", "2024-02-01", 3},
		{"several years", "2021-06-01", "2024-06-01", 36},
		{"future start is negative", "2024-06-15", "2024-04-01", -2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := billing.ElapsedPeriods(
				billing.MustParseDate(c.start), billing.MustParseDate(c.reference))
			assert.Equal(t, c.want, got)
		})
	}
}

func TestDate_ComparisonIsDateOnly(t *testing.T) {
	// Two dates built from different clock times on the same day are equal.
	a := billing.Date{Time: time.Date(2024, time.April, 10, 23, 59, 0, 0, time.UTC)}
	b := billing.NewDate(2024, time.April, 10)

	assert.True(t, a.Equal(b))
	assert.False(t, a.After(b))
	assert.False(t, a.Before(b))
}

func TestDate_SameMonth(t *testing.T) {
	assert.True(t, billing.MustParseDate("2024-04-05").SameMonth(billing.MustParseDate("2024-04-28")))
	assert.False(t, billing.MustParseDate("2024-04-05").SameMonth(billing.MustParseDate("2023-04-05")))
	assert.False(t, billing.MustParseDate("2024-04-05").SameMonth(billing.MustParseDate("2024-03-05")))
}

func TestDate_MonthKey(t *testing.T) {
	// The income report key has no zero padding: "4/2024", not "04/2024".
	assert.Equal(t, "4/2024", billing.MustParseDate("2024-04-05").MonthKey())
	assert.Equal(t, "12/2023", billing.MustParseDate("2023-12-31").MonthKey())
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := billing.MustParseDate("2024-01-31")

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-31"`, string(data))

	var back billing.Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, d.Equal(back))
}

func TestDate_ParseRejectsGarbage(t *testing.T) {
	_, err := billing.ParseDate("31/01/2024")
	assert.Error(t, err)

	_, err = billing.ParseDate("not-a-date")
	assert.Error(t, err)
}

func TestMoney_JSONIsBareNumber(t *testing.T) {
	data, err := json.Marshal(billing.NewMoney(5000.5))
	require.NoError(t, err)
	assert.Equal(t, "5000.5", string(data))

	// Quoted numbers from hand-edited files are accepted too.
	var m billing.Money
	require.NoError(t, json.Unmarshal([]byte(`"1234.56"`), &m))
	assert.True(t, m.Equal(billing.NewMoney(1234.56)))
}
