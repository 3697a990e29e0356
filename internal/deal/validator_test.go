package deal

import (
	"strings"
	"testing"
	"time"

	"fxdeals/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func validDeal() domain.Deal {
	return domain.Deal{
		DealUniqueID:    "FX-1",
		FromCurrencyISO: "USD",
		ToCurrencyISO:   "EUR",
		DealTimestamp:   time.Date(2024, 11, 25, 10, 15, 30, 0, time.UTC),
		DealAmount:      decimal.RequireFromString("1000.00"),
	}
}

func TestValidate_Valid(t *testing.T) {
	require.Empty(t, Validate(validDeal()))

	d := validDeal()
	d.DealUniqueID = strings.Repeat("x", 64)
	require.Empty(t, Validate(d))
}

func TestValidate_SingleViolation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(d *domain.Deal)
		want   string
	}{
		{name: "blank id", mutate: func(d *domain.Deal) { d.DealUniqueID = "  " }, want: "deal_unique_id must not be blank"},
		{name: "id too long", mutate: func(d *domain.Deal) { d.DealUniqueID = strings.Repeat("x", 65) }, want: "deal_unique_id must be at most 64 characters"},
		{name: "lowercase from", mutate: func(d *domain.Deal) { d.FromCurrencyISO = "usd" }, want: "from_currency_iso must be a 3-letter uppercase ISO code"},
		{name: "short to", mutate: func(d *domain.Deal) { d.ToCurrencyISO = "EU" }, want: "to_currency_iso must be a 3-letter uppercase ISO code"},
		{name: "digits in to", mutate: func(d *domain.Deal) { d.ToCurrencyISO = "E1R" }, want: "to_currency_iso must be a 3-letter uppercase ISO code"},
		{name: "missing timestamp", mutate: func(d *domain.Deal) { d.DealTimestamp = time.Time{} }, want: "deal_timestamp must not be null"},
		{name: "zero amount", mutate: func(d *domain.Deal) { d.DealAmount = decimal.Zero }, want: "deal_amount must be greater than 0"},
		{name: "negative amount", mutate: func(d *domain.Deal) { d.DealAmount = decimal.RequireFromString("-0.01") }, want: "deal_amount must be greater than 0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDeal()
			tc.mutate(&d)

			violations := Validate(d)

			require.Len(t, violations, 1)
			require.Equal(t, tc.want, violations[0].String())
		})
	}
}

func TestValidate_AllViolationsJoinedInFieldOrder(t *testing.T) {
	violations := Validate(domain.Deal{FromCurrencyISO: "usd", ToCurrencyISO: "EURO"})

	require.Equal(t,
		"deal_unique_id must not be blank; "+
			"from_currency_iso must be a 3-letter uppercase ISO code; "+
			"to_currency_iso must be a 3-letter uppercase ISO code; "+
			"deal_timestamp must not be null; "+
			"deal_amount must be greater than 0",
		JoinViolations(violations),
	)

	err := &ValidationError{Violations: violations}
	require.True(t, strings.HasPrefix(err.Error(), "validation failed: deal_unique_id must not be blank"))
}

func TestValidate_AmountOutsideStorableRange(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		valid  bool
	}{
		{name: "huge exponent", amount: "1e20000000"},
		{name: "exponent near int32 max", amount: "1e2000000000"},
		{name: "too many integer digits", amount: "1e131072"},
		{name: "largest integer part", amount: "9e131071", valid: true},
		{name: "too many fraction digits", amount: "1e-16384"},
		{name: "smallest fraction", amount: "1e-16383", valid: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDeal()
			d.DealAmount = decimal.RequireFromString(tc.amount)

			violations := Validate(d)

			if tc.valid {
				require.Empty(t, violations)
				return
			}
			require.Len(t, violations, 1)
			require.Equal(t, "deal_amount must have at most 131072 integer digits and 16383 fraction digits", violations[0].String())
		})
	}
}
