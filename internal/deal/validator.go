package deal

import (
	"fxdeals/internal/domain"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	maxDealUniqueIDLength = 64

	// limits of the Postgres numeric type
	maxAmountIntegerDigits  = 131072
	maxAmountFractionDigits = 16383
)

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

type Violation struct {
	Field   string
	Message string
}

func (v Violation) String() string {
	return v.Field + " " + v.Message
}

// JoinViolations renders violations as one reason string.
func JoinViolations(violations []Violation) string {
	parts := make([]string, len(violations))
	for i, v := range violations {
		parts[i] = v.String()
	}
	return strings.Join(parts, "; ")
}

// ValidationError is returned by the single-deal path when a payload breaks field rules.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	return "validation failed: " + JoinViolations(e.Violations)
}

// Validate returns every field rule the deal breaks, in a fixed field order. A nil result means valid.
func Validate(d domain.Deal) []Violation {
	var violations []Violation

	switch {
	case strings.TrimSpace(d.DealUniqueID) == "":
		violations = append(violations, Violation{domain.ColumnDealUniqueID, "must not be blank"})
	case utf8.RuneCountInString(d.DealUniqueID) > maxDealUniqueIDLength:
		violations = append(violations, Violation{domain.ColumnDealUniqueID, "must be at most 64 characters"})
	}

	if !currencyCodePattern.MatchString(d.FromCurrencyISO) {
		violations = append(violations, Violation{domain.ColumnFromCurrencyISO, "must be a 3-letter uppercase ISO code"})
	}
	if !currencyCodePattern.MatchString(d.ToCurrencyISO) {
		violations = append(violations, Violation{domain.ColumnToCurrencyISO, "must be a 3-letter uppercase ISO code"})
	}

	if d.DealTimestamp.IsZero() {
		violations = append(violations, Violation{domain.ColumnDealTimestamp, "must not be null"})
	}

	switch {
	case !d.DealAmount.IsPositive():
		violations = append(violations, Violation{domain.ColumnDealAmount, "must be greater than 0"})
	case !amountStorable(d.DealAmount):
		violations = append(violations, Violation{domain.ColumnDealAmount, "must have at most 131072 integer digits and 16383 fraction digits"})
	}

	return violations
}

// amountStorable checks digit counts from the coefficient and exponent only.
// Rendering the value first would expand an exponent like 1e2000000000 in memory.
func amountStorable(amount decimal.Decimal) bool {
	exp := int64(amount.Exponent())
	integerDigits := int64(amount.NumDigits()) + exp
	if integerDigits > maxAmountIntegerDigits {
		return false
	}
	return exp >= 0 || -exp <= maxAmountFractionDigits
}
