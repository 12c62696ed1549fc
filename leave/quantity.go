package leave

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// QUANTITY RULES - Pure functions, no store access
// =============================================================================

var (
	halfDay = decimal.New(5, -1) // 0.5

	minGrant  = halfDay
	maxGrant  = decimal.NewFromInt(5)
	grantStep = halfDay

	maxBaseDays = decimal.NewFromInt(999)
)

const (
	secondsPerDay = 24 * 60 * 60

	// maxRequestDays bounds an ANNUAL span so the quantity fits NUMERIC(6,1).
	maxRequestDays = 999
)

// RequestedQuantity converts a request's type and dates into days.
//
// HALF is always 0.5 regardless of dates and requires a morning/afternoon
// designation. ANNUAL is the inclusive calendar span: every day counts,
// weekends and holidays included.
func RequestedQuantity(t LeaveType, start, end time.Time, half HalfDay) (decimal.Decimal, error) {
	if !t.Valid() {
		return decimal.Zero, ErrUnknownType
	}
	start, end = DateOf(start), DateOf(end)
	if end.Before(start) {
		return decimal.Zero, ErrEndBeforeStart
	}

	if t == TypeHalf {
		if half == HalfDayNone {
			return decimal.Zero, ErrMissingHalfDay
		}
		if !half.Valid() {
			return decimal.Zero, ErrInvalidHalfDay
		}
		return halfDay, nil
	}

	// Unix seconds, not Duration: spans past ~292 years overflow Duration.
	days := (end.Unix()-start.Unix())/secondsPerDay + 1
	if days > maxRequestDays {
		return decimal.Zero, ErrSpanTooLong
	}
	return decimal.NewFromInt(days), nil
}

// FloorToWholeDays truncates x down to a whole number of days.
// Non-positive input yields zero: 1.7 -> 1, 0.9 -> 0, -2 -> 0.
func FloorToWholeDays(x decimal.Decimal) decimal.Decimal {
	if x.Sign() <= 0 {
		return decimal.Zero
	}
	return x.Floor()
}

// ValidateGrantAmount accepts 0.5 through 5.0 in steps of 0.5.
func ValidateGrantAmount(amount decimal.Decimal) error {
	if amount.LessThan(minGrant) || amount.GreaterThan(maxGrant) {
		return ErrInvalidGrant
	}
	if !amount.Mod(grantStep).IsZero() {
		return ErrInvalidGrant
	}
	return nil
}

// ValidateEntitlement checks administrator input for a year account.
// Carry-over may take any sign. Both allow one decimal place at most.
func ValidateEntitlement(baseDays, carryOver decimal.Decimal) error {
	if baseDays.IsNegative() {
		return ErrNegativeBase
	}
	if !oneDecimalPlace(baseDays) {
		return &ValidationError{Field: "base_days", Message: "base days allow one decimal place"}
	}
	if !oneDecimalPlace(carryOver) {
		return &ValidationError{Field: "carry_over", Message: "carry-over allows one decimal place"}
	}
	if baseDays.GreaterThan(maxBaseDays) {
		return &ValidationError{Field: "base_days", Message: "base days too large"}
	}
	if carryOver.Abs().GreaterThan(maxBaseDays) {
		return &ValidationError{Field: "carry_over", Message: "carry-over too large"}
	}
	return nil
}

// oneDecimalPlace ignores trailing zeros: 15.50 passes, 15.25 does not.
func oneDecimalPlace(x decimal.Decimal) bool {
	return x.Equal(x.Truncate(1))
}

// ValidateYear bounds years to a sane calendar range.
func ValidateYear(year int) error {
	if year < 1900 || year > 9999 {
		return ErrInvalidYear
	}
	return nil
}

var birthCodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// ValidateBirthCode requires exactly six digits (YYMMDD).
func ValidateBirthCode(code string) error {
	if !birthCodePattern.MatchString(code) {
		return ErrInvalidBirth
	}
	return nil
}
