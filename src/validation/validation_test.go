package validation

import (
	"context"
	"testing"

	"rms/src/config"

	"github.com/stretchr/testify/assert"
)

func TestPartySizeBounds(t *testing.T) {
	cv := NewComposite(ReservationRules()...)

	for size := 1; size <= 20; size++ {
		res := cv.Validate(context.Background(), Candidate{
			"party_size": size,
			"date":       "2025-06-01",
			"time":       "19:00",
		})
		assert.Truef(t, res.Valid, "party size %d should be valid", size)
		assert.Empty(t, res.Errors)
	}

	for _, size := range []int{0, -1, -20, 21, 100} {
		res := cv.Validate(context.Background(), Candidate{
			"party_size": size,
			"date":       "2025-06-01",
			"time":       "19:00",
		})
		assert.Falsef(t, res.Valid, "party size %d should be invalid", size)
		assert.NotEmpty(t, res.Errors)
	}
}

func TestPartySizeMissing(t *testing.T) {
	res := PartySizeRule{}.Validate(context.Background(), Candidate{})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "party size is required and must be a number")
}

func TestTimeAndDatePresence(t *testing.T) {
	res := TimePresenceRule{}.Validate(context.Background(), Candidate{"time": "19:00"})
	assert.True(t, res.Valid)

	res = TimePresenceRule{}.Validate(context.Background(), Candidate{})
	assert.False(t, res.Valid)

	res = TimePresenceRule{}.Validate(context.Background(), Candidate{"time": 1900})
	assert.False(t, res.Valid)

	res = DatePresenceRule{}.Validate(context.Background(), Candidate{"date": "whenever"})
	assert.True(t, res.Valid, "format is intentionally not enforced here")

	res = DatePresenceRule{}.Validate(context.Background(), Candidate{"date": nil})
	assert.False(t, res.Valid)
}

func TestPaymentAmountAndMethod(t *testing.T) {
	cv := NewComposite(PaymentAmountRule{}, PaymentMethodRule{})

	valid := []Candidate{
		{"amount": 0.0, "method": "cash"},
		{"amount": 100.0, "method": "card"},
		{"amount": 100000.0, "method": "online"},
	}
	for _, c := range valid {
		res := cv.Validate(context.Background(), c)
		assert.Truef(t, res.Valid, "candidate %v should pass", c)
	}

	res := cv.Validate(context.Background(), Candidate{"amount": -5.0, "method": "cash"})
	assert.False(t, res.Valid)
	assert.Len(t, res.Errors, 1)

	res = cv.Validate(context.Background(), Candidate{"amount": 100001.0, "method": "barter"})
	assert.False(t, res.Valid)
	assert.Len(t, res.Errors, 2, "each violated rule contributes its own message")

	res = cv.Validate(context.Background(), Candidate{"amount": "lots", "method": "cash"})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "amount is required and must be a number")
}

func TestDepositConsistency(t *testing.T) {
	rule := DepositRule{Policy: config.DepositPolicy{PerHead: 500, Fraction: 0.2}}

	// 4 heads at 500 each, 20% floor -> 400 minimum
	res := rule.Validate(context.Background(), Candidate{"amount": 400.0, "party_size": 4})
	assert.True(t, res.Valid)

	res = rule.Validate(context.Background(), Candidate{"amount": 399.0, "party_size": 4})
	assert.False(t, res.Valid)
	assert.Len(t, res.Errors, 1)

	// the rule only applies when both fields are present
	res = rule.Validate(context.Background(), Candidate{"amount": 1.0})
	assert.True(t, res.Valid)
	res = rule.Validate(context.Background(), Candidate{"party_size": 10})
	assert.True(t, res.Valid)
}

func TestCompositeCollectsAllErrors(t *testing.T) {
	cv := NewComposite(append(ReservationRules(), PaymentRules(config.DepositPolicy{PerHead: 500, Fraction: 0.2})...)...)

	res := cv.Validate(context.Background(), Candidate{
		"party_size": 25,
		"amount":     -1.0,
		"method":     "iou",
	})
	assert.False(t, res.Valid)
	// party size, missing time, missing date, negative amount, bad method,
	// and the deposit floor for a party of 25
	assert.Len(t, res.Errors, 6)
}

func TestCompositeEmptyIsValid(t *testing.T) {
	cv := NewComposite()
	res := cv.Validate(context.Background(), Candidate{})
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}
