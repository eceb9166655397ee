package validation

import (
	"context"
	"fmt"
	"rms/src/config"
)

// PartySizeRule bounds the party size to the seatable range.
type PartySizeRule struct{}

func (PartySizeRule) Name() string { return "party_size_bounds" }

func (PartySizeRule) Validate(ctx context.Context, c Candidate) Result {
	size, isNumber := numberField(c, "party_size")
	if !isNumber {
		return fail("party size is required and must be a number")
	}
	var messages []string
	if size < config.MIN_PARTY_SIZE {
		messages = append(messages, fmt.Sprintf("party size must be at least %d", config.MIN_PARTY_SIZE))
	}
	if size > config.MAX_PARTY_SIZE {
		messages = append(messages, fmt.Sprintf("party size must not exceed %d", config.MAX_PARTY_SIZE))
	}
	if len(messages) > 0 {
		return fail(messages...)
	}
	return ok()
}

// TimePresenceRule only checks presence and type. Format enforcement is
// intentionally left to the transport layer so after-hours bookings entered
// by staff are not rejected here.
type TimePresenceRule struct{}

func (TimePresenceRule) Name() string { return "time_presence" }

func (TimePresenceRule) Validate(ctx context.Context, c Candidate) Result {
	if _, isString := stringField(c, "time"); !isString {
		return fail("reservation time is required and must be a string")
	}
	return ok()
}

type DatePresenceRule struct{}

func (DatePresenceRule) Name() string { return "date_presence" }

func (DatePresenceRule) Validate(ctx context.Context, c Candidate) Result {
	if _, isString := stringField(c, "date"); !isString {
		return fail("reservation date is required and must be a string")
	}
	return ok()
}

type PaymentAmountRule struct{}

func (PaymentAmountRule) Name() string { return "payment_amount_bounds" }

func (PaymentAmountRule) Validate(ctx context.Context, c Candidate) Result {
	amount, isNumber := numberField(c, "amount")
	if !isNumber {
		return fail("amount is required and must be a number")
	}
	var messages []string
	if amount < 0 {
		messages = append(messages, "amount must not be negative")
	}
	if amount > config.PAYMENT_AMOUNT_CEILING {
		messages = append(messages, fmt.Sprintf("amount must not exceed %.0f", config.PAYMENT_AMOUNT_CEILING))
	}
	if len(messages) > 0 {
		return fail(messages...)
	}
	return ok()
}

type PaymentMethodRule struct {
	Allowed []string
}

func (PaymentMethodRule) Name() string { return "payment_method_whitelist" }

func (r PaymentMethodRule) Validate(ctx context.Context, c Candidate) Result {
	method, isString := stringField(c, "method")
	if !isString || method == "" {
		return fail("payment method is required")
	}
	allowed := r.Allowed
	if len(allowed) == 0 {
		allowed = config.AllowedPaymentMethods
	}
	for _, m := range allowed {
		if m == method {
			return ok()
		}
	}
	return fail(fmt.Sprintf("payment method %q is not accepted", method))
}

// DepositRule checks the advisory deposit floor: when a party size
// accompanies an amount, the amount must cover the configured fraction of
// the per-head rate. The rate table is policy data, see config.
type DepositRule struct {
	Policy config.DepositPolicy
}

func (DepositRule) Name() string { return "deposit_consistency" }

func (r DepositRule) Validate(ctx context.Context, c Candidate) Result {
	amount, hasAmount := numberField(c, "amount")
	size, hasSize := numberField(c, "party_size")
	if !hasAmount || !hasSize {
		return ok()
	}
	policy := r.Policy
	if policy.PerHead == 0 && policy.Fraction == 0 {
		policy = config.GetDepositPolicy()
	}
	minimum := policy.Fraction * size * policy.PerHead
	if amount < minimum {
		return fail(fmt.Sprintf("deposit of %.2f is below the minimum %.2f for a party of %d", amount, minimum, int(size)))
	}
	return ok()
}

// ReservationRules is the strategy set applied to reservation create and
// update candidates.
func ReservationRules() []Strategy {
	return []Strategy{
		PartySizeRule{},
		TimePresenceRule{},
		DatePresenceRule{},
	}
}

// PaymentRules is the strategy set applied to payment candidates. The
// caller supplies the deposit policy in effect, see config.GetDepositPolicy.
func PaymentRules(policy config.DepositPolicy) []Strategy {
	return []Strategy{
		PaymentAmountRule{},
		PaymentMethodRule{},
		DepositRule{Policy: policy},
	}
}
