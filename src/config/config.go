package config

import (
	"fmt"
	"os"
	"strconv"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

var API_ENV = os.Getenv("API_ENV")

const (
	DATE_PARSE_FORMAT = "2006-01-02"
	TIME_PARSE_FORMAT = "15:04"
)

// A seating holds its table for two hours unless the request overrides it.
const DEFAULT_RESERVATION_DURATION_MINUTES = 120

const (
	MIN_PARTY_SIZE = 1
	MAX_PARTY_SIZE = 20
)

const PAYMENT_AMOUNT_CEILING float64 = 100_000

var AllowedPaymentMethods = []string{"cash", "card", "online"}

// DepositPolicy is pricing data, not validation logic. Defaults come from
// the environment; rows in the Settings table ("payments" group, keys
// deposit_per_head and deposit_fraction) take precedence when present.
type DepositPolicy struct {
	PerHead  float64
	Fraction float64
}

func GetDepositPolicy() DepositPolicy {
	policy := DepositPolicy{PerHead: 500, Fraction: 0.2}
	if v := os.Getenv("DEPOSIT_PER_HEAD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			policy.PerHead = f
		}
	}
	if v := os.Getenv("DEPOSIT_FRACTION"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			policy.Fraction = f
		}
	}
	return policy
}
