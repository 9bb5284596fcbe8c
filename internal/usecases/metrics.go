package usecases

import "github.com/prometheus/client_golang/prometheus"

// Verification lifecycle counters. Labels stay low-cardinality: purpose is
// a two-value enum and outcome a short fixed set.
var (
	verificationIssuance = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verification_code_issuance_total",
			Help: "Verification code issuance attempts by purpose and outcome.",
		},
		[]string{"purpose", "outcome"},
	)

	verificationValidation = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verification_code_validation_total",
			Help: "Verification code validation attempts by purpose and outcome.",
		},
		[]string{"purpose", "outcome"},
	)
)

// Issuance outcomes.
const (
	outcomeIssued          = "issued"
	outcomeSuperseded      = "superseded_prior"
	outcomeDeliveryFailed  = "delivery_failed"
	outcomeUnknownEmail    = "unknown_email"
	outcomeAlreadyVerified = "already_verified"
)

// Validation outcomes.
const (
	outcomeSuccess     = "success"
	outcomeMismatch    = "mismatch"
	outcomeExpired     = "expired"
	outcomeConsumed    = "already_consumed"
	outcomeNotFound    = "not_found"
	outcomeRateLimited = "rate_limited"
)

func init() {
	prometheus.MustRegister(verificationIssuance, verificationValidation)
}
