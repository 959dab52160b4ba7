package entitlements

// ReasonCode explains the outcome of an access check. The codes double as the
// error_code values returned to API clients.
type ReasonCode string

const (
	ReasonOK                 ReasonCode = "OK"
	ReasonUnauthenticated    ReasonCode = "UNAUTHENTICATED"
	ReasonFeatureUnavailable ReasonCode = "FEATURE_UNAVAILABLE"
	ReasonLimitExceeded      ReasonCode = "LIMIT_EXCEEDED"
	ReasonUnknownError       ReasonCode = "UNKNOWN_ERROR"
)

// AccessDecision is the result of evaluating one feature request against the
// caller's tier and current usage. It is computed fresh on every request and
// never cached, because usage can change between calls.
type AccessDecision struct {
	Allowed      bool       `json:"allowed"`
	Reason       ReasonCode `json:"reason"`
	Feature      FeatureKey `json:"feature"`
	Tier         Tier       `json:"tier"`
	CurrentUsage int64      `json:"current_usage"`
	Limit        int        `json:"limit"`
}

// Unlimited reports whether the decision was made for an uncapped feature.
func (d AccessDecision) Unlimited() bool {
	return d.Limit == Unlimited
}
