package coupon

import "fmt"

// Kind identifies why a coupon was rejected. All kinds are user-facing
// business conditions, never logged as system errors.
type Kind string

const (
	KindNotFound          Kind = "coupon_not_found"
	KindExpired           Kind = "coupon_expired"
	KindUsageLimitReached Kind = "coupon_usage_limit_reached"
	KindMinimumNotMet     Kind = "coupon_minimum_not_met"
)

// ValidationError is returned as a typed value so callers can surface the
// precise rejection reason; it must never be collapsed into a silent
// no-discount fallback.
type ValidationError struct {
	Kind Kind
	Code string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("coupon %s: %s", e.Code, e.Kind)
}

// Is lets errors.Is match on the Kind.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}
