package engine

import "context"

// Route groups used by the HTTP router.
const (
	GroupPublic = "public"
	GroupDevice = "device"
	GroupUser   = "user"
	GroupAdmin  = "admin"
)

// Deny reasons returned by the access policy.
const (
	ReasonUnauthenticated     = "unauthenticated"
	ReasonSubscriptionExpired = "subscription_expired"
	ReasonForbidden           = "forbidden"
)

// Principal is what the access policy knows about the caller. Kind is empty for anonymous callers.
type Principal struct {
	Subject            string
	Kind               string
	Role               string
	SubscriptionActive bool
}

// Request identifies the route being accessed.
type Request struct {
	Group  string
	Method string
	Route  string
}

// Decision is the outcome of an access evaluation. Reason is set only when Allowed is false.
type Decision struct {
	Allowed bool
	Reason  string
}

// Evaluator decides whether a principal may call a route.
type Evaluator interface {
	Evaluate(ctx context.Context, p Principal, r Request) (Decision, error)
}
