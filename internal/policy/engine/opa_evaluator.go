package engine

import (
	"context"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
	log "github.com/sirupsen/logrus"
)

const policyQuery = "data.smsgw.access"

// DefaultPolicy is the built-in route access policy. A replacement must define package smsgw.access
// with a boolean allow and a string reason.
const DefaultPolicy = `package smsgw.access

default allow = false

allow if {
	input.route.group == "public"
}

allow if {
	input.route.group == "device"
}

allow if {
	input.route.group == "user"
	input.principal.kind == "user"
	input.principal.subscription_active
}

allow if {
	input.route.group == "admin"
	input.principal.kind == "admin"
}

default reason = "forbidden"

reason = "unauthenticated" if {
	input.principal.kind == ""
}

reason = "subscription_expired" if {
	input.route.group == "user"
	input.principal.kind == "user"
	not input.principal.subscription_active
}
`

// OPAEvaluator evaluates route access with an OPA Rego policy prepared once at construction.
type OPAEvaluator struct {
	query rego.PreparedEvalQuery
}

// NewOPAEvaluator compiles policy (DefaultPolicy when empty) and prepares the access query.
func NewOPAEvaluator(ctx context.Context, policy string) (*OPAEvaluator, error) {
	if policy == "" {
		policy = DefaultPolicy
	}
	compiler, err := ast.CompileModules(map[string]string{"access.rego": policy})
	if err != nil {
		return nil, fmt.Errorf("compile access policy: %w", err)
	}
	q, err := rego.New(
		rego.Query(policyQuery),
		rego.Compiler(compiler),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare access policy: %w", err)
	}
	return &OPAEvaluator{query: q}, nil
}

// LoadPolicyFile reads a Rego policy from path. An empty path returns DefaultPolicy.
func LoadPolicyFile(path string) (string, error) {
	if path == "" {
		return DefaultPolicy, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read access policy: %w", err)
	}
	return string(b), nil
}

// Evaluate runs the policy. Evaluation failures deny with ReasonForbidden and return the error.
func (e *OPAEvaluator) Evaluate(ctx context.Context, p Principal, r Request) (Decision, error) {
	input := map[string]interface{}{
		"principal": map[string]interface{}{
			"subject":             p.Subject,
			"kind":                p.Kind,
			"role":                p.Role,
			"subscription_active": p.SubscriptionActive,
		},
		"route": map[string]interface{}{
			"group":  r.Group,
			"method": r.Method,
			"path":   r.Route,
		},
	}
	rs, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		log.WithError(err).WithField("route", r.Route).Error("policy: evaluation failed")
		return Decision{Reason: ReasonForbidden}, fmt.Errorf("eval access policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return Decision{Reason: ReasonForbidden}, fmt.Errorf("access policy returned no result")
	}
	doc, ok := rs[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return Decision{Reason: ReasonForbidden}, fmt.Errorf("access policy returned %T", rs[0].Expressions[0].Value)
	}
	allowed, _ := doc["allow"].(bool)
	if allowed {
		return Decision{Allowed: true}, nil
	}
	reason, _ := doc["reason"].(string)
	if reason == "" {
		reason = ReasonForbidden
	}
	return Decision{Reason: reason}, nil
}

// HealthCheck verifies the prepared policy still evaluates: a public route must be allowed.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	d, err := e.Evaluate(ctx, Principal{}, Request{Group: GroupPublic, Method: "GET", Route: "/healthz"})
	if err != nil {
		return err
	}
	if !d.Allowed {
		return fmt.Errorf("access policy denies public routes")
	}
	return nil
}
