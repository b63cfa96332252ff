package audit

import (
	"net/http"
	"strings"
)

// ActionResource holds action and resource derived from an HTTP method and route template.
type ActionResource struct {
	Action   string
	Resource string
}

// Route overrides for endpoints whose verb does not follow from the HTTP method.
var routeOverrides = map[string]ActionResource{
	"POST /api/login":                      {Action: "login", Resource: "session"},
	"POST /api/admin/login":                {Action: "admin_login", Resource: "session"},
	"POST /api/logout":                     {Action: "logout", Resource: "session"},
	"POST /api/password":                   {Action: "password_changed", Resource: "user"},
	"PUT /api/phone":                       {Action: "phone_changed", Resource: "user"},
	"POST /api/sms":                        {Action: "queue", Resource: "sms"},
	"POST /api/sms/:id/sent":               {Action: "mark_sent", Resource: "sms"},
	"DELETE /api/admin/users/:id/messages": {Action: "purge", Resource: "message"},
}

// ParseRoute returns action and resource for a request (e.g. "DELETE", "/api/admin/users/:id").
// Action is a verb: get, list, create, update, delete. Resource is the singular of the first
// path segment after /api (and /api/admin), e.g. users -> user.
func ParseRoute(method, route string) ActionResource {
	method = strings.ToUpper(method)
	if ar, ok := routeOverrides[method+" "+route]; ok {
		return ar
	}
	segs := strings.Split(strings.Trim(route, "/"), "/")
	if len(segs) > 0 && segs[0] == "api" {
		segs = segs[1:]
	}
	if len(segs) > 0 && segs[0] == "admin" {
		segs = segs[1:]
	}
	if len(segs) == 0 || segs[0] == "" {
		return ActionResource{Action: "unknown", Resource: "unknown"}
	}
	resource := singular(segs[0])
	last := segs[len(segs)-1]
	byID := strings.HasPrefix(last, ":")

	switch method {
	case http.MethodGet:
		if byID {
			return ActionResource{Action: "get", Resource: resource}
		}
		return ActionResource{Action: "list", Resource: resource}
	case http.MethodPost:
		return ActionResource{Action: "create", Resource: resource}
	case http.MethodPut, http.MethodPatch:
		return ActionResource{Action: "update", Resource: resource}
	case http.MethodDelete:
		return ActionResource{Action: "delete", Resource: resource}
	default:
		return ActionResource{Action: strings.ToLower(method), Resource: resource}
	}
}

func singular(s string) string {
	switch {
	case s == "sms":
		return s
	case strings.HasSuffix(s, "ies"):
		return strings.TrimSuffix(s, "ies") + "y"
	case strings.HasSuffix(s, "s") && len(s) > 1:
		return strings.TrimSuffix(s, "s")
	default:
		return s
	}
}
