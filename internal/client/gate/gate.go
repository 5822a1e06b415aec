// Package gate decides whether a route renders for the current session or
// which route the caller is sent to instead.
package gate

import (
	"context"
	"path"
	"strings"

	"github.com/dmitrijs2005/residentportal/internal/client/roles"
)

const (
	LoginRoute        = "/login"
	UnauthorizedRoute = "/unauthorized"
	AdminLanding      = "/monthly-report"
	UserLanding       = "/report-monthly"
)

type RouteClass int

const (
	Authenticated RouteClass = iota
	Public
	UserOnly
	AdminOnly
)

func (c RouteClass) String() string {
	switch c {
	case Public:
		return "public"
	case UserOnly:
		return "user-only"
	case AdminOnly:
		return "admin-only"
	default:
		return "authenticated"
	}
}

type Outcome int

const (
	Render Outcome = iota
	RedirectLogin
	RedirectUnauthorized
)

func (o Outcome) String() string {
	switch o {
	case RedirectLogin:
		return "redirect-login"
	case RedirectUnauthorized:
		return "redirect-unauthorized"
	default:
		return "render"
	}
}

// Decision carries the outcome and the route that ends up on screen.
type Decision struct {
	Outcome Outcome
	Route   string
}

// Routes maps a route prefix to its class.
type Routes map[string]RouteClass

func DefaultRoutes() Routes {
	return Routes{
		"/":               Public,
		LoginRoute:        Public,
		UnauthorizedRoute: Public,
		"/about":          Public,
		"/amenities":      Public,
		"/events":         Public,
		"/location":       Public,
		"/notice":         Public,

		UserLanding: UserOnly,

		AdminLanding:              AdminOnly,
		"/home":                   AdminOnly,
		"/dashboard":              AdminOnly,
		"/our-leadership":         AdminOnly,
		"/organization-structure": AdminOnly,
		"/applications":           AdminOnly,
		"/reset-password":         AdminOnly,

		"/change-password": Authenticated,
	}
}

// Classify resolves p against the table, walking up one segment at a time so
// "/events/42" inherits the class of "/events". Unlisted routes require a
// signed-in user.
func (rt Routes) Classify(p string) RouteClass {
	p = Clean(p)
	for {
		if c, ok := rt[p]; ok {
			return c
		}
		if p == "/" {
			return Authenticated
		}
		p = path.Dir(p)
		if p == "/" {
			// "/" is the public login screen; do not let it swallow every path.
			return Authenticated
		}
	}
}

// Clean normalizes a route: leading slash, no trailing slash, no query.
func Clean(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return path.Clean("/" + p)
}

type Gate struct {
	resolver *roles.Resolver
	routes   Routes
}

func New(resolver *roles.Resolver, routes Routes) *Gate {
	if routes == nil {
		routes = DefaultRoutes()
	}
	return &Gate{resolver: resolver, routes: routes}
}

// Decide reads the session afresh. A session that cannot be read counts as
// signed out.
func (g *Gate) Decide(ctx context.Context, p string) Decision {
	p = Clean(p)
	class := g.routes.Classify(p)
	if class == Public {
		return Decision{Outcome: Render, Route: p}
	}

	id, err := g.resolver.Identity(ctx)
	if err != nil || !id.Authenticated {
		return Decision{Outcome: RedirectLogin, Route: LoginRoute}
	}

	if !allowed(class, id.Role) {
		return Decision{Outcome: RedirectUnauthorized, Route: UnauthorizedRoute}
	}
	return Decision{Outcome: Render, Route: p}
}

func allowed(class RouteClass, role roles.Role) bool {
	switch class {
	case AdminOnly:
		return role == roles.Admin
	case UserOnly:
		return role == roles.User
	default:
		return role != roles.Unknown
	}
}

// Landing is where a freshly signed-in user is sent.
func Landing(role roles.Role) string {
	switch role {
	case roles.Admin:
		return AdminLanding
	case roles.User:
		return UserLanding
	default:
		return LoginRoute
	}
}
