package service

import (
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.RouteGuard = ProtectedGuard{}
var _ port.RouteGuard = PublicGuard{}

// A ProtectedGuard admits authenticated sessions and sends the rest to login.
type ProtectedGuard struct {
	auth   port.AuthChecker
	routes Routes
}

func NewProtectedGuard(auth port.AuthChecker, routes Routes) ProtectedGuard {
	routes.normalize()
	return ProtectedGuard{auth, routes}
}

func (g ProtectedGuard) Decide() domain.Decision {
	if g.auth.IsAuthenticated() {
		return domain.Decision{Allow: true}
	}
	return domain.Decision{RedirectTo: g.routes.Login}
}

// A PublicGuard admits unauthenticated sessions only; used for the login and
// register entry points.
type PublicGuard struct {
	auth   port.AuthChecker
	routes Routes
}

func NewPublicGuard(auth port.AuthChecker, routes Routes) PublicGuard {
	routes.normalize()
	return PublicGuard{auth, routes}
}

func (g PublicGuard) Decide() domain.Decision {
	if g.auth.IsAuthenticated() {
		return domain.Decision{RedirectTo: g.routes.Landing}
	}
	return domain.Decision{Allow: true}
}
