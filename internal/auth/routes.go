package auth

import "strings"

// Area prefixes gating which session checks apply
const (
	MemberRoutePrefix  = "/member"
	TrainerRoutePrefix = "/dashboard"
)

// RouteKind classifies a request path
type RouteKind int

const (
	RoutePublic RouteKind = iota
	RouteMember
	RouteTrainer
)

// IsMemberRoute reports whether path is in the member area.
// Matching is a plain prefix check, so "/members" counts too.
func IsMemberRoute(path string) bool {
	return strings.HasPrefix(path, MemberRoutePrefix)
}

// IsTrainerRoute reports whether path is in the trainer area
func IsTrainerRoute(path string) bool {
	return strings.HasPrefix(path, TrainerRoutePrefix)
}

// ClassifyRoute maps a path to its area
func ClassifyRoute(path string) RouteKind {
	switch {
	case IsMemberRoute(path):
		return RouteMember
	case IsTrainerRoute(path):
		return RouteTrainer
	default:
		return RoutePublic
	}
}
