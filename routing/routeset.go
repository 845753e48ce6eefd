package routing

import (
	"github.com/rhartert/tradeways/network/route"
)

// RouteSet is a collection of alternative routes between two hubs, ordered
// by ascending cost. The first route is the shortest one and no route costs
// more than the generator's maximum ratio times the shortest cost.
type RouteSet struct {
	Start    string
	End      string
	Shortest float64 // cost of the shortest route
	Routes   []*route.Route
}

// Len returns the number of routes in the set.
func (rs *RouteSet) Len() int {
	return len(rs.Routes)
}

// Best returns the shortest route of the set.
func (rs *RouteSet) Best() *route.Route {
	return rs.Routes[0]
}

func (rs *RouteSet) contains(r *route.Route) bool {
	for _, o := range rs.Routes {
		if o.SameEdges(r) {
			return true
		}
	}
	return false
}
