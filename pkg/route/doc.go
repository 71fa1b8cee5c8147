// Package route resolves request paths into controller routes.
//
// A [Route] is the (action, method, extra) triple the dispatcher uses to pick
// a controller and one of its methods. Paths are resolved in two stages:
//
//  1. An ordered table of [Rule] values is consulted. The first rule whose
//     pattern fully matches the cleaned path wins, and its [Mapping] decides
//     the route. Later rules are never consulted.
//  2. Without a matching rule the path is split on "/" into
//     action/method/extra. A missing action becomes the default action, a
//     missing method stays empty (the controller picks its own default) and a
//     missing extra is absent.
//
// # Routing Table
//
// Rules are usually declared in YAML:
//
//	routing:
//	  - pattern: '^/profile/(\d+)$'
//	    action: user
//	    method: view
//	    extra: 1
//	  - pattern: '/archive/(\d{4})/(\d{2})'
//	    action: blog
//	    method: archive
//	    extra: [1, 2]
//
// Integer fields are capture-group indexes, strings are literals. A list for
// extra resolves every field independently and drops empty results, producing
// an ordered sequence.
//
// # Matching
//
//	rules, err := route.LoadRulesFile("config/routing.yaml")
//	if err != nil {
//		return err
//	}
//	r := route.Match("/profile/17", "/", rules, "index")
//	// r.Action == "user", r.Method == "view", r.Extra.String() == "17"
//
// Matching never fails. A route may point at an action with no registered
// controller; the dispatcher reports that as not found.
package route
