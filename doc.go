// Package approuter holds the runtime contracts shared by routers generated
// with cmd/approutergen.
//
// A routing table declares handlers and route rules:
//
//	package = "main"
//
//	[[handlers]]
//	name = "sink"
//	type = "Sink"
//
//	[[routes]]
//	source = "MySource"
//	message = "MyMessage"
//	response = "string"
//	receivers = ["sink"]
//
// and the generator turns it into an AppRouter struct with one field per
// handler, a RouteMySourceMyMessage method that calls every receiver in
// order, and a SendMyMessage method on MySource. Dispatch through those
// methods is resolved by the compiler.
//
// Handlers that should not depend on the concrete router type accept a
// Router and send through Send, which resolves the route by type key at
// runtime:
//
//	func (UserMiddleware) Handle(ctx context.Context, msg *MyMessage, r approuter.Router) (string, error) {
//		return approuter.Send[UserMiddleware, MyMessage, string](ctx, r, msg)
//	}
//
// A route returns only its last receiver's result. Earlier receivers run for
// their side effects and their results are dropped. The first receiver that
// returns an error ends the route: later receivers are not called and that
// error is returned. Re-entrant sends are not guarded against cycles.
//
// Send methods are generated for local sources T and *T. A rule whose source
// is a local interface sets no_send, since interfaces cannot have methods.
// Routers other than AppRouter name them Send<Message>To<Router>, so several
// routers can share a package.
package approuter
