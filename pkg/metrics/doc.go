/*
Package metrics provides Prometheus metrics for the quorum state manager.

It tracks the currently active role and epoch, counts accepted and
rejected transitions, and measures the latency of durable election-state
writes. Metrics are registered against the default Prometheus registry
at package init and exposed however the embedding process chooses to
serve them (this package owns no HTTP server).

The quorumstate_current_role gauge is reset by SetCurrentRole on every
transition so that, once the call returns, exactly one role label reads 1,
mirroring the manager's single-active-role invariant. The labels are set
one at a time, not atomically, so a concurrent scrape may see an
intermediate mix.
*/
package metrics
