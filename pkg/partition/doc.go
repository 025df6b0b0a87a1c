/*
Package partition defines the view the quorum state manager has onto the
partition's control-record state machine: the latest voter set, the log
offset at which it took effect, and the active protocol version.

The control-record state machine itself — how voter-set changes are
proposed, replicated, and applied — lives outside this module. View is
the narrow read-only interface the quorum state manager depends on;
StaticView is a concrete, mutex-guarded implementation suitable for
tests and for single-process embeddings where a caller updates the view
directly rather than driving it from replicated control records.
*/
package partition
