// Package observable decorates command and query handlers with metrics, tracing and logging.
//
// The wrappers never change the outcome of the wrapped handler: they time the call, classify
// its error (rejected, transfer_failed, concurrency_conflict, canceled, timeout, error) and
// report it through the event store's observability interfaces.
package observable
