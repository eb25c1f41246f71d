// Package testdoubles provides spies for the observability interfaces of the event store.
//
// They record every call so tests can assert on metric names, labels, span statuses and log messages.
package testdoubles
