// Package topology computes the broker resources a service needs from its event
// catalog and declares them.
//
// Exchanges are the union of the exchanges of produced and consumed events.
// Queues and bindings come from consumed events only: a service never owns a
// queue for an event it merely publishes.
//
// Declaration runs once on the startup path, before any publish or consume
// traffic. Every declare call is idempotent on the broker, so running it again
// with the same catalog leaves the broker unchanged. Any failure is returned as
// a *ConfigurationError and must stop the process.
package topology
