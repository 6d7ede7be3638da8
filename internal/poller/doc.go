// Package poller provides the polling core for moistureboard.
//
// This package is internal to moistureboard and handles periodic fetching of
// paginated readings from the telemetry API. At most one request is
// considered current at any instant; older requests are cancelled and their
// results discarded when they finally resolve.
//
// The main components are:
//
//   - [Client]: HTTP transport that fetches and validates one page
//   - [Coordinator]: owns pagination and fetch lifecycle state
//   - [Token]: explicit cancellation token identifying one request
//   - [Repeater]: restartable repeating task driving background refreshes
//
// Users of the moistureboard library should not need to interact with this
// package directly. Configuration is done through the main moistureboard package.
package poller
