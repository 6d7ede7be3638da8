// Package telemetry defines the wire types exchanged with the telemetry API.
//
// This package is internal to moistureboard. It is the leaf of the import
// graph: the poller, store, and server packages as well as the public
// moistureboard package all share these types, which avoids the circular
// dependency that would arise from defining them in the root package.
//
// The main components are:
//
//   - [Reading]: a single moisture sample
//   - [PaginationMeta]: pagination metadata returned alongside a page
//   - [Page]: one decoded response from the telemetry endpoint
//   - [Query]: the page/limit cursor sent with each request
//   - [ParseTimestamp]: lenient ISO-8601 timestamp parsing
package telemetry
