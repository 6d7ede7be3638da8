// Package store keeps the latest dashboard snapshot and publishes changes.
//
// The main components are:
//
//   - [Snapshot]: JSON representation of the monitor state plus derived statistics
//   - [Store]: interface for storing and subscribing to snapshots
//   - [MemoryStore]: in-memory implementation with non-blocking fan-out
//
// Subscribers that fall behind lose intermediate snapshots rather than
// blocking the publisher; the most recent one is always delivered.
package store
