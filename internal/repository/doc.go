// Package repository provides storage and change notification for the bug server.
//
// The main components are:
//
//   - [Repository]: Interface defining storage and subscription operations
//   - [MemoryRepository]: In-memory implementation with pub/sub
//   - [Bug]: Storage representation of a bug
//   - [Change]: A created, updated or deleted event published to subscribers
//
// Subscribers receive changes via channels with non-blocking sends (slow
// subscribers miss changes rather than block writers).
package repository
