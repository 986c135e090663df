// Package storage provides run guard implementations.
//
// A run guard holds one key per calendar day so a trigger that fires twice
// does not mail the list twice.
//
// Implementations:
//   - redis: SET NX with TTL, shared across hosts and runs
package storage
