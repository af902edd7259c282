// Package lifecycle enforces the invariants of accounts, contracts and events
// at create and update time.
//
// Every function takes the prior state by value and returns a new record, so
// a rejected change never leaves a half-applied mutation behind. Callers
// authorize first and validate second.
package lifecycle
