// Package presence contains core domain types for the space status logic.
//
// It defines State (closed, members-only, public), Record (the state at a
// point in time) and Event (a committed transition announced on the bus).
package presence
