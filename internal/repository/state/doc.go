// Package state implements persistence for the presence Record.
//
// The FileRepository stores and loads the record as YAML on disk and exposes
// a Repository interface that the status service depends on. Writes are
// staged and renamed into place so the file always holds a complete record.
package state
