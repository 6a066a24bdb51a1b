// Package status implements the presence state engine and the process
// wiring around it.
//
// The service owns the authoritative record: every transition request
// is validated, persisted and announced under one exclusive lock, so
// concurrent requests are linearized and durability always precedes
// visibility. Run assembles the repository, the event bus, the auth
// guard, the consumers and the HTTP server into a running process.
package status
