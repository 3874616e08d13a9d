// Package datastore is the row store behind the listing page: a thin query
// builder over SQLite that selects rows by a column matched against a list
// of scalars and comparison tokens ("<5", ">=1990", "!3"), enforces single
// row lookups and keeps the stream URL table used by the player.
//
// Every query is logged with its label and result count and recorded in the
// Prometheus collectors of internal/metrics. Failures invoke the optional
// OnError callback before being returned.
package datastore
