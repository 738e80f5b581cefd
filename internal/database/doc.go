// Package database stores benchmark run history in SQLite.
//
// Each generate run is saved with its metadata and one row per image
// comparison, so later runs can be listed and diffed. The driver is
// modernc.org/sqlite, which needs no cgo, and the database is a single
// file (spngbench.db) in the XDG data directory by default.
package database
