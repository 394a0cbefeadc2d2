// Package sqlite implements store.Store on a local SQLite database using
// the pure-Go modernc.org/sqlite driver. Schema changes ship as embedded,
// versioned migration files applied at startup.
package sqlite
