// Package db embeds the database schema applied at startup.
package db

import _ "embed"

// Schema creates the customers, orders and deliveries tables. Every statement
// is idempotent, so it is safe to apply on each start.
//
//go:embed migrations/001_schema.sql
var Schema string
