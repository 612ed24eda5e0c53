// Package database provides connection management, health checks, query
// hooks, SQL error classification, table creation for registered models and
// the Session unit of work, all built on top of Bun.
package database
