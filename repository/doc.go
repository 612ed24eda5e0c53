// Package repository provides a generic, connection-less query layer built on
// Bun: lookups by column, offset listing, column updates, counting and
// numbered pagination for a single record type.
package repository
