// Package models defines the wallet manager's records and their payload
// schemas. Importing the package registers the records for table creation.
package models
