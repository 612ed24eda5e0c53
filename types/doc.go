// Package types holds the payload field mapping and pagination value types
// shared by the repository and the record accessor.
package types
