//go:build integration

package repository

// IsUniqueViolation exposes isUniqueViolation to the external repository_test package.
var IsUniqueViolation = isUniqueViolation
