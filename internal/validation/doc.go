// Package validation implements the field-level checks applied to incoming
// best-combination requests: presence, sign, decimal precision and the
// configured upper bounds.
package validation
