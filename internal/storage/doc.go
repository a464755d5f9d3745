// Package storage caches solved requests in memory so repeated identical
// requests skip the table build.
package storage
