// Package solver turns a validated request into the best item combination.
// It rescales decimal weights onto integer table columns, builds the
// knapsack table, reconstructs the chosen ids and reports totals. Results may
// be served from a cache keyed by the request fingerprint.
package solver
