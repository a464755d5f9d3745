// Package knapsack solves the 0/1 knapsack problem over decimal prices and
// integer (rescaled) weights. Build fills the price/weight combination table
// and Reconstruct recovers the chosen item ids from it. Both are pure
// functions: every call owns its table, so concurrent callers share nothing.
package knapsack
