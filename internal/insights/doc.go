// Package insights turns a user's food logs into mood statistics, food-mood
// patterns, trends and the narrative text of weekly, monthly and pattern
// reports.
//
// Everything here is pure computation over an in-memory slice of
// models.FoodLog. Functions never mutate their input and keep no state
// between calls, so the same logs may be aggregated concurrently.
//
// Every "most common" pick uses a first-wins fold over insertion order:
// a later key replaces the current best only when its count is strictly
// greater. Counter preserves that order in memory and in JSON.
package insights
