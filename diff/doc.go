// Package diff computes a structured comparison between two Module
// Summaries: added/removed/changed imports and exports, a strings diff,
// and scalar deltas for size, complexity, and inferred source language.
package diff
