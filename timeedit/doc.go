// Package timeedit serves a small HTTP editor for the shared query window.
//
// It plays the role an interactive time-range picker would in a notebook:
// reading the current window and replacing it, either with an explicit span
// or with a rolling range. Every pivot registered against the same window
// picks the change up on its next run.
package timeedit
