// Package timespan provides the time range types shared by pivot queries.
//
// TimeSpan is an immutable start/end pair. QueryWindow is the single mutable
// default window owned by a pivot environment: it starts as a rolling
// "N units before now" window and becomes a fixed span once a caller sets an
// explicit timespan. Pivot functions read the window through a lazy accessor,
// so changing the window affects every previously registered pivot.
package timespan
