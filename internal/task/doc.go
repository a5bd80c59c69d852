// Package task runs the background sweep that completes overdue tasks.
// A Sweeper owns a single ticking goroutine, started and stopped with the
// process lifecycle, and reports failed passes on an error channel instead
// of crashing the process.
package task
