// Package resource bounds the memory, worker and I/O budget of a run.
//
// A nil *Controller is valid and imposes no limits.
package resource
