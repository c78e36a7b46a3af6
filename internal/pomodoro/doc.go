// Package pomodoro implements the countdown that drives a work session.
//
// A Timer moves Idle -> Running -> Expired or Stopped. Elapsed time is
// measured against the wall clock passed in by the caller, so a late or
// skipped tick never loses time. Every Start bumps a generation counter;
// tick messages carry the generation they were armed for and callers drop
// any tick whose generation is stale.
package pomodoro
