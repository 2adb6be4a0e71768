// Package task defines the tracked task kinds and their line format.
//
// A task is one of three kinds:
//
//   - ToDo: a description only
//   - Event: a description and an "at" timestamp
//   - Deadline: a description and a "by" timestamp
//
// # Storage Line Format
//
// Each task serializes to a single line with fields joined by " | ":
//
//	T | 0 | read book
//	E | 1 | exam  | 2024-05-01 09:00:00
//	D | 0 | submit report | 2024-05-03 23:59:00
//
// The first field is the kind letter, the second the completion flag
// ("1" done, "0" pending), the third the description kept verbatim and the
// fourth, for events and deadlines only, the timing in TimeLayout.
//
// Parse reverses Serialize exactly for every task Serialize can produce.
// Lines that cannot be parsed yield an error matching ErrCorrupt.
package task
