// Package recognizer decides whether a captured frame shows the selected
// topic.
//
// # Dispatch
//
// Engine.Recognize checks the topic first, then rejects blank captures, then
// runs the topic's detectors:
//
//	Earth  colour rule (ocean blue)
//	Heart  colour rule (red chambers)
//	Brain  classifier when loaded, shape rule otherwise; a non-matching
//	       classifier verdict is fused with the shape rule
//
// Every path ends in a Result. Errors are reserved for misuse of a Session
// (ErrBusy, ErrClosed).
//
// # Sessions
//
// A Session models one open capture view. It owns the frame source and,
// when built WithClassifierLoader, the classifier. Close releases both; an
// attempt still running at that point is abandoned and its result dropped.
package recognizer
