// Package secrets detects and redacts credentials pasted into brain-dump text.
//
// People dump whatever is on their mind, sometimes including a password or
// an API key. Text is scrubbed before it is fingerprinted or sent to a
// backend; findings keep rule IDs and positions but never the matched value.
package secrets
