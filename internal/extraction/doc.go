// Package extraction converts brain-dump text into typed planning records
// using interchangeable LLM backends.
//
// # Pipeline
//
// Every adapter follows the same strictly ordered pipeline:
//
//  1. Check credential, model and options (no network on failure)
//  2. Build the prompt (see package prompt)
//  3. Send exactly one request to the backend
//  4. Locate the first balanced JSON object in the reply (LocatePayload)
//  5. Decode it into a generic map
//  6. Validate the map against the schema (Validate)
//  7. Translate into Task, Habit, CalendarEvent and SleepSchedule records
//
// Replies are untrusted input. No field is read before step 6 succeeds, and
// identifiers or timestamps sent by the model are never used.
//
// # Backends
//
//   - anthropic: Messages API over net/http
//   - openai: Chat Completions API over net/http, JSON mode
//   - groq: OpenAI-compatible endpoint via langchaingo
//
// # Errors
//
// Wire-level failures are normalized to a closed set of kinds (see Kind):
// configuration, authentication, rate_limit, service, parse, validation and
// unknown. Adapters never retry.
//
// # Usage
//
//	reg := extraction.DefaultRegistry(nil)
//	a, err := reg.Lookup(extraction.BackendAnthropic)
//	if err != nil {
//	    return err
//	}
//	res, err := a.ProcessText(ctx, text, apiKey, "", extraction.Options{})
package extraction
