// Package summarizer turns a canonical request into a clinical summary by
// calling a generation backend with the fixed prompt and response schema.
//
// Calls that fail because the model service is overloaded are retried at a
// fixed interval; every other failure is returned at once. Both the direct
// client in this package and the relay client implement Summarizer, so the
// caller does not care which topology it is talking to.
package summarizer
