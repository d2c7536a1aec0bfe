// Package dispatch executes synthesized requests against the system under
// test and coerces the responses to text.
//
// The Dispatcher wraps an api.Executor. Three executors are provided:
// HTTPExecutor talks to a running instance, ReplayExecutor serves canned
// responses from a fixtures directory, and ExecutorFunc adapts an in-process
// function.
//
// The active language and the archiving flag travel with the request context
// (WithLanguage, WithArchivingDisabled) instead of process-wide state.
package dispatch
