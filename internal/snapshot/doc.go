// Package snapshot stores produced responses and compares them with their
// baselines.
//
// A Store owns two directories under its root: processed/ receives every
// produced response, expected/ holds the baselines. Artifacts are named
// "<testName><suffix>__<requestId>". A missing or empty baseline is
// bootstrapped from the produced output and reported once at the end of the
// run instead of failing the request.
package snapshot
