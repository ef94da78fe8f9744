// Package ghapi is a minimal GitHub REST client for the operations the CI
// tools need: pull-request metadata and file listings, issue comments,
// tags, commit comparisons, and draft releases.
//
// Every request carries a fixed timeout and the standard API version
// header. Failures surface as typed errors: AuthError for 401/403,
// APIError for any other non-2xx status. Paginated listings are walked with
// an explicit Pager whose exhaustion condition is an empty page.
package ghapi
