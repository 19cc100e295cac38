// Package contact serves the contact form over net/http: an HTML page that
// works without JavaScript, a JSON submission API, a blur-validation endpoint
// for the page script and the OpenAPI contract describing the API.
//
// Handlers are stateless. Each request replays the submission workflow on a
// fresh form session whose simulated network delay is a real timer bound to
// the request context, so abandoned requests stop waiting.
package contact
