// Package autosave provides debounced background saving for HTML forms.
//
// The browser side is a small script, served by this package, that watches
// forms carrying a marker attribute: every input or change event restarts an
// inactivity timer, and when the quiet period elapses the form's current
// values are POSTed to the endpoint the form declares, with a header that
// lets the server tell the background save apart from a real submission.
// Network failures are swallowed; there is no retry and no user feedback.
//
// Trigger offers the same debounce contract to Go callers.
package autosave
