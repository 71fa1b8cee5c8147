// Package input builds the per-request input snapshot handed to controllers.
//
// [Filter] merges query parameters, form fields and cookies into one
// [Values] tree, later sources overriding earlier ones. Bracketed keys such
// as "user[address][city]" nest up to three levels. Keys lose ".." and
// "__name__" fragments and values are HTML-escaped. Two synthetic entries
// are added: IP_ADDRESS with the client address and REQUEST_METHOD with
// the lowercase HTTP method.
//
// The snapshot is taken once per request and must not be modified.
//
// For content that will be shown to other users [CleanerValue] strips all
// markup, and [SafeHTML] keeps a small set of formatting tags.
package input
