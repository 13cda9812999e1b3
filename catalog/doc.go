// Package catalog defines the gem record, the Service contract shared by the
// storage backends, and the JSON data file used by the in-memory backend.
//
// Two backends implement Service: catalog/memory keeps the whole record set in
// process and filters it with query.FilterSpec.Matches, while catalog/sqlstore
// pushes filtering, counting and windowing down to a SQL database. Given the
// same records and inputs they return the same pages.
//
// Errors follow the go-errors taxonomy: ErrNotFound (not_found) for missing
// gems, bad_input for malformed identifiers, validation for rejected requests,
// retryable external errors for backend failures and operation errors for data
// file problems.
package catalog
