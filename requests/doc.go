// Package requests defines the model catalog and payload construction
// for WaveSpeed generation endpoints.
//
// Each model implements the Contract interface: an endpoint path, a
// field map, the canonical field order, required field names, and
// range validation. BuildPayload turns a contract into the wire body,
// dropping empty values (null, empty string, empty array, empty
// object) so the service applies its own defaults. Zero numbers and
// false are real values and are kept.
//
// Contracts are constructed fresh per call and never reused across
// submissions.
package requests
