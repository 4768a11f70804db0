// Package storage provides JSON-based persistence for run history.
//
// Each automation run appends a record pairing the extracted event with the
// driver's report, so a host can see what was drafted, when, and which
// fields needed manual completion. History lives in history.json under the
// data directory; the default location is ~/.local/share/invitegen/.
package storage
