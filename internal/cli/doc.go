// Package cli implements the command-line interface for invitegen.
//
// The cli package provides the Cobra-based CLI: the root command runs the
// full text-to-draft pipeline (extract, plan, fill, report), and
// subcommands expose the pieces on their own: extraction only, selector
// audits against the live creation page, and run history. Output is
// available as text or JSON.
package cli
