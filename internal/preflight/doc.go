// Package preflight provides readiness checks for the paths, credentials
// and catalog endpoint that vidpub depends on.
//
// The CLI "vidpub check" command runs RunAll next to the external binary
// checks in internal/deps. Checks that need the network are skipped when
// no catalog probe is supplied.
package preflight
