// Package services defines shared utilities consumed by the publish
// orchestrator and the external integrations under it.
//
// Key responsibilities:
//   - Context helpers that stamp catalog entry IDs, step names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so parse, validation and
//     transport failures stay distinguishable after wrapping.
//
// Sub-packages hold the integrations themselves: the remote catalog client and
// the credential store.
package services
