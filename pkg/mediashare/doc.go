// Package mediashare orchestrates media uploads against a remote
// transformation provider and derives presentation variants from the
// identifiers the provider issues.
//
// It exposes a single Service interface covering the two upload paths
// (image and video), video metadata retrieval, and variant URL derivation.
// The provider is an opaque HTTP capability: this package never inspects or
// re-encodes media bytes itself. Implementations of providers (Cloudinary
// HTTP API, in-process fake), metadata repositories (memory, Postgres) and
// originals archives (memory, filesystem, S3) live under subpackages.
//
// Ordering guarantee
//
// Per upload, the provider round trip and the metadata write are strictly
// sequenced: the record is written only after the provider acknowledges the
// upload, so a provider failure can never leave a record referencing an
// identifier that was never issued. No cross-request ordering or
// deduplication is provided; identical bytes uploaded twice yield two
// independent identifiers and two independent records.
package mediashare
