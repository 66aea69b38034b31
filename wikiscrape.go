// Package wikiscrape fetches Wikipedia page summaries, stores them in an
// append-only, deduplicated record collection, and exports cleaned and
// truncated summaries as CSV.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, sqlite/, csv/).
package wikiscrape
