// Package rustindexed provides full-text search over technical documentation.
// It normalizes markdown books and rendered HTML sites into indexable prose and
// code blocks, stores them in a page index and a code index, and ranks results
// with a tiered exact-phrase, conjunctive and fuzzy strategy.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, goldmark/).
package rustindexed
