// Package rules defines the review rule model and the immutable rule
// catalog.
//
// A Rule pairs a category and severity with a detection predicate. Predicates
// are declarative data (a kind plus parameters), not executable code, so rule
// packs stay serializable and can be validated fully at load time. Two kinds
// are built in: pattern (substring or regexp, line-scoped) and structural (a
// trigger pattern whose companion marker must appear within a line window).
//
// Catalogs are constructed once from rule definitions and never mutated;
// reloading rules means building a new catalog. Construction fails outright
// on malformed definitions, duplicate IDs, or policy violations such as a
// style rule claiming block severity; no partial catalog is ever produced.
package rules
