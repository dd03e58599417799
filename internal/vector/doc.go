// Package vector provides the semantic index used to retrieve the
// passages of a source page most related to a target topic. Texts are
// chunked, embedded, and stored in SQLite; similarity search runs
// in-process over the stored vectors.
package vector
