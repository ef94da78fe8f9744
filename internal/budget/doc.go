// Package budget bounds how much diff content is forwarded downstream.
//
// Both rendering modes are deterministic for a fixed file sequence and fixed
// limits, preserve the original file order, and account for every file as
// exactly one of: fully included, excerpt-included with an inline truncation
// marker, or counted in an explicit omitted-files note. Files are never
// silently dropped.
package budget
