// Package domain contains the core business entities of the build library:
// the Build catalog entry, the BuildRef identifier parsed at the API
// boundary, and the TaskStatus lifecycle of background log generation.
// It is independent of any specific infrastructure or delivery mechanism.
package domain
