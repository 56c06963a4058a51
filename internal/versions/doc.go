// Package versions resolves "latest" version sentinels against a package
// registry.
//
// A Registry answers one lookup at a time. NPM is the npm registry client,
// Cache memoizes any Registry in SQLite for a configurable time, and Pinner
// resolves every requested name concurrently under a single deadline,
// returning either all pins or the first failure.
package versions
