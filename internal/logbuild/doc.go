// Package logbuild renders build log content and owns the directory the log
// files live in. Render is a pure formatting boundary with no side effects;
// Writer performs the file I/O, writing atomically so readers never observe
// a partially written log.
package logbuild
