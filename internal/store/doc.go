// Package store provides the file-backed deployment collection store.
//
// FileStore serves concurrent cached reads for the data server and performs
// the calculator's whole-document rewrite atomically: the new document is
// written to a temp file in the same directory and renamed over the original,
// so a crash mid-write never leaves a truncated file behind.
package store
