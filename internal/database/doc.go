// Package database stores the photo catalog in an embedded SQLite file.
//
// A [Database] owns exactly one connection. Every operation, reads included,
// takes the same mutex before touching it, so operations never interleave
// and observe a total order equal to lock acquisition order.
//
// [New] bootstraps the store: it creates the file if needed and applies the
// schema (embedded schema.sql or an external file) inside one transaction
// when the photo table is missing. Bootstrap failures are [KindBootstrap]
// errors and are meant to be fatal for the hosting process.
//
// Batch mutations ([Database.InsertPhotos], [Database.RemovePhotos],
// [Database.MovePhotos], [Database.UpdateMetadata]) run inside one
// transaction per call with a single prepared statement: either every element
// is applied or none is.
//
// Errors are [*Error] values carrying a [Kind]; a duplicate uid on insert is
// [KindConflict] and matches [ErrDuplicateUID].
package database
