// Package postgres provides the PostgreSQL implementation of the data
// storage interfaces defined in the internal/store package. It handles
// query execution, mapping between domain entities and database records,
// and translation of driver errors into the store's sentinel errors.
package postgres
