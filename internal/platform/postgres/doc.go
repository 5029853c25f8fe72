// Package postgres implements the store interfaces on PostgreSQL through the
// pgx database/sql driver. It owns the SQL schema, shipped as embedded goose
// migrations, and maps driver errors onto the store error set.
package postgres
