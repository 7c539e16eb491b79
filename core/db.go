package core

import (
	"github.com/jmoiron/sqlx"
)

// Storage modes reported by the API.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type (
	// DBExecutor is satisfied by both *sqlx.DB and *sqlx.Tx.
	DBExecutor interface {
		sqlx.ExtContext
	}

	DB interface {
		DBExecutor

		Beginx() (*sqlx.Tx, error)
		Close() error
	}
)
