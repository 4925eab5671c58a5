package db

import (
	"database/sql"
)

// Database abstracts the backing store lifecycle so wiring code does not
// care which driver is underneath.
type Database interface {
	Connect() error
	Close() error
	DB() *sql.DB
}
