package db

import (
	"database/sql"
	"errors"
)

// IsNoRows checks if the error is sql.ErrNoRows.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// AutoIncrementPrimaryKey returns the id column definition for the driver.
func AutoIncrementPrimaryKey(driver string) string {
	if driver == DriverMySQL {
		return "BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}
