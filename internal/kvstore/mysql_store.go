package kvstore

import (
	"database/sql"

	"github.com/allisson/queryowl/internal/database"
)

var mySQLDialect = dialect{
	selectQuery: `SELECT value FROM kv_documents WHERE namespace = ? AND doc_key = ?`,
	upsertQuery: `INSERT INTO kv_documents (namespace, doc_key, value, updated_at)
			  VALUES (?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = VALUES(updated_at)`,
}

// NewMySQLStore creates a store kept in the MySQL kv_documents table.
// Values are stored in a JSON column.
func NewMySQLStore(db *sql.DB, txManager database.TxManager, namespace string) *SQLStore {
	return newSQLStore(db, txManager, namespace, mySQLDialect)
}
