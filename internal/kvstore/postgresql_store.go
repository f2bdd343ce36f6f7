package kvstore

import (
	"database/sql"

	"github.com/allisson/queryowl/internal/database"
)

var postgreSQLDialect = dialect{
	selectQuery: `SELECT value FROM kv_documents WHERE namespace = $1 AND doc_key = $2`,
	upsertQuery: `INSERT INTO kv_documents (namespace, doc_key, value, updated_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (namespace, doc_key)
			  DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
}

// NewPostgreSQLStore creates a store kept in the PostgreSQL kv_documents table.
// Values are stored as JSONB.
func NewPostgreSQLStore(db *sql.DB, txManager database.TxManager, namespace string) *SQLStore {
	return newSQLStore(db, txManager, namespace, postgreSQLDialect)
}
