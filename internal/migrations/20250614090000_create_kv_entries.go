package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upCreateKvEntries, downCreateKvEntries)
}

func upCreateKvEntries(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE kv_entries (
		key TEXT PRIMARY KEY,
		value BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`)
	if err != nil {
		return err
	}
	return nil
}

func downCreateKvEntries(tx *sql.Tx) error {
	_, err := tx.Exec(`
	DROP TABLE kv_entries;
	`)
	if err != nil {
		return err
	}
	return nil
}
