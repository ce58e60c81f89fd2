package sqlite

import (
	"database/sql"

	"plotnav/internal/domain"
	"plotnav/internal/ports"
)

// catalogTx implements ports.CatalogTx
type catalogTx struct {
	tx *sql.Tx
}

// Ensure catalogTx implements CatalogTx
var _ ports.CatalogTx = (*catalogTx)(nil)

// InsertPlot registers a plot; an already registered (format, filename)
// pair is left untouched and reported as not added
func (t *catalogTx) InsertPlot(plot *domain.Plot) (bool, error) {
	res, err := t.tx.Exec(`
		INSERT OR IGNORE INTO features_analysis_plots (format_id, filename, title, created_at)
		VALUES (?, ?, ?, ?)
	`, plot.Format, plot.Filename, plot.Title, plot.CreatedAt)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	if id, err := res.LastInsertId(); err == nil {
		plot.ID = id
	}
	return true, nil
}

// DeletePlot removes a plot by format and file name
func (t *catalogTx) DeletePlot(format, filename string) error {
	_, err := t.tx.Exec(`
		DELETE FROM features_analysis_plots WHERE format_id = ? AND filename = ?
	`, format, filename)
	return err
}

// SetMeta records a catalog metadata value
func (t *catalogTx) SetMeta(key, value string) error {
	_, err := t.tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value)
	return err
}

// Commit commits the transaction
func (t *catalogTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *catalogTx) Rollback() error {
	return t.tx.Rollback()
}
