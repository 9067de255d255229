package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
	"ledger/internal/store"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores the ledger in a SQLite table. The position column
// carries record identity: positions are 0-based and contiguous.
type SQLiteRepository struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection keeps read-modify-write sequences on the same handle.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const (
	selectRecords = `SELECT date, category, amount, description FROM records ORDER BY position`
	insertRecord  = `INSERT INTO records (position, date, category, amount, description) VALUES (?, ?, ?, ?, ?)`
	updateRecord  = `UPDATE records SET date = ?, category = ?, amount = ?, description = ?, updated_at = CURRENT_TIMESTAMP WHERE position = ?`
)

// Load implements store.Loader
func (r *SQLiteRepository) Load(ctx context.Context) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx, selectRecords)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := []core.Record{}
	for rows.Next() {
		var (
			rec    core.Record
			cat    string
			amount string
		)
		if err := rows.Scan(&rec.Date, &cat, &amount, &rec.Description); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("%w: amount %q at row %d", store.ErrMalformed, amount, len(records))
		}
		rec.Category = core.Category(cat)
		rec.Amount = core.AmountFromDecimal(d)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// Save implements store.Saver. All rows are replaced inside one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, records []core.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	for i, rec := range records {
		if err := insert(ctx, tx, i, rec); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.DebugContext(ctx, "Ledger saved to SQLite", "records", len(records))
	return nil
}

// Append implements store.Appender
func (r *SQLiteRepository) Append(ctx context.Context, rec core.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return fmt.Errorf("count records: %w", err)
	}
	if err := insert(ctx, tx, n, rec); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.DebugContext(ctx, "Record saved to SQLite",
		"position", n,
		"date", rec.Date,
		"category", rec.Category,
		"amount", rec.Amount.String())
	return nil
}

// Update implements store.Updater
func (r *SQLiteRepository) Update(ctx context.Context, index int, rec core.Record) (bool, error) {
	if index < 0 {
		return false, nil
	}
	res, err := r.db.ExecContext(ctx, updateRecord,
		rec.Date, string(rec.Category), rec.Amount.String(), rec.Description, index)
	if err != nil {
		return false, fmt.Errorf("update record %d: %w", index, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update record %d: %w", index, err)
	}
	return n == 1, nil
}

// Search implements store.Searcher. Matching happens in Go so that amount
// comparison follows the same numeric rules as every other backend.
func (r *SQLiteRepository) Search(ctx context.Context, c core.Criteria) ([]core.Record, error) {
	records, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	return core.Filter(records, c), nil
}

func insert(ctx context.Context, tx *sql.Tx, position int, rec core.Record) error {
	_, err := tx.ExecContext(ctx, insertRecord,
		position, rec.Date, string(rec.Category), rec.Amount.String(), rec.Description)
	if err != nil {
		return fmt.Errorf("insert record %d: %w", position, err)
	}
	return nil
}
