package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	log "github.com/go-pkgz/lgr"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/umputun/jobtrack/app/store/enums"
)

// ErrNotFound is returned when the requested application doesn't exist
var ErrNotFound = errors.New("application not found")

const columns = "id, company, role_title, city, work_mode, status, date_applied, last_follow_up, " +
	"next_action_date, job_link, contact_name, contact_email, notes"

func init() {
	// modernc registers itself as "sqlite", unknown to sqlx bind type detection
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// SQLiteStore implements application persistence using SQLite
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath, switches it to WAL mode and initializes schema
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to set WAL mode: %w (also failed to close db: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	s := NewStore(db)
	if err := s.initialize(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("%w (also failed to close db: %v)", err, closeErr)
		}
		return nil, err
	}
	log.Printf("[DEBUG] sqlite store ready at %s", dbPath)
	return s, nil
}

// NewStore wraps an already opened database, schema is not touched
func NewStore(db *sqlx.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// initialize creates the database schema
func (s *SQLiteStore) initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS applications (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			company TEXT NOT NULL,
			role_title TEXT NOT NULL,
			city TEXT,
			work_mode TEXT NOT NULL DEFAULT 'Hybrid',
			status TEXT NOT NULL DEFAULT 'Applied',
			date_applied TEXT,
			last_follow_up TEXT,
			next_action_date TEXT,
			job_link TEXT,
			contact_name TEXT,
			contact_email TEXT,
			notes TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_status ON applications(status)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_city ON applications(city)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_next_action ON applications(next_action_date)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// List returns applications matching the filter, newest first.
// Query matching relies on LIKE, case-insensitive for ASCII only.
func (s *SQLiteStore) List(ctx context.Context, f Filter) ([]Application, error) {
	var where []string
	var args []any

	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.City != "" {
		where = append(where, "city = ?")
		args = append(args, f.City)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + escapeLike(q) + "%"
		where = append(where, `(company LIKE ? ESCAPE '\' OR role_title LIKE ? ESCAPE '\' OR city LIKE ? ESCAPE '\')`)
		args = append(args, like, like, like)
	}

	query := "SELECT " + columns + " FROM applications"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"

	res := []Application{}
	if err := s.db.SelectContext(ctx, &res, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return res, nil
}

// Get returns application by id
func (s *SQLiteStore) Get(ctx context.Context, id int64) (Application, error) {
	var app Application
	err := s.db.GetContext(ctx, &app, "SELECT "+columns+" FROM applications WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return Application{}, ErrNotFound
	}
	if err != nil {
		return Application{}, fmt.Errorf("failed to get application %d: %w", id, err)
	}
	return app, nil
}

// Create inserts a new application and returns it with the assigned id. The id of app is ignored.
func (s *SQLiteStore) Create(ctx context.Context, app Application) (Application, error) {
	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO applications
		(company, role_title, city, work_mode, status, date_applied, last_follow_up,
		next_action_date, job_link, contact_name, contact_email, notes)
		VALUES (:company, :role_title, :city, :work_mode, :status, :date_applied, :last_follow_up,
		:next_action_date, :job_link, :contact_name, :contact_email, :notes)`, app)
	if err != nil {
		return Application{}, fmt.Errorf("failed to insert application: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Application{}, fmt.Errorf("failed to get inserted id: %w", err)
	}
	app.ID = id
	return app, nil
}

// Update reads the application, passes it to fn for modification and writes it back,
// all in a single transaction. Nothing is written if fn returns an error.
func (s *SQLiteStore) Update(ctx context.Context, id int64, fn func(app *Application) error) (Application, error) {
	var res Application
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var app Application
		err := tx.GetContext(ctx, &app, "SELECT "+columns+" FROM applications WHERE id = ?", id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get application %d: %w", id, err)
		}

		if err := fn(&app); err != nil {
			return err
		}
		app.ID = id // identifier is immutable

		_, err = tx.NamedExecContext(ctx, `
			UPDATE applications SET
			company = :company, role_title = :role_title, city = :city, work_mode = :work_mode,
			status = :status, date_applied = :date_applied, last_follow_up = :last_follow_up,
			next_action_date = :next_action_date, job_link = :job_link, contact_name = :contact_name,
			contact_email = :contact_email, notes = :notes
			WHERE id = :id`, app)
		if err != nil {
			return fmt.Errorf("failed to update application %d: %w", id, err)
		}
		res = app
		return nil
	})
	if err != nil {
		return Application{}, err
	}
	return res, nil
}

// Delete removes application by id
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM applications WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete application %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Due returns open applications (not Offer or Rejected) with next action date on or before day,
// ordered by next action date
func (s *SQLiteStore) Due(ctx context.Context, day Date) ([]Application, error) {
	var closed []enums.Status
	for _, st := range enums.StatusValues {
		if st.Closed() {
			closed = append(closed, st)
		}
	}
	query, args, err := sqlx.In("SELECT "+columns+` FROM applications
		WHERE next_action_date IS NOT NULL AND next_action_date <= ? AND status NOT IN (?)
		ORDER BY next_action_date, id`, day, closed)
	if err != nil {
		return nil, fmt.Errorf("failed to make due query: %w", err)
	}

	res := []Application{}
	if err := s.db.SelectContext(ctx, &res, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list due applications: %w", err)
	}
	return res, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// withTx runs fn in a transaction, commits on success and rolls back on error or panic
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("[WARN] failed to rollback transaction: %v", rbErr)
			}
			return
		}
		if err = tx.Commit(); err != nil {
			err = fmt.Errorf("failed to commit transaction: %w", err)
		}
	}()

	return fn(tx)
}

// escapeLike escapes LIKE wildcards so the query matches literally, '\' is the escape char
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
