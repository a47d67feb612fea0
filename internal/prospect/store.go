package prospect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Recorder receives store events, e.g. for metrics. Implementations must
// be safe for concurrent use.
type Recorder interface {
	ObserveMutation(op string, err error)
	ObserveActivity(action string)
}

type noopRecorder struct{}

func (noopRecorder) ObserveMutation(string, error) {}
func (noopRecorder) ObserveActivity(string)        {}

// Store owns prospects and their activity log. Every write that touches
// both tables runs in a single transaction.
type Store struct {
	db       *sql.DB
	now      func() time.Time
	recorder Recorder
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps and contact dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRecorder attaches a Recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Store) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewStore creates a prospect store on an already migrated database.
func NewStore(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:       db,
		now:      func() time.Time { return time.Now().UTC() },
		recorder: noopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const selectColumns = `id, business_name, business_type, location, phone, email, current_web_presence,
	listing_url, years_in_business, status, notes, last_contacted, next_followup, created_at, updated_at`

const insertSQL = `INSERT INTO prospects
	(business_name, business_type, location, phone, email, current_web_presence, listing_url,
	 years_in_business, status, notes, last_contacted, next_followup, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const updateSQL = `UPDATE prospects SET
	business_name = ?, business_type = ?, location = ?, phone = ?, email = ?,
	current_web_presence = ?, listing_url = ?, years_in_business = ?, status = ?,
	notes = ?, last_contacted = ?, next_followup = ?, updated_at = ?
	WHERE id = ?`

// sortColumns are the columns List may order by.
var sortColumns = map[string]bool{
	"business_name":  true,
	"last_contacted": true,
	"next_followup":  true,
	"created_at":     true,
	"updated_at":     true,
}

// ListOptions controls filtering and ordering for List.
// Empty filter fields match everything.
type ListOptions struct {
	Status       Status
	BusinessType string
	Location     string
	SortBy       string // default created_at
	SortOrder    string // asc or desc, default desc
}

// orderClause returns the ORDER BY clause for the options, or "" when the
// column or direction is not recognized.
func (o ListOptions) orderClause() string {
	sortBy := o.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	order := o.SortOrder
	if order == "" {
		order = "desc"
	}

	if !sortColumns[sortBy] || (order != "asc" && order != "desc") {
		return ""
	}

	// "col IS NULL" sorts rows with a value first in either direction.
	return fmt.Sprintf(" ORDER BY %s IS NULL, %s %s, id ASC", sortBy, sortBy, strings.ToUpper(order))
}

// List returns all prospects matching every supplied filter.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]*Prospect, error) {
	query := fmt.Sprintf("SELECT %s FROM prospects", selectColumns)
	var args []interface{}
	var conditions []string

	if opts.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(opts.Status))
	}
	if opts.BusinessType != "" {
		conditions = append(conditions, "business_type = ?")
		args = append(args, opts.BusinessType)
	}
	if opts.Location != "" {
		conditions = append(conditions, "location = ?")
		args = append(args, opts.Location)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += opts.orderClause()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing prospects: %w", err)
	}
	defer closeRows(rows)

	prospects := make([]*Prospect, 0)
	for rows.Next() {
		p, err := scanProspect(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning prospect: %w", err)
		}
		prospects = append(prospects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating prospects: %w", err)
	}

	return prospects, nil
}

// Get returns a prospect by its ID, or an error matching ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (*Prospect, error) {
	return getProspect(ctx, s.db, id)
}

// Create validates and stores a new prospect and logs its creation.
func (s *Store) Create(ctx context.Context, in NewProspect) (*Prospect, error) {
	in = in.normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var created *Prospect
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		now := s.now()
		id, err := insertProspect(ctx, tx, in, now)
		if err != nil {
			return err
		}
		if err := appendActivity(ctx, tx, id, ActionCreated, "Prospect created", now); err != nil {
			return err
		}
		created, err = getProspect(ctx, tx, id)
		return err
	})
	s.recorder.ObserveMutation("create", err)
	if err != nil {
		return nil, wrapStorage("creating prospect", err)
	}

	s.recorder.ObserveActivity(ActionCreated)
	return created, nil
}

// Update merges patch onto the stored prospect. An empty patch returns the
// record untouched. A status change is logged in the same transaction.
func (s *Store) Update(ctx context.Context, id int64, patch Patch) (*Prospect, error) {
	if err := patch.validate(); err != nil {
		return nil, err
	}

	var updated *Prospect
	var statusChanged bool
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		cur, err := getProspect(ctx, tx, id)
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			updated = cur
			return nil
		}

		next := patch.apply(*cur)
		next.UpdatedAt = s.now()
		if _, err := tx.ExecContext(ctx, updateSQL,
			next.BusinessName, next.BusinessType, next.Location, next.Phone, next.Email,
			next.CurrentWebPresence, next.ListingURL, next.YearsInBusiness, string(next.Status),
			next.Notes, next.LastContacted, next.NextFollowup, next.UpdatedAt, id,
		); err != nil {
			return fmt.Errorf("updating prospect %d: %w", id, err)
		}

		if next.Status != cur.Status {
			details := fmt.Sprintf("Status changed from %q to %q", cur.Status.Label(), next.Status.Label())
			if err := appendActivity(ctx, tx, id, ActionStatusChanged, details, next.UpdatedAt); err != nil {
				return err
			}
			statusChanged = true
		}

		updated, err = getProspect(ctx, tx, id)
		return err
	})
	s.recorder.ObserveMutation("update", err)
	if err != nil {
		return nil, wrapStorage("updating prospect", err)
	}

	if statusChanged {
		s.recorder.ObserveActivity(ActionStatusChanged)
	}
	return updated, nil
}

// Delete removes a prospect; its activity log cascades. It reports whether
// a row was removed.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	var removed bool
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM prospects WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("deleting prospect: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking rows affected: %w", err)
		}
		removed = rows > 0
		return nil
	})
	s.recorder.ObserveMutation("delete", err)
	if err != nil {
		return false, err
	}
	return removed, nil
}

// LogContact records a contact made today, sets the next follow-up date
// (nil or "" clears it) and logs note verbatim. An unknown id is reported
// before any problem with the arguments.
func (s *Store) LogContact(ctx context.Context, id int64, note string, nextFollowup *string) (*Prospect, error) {
	if _, err := getProspect(ctx, s.db, id); err != nil {
		return nil, err
	}
	if strings.TrimSpace(note) == "" {
		return nil, &ValidationError{Field: "note", Message: "is required"}
	}
	if nextFollowup != nil && *nextFollowup == "" {
		nextFollowup = nil
	}
	if nextFollowup != nil && !validDate(*nextFollowup) {
		return nil, &ValidationError{Field: "next_followup", Message: "must be a date (YYYY-MM-DD)"}
	}

	var updated *Prospect
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		now := s.now()
		today := now.UTC().Format(dateLayout)

		result, err := tx.ExecContext(ctx,
			"UPDATE prospects SET last_contacted = ?, next_followup = ?, updated_at = ? WHERE id = ?",
			today, nextFollowup, now, id,
		)
		if err != nil {
			return fmt.Errorf("updating contact dates: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking rows affected: %w", err)
		}
		if rows == 0 {
			return notFound(id)
		}

		if err := appendActivity(ctx, tx, id, ActionContactLogged, note, now); err != nil {
			return err
		}

		updated, err = getProspect(ctx, tx, id)
		return err
	})
	s.recorder.ObserveMutation("log_contact", err)
	if err != nil {
		return nil, wrapStorage("logging contact", err)
	}

	s.recorder.ObserveActivity(ActionContactLogged)
	return updated, nil
}

// Stats counts prospects by pipeline stage.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN status = 'not_contacted' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status IN ('email_sent', 'called', 'meeting_scheduled', 'proposal_sent') THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = 'won' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status IN ('lost', 'not_interested') THEN 1 ELSE 0 END), 0)
		FROM prospects`,
	).Scan(&st.Total, &st.NotContacted, &st.InProgress, &st.Won, &st.Lost)
	if err != nil {
		return nil, fmt.Errorf("computing stats: %w", err)
	}
	return &st, nil
}

// FilterOptions returns the distinct business types, locations and statuses
// in use, each sorted ascending.
func (s *Store) FilterOptions(ctx context.Context) (*FilterOptions, error) {
	businessTypes, err := s.distinct(ctx, "business_type")
	if err != nil {
		return nil, err
	}
	locations, err := s.distinct(ctx, "location")
	if err != nil {
		return nil, err
	}
	statuses, err := s.distinct(ctx, "status")
	if err != nil {
		return nil, err
	}
	return &FilterOptions{
		BusinessTypes: businessTypes,
		Locations:     locations,
		Statuses:      statuses,
	}, nil
}

// distinct returns the sorted distinct values of a fixed prospects column.
func (s *Store) distinct(ctx context.Context, column string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT DISTINCT %s FROM prospects ORDER BY %s", column, column))
	if err != nil {
		return nil, fmt.Errorf("listing distinct %s: %w", column, err)
	}
	defer closeRows(rows)

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", column, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", column, err)
	}
	return values, nil
}

// Import inserts a batch of prospects in one transaction, each with a
// "created" activity entry carrying details. Every item is validated before
// anything is written; any failure leaves the database unchanged.
func (s *Store) Import(ctx context.Context, items []NewProspect, details string) (int, error) {
	if details == "" {
		details = "Prospect imported from seed data"
	}

	normalized := make([]NewProspect, len(items))
	for i, item := range items {
		item = item.normalize()
		if err := item.Validate(); err != nil {
			return 0, fmt.Errorf("item %d: %w", i+1, err)
		}
		normalized[i] = item
	}

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		now := s.now()
		for i, item := range normalized {
			id, err := insertProspect(ctx, tx, item, now)
			if err != nil {
				return fmt.Errorf("item %d: %w", i+1, err)
			}
			if err := appendActivity(ctx, tx, id, ActionCreated, details, now); err != nil {
				return fmt.Errorf("item %d: %w", i+1, err)
			}
		}
		return nil
	})
	s.recorder.ObserveMutation("import", err)
	if err != nil {
		return 0, fmt.Errorf("importing prospects: %w", err)
	}

	for range normalized {
		s.recorder.ObserveActivity(ActionCreated)
	}
	return len(normalized), nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func getProspect(ctx context.Context, q queryRower, id int64) (*Prospect, error) {
	query := fmt.Sprintf("SELECT %s FROM prospects WHERE id = ?", selectColumns)
	p, err := scanProspect(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying prospect %d: %w", id, err)
	}
	return p, nil
}

func insertProspect(ctx context.Context, tx *sql.Tx, in NewProspect, now time.Time) (int64, error) {
	result, err := tx.ExecContext(ctx, insertSQL,
		in.BusinessName, in.BusinessType, in.Location, in.Phone, in.Email,
		in.CurrentWebPresence, in.ListingURL, in.YearsInBusiness, string(in.Status),
		in.Notes, in.LastContacted, in.NextFollowup, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting prospect: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting insert id: %w", err)
	}
	return id, nil
}

// wrapStorage adds context to storage failures and passes not-found and
// validation errors through untouched.
func wrapStorage(op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Warn("closing rows", "error", err)
	}
}
