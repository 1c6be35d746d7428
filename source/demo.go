package source

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/ONSdigital/ssdc-rm-form-response-adapter/logger"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/models"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"google.golang.org/api/forms/v1"
	_ "modernc.org/sqlite"
)

const demoSchema = `
CREATE TABLE IF NOT EXISTS demo_forms (
	form_id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	responder_uri TEXT NOT NULL,
	items TEXT NOT NULL DEFAULT '[]',
	created_time TEXT NOT NULL,
	modified_time TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS demo_meta (
	key TEXT PRIMARY KEY
);
`

const (
	insertFormSQL = `INSERT INTO demo_forms (form_id, title, description, responder_uri, items, created_time, modified_time) VALUES (?, ?, ?, ?, ?, ?, ?)`
	seedFormSQL   = `INSERT OR IGNORE INTO demo_forms (form_id, title, description, responder_uri, items, created_time, modified_time) VALUES (?, ?, ?, ?, ?, ?, ?)`
	seededKey     = "seeded"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Demo stands in for the Forms API. Forms live in a SQLite file, responses are canned.
type Demo struct {
	db      *sql.DB
	Now     func() time.Time
	Latency time.Duration
}

var _ FormSource = (*Demo)(nil)

func NewDemo(path string) (*Demo, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrap(err, "error creating demo store directory")
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening demo store")
	}
	// A single connection keeps :memory: databases shared across calls
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(demoSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "error creating demo store schema")
	}
	return &Demo{db: db, Now: time.Now}, nil
}

func (d *Demo) Close() error {
	return d.db.Close()
}

// simulateLatency mimics a network round trip.
func (d *Demo) simulateLatency(ctx context.Context) error {
	if d.Latency <= 0 {
		return nil
	}
	timer := time.NewTimer(d.Latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ListForms seeds the demo intake form the first time a store is listed.
func (d *Demo) ListForms(ctx context.Context) ([]models.FormSummary, error) {
	if err := d.simulateLatency(ctx); err != nil {
		return nil, err
	}
	if err := d.seed(ctx); err != nil {
		return nil, err
	}

	rows, err := d.db.QueryContext(ctx,
		`SELECT form_id, title, description, responder_uri, created_time, modified_time FROM demo_forms ORDER BY created_time, form_id`)
	if err != nil {
		return nil, errors.Wrap(err, "error listing demo forms")
	}
	defer rows.Close()

	summaries := []models.FormSummary{}
	for rows.Next() {
		var s models.FormSummary
		var created, modified string
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.PublishedURL, &created, &modified); err != nil {
			return nil, errors.Wrap(err, "error reading demo form")
		}
		s.EditURL = EditURL(s.ID)
		s.CreatedTime, _ = time.Parse(time.RFC3339Nano, created)
		s.ModifiedTime, _ = time.Parse(time.RFC3339Nano, modified)
		summaries = append(summaries, s)
	}
	return summaries, errors.Wrap(rows.Err(), "error listing demo forms")
}

// seed runs once per store, a deleted demo form stays deleted.
func (d *Demo) seed(ctx context.Context) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "error starting demo seed")
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO demo_meta (key) VALUES (?)`, seededKey)
	if err != nil {
		return errors.Wrap(err, "error marking demo store seeded")
	}
	marked, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "error marking demo store seeded")
	}
	if marked == 0 {
		return nil
	}

	logger.Logger.Infow("Seeding demo form", "formId", demoFormID)
	if err := d.insert(ctx, tx, seedFormSQL, demoFormID, demoFormTitle, demoFormDescription, nil); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "error committing demo seed")
}

func (d *Demo) insert(ctx context.Context, db execer, statement, formID, title, description string, items []*forms.Item) error {
	encodedItems, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "error encoding form items")
	}
	now := d.Now().UTC().Format(time.RFC3339Nano)
	_, err = db.ExecContext(ctx, statement,
		formID, title, description, PublishedURL(formID), string(encodedItems), now, now)
	return errors.Wrapf(err, "error storing demo form %s", formID)
}

// GetForm falls back to the intake questions for forms stored without items.
func (d *Demo) GetForm(ctx context.Context, formID string) (*forms.Form, error) {
	if err := d.simulateLatency(ctx); err != nil {
		return nil, err
	}
	form := &forms.Form{FormId: formID, Info: &forms.Info{}}
	var encodedItems string
	err := d.db.QueryRowContext(ctx,
		`SELECT title, description, responder_uri, items FROM demo_forms WHERE form_id = ?`, formID).
		Scan(&form.Info.Title, &form.Info.Description, &form.ResponderUri, &encodedItems)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(ErrFormNotFound, "form %s", formID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error reading demo form %s", formID)
	}
	form.Info.DocumentTitle = form.Info.Title

	if err := json.Unmarshal([]byte(encodedItems), &form.Items); err != nil {
		return nil, errors.Wrapf(err, "error decoding items of demo form %s", formID)
	}
	if len(form.Items) == 0 {
		form.Items = BuildItems(IntakeForm)
	}
	return form, nil
}

func (d *Demo) ListResponses(ctx context.Context, formID string) ([]*forms.FormResponse, error) {
	if _, err := d.GetForm(ctx, formID); err != nil {
		return nil, err
	}
	return demoResponses(formID, d.Now()), nil
}

func (d *Demo) CreateForm(ctx context.Context, def models.FormDefinition) (*forms.Form, error) {
	if err := def.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid form definition")
	}
	if err := d.simulateLatency(ctx); err != nil {
		return nil, err
	}
	formID := "form_" + uuid.NewString()
	if err := d.insert(ctx, d.db, insertFormSQL, formID, def.Title, def.Description, BuildItems(def)); err != nil {
		return nil, err
	}
	logger.Logger.Infow("Created demo form", "formId", formID, "title", def.Title)
	return d.GetForm(ctx, formID)
}

func (d *Demo) DeleteForm(ctx context.Context, formID string) error {
	if err := d.simulateLatency(ctx); err != nil {
		return err
	}
	result, err := d.db.ExecContext(ctx, `DELETE FROM demo_forms WHERE form_id = ?`, formID)
	if err != nil {
		return errors.Wrapf(err, "error deleting demo form %s", formID)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "error deleting demo form %s", formID)
	}
	if deleted == 0 {
		return errors.Wrapf(ErrFormNotFound, "form %s", formID)
	}
	logger.Logger.Infow("Deleted demo form", "formId", formID)
	return nil
}
