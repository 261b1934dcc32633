package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/profile-scout/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS individuals (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	organization TEXT NOT NULL DEFAULT '',
	profile_url  TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS keywords (
	id         TEXT PRIMARY KEY,
	word       TEXT NOT NULL UNIQUE COLLATE NOCASE,
	category   TEXT NOT NULL DEFAULT 'other',
	active     INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS acquisition_records (
	id            TEXT PRIMARY KEY,
	individual_id TEXT NOT NULL REFERENCES individuals(id),
	source        TEXT NOT NULL DEFAULT 'linkedin',
	status        TEXT NOT NULL DEFAULT 'pending',
	profile       TEXT NOT NULL DEFAULT '{}',
	source_url    TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL DEFAULT '',
	quality       TEXT NOT NULL DEFAULT 'none',
	scraped_at    DATETIME,
	updated_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS matches (
	id         TEXT PRIMARY KEY,
	record_id  TEXT NOT NULL REFERENCES acquisition_records(id),
	keyword_id TEXT NOT NULL REFERENCES keywords(id),
	word       TEXT NOT NULL,
	category   TEXT NOT NULL,
	context    TEXT NOT NULL DEFAULT '',
	source_url TEXT NOT NULL DEFAULT '',
	count      INTEGER NOT NULL DEFAULT 1,
	confidence REAL NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (record_id, keyword_id)
);

CREATE TABLE IF NOT EXISTS jobs (
	id            TEXT PRIMARY KEY,
	type          TEXT NOT NULL,
	status        TEXT NOT NULL DEFAULT 'queued',
	total         INTEGER NOT NULL DEFAULT 0,
	processed     INTEGER NOT NULL DEFAULT 0,
	success_count INTEGER NOT NULL DEFAULT 0,
	error_count   INTEGER NOT NULL DEFAULT 0,
	error_message TEXT NOT NULL DEFAULT '',
	started_at    DATETIME,
	completed_at  DATETIME,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_individuals_organization ON individuals(organization);
CREATE INDEX IF NOT EXISTS idx_records_individual_id ON acquisition_records(individual_id);
CREATE INDEX IF NOT EXISTS idx_records_status ON acquisition_records(status);
CREATE INDEX IF NOT EXISTS idx_matches_record_id ON matches(record_id);
CREATE INDEX IF NOT EXISTS idx_matches_keyword_id ON matches(keyword_id);
CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Individuals

func (s *SQLiteStore) CreateIndividual(ctx context.Context, name, organization, profileURL string) (*model.Individual, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO individuals (id, name, organization, profile_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, organization, profileURL, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert individual")
	}

	return &model.Individual{
		ID:           id,
		Name:         name,
		Organization: organization,
		ProfileURL:   profileURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *SQLiteStore) GetIndividual(ctx context.Context, id string) (*model.Individual, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, organization, profile_url, created_at, updated_at
		 FROM individuals WHERE id = ?`, id,
	)

	var ind model.Individual
	err := row.Scan(&ind.ID, &ind.Name, &ind.Organization, &ind.ProfileURL, &ind.CreatedAt, &ind.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("individual not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan individual")
	}
	return &ind, nil
}

func (s *SQLiteStore) ListIndividuals(ctx context.Context, filter IndividualFilter) ([]model.Individual, error) {
	query := `SELECT id, name, organization, profile_url, created_at, updated_at
	          FROM individuals WHERE 1=1`
	var args []any

	if filter.Organization != "" {
		query += ` AND organization = ?`
		args = append(args, filter.Organization)
	}
	if filter.MissingProfileURL {
		query += ` AND profile_url = ''`
	}
	query += ` ORDER BY created_at`

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list individuals")
	}
	defer rows.Close()

	var individuals []model.Individual
	for rows.Next() {
		var ind model.Individual
		if err := rows.Scan(&ind.ID, &ind.Name, &ind.Organization, &ind.ProfileURL, &ind.CreatedAt, &ind.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan individual")
		}
		individuals = append(individuals, ind)
	}
	return individuals, eris.Wrap(rows.Err(), "sqlite: list individuals iterate")
}

func (s *SQLiteStore) SetProfileURL(ctx context.Context, individualID, profileURL string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE individuals SET profile_url = ?, updated_at = ? WHERE id = ?`,
		profileURL, time.Now().UTC(), individualID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: set profile url %s", individualID)
	}
	return checkRowsAffected(res, "individual", individualID)
}

// Keywords

func (s *SQLiteStore) UpsertKeywords(ctx context.Context, keywords []model.Keyword) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin upsert keywords")
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	count := 0
	for _, kw := range keywords {
		id := kw.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO keywords (id, word, category, active, created_at)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (word) DO UPDATE SET category = excluded.category, active = excluded.active`,
			id, kw.Word, string(kw.Category), kw.Active, now,
		)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert keyword %q", kw.Word)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit upsert keywords")
	}
	return count, nil
}

func (s *SQLiteStore) ListKeywords(ctx context.Context, activeOnly bool) ([]model.Keyword, error) {
	query := `SELECT id, word, category, active, created_at FROM keywords`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY word COLLATE NOCASE`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list keywords")
	}
	defer rows.Close()

	var keywords []model.Keyword
	for rows.Next() {
		var kw model.Keyword
		var category string
		if err := rows.Scan(&kw.ID, &kw.Word, &category, &kw.Active, &kw.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan keyword")
		}
		kw.Category = model.KeywordCategory(category)
		keywords = append(keywords, kw)
	}
	return keywords, eris.Wrap(rows.Err(), "sqlite: list keywords iterate")
}

func (s *SQLiteStore) SetKeywordActive(ctx context.Context, keywordID string, active bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE keywords SET active = ? WHERE id = ?`, active, keywordID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: set keyword active %s", keywordID)
	}
	return checkRowsAffected(res, "keyword", keywordID)
}

// Acquisition records

func (s *SQLiteStore) CreateRecord(ctx context.Context, record *model.AcquisitionRecord) (*model.AcquisitionRecord, error) {
	stored := *record
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	stored.UpdatedAt = time.Now().UTC()

	profileJSON, err := json.Marshal(stored.Profile)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal profile")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO acquisition_records
		 (id, individual_id, source, status, profile, source_url, error_message, quality, scraped_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID, stored.IndividualID, string(stored.Source), string(stored.Status),
		string(profileJSON), stored.SourceURL, stored.ErrorMessage, string(stored.Quality),
		stored.ScrapedAt, stored.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert record")
	}
	return &stored, nil
}

func (s *SQLiteStore) GetRecord(ctx context.Context, id string) (*model.AcquisitionRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, individual_id, source, status, profile, source_url, error_message, quality, scraped_at, updated_at
		 FROM acquisition_records WHERE id = ?`, id,
	)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("record not found: %s", id)
	}
	return rec, err
}

func (s *SQLiteStore) ListRecords(ctx context.Context, filter RecordFilter) ([]model.AcquisitionRecord, error) {
	query := `SELECT id, individual_id, source, status, profile, source_url, error_message, quality, scraped_at, updated_at
	          FROM acquisition_records WHERE 1=1`
	var args []any

	if filter.IndividualID != "" {
		query += ` AND individual_id = ?`
		args = append(args, filter.IndividualID)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY updated_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list records")
	}
	defer rows.Close()

	var records []model.AcquisitionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list records iterate")
}

func (s *SQLiteStore) MarkRecordPending(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE acquisition_records
		 SET status = ?, error_message = '', updated_at = ? WHERE id = ?`,
		string(model.RecordPending), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: mark record pending %s", id)
	}
	return checkRowsAffected(res, "record", id)
}

// Matches

func (s *SQLiteStore) ReplaceMatches(ctx context.Context, recordID string, matches []model.Match) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin replace matches")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM matches WHERE record_id = ?`, recordID); err != nil {
		return eris.Wrapf(err, "sqlite: clear matches for record %s", recordID)
	}

	now := time.Now().UTC()
	for _, m := range matches {
		id := m.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO matches
			 (id, record_id, keyword_id, word, category, context, source_url, count, confidence, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, recordID, m.KeywordID, m.Word, string(m.Category), m.Context,
			m.SourceURL, m.Count, m.Confidence, now,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert match %q", m.Word)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit replace matches")
}

func (s *SQLiteStore) ListMatches(ctx context.Context, recordID string) ([]model.Match, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, record_id, keyword_id, word, category, context, source_url, count, confidence, created_at
		 FROM matches WHERE record_id = ? ORDER BY confidence DESC, word`, recordID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list matches")
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		var m model.Match
		var category string
		if err := rows.Scan(&m.ID, &m.RecordID, &m.KeywordID, &m.Word, &category,
			&m.Context, &m.SourceURL, &m.Count, &m.Confidence, &m.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan match")
		}
		m.Category = model.KeywordCategory(category)
		matches = append(matches, m)
	}
	return matches, eris.Wrap(rows.Err(), "sqlite: list matches iterate")
}

// Jobs

func (s *SQLiteStore) CreateJob(ctx context.Context, jobType model.JobType, total int) (*model.Job, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, type, status, total, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, string(jobType), string(model.JobQueued), total, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert job")
	}

	return &model.Job{
		ID:        id,
		Type:      jobType,
		Status:    model.JobQueued,
		Total:     total,
		CreatedAt: now,
	}, nil
}

func (s *SQLiteStore) UpdateJob(ctx context.Context, job *model.Job) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, total = ?, processed = ?, success_count = ?,
		 error_count = ?, error_message = ?, started_at = ?, completed_at = ?
		 WHERE id = ?`,
		string(job.Status), job.Total, job.Processed, job.SuccessCount,
		job.ErrorCount, job.ErrorMessage, job.StartedAt, job.CompletedAt, job.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update job %s", job.ID)
	}
	return checkRowsAffected(res, "job", job.ID)
}

func (s *SQLiteStore) GetJob(ctx context.Context, id string) (*model.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, type, status, total, processed, success_count, error_count, error_message, started_at, completed_at, created_at
		 FROM jobs WHERE id = ?`, id,
	)

	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("job not found: %s", id)
	}
	return job, err
}

func (s *SQLiteStore) ListJobs(ctx context.Context, limit int) ([]model.Job, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, status, total, processed, success_count, error_count, error_message, started_at, completed_at, created_at
		 FROM jobs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list jobs")
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, eris.Wrap(rows.Err(), "sqlite: list jobs iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (*model.AcquisitionRecord, error) {
	var rec model.AcquisitionRecord
	var source, status, quality, profileJSON string
	var scrapedAt sql.NullTime

	err := row.Scan(&rec.ID, &rec.IndividualID, &source, &status, &profileJSON,
		&rec.SourceURL, &rec.ErrorMessage, &quality, &scrapedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan record")
	}

	rec.Source = model.SourceType(source)
	rec.Status = model.RecordStatus(status)
	rec.Quality = model.ContentQuality(quality)
	if scrapedAt.Valid {
		rec.ScrapedAt = scrapedAt.Time
	}
	if err := json.Unmarshal([]byte(profileJSON), &rec.Profile); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal profile")
	}
	return &rec, nil
}

func scanJob(row scannable) (*model.Job, error) {
	var job model.Job
	var jobType, status string
	var startedAt, completedAt sql.NullTime

	err := row.Scan(&job.ID, &jobType, &status, &job.Total, &job.Processed,
		&job.SuccessCount, &job.ErrorCount, &job.ErrorMessage,
		&startedAt, &completedAt, &job.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan job")
	}

	job.Type = model.JobType(jobType)
	job.Status = model.JobStatus(status)
	if startedAt.Valid {
		t := startedAt.Time
		job.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		job.CompletedAt = &t
	}
	return &job, nil
}
