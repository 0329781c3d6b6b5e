package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/unifyhub/unifyhub/internal/model"
	"github.com/unifyhub/unifyhub/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies
// connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// New opens a connection, ensures the schema exists and returns the store.
func New(dsn string) (store.Store, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewWithDB(db), nil
}

// NewWithDB constructs a Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Services() store.Services { return &services{db: s.db} }
func (s *pgStore) Items() store.Items       { return &items{db: s.db} }
func (s *pgStore) Events() store.Events     { return &events{db: s.db} }
func (s *pgStore) Projects() store.Projects { return &projects{db: s.db} }
func (s *pgStore) Rules() store.Rules       { return &rules{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// EnsureSchema creates the record tables when they are absent. Deployments
// with managed migrations can skip it; every statement is idempotent.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS services (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            type TEXT NOT NULL DEFAULT 'other',
            status TEXT NOT NULL DEFAULT 'disconnected',
            icon TEXT NOT NULL DEFAULT '',
            color TEXT NOT NULL DEFAULT '',
            last_sync TIMESTAMPTZ,
            config JSONB NOT NULL DEFAULT '{}',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS unified_items (
            id BIGSERIAL PRIMARY KEY,
            type TEXT NOT NULL DEFAULT '',
            title TEXT NOT NULL,
            content TEXT NOT NULL DEFAULT '',
            item_time TIMESTAMPTZ,
            metadata JSONB NOT NULL DEFAULT '{}',
            service_id BIGINT,
            project_id BIGINT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_unified_items_project ON unified_items(project_id)`,
		`CREATE TABLE IF NOT EXISTS calendar_events (
            id BIGSERIAL PRIMARY KEY,
            title TEXT NOT NULL,
            start_time TIMESTAMPTZ NOT NULL,
            end_time TIMESTAMPTZ NOT NULL,
            attendees JSONB NOT NULL DEFAULT '[]',
            service_id BIGINT,
            project_id BIGINT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_calendar_events_start ON calendar_events(start_time)`,
		`CREATE TABLE IF NOT EXISTS projects (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            color TEXT NOT NULL DEFAULT '',
            linked_items JSONB NOT NULL DEFAULT '[]',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS rules (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            conditions JSONB NOT NULL DEFAULT '[]',
            actions JSONB NOT NULL DEFAULT '[]',
            enabled BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func mapRowErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

func toJSON(v interface{}) ([]byte, error) { return json.Marshal(v) }

func nullableID(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func idPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// --- Services ---

type services struct{ db *sql.DB }

const serviceCols = `id, name, type, status, icon, color, last_sync, config, created_at, updated_at`

func (s *services) Create(ctx context.Context, in *model.Service) (*model.Service, error) {
	cfg, err := toJSON(emptyObjIfNil(in.Config))
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = model.StatusDisconnected
	}
	out := *in
	out.Status = status
	row := s.db.QueryRowContext(ctx, `
        INSERT INTO services (name, type, status, icon, color, last_sync, config)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`,
		in.Name, in.Type, status, in.Icon, in.Color, nullTime(in.LastSync), cfg)
	if err := row.Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *services) Get(ctx context.Context, id int64) (*model.Service, error) {
	return getService(ctx, s.db, id)
}

func getService(ctx context.Context, q querier, id int64) (*model.Service, error) {
	var (
		out      model.Service
		lastSync sql.NullTime
		cfg      []byte
	)
	row := q.QueryRowContext(ctx, `SELECT `+serviceCols+` FROM services WHERE id=$1`, id)
	if err := row.Scan(&out.ID, &out.Name, &out.Type, &out.Status, &out.Icon, &out.Color, &lastSync, &cfg, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, mapRowErr(err)
	}
	if lastSync.Valid {
		t := lastSync.Time
		out.LastSync = &t
	}
	if err := json.Unmarshal(cfg, &out.Config); err != nil {
		return nil, err
	}
	if len(out.Config) == 0 {
		out.Config = nil
	}
	return &out, nil
}

func (s *services) List(ctx context.Context) ([]*model.Service, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+serviceCols+` FROM services ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Service
	for rows.Next() {
		var (
			sv       model.Service
			lastSync sql.NullTime
			cfg      []byte
		)
		if err := rows.Scan(&sv.ID, &sv.Name, &sv.Type, &sv.Status, &sv.Icon, &sv.Color, &lastSync, &cfg, &sv.CreatedAt, &sv.UpdatedAt); err != nil {
			return nil, err
		}
		if lastSync.Valid {
			t := lastSync.Time
			sv.LastSync = &t
		}
		if err := json.Unmarshal(cfg, &sv.Config); err != nil {
			return nil, err
		}
		if len(sv.Config) == 0 {
			sv.Config = nil
		}
		out = append(out, &sv)
	}
	return out, rows.Err()
}

func (s *services) Update(ctx context.Context, id int64, p model.ServicePatch) (*model.Service, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := getService(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		cur.Name = *p.Name
	}
	if p.Type != nil {
		cur.Type = *p.Type
	}
	if p.Status != nil {
		cur.Status = *p.Status
	}
	if p.Icon != nil {
		cur.Icon = *p.Icon
	}
	if p.Color != nil {
		cur.Color = *p.Color
	}
	if p.LastSync != nil {
		t := *p.LastSync
		cur.LastSync = &t
	}
	if p.Config != nil {
		cur.Config = p.Config
	}
	cfg, err := toJSON(emptyObjIfNil(cur.Config))
	if err != nil {
		return nil, err
	}
	row := tx.QueryRowContext(ctx, `
        UPDATE services SET name=$1, type=$2, status=$3, icon=$4, color=$5, last_sync=$6, config=$7, updated_at=now()
        WHERE id=$8 RETURNING updated_at`,
		cur.Name, cur.Type, cur.Status, cur.Icon, cur.Color, nullTime(cur.LastSync), cfg, id)
	if err := row.Scan(&cur.UpdatedAt); err != nil {
		return nil, mapRowErr(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return cur, nil
}

func (s *services) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "services", id)
}

// --- Items ---

type items struct{ db *sql.DB }

const itemCols = `id, type, title, content, item_time, metadata, service_id, project_id, created_at, updated_at`

func (s *items) Create(ctx context.Context, in *model.UnifiedItem) (*model.UnifiedItem, error) {
	meta, err := toJSON(emptyObjIfNil(in.Metadata))
	if err != nil {
		return nil, err
	}
	out := *in
	row := s.db.QueryRowContext(ctx, `
        INSERT INTO unified_items (type, title, content, item_time, metadata, service_id, project_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`,
		in.Type, in.Title, in.Content, nullTime(in.Timestamp), meta, nullableID(in.ServiceID), nullableID(in.ProjectID))
	if err := row.Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *items) Get(ctx context.Context, id int64) (*model.UnifiedItem, error) {
	return getItem(ctx, s.db, id)
}

func getItem(ctx context.Context, q querier, id int64) (*model.UnifiedItem, error) {
	var (
		out     model.UnifiedItem
		ts      sql.NullTime
		meta    []byte
		svc, pj sql.NullInt64
	)
	row := q.QueryRowContext(ctx, `SELECT `+itemCols+` FROM unified_items WHERE id=$1`, id)
	if err := row.Scan(&out.ID, &out.Type, &out.Title, &out.Content, &ts, &meta, &svc, &pj, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, mapRowErr(err)
	}
	if ts.Valid {
		t := ts.Time
		out.Timestamp = &t
	}
	if err := json.Unmarshal(meta, &out.Metadata); err != nil {
		return nil, err
	}
	if len(out.Metadata) == 0 {
		out.Metadata = nil
	}
	out.ServiceID = idPtr(svc)
	out.ProjectID = idPtr(pj)
	return &out, nil
}

func (s *items) List(ctx context.Context) ([]*model.UnifiedItem, error) {
	return s.query(ctx, `SELECT `+itemCols+` FROM unified_items ORDER BY item_time DESC NULLS LAST, id DESC`)
}

func (s *items) ListByType(ctx context.Context, typ string) ([]*model.UnifiedItem, error) {
	return s.query(ctx, `SELECT `+itemCols+` FROM unified_items WHERE type=$1 ORDER BY item_time DESC NULLS LAST, id DESC`, typ)
}

func (s *items) ListByService(ctx context.Context, serviceID int64) ([]*model.UnifiedItem, error) {
	return s.query(ctx, `SELECT `+itemCols+` FROM unified_items WHERE service_id=$1 ORDER BY item_time DESC NULLS LAST, id DESC`, serviceID)
}

func (s *items) query(ctx context.Context, q string, args ...interface{}) ([]*model.UnifiedItem, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.UnifiedItem
	for rows.Next() {
		var (
			it      model.UnifiedItem
			ts      sql.NullTime
			meta    []byte
			svc, pj sql.NullInt64
		)
		if err := rows.Scan(&it.ID, &it.Type, &it.Title, &it.Content, &ts, &meta, &svc, &pj, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		if ts.Valid {
			t := ts.Time
			it.Timestamp = &t
		}
		if err := json.Unmarshal(meta, &it.Metadata); err != nil {
			return nil, err
		}
		if len(it.Metadata) == 0 {
			it.Metadata = nil
		}
		it.ServiceID = idPtr(svc)
		it.ProjectID = idPtr(pj)
		out = append(out, &it)
	}
	return out, rows.Err()
}

func (s *items) Update(ctx context.Context, id int64, p model.ItemPatch) (*model.UnifiedItem, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := getItem(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if p.Type != nil {
		cur.Type = *p.Type
	}
	if p.Title != nil {
		cur.Title = *p.Title
	}
	if p.Content != nil {
		cur.Content = *p.Content
	}
	if p.Timestamp != nil {
		t := *p.Timestamp
		cur.Timestamp = &t
	}
	if p.Metadata != nil {
		cur.Metadata = p.Metadata
	}
	if p.ServiceID != nil {
		v := *p.ServiceID
		cur.ServiceID = &v
	}
	if p.ProjectID != nil {
		v := *p.ProjectID
		cur.ProjectID = &v
	}
	meta, err := toJSON(emptyObjIfNil(cur.Metadata))
	if err != nil {
		return nil, err
	}
	row := tx.QueryRowContext(ctx, `
        UPDATE unified_items SET type=$1, title=$2, content=$3, item_time=$4, metadata=$5, service_id=$6, project_id=$7, updated_at=now()
        WHERE id=$8 RETURNING updated_at`,
		cur.Type, cur.Title, cur.Content, nullTime(cur.Timestamp), meta, nullableID(cur.ServiceID), nullableID(cur.ProjectID), id)
	if err := row.Scan(&cur.UpdatedAt); err != nil {
		return nil, mapRowErr(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return cur, nil
}

func (s *items) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "unified_items", id)
}

// --- Events ---

type events struct{ db *sql.DB }

const eventCols = `id, title, start_time, end_time, attendees, service_id, project_id, created_at, updated_at`

func (s *events) Create(ctx context.Context, in *model.CalendarEvent) (*model.CalendarEvent, error) {
	att, err := toJSON(emptyArrIfNil(in.Attendees))
	if err != nil {
		return nil, err
	}
	out := *in
	row := s.db.QueryRowContext(ctx, `
        INSERT INTO calendar_events (title, start_time, end_time, attendees, service_id, project_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`,
		in.Title, in.Start.UTC(), in.End.UTC(), att, nullableID(in.ServiceID), nullableID(in.ProjectID))
	if err := row.Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *events) Get(ctx context.Context, id int64) (*model.CalendarEvent, error) {
	return getEvent(ctx, s.db, id)
}

func getEvent(ctx context.Context, q querier, id int64) (*model.CalendarEvent, error) {
	var (
		out     model.CalendarEvent
		att     []byte
		svc, pj sql.NullInt64
	)
	row := q.QueryRowContext(ctx, `SELECT `+eventCols+` FROM calendar_events WHERE id=$1`, id)
	if err := row.Scan(&out.ID, &out.Title, &out.Start, &out.End, &att, &svc, &pj, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, mapRowErr(err)
	}
	if err := json.Unmarshal(att, &out.Attendees); err != nil {
		return nil, err
	}
	out.ServiceID = idPtr(svc)
	out.ProjectID = idPtr(pj)
	return &out, nil
}

func (s *events) List(ctx context.Context) ([]*model.CalendarEvent, error) {
	return s.query(ctx, `SELECT `+eventCols+` FROM calendar_events ORDER BY start_time, id`)
}

func (s *events) ListByRange(ctx context.Context, from, to time.Time) ([]*model.CalendarEvent, error) {
	return s.query(ctx, `SELECT `+eventCols+` FROM calendar_events WHERE start_time >= $1 AND start_time <= $2 ORDER BY start_time, id`,
		from.UTC(), to.UTC())
}

func (s *events) ListOverlapping(ctx context.Context, start, end time.Time) ([]*model.CalendarEvent, error) {
	return s.query(ctx, `SELECT `+eventCols+` FROM calendar_events WHERE start_time < $1 AND end_time > $2 ORDER BY start_time, id`,
		end.UTC(), start.UTC())
}

func (s *events) query(ctx context.Context, q string, args ...interface{}) ([]*model.CalendarEvent, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.CalendarEvent
	for rows.Next() {
		var (
			ev      model.CalendarEvent
			att     []byte
			svc, pj sql.NullInt64
		)
		if err := rows.Scan(&ev.ID, &ev.Title, &ev.Start, &ev.End, &att, &svc, &pj, &ev.CreatedAt, &ev.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(att, &ev.Attendees); err != nil {
			return nil, err
		}
		ev.ServiceID = idPtr(svc)
		ev.ProjectID = idPtr(pj)
		out = append(out, &ev)
	}
	return out, rows.Err()
}

func (s *events) Update(ctx context.Context, id int64, p model.EventPatch) (*model.CalendarEvent, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := getEvent(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if p.Title != nil {
		cur.Title = *p.Title
	}
	if p.Start != nil {
		cur.Start = p.Start.UTC()
	}
	if p.End != nil {
		cur.End = p.End.UTC()
	}
	if p.Attendees != nil {
		cur.Attendees = p.Attendees
	}
	if p.ServiceID != nil {
		v := *p.ServiceID
		cur.ServiceID = &v
	}
	if p.ProjectID != nil {
		v := *p.ProjectID
		cur.ProjectID = &v
	}
	att, err := toJSON(emptyArrIfNil(cur.Attendees))
	if err != nil {
		return nil, err
	}
	row := tx.QueryRowContext(ctx, `
        UPDATE calendar_events SET title=$1, start_time=$2, end_time=$3, attendees=$4, service_id=$5, project_id=$6, updated_at=now()
        WHERE id=$7 RETURNING updated_at`,
		cur.Title, cur.Start, cur.End, att, nullableID(cur.ServiceID), nullableID(cur.ProjectID), id)
	if err := row.Scan(&cur.UpdatedAt); err != nil {
		return nil, mapRowErr(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return cur, nil
}

func (s *events) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "calendar_events", id)
}

// --- Projects ---

type projects struct{ db *sql.DB }

const projectCols = `id, name, description, color, linked_items, created_at, updated_at`

func (s *projects) Create(ctx context.Context, in *model.Project) (*model.Project, error) {
	linked, err := toJSON(in.LinkedItems)
	if err != nil {
		return nil, err
	}
	out := *in
	row := s.db.QueryRowContext(ctx, `
        INSERT INTO projects (name, description, color, linked_items)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`,
		in.Name, in.Description, in.Color, linked)
	if err := row.Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *projects) Get(ctx context.Context, id int64) (*model.Project, error) {
	return getProject(ctx, s.db, id)
}

func getProject(ctx context.Context, q querier, id int64) (*model.Project, error) {
	var (
		out    model.Project
		linked []byte
	)
	row := q.QueryRowContext(ctx, `SELECT `+projectCols+` FROM projects WHERE id=$1`, id)
	if err := row.Scan(&out.ID, &out.Name, &out.Description, &out.Color, &linked, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, mapRowErr(err)
	}
	if err := json.Unmarshal(linked, &out.LinkedItems); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *projects) List(ctx context.Context) ([]*model.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectCols+` FROM projects ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Project
	for rows.Next() {
		var (
			pj     model.Project
			linked []byte
		)
		if err := rows.Scan(&pj.ID, &pj.Name, &pj.Description, &pj.Color, &linked, &pj.CreatedAt, &pj.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(linked, &pj.LinkedItems); err != nil {
			return nil, err
		}
		out = append(out, &pj)
	}
	return out, rows.Err()
}

func (s *projects) Update(ctx context.Context, id int64, p model.ProjectPatch) (*model.Project, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := getProject(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		cur.Name = *p.Name
	}
	if p.Description != nil {
		cur.Description = *p.Description
	}
	if p.Color != nil {
		cur.Color = *p.Color
	}
	if p.LinkedItems != nil {
		cur.LinkedItems = *p.LinkedItems
	}
	linked, err := toJSON(cur.LinkedItems)
	if err != nil {
		return nil, err
	}
	row := tx.QueryRowContext(ctx, `
        UPDATE projects SET name=$1, description=$2, color=$3, linked_items=$4, updated_at=now()
        WHERE id=$5 RETURNING updated_at`,
		cur.Name, cur.Description, cur.Color, linked, id)
	if err := row.Scan(&cur.UpdatedAt); err != nil {
		return nil, mapRowErr(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return cur, nil
}

func (s *projects) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "projects", id)
}

// --- Rules ---

type rules struct{ db *sql.DB }

const ruleCols = `id, name, conditions, actions, enabled, created_at, updated_at`

func (s *rules) Create(ctx context.Context, in *model.Rule) (*model.Rule, error) {
	conds, err := toJSON(emptyCondsIfNil(in.Conditions))
	if err != nil {
		return nil, err
	}
	acts, err := toJSON(emptyActsIfNil(in.Actions))
	if err != nil {
		return nil, err
	}
	out := *in
	row := s.db.QueryRowContext(ctx, `
        INSERT INTO rules (name, conditions, actions, enabled)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`,
		in.Name, conds, acts, in.Enabled)
	if err := row.Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *rules) Get(ctx context.Context, id int64) (*model.Rule, error) {
	return getRule(ctx, s.db, id)
}

func getRule(ctx context.Context, q querier, id int64) (*model.Rule, error) {
	var (
		out         model.Rule
		conds, acts []byte
	)
	row := q.QueryRowContext(ctx, `SELECT `+ruleCols+` FROM rules WHERE id=$1`, id)
	if err := row.Scan(&out.ID, &out.Name, &conds, &acts, &out.Enabled, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, mapRowErr(err)
	}
	if err := json.Unmarshal(conds, &out.Conditions); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(acts, &out.Actions); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *rules) List(ctx context.Context) ([]*model.Rule, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+ruleCols+` FROM rules ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Rule
	for rows.Next() {
		var (
			r           model.Rule
			conds, acts []byte
		)
		if err := rows.Scan(&r.ID, &r.Name, &conds, &acts, &r.Enabled, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(conds, &r.Conditions); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(acts, &r.Actions); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (s *rules) Update(ctx context.Context, id int64, p model.RulePatch) (*model.Rule, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := getRule(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		cur.Name = *p.Name
	}
	if p.Conditions != nil {
		cur.Conditions = *p.Conditions
	}
	if p.Actions != nil {
		cur.Actions = *p.Actions
	}
	if p.Enabled != nil {
		cur.Enabled = *p.Enabled
	}
	conds, err := toJSON(emptyCondsIfNil(cur.Conditions))
	if err != nil {
		return nil, err
	}
	acts, err := toJSON(emptyActsIfNil(cur.Actions))
	if err != nil {
		return nil, err
	}
	row := tx.QueryRowContext(ctx, `
        UPDATE rules SET name=$1, conditions=$2, actions=$3, enabled=$4, updated_at=now()
        WHERE id=$5 RETURNING updated_at`,
		cur.Name, conds, acts, cur.Enabled, id)
	if err := row.Scan(&cur.UpdatedAt); err != nil {
		return nil, mapRowErr(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return cur, nil
}

func (s *rules) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "rules", id)
}

// --- shared helpers ---

func deleteByID(ctx context.Context, db *sql.DB, table string, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id=$1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func emptyObjIfNil(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	return m
}

func emptyArrIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptyCondsIfNil(c []model.RuleCondition) []model.RuleCondition {
	if c == nil {
		return []model.RuleCondition{}
	}
	return c
}

func emptyActsIfNil(a []model.RuleAction) []model.RuleAction {
	if a == nil {
		return []model.RuleAction{}
	}
	return a
}
