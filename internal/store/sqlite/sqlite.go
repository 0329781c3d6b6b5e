package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/unifyhub/unifyhub/internal/model"
	"github.com/unifyhub/unifyhub/internal/store"
)

// New opens (or creates) a SQLite-backed store at path and applies the
// schema.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewWithDB(db), nil
}

// NewWithDB wires the store onto an existing connection (used by the factory
// and tests).
func NewWithDB(db *sql.DB) store.Store { return &sqliteStore{db: db} }

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Services() store.Services { return &services{db: s.db} }
func (s *sqliteStore) Items() store.Items       { return &items{db: s.db} }
func (s *sqliteStore) Events() store.Events     { return &events{db: s.db} }
func (s *sqliteStore) Projects() store.Projects { return &projects{db: s.db} }
func (s *sqliteStore) Rules() store.Rules       { return &rules{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// querier is satisfied by *sql.DB and *sql.Tx so row scans can be shared
// between plain reads and read-modify-write transactions.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func mapRowErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

func toJSON(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func mapFromJSON(s string) (map[string]interface{}, error) {
	if s == "" || s == "{}" {
		return nil, nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	return m, nil
}

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

// --- Services ---

type services struct{ db *sql.DB }

const serviceCols = `id, name, type, status, icon, color, last_sync, config, created_at, updated_at`

func scanService(row *sql.Row) (*model.Service, error) {
	var (
		out      model.Service
		lastSync sql.NullTime
		cfg      string
	)
	if err := row.Scan(&out.ID, &out.Name, &out.Type, &out.Status, &out.Icon, &out.Color, &lastSync, &cfg, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, mapRowErr(err)
	}
	if lastSync.Valid {
		t := lastSync.Time
		out.LastSync = &t
	}
	var err error
	if out.Config, err = mapFromJSON(cfg); err != nil {
		return nil, fmt.Errorf("decode service config: %w", err)
	}
	return &out, nil
}

func (s *services) Create(ctx context.Context, in *model.Service) (*model.Service, error) {
	cfg, err := toJSON(orEmptyMap(in.Config))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	status := in.Status
	if status == "" {
		status = model.StatusDisconnected
	}
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO services (name, type, status, icon, color, last_sync, config, created_at, updated_at)
        VALUES (?,?,?,?,?,?,?,?,?)`,
		in.Name, in.Type, status, in.Icon, in.Color, nullTime(in.LastSync), cfg, now, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *in
	out.ID = id
	out.Status = status
	out.CreatedAt = now
	out.UpdatedAt = now
	return &out, nil
}

func (s *services) Get(ctx context.Context, id int64) (*model.Service, error) {
	return getService(ctx, s.db, id)
}

func getService(ctx context.Context, q querier, id int64) (*model.Service, error) {
	return scanService(q.QueryRowContext(ctx, `SELECT `+serviceCols+` FROM services WHERE id=?`, id))
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
			cfg      string
		)
		if err := rows.Scan(&sv.ID, &sv.Name, &sv.Type, &sv.Status, &sv.Icon, &sv.Color, &lastSync, &cfg, &sv.CreatedAt, &sv.UpdatedAt); err != nil {
			return nil, err
		}
		if lastSync.Valid {
			t := lastSync.Time
			sv.LastSync = &t
		}
		if sv.Config, err = mapFromJSON(cfg); err != nil {
			return nil, err
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
	cur.UpdatedAt = time.Now().UTC()

	cfg, err := toJSON(orEmptyMap(cur.Config))
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
        UPDATE services SET name=?, type=?, status=?, icon=?, color=?, last_sync=?, config=?, updated_at=? WHERE id=?`,
		cur.Name, cur.Type, cur.Status, cur.Icon, cur.Color, nullTime(cur.LastSync), cfg, cur.UpdatedAt, id); err != nil {
		return nil, err
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
	meta, err := toJSON(orEmptyMap(in.Metadata))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO unified_items (type, title, content, item_time, metadata, service_id, project_id, created_at, updated_at)
        VALUES (?,?,?,?,?,?,?,?,?)`,
		in.Type, in.Title, in.Content, nullTime(in.Timestamp), meta, nullableID(in.ServiceID), nullableID(in.ProjectID), now, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *in
	out.ID = id
	out.CreatedAt = now
	out.UpdatedAt = now
	return &out, nil
}

func (s *items) Get(ctx context.Context, id int64) (*model.UnifiedItem, error) {
	return getItem(ctx, s.db, id)
}

func getItem(ctx context.Context, q querier, id int64) (*model.UnifiedItem, error) {
	var (
		out     model.UnifiedItem
		ts      sql.NullTime
		meta    string
		svc, pj sql.NullInt64
	)
	row := q.QueryRowContext(ctx, `SELECT `+itemCols+` FROM unified_items WHERE id=?`, id)
	if err := row.Scan(&out.ID, &out.Type, &out.Title, &out.Content, &ts, &meta, &svc, &pj, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, mapRowErr(err)
	}
	if ts.Valid {
		t := ts.Time
		out.Timestamp = &t
	}
	var err error
	if out.Metadata, err = mapFromJSON(meta); err != nil {
		return nil, fmt.Errorf("decode item metadata: %w", err)
	}
	out.ServiceID = idPtr(svc)
	out.ProjectID = idPtr(pj)
	return &out, nil
}

func (s *items) List(ctx context.Context) ([]*model.UnifiedItem, error) {
	return s.query(ctx, `SELECT `+itemCols+` FROM unified_items ORDER BY item_time DESC, id DESC`)
}

func (s *items) ListByType(ctx context.Context, typ string) ([]*model.UnifiedItem, error) {
	return s.query(ctx, `SELECT `+itemCols+` FROM unified_items WHERE type=? ORDER BY item_time DESC, id DESC`, typ)
}

func (s *items) ListByService(ctx context.Context, serviceID int64) ([]*model.UnifiedItem, error) {
	return s.query(ctx, `SELECT `+itemCols+` FROM unified_items WHERE service_id=? ORDER BY item_time DESC, id DESC`, serviceID)
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
			meta    string
			svc, pj sql.NullInt64
		)
		if err := rows.Scan(&it.ID, &it.Type, &it.Title, &it.Content, &ts, &meta, &svc, &pj, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		if ts.Valid {
			t := ts.Time
			it.Timestamp = &t
		}
		if it.Metadata, err = mapFromJSON(meta); err != nil {
			return nil, err
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
	cur.UpdatedAt = time.Now().UTC()

	meta, err := toJSON(orEmptyMap(cur.Metadata))
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
        UPDATE unified_items SET type=?, title=?, content=?, item_time=?, metadata=?, service_id=?, project_id=?, updated_at=? WHERE id=?`,
		cur.Type, cur.Title, cur.Content, nullTime(cur.Timestamp), meta, nullableID(cur.ServiceID), nullableID(cur.ProjectID), cur.UpdatedAt, id); err != nil {
		return nil, err
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
	att, err := toJSON(orEmptySlice(in.Attendees))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO calendar_events (title, start_time, end_time, attendees, service_id, project_id, created_at, updated_at)
        VALUES (?,?,?,?,?,?,?,?)`,
		in.Title, in.Start.UTC(), in.End.UTC(), att, nullableID(in.ServiceID), nullableID(in.ProjectID), now, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *in
	out.ID = id
	out.CreatedAt = now
	out.UpdatedAt = now
	return &out, nil
}

func (s *events) Get(ctx context.Context, id int64) (*model.CalendarEvent, error) {
	return getEvent(ctx, s.db, id)
}

func getEvent(ctx context.Context, q querier, id int64) (*model.CalendarEvent, error) {
	var (
		out     model.CalendarEvent
		att     string
		svc, pj sql.NullInt64
	)
	row := q.QueryRowContext(ctx, `SELECT `+eventCols+` FROM calendar_events WHERE id=?`, id)
	if err := row.Scan(&out.ID, &out.Title, &out.Start, &out.End, &att, &svc, &pj, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, mapRowErr(err)
	}
	if err := json.Unmarshal([]byte(att), &out.Attendees); err != nil {
		return nil, fmt.Errorf("decode event attendees: %w", err)
	}
	out.ServiceID = idPtr(svc)
	out.ProjectID = idPtr(pj)
	return &out, nil
}

func (s *events) List(ctx context.Context) ([]*model.CalendarEvent, error) {
	return s.query(ctx, `SELECT `+eventCols+` FROM calendar_events ORDER BY start_time, id`)
}

func (s *events) ListByRange(ctx context.Context, from, to time.Time) ([]*model.CalendarEvent, error) {
	return s.query(ctx, `SELECT `+eventCols+` FROM calendar_events WHERE start_time >= ? AND start_time <= ? ORDER BY start_time, id`,
		from.UTC(), to.UTC())
}

func (s *events) ListOverlapping(ctx context.Context, start, end time.Time) ([]*model.CalendarEvent, error) {
	return s.query(ctx, `SELECT `+eventCols+` FROM calendar_events WHERE start_time < ? AND end_time > ? ORDER BY start_time, id`,
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
			att     string
			svc, pj sql.NullInt64
		)
		if err := rows.Scan(&ev.ID, &ev.Title, &ev.Start, &ev.End, &att, &svc, &pj, &ev.CreatedAt, &ev.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(att), &ev.Attendees); err != nil {
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
	cur.UpdatedAt = time.Now().UTC()

	att, err := toJSON(orEmptySlice(cur.Attendees))
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
        UPDATE calendar_events SET title=?, start_time=?, end_time=?, attendees=?, service_id=?, project_id=?, updated_at=? WHERE id=?`,
		cur.Title, cur.Start, cur.End, att, nullableID(cur.ServiceID), nullableID(cur.ProjectID), cur.UpdatedAt, id); err != nil {
		return nil, err
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
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO projects (name, description, color, linked_items, created_at, updated_at)
        VALUES (?,?,?,?,?,?)`,
		in.Name, in.Description, in.Color, linked, now, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *in
	out.ID = id
	out.CreatedAt = now
	out.UpdatedAt = now
	return &out, nil
}

func (s *projects) Get(ctx context.Context, id int64) (*model.Project, error) {
	return getProject(ctx, s.db, id)
}

func getProject(ctx context.Context, q querier, id int64) (*model.Project, error) {
	var (
		out    model.Project
		linked string
	)
	row := q.QueryRowContext(ctx, `SELECT `+projectCols+` FROM projects WHERE id=?`, id)
	if err := row.Scan(&out.ID, &out.Name, &out.Description, &out.Color, &linked, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, mapRowErr(err)
	}
	if err := json.Unmarshal([]byte(linked), &out.LinkedItems); err != nil {
		return nil, fmt.Errorf("decode project linked items: %w", err)
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
			linked string
		)
		if err := rows.Scan(&pj.ID, &pj.Name, &pj.Description, &pj.Color, &linked, &pj.CreatedAt, &pj.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(linked), &pj.LinkedItems); err != nil {
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
	cur.UpdatedAt = time.Now().UTC()

	linked, err := toJSON(cur.LinkedItems)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
        UPDATE projects SET name=?, description=?, color=?, linked_items=?, updated_at=? WHERE id=?`,
		cur.Name, cur.Description, cur.Color, linked, cur.UpdatedAt, id); err != nil {
		return nil, err
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
	conds, err := toJSON(orEmptyConds(in.Conditions))
	if err != nil {
		return nil, err
	}
	acts, err := toJSON(orEmptyActs(in.Actions))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO rules (name, conditions, actions, enabled, created_at, updated_at)
        VALUES (?,?,?,?,?,?)`,
		in.Name, conds, acts, in.Enabled, now, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *in
	out.ID = id
	out.CreatedAt = now
	out.UpdatedAt = now
	return &out, nil
}

func (s *rules) Get(ctx context.Context, id int64) (*model.Rule, error) {
	return getRule(ctx, s.db, id)
}

func getRule(ctx context.Context, q querier, id int64) (*model.Rule, error) {
	var (
		out         model.Rule
		conds, acts string
	)
	row := q.QueryRowContext(ctx, `SELECT `+ruleCols+` FROM rules WHERE id=?`, id)
	if err := row.Scan(&out.ID, &out.Name, &conds, &acts, &out.Enabled, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, mapRowErr(err)
	}
	if err := json.Unmarshal([]byte(conds), &out.Conditions); err != nil {
		return nil, fmt.Errorf("decode rule conditions: %w", err)
	}
	if err := json.Unmarshal([]byte(acts), &out.Actions); err != nil {
		return nil, fmt.Errorf("decode rule actions: %w", err)
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
			conds, acts string
		)
		if err := rows.Scan(&r.ID, &r.Name, &conds, &acts, &r.Enabled, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(conds), &r.Conditions); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(acts), &r.Actions); err != nil {
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
	cur.UpdatedAt = time.Now().UTC()

	conds, err := toJSON(orEmptyConds(cur.Conditions))
	if err != nil {
		return nil, err
	}
	acts, err := toJSON(orEmptyActs(cur.Actions))
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
        UPDATE rules SET name=?, conditions=?, actions=?, enabled=?, updated_at=? WHERE id=?`,
		cur.Name, conds, acts, cur.Enabled, cur.UpdatedAt, id); err != nil {
		return nil, err
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
	res, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id=?`, id)
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

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func orEmptyMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	return m
}

func orEmptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptyConds(c []model.RuleCondition) []model.RuleCondition {
	if c == nil {
		return []model.RuleCondition{}
	}
	return c
}

func orEmptyActs(a []model.RuleAction) []model.RuleAction {
	if a == nil {
		return []model.RuleAction{}
	}
	return a
}
