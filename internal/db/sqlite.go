package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ggus23/Integrador-Final/internal/models"
	"github.com/Ggus23/Integrador-Final/internal/services"
)

// SQLiteStore persists everything in a single sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func toNullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func fromNullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Assessment catalog

func (s *SQLiteStore) InsertAssessment(a *models.Assessment) (*models.Assessment, error) {
	items, err := encodeJSON(a.Items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	res, err := s.db.Exec(
		`INSERT INTO assessments (title, description, type, items) VALUES (?, ?, ?, ?)`,
		a.Title, a.Description, a.Type, items,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	stored := *a
	stored.ID = id
	return &stored, nil
}

func (s *SQLiteStore) scanAssessment(row *sql.Row) (*models.Assessment, error) {
	var a models.Assessment
	var items string
	err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Type, &items)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &a.Items); err != nil {
		return nil, fmt.Errorf("decode items for assessment %d: %w", a.ID, err)
	}
	return &a, nil
}

func (s *SQLiteStore) GetAssessmentByID(id int64) (*models.Assessment, error) {
	return s.scanAssessment(s.db.QueryRow(
		`SELECT id, title, description, type, items FROM assessments WHERE id = ?`, id))
}

func (s *SQLiteStore) GetAssessmentByType(scaleType string) (*models.Assessment, error) {
	return s.scanAssessment(s.db.QueryRow(
		`SELECT id, title, description, type, items FROM assessments WHERE type = ?`, scaleType))
}

func (s *SQLiteStore) ListAssessments() ([]*models.Assessment, error) {
	rows, err := s.db.Query(`SELECT id, title, description, type, items FROM assessments ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.Assessment
	for rows.Next() {
		var a models.Assessment
		var items string
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Type, &items); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(items), &a.Items); err != nil {
			return nil, fmt.Errorf("decode items for assessment %d: %w", a.ID, err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// Submissions

func (s *SQLiteStore) ListResponsesByUser(userID int64) ([]*models.AssessmentResponse, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, assessment_id, answers, total_score, risk_level, created_at
		 FROM assessment_responses WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.AssessmentResponse
	for rows.Next() {
		var r models.AssessmentResponse
		var answers, tier string
		if err := rows.Scan(&r.ID, &r.UserID, &r.AssessmentID, &answers, &r.TotalScore, &tier, &r.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(answers), &r.Answers); err != nil {
			return nil, fmt.Errorf("decode answers for response %d: %w", r.ID, err)
		}
		r.RiskLevel = models.Tier(tier)
		out = append(out, &r)
	}
	return out, rows.Err()
}

// CommitSubmission writes the response, the risk summary upsert and the
// optional alert inside one transaction. Nothing is visible on failure.
func (s *SQLiteStore) CommitSubmission(resp *models.AssessmentResponse, summary *models.RiskSummary, alert *models.Alert) error {
	answers, err := encodeJSON(resp.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(
		`INSERT INTO assessment_responses (user_id, assessment_id, answers, total_score, risk_level, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		resp.UserID, resp.AssessmentID, answers, resp.TotalScore, string(resp.RiskLevel), resp.CreatedAt,
	)
	if err != nil {
		return err
	}
	if resp.ID, err = res.LastInsertId(); err != nil {
		return err
	}

	// Last writer wins on the summary row; concurrent submissions for the
	// same user are serialized by sqlite's single-writer transaction model.
	if _, err := tx.Exec(
		`INSERT INTO risk_summaries (user_id, current_risk_level, prediction_confidence, last_updated)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   current_risk_level = excluded.current_risk_level,
		   prediction_confidence = excluded.prediction_confidence,
		   last_updated = excluded.last_updated`,
		summary.UserID, string(summary.CurrentRiskLevel), summary.PredictionConfidence, summary.LastUpdated,
	); err != nil {
		return err
	}

	if alert != nil {
		res, err := tx.Exec(
			`INSERT INTO alerts (user_id, severity, message, is_resolved, created_at) VALUES (?, ?, ?, 0, ?)`,
			alert.UserID, string(alert.Severity), alert.Message, alert.CreatedAt,
		)
		if err != nil {
			return err
		}
		if alert.ID, err = res.LastInsertId(); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Check-ins

func (s *SQLiteStore) InsertCheckin(c *models.EmotionalCheckin) (*models.EmotionalCheckin, error) {
	res, err := s.db.Exec(
		`INSERT INTO emotional_checkins (user_id, mood_score, energy_level, sleep_hours, academic_pressure, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.UserID, c.MoodScore, toNullInt(c.EnergyLevel), toNullInt(c.SleepHours), toNullInt(c.AcademicPressure), c.Note, c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	stored := *c
	stored.ID = id
	return &stored, nil
}

func (s *SQLiteStore) queryCheckins(query string, args ...any) ([]*models.EmotionalCheckin, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.EmotionalCheckin
	for rows.Next() {
		var c models.EmotionalCheckin
		var energy, sleep, pressure sql.NullInt64
		if err := rows.Scan(&c.ID, &c.UserID, &c.MoodScore, &energy, &sleep, &pressure, &c.Note, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.EnergyLevel = fromNullInt(energy)
		c.SleepHours = fromNullInt(sleep)
		c.AcademicPressure = fromNullInt(pressure)
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ListCheckinsByUser(userID int64, offset, limit int) ([]*models.EmotionalCheckin, error) {
	return s.queryCheckins(
		`SELECT id, user_id, mood_score, energy_level, sleep_hours, academic_pressure, note, created_at
		 FROM emotional_checkins WHERE user_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		userID, limit, offset)
}

func (s *SQLiteStore) ListRecentCheckins(userID int64, limit int) ([]*models.EmotionalCheckin, error) {
	return s.queryCheckins(
		`SELECT id, user_id, mood_score, energy_level, sleep_hours, academic_pressure, note, created_at
		 FROM emotional_checkins WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, limit)
}

// Risk summaries

func (s *SQLiteStore) GetRiskSummary(userID int64) (*models.RiskSummary, error) {
	var r models.RiskSummary
	var tier string
	err := s.db.QueryRow(
		`SELECT id, user_id, current_risk_level, prediction_confidence, last_updated
		 FROM risk_summaries WHERE user_id = ?`, userID).
		Scan(&r.ID, &r.UserID, &tier, &r.PredictionConfidence, &r.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.CurrentRiskLevel = models.Tier(tier)
	return &r, nil
}

// Alerts

func (s *SQLiteStore) InsertAlert(a *models.Alert) (*models.Alert, error) {
	res, err := s.db.Exec(
		`INSERT INTO alerts (user_id, severity, message, is_resolved, created_at, resolved_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.UserID, string(a.Severity), a.Message, a.IsResolved, a.CreatedAt, toNullTime(a.ResolvedAt),
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	stored := *a
	stored.ID = id
	return &stored, nil
}

func (s *SQLiteStore) scanAlerts(rows *sql.Rows) ([]*models.Alert, error) {
	defer rows.Close()
	var out []*models.Alert
	for rows.Next() {
		var a models.Alert
		var severity string
		var resolvedAt sql.NullTime
		if err := rows.Scan(&a.ID, &a.UserID, &severity, &a.Message, &a.IsResolved, &a.CreatedAt, &resolvedAt); err != nil {
			return nil, err
		}
		a.Severity = models.Tier(severity)
		if resolvedAt.Valid {
			t := resolvedAt.Time
			a.ResolvedAt = &t
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ListAlerts(f services.AlertFilter) ([]*models.Alert, error) {
	query := `SELECT id, user_id, severity, message, is_resolved, created_at, resolved_at FROM alerts`
	var conds []string
	var args []any
	if f.Severity != "" {
		conds = append(conds, "severity = ?")
		args = append(args, string(f.Severity))
	}
	if f.Resolved != nil {
		conds = append(conds, "is_resolved = ?")
		args = append(args, *f.Resolved)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	return s.scanAlerts(rows)
}

func (s *SQLiteStore) ListAlertsByUser(userID int64) ([]*models.Alert, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, severity, message, is_resolved, created_at, resolved_at
		 FROM alerts WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return s.scanAlerts(rows)
}

func (s *SQLiteStore) GetAlert(id int64) (*models.Alert, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, severity, message, is_resolved, created_at, resolved_at FROM alerts WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	alerts, err := s.scanAlerts(rows)
	if err != nil {
		return nil, err
	}
	if len(alerts) == 0 {
		return nil, nil
	}
	return alerts[0], nil
}

func (s *SQLiteStore) UpdateAlert(a *models.Alert) error {
	res, err := s.db.Exec(
		`UPDATE alerts SET severity = ?, message = ?, is_resolved = ?, resolved_at = ? WHERE id = ?`,
		string(a.Severity), a.Message, a.IsResolved, toNullTime(a.ResolvedAt), a.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return services.NewNotFoundError("alert not found")
	}
	return nil
}

// Users

func (s *SQLiteStore) FindUserByEmail(email string) (*models.User, error) {
	var u models.User
	var role string
	err := s.db.QueryRow(
		`SELECT id, email, full_name, pass_hash, role, created_at FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &u.FullName, &u.PassHash, &role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}

func (s *SQLiteStore) AddUser(u *models.User) (*models.User, error) {
	res, err := s.db.Exec(
		`INSERT INTO users (email, full_name, pass_hash, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.Email, u.FullName, u.PassHash, string(u.Role), u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	stored := *u
	stored.ID = id
	return &stored, nil
}
