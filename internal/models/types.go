package models

import "time"

// Tier is the qualitative risk classification used across the system.
type Tier string

const (
	TierLow    Tier = "Low"
	TierMedium Tier = "Medium"
	TierHigh   Tier = "High"
)

// Role controls access to staff-only resources (alerts, explainability views).
type Role string

const (
	RoleStudent      Role = "student"
	RolePsychologist Role = "psychologist"
	RoleAdmin        Role = "admin"
)

// User is an authenticated account. Students submit assessments and check-ins;
// psychologists review alerts.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	PassHash  []byte    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// AssessmentItem is one question of a psychometric scale with its declared
// numeric answer range.
type AssessmentItem struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	ScaleMin int    `json:"scale_min"`
	ScaleMax int    `json:"scale_max"`
}

// Assessment is the immutable definition of a psychometric scale
// (e.g. PSS-10, GAD-7, PHQ-9). Owned by the catalog; the engine reads it.
type Assessment struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Type        string           `json:"type"`
	Items       []AssessmentItem `json:"items"`
}

// AssessmentResponse is one completed submission. Append-only: answers, score
// and tier are fixed at creation and must be reproducible from the stored
// answers and the scale type.
type AssessmentResponse struct {
	ID           int64          `json:"id"`
	UserID       int64          `json:"user_id"`
	AssessmentID int64          `json:"assessment_id"`
	Answers      map[string]int `json:"answers"`
	TotalScore   float64        `json:"total_score"`
	RiskLevel    Tier           `json:"risk_level"`
	CreatedAt    time.Time      `json:"created_at"`
}

// EmotionalCheckin is a daily self-report. Mood is 1 (very bad) to 5 (very
// good); the remaining signals are optional.
type EmotionalCheckin struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	MoodScore        int       `json:"mood_score"`
	EnergyLevel      *int      `json:"energy_level,omitempty"`
	SleepHours       *int      `json:"sleep_hours,omitempty"`
	AcademicPressure *int      `json:"academic_pressure,omitempty"`
	Note             string    `json:"note,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// RiskSummary is the single mutable current-state record per user. It always
// reflects the most recent successful classification.
type RiskSummary struct {
	ID                   int64     `json:"id"`
	UserID               int64     `json:"user_id"`
	CurrentRiskLevel     Tier      `json:"current_risk_level"`
	PredictionConfidence float64   `json:"prediction_confidence"`
	LastUpdated          time.Time `json:"last_updated"`
}

// Alert asks caregiving staff to follow up on a user. Created by the engine;
// resolved by the staff review workflow.
type Alert struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	Severity   Tier       `json:"severity"`
	Message    string     `json:"message"`
	IsResolved bool       `json:"is_resolved"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}
