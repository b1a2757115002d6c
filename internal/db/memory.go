package db

import (
	"sort"
	"strings"
	"sync"

	"github.com/Ggus23/Integrador-Final/internal/models"
	"github.com/Ggus23/Integrador-Final/internal/services"
)

// MemoryStore is an in-memory Store used for development mode and tests.
// It mirrors the sqlite store's semantics, including the atomic submission
// commit and the last-writer-wins summary upsert.
type MemoryStore struct {
	mu          sync.RWMutex
	nextID      int64
	assessments map[int64]*models.Assessment
	responses   []*models.AssessmentResponse
	checkins    []*models.EmotionalCheckin
	summaries   map[int64]*models.RiskSummary
	alerts      map[int64]*models.Alert
	users       map[int64]*models.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		assessments: map[int64]*models.Assessment{},
		summaries:   map[int64]*models.RiskSummary{},
		alerts:      map[int64]*models.Alert{},
		users:       map[int64]*models.User{},
	}
}

// nextSeq must be called with mu held.
func (s *MemoryStore) nextSeq() int64 {
	s.nextID++
	return s.nextID
}

func (s *MemoryStore) InsertAssessment(a *models.Assessment) (*models.Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *a
	stored.ID = s.nextSeq()
	s.assessments[stored.ID] = &stored
	return &stored, nil
}

func (s *MemoryStore) GetAssessmentByID(id int64) (*models.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assessments[id], nil
}

func (s *MemoryStore) GetAssessmentByType(scaleType string) (*models.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.assessments {
		if a.Type == scaleType {
			return a, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) ListAssessments() ([]*models.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Assessment, 0, len(s.assessments))
	for _, a := range s.assessments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) ListResponsesByUser(userID int64) ([]*models.AssessmentResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.AssessmentResponse
	for _, r := range s.responses {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) CommitSubmission(resp *models.AssessmentResponse, summary *models.RiskSummary, alert *models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp.ID = s.nextSeq()
	stored := *resp
	s.responses = append(s.responses, &stored)

	up := *summary
	if existing := s.summaries[summary.UserID]; existing != nil {
		up.ID = existing.ID
	} else {
		up.ID = s.nextSeq()
	}
	s.summaries[summary.UserID] = &up

	if alert != nil {
		alert.ID = s.nextSeq()
		cp := *alert
		s.alerts[cp.ID] = &cp
	}
	return nil
}

func (s *MemoryStore) InsertCheckin(c *models.EmotionalCheckin) (*models.EmotionalCheckin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *c
	stored.ID = s.nextSeq()
	s.checkins = append(s.checkins, &stored)
	return &stored, nil
}

func (s *MemoryStore) listCheckins(userID int64) []*models.EmotionalCheckin {
	var out []*models.EmotionalCheckin
	for _, c := range s.checkins {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *MemoryStore) ListCheckinsByUser(userID int64, offset, limit int) ([]*models.EmotionalCheckin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.listCheckins(userID)
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (s *MemoryStore) ListRecentCheckins(userID int64, limit int) ([]*models.EmotionalCheckin, error) {
	return s.ListCheckinsByUser(userID, 0, limit)
}

func (s *MemoryStore) GetRiskSummary(userID int64) (*models.RiskSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sum := s.summaries[userID]; sum != nil {
		cp := *sum
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryStore) InsertAlert(a *models.Alert) (*models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *a
	stored.ID = s.nextSeq()
	s.alerts[stored.ID] = &stored
	return &stored, nil
}

func (s *MemoryStore) ListAlerts(f services.AlertFilter) ([]*models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Alert
	for _, a := range s.alerts {
		if f.Severity != "" && a.Severity != f.Severity {
			continue
		}
		if f.Resolved != nil && a.IsResolved != *f.Resolved {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) ListAlertsByUser(userID int64) ([]*models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Alert
	for _, a := range s.alerts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) GetAlert(id int64) (*models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a := s.alerts[id]; a != nil {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryStore) UpdateAlert(a *models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.alerts[a.ID] == nil {
		return services.NewNotFoundError("alert not found")
	}
	cp := *a
	s.alerts[a.ID] = &cp
	return nil
}

func (s *MemoryStore) FindUserByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) AddUser(u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *u
	stored.ID = s.nextSeq()
	s.users[stored.ID] = &stored
	return &stored, nil
}
