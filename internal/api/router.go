package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Ggus23/Integrador-Final/internal/db"
	"github.com/Ggus23/Integrador-Final/internal/logger"
	"github.com/Ggus23/Integrador-Final/internal/middleware"
	"github.com/Ggus23/Integrador-Final/internal/models"
	"github.com/Ggus23/Integrador-Final/internal/services"
)

// Router owns the HTTP surface and the services behind it.
type Router struct {
	auth        *services.AuthService
	assessments *services.AssessmentService
	checkins    *services.CheckinService
	alerts      *services.AlertService
	risk        *services.RiskService
	classifier  *services.RiskClassifier
	store       db.Store
	validate    *validator.Validate
	log         *logger.Logger
}

func NewRouter(store db.Store, classifier *services.RiskClassifier, log *logger.Logger) *Router {
	if log == nil {
		log = logger.NewNop()
	}
	return &Router{
		auth:        services.NewAuthService(store, middleware.SignToken),
		assessments: services.NewAssessmentService(store, classifier),
		checkins:    services.NewCheckinService(store),
		alerts:      services.NewAlertService(store),
		risk:        services.NewRiskService(store),
		classifier:  classifier,
		store:       store,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		log:         log,
	}
}

// Register mounts every route on the mux. Authentication claims are read
// from the request context, so the mux must sit behind middleware.WithAuth.
func (rt *Router) Register(mux *http.ServeMux) {
	auth := middleware.RequireAuth
	staff := middleware.RequireRole(models.RolePsychologist)
	admin := middleware.RequireRole()

	mux.HandleFunc("/api/auth/register", rt.handleRegister)
	mux.HandleFunc("/api/auth/login", rt.handleLogin)

	mux.Handle("/api/assessments", auth(http.HandlerFunc(rt.handleListAssessments)))
	mux.Handle("/api/assessments/", auth(http.HandlerFunc(rt.handleAssessmentScoped)))

	mux.Handle("/api/checkins", auth(http.HandlerFunc(rt.handleCreateCheckin)))
	mux.Handle("/api/checkins/me", auth(http.HandlerFunc(rt.handleMyCheckins)))

	mux.Handle("/api/alerts", staff(http.HandlerFunc(rt.handleListAlerts)))
	mux.Handle("/api/alerts/me", auth(http.HandlerFunc(rt.handleMyAlerts)))
	mux.Handle("/api/alerts/", staff(http.HandlerFunc(rt.handleResolveAlert)))

	mux.Handle("/api/risk/summary", auth(http.HandlerFunc(rt.handleRiskSummary)))
	mux.Handle("/api/risk/importance", staff(http.HandlerFunc(rt.handleImportance)))

	mux.Handle("/api/admin/seed", admin(http.HandlerFunc(rt.handleSeed)))
}

func (rt *Router) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return services.NewInvalidError("invalid request body")
	}
	if err := rt.validate.Struct(dst); err != nil {
		return services.NewInvalidError(err.Error())
	}
	return nil
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"max=120"`
}

func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req registerRequest
	if err := rt.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := rt.auth.Register(req.Email, req.Password, req.FullName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req loginRequest
	if err := rt.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := rt.auth.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (rt *Router) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	list, err := rt.assessments.ListAssessments()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleAssessmentScoped serves everything under /api/assessments/:
// "responses" (submit), "responses/me" (history) and ":key" (definition
// lookup by scale key, e.g. PSS-10).
func (rt *Router) handleAssessmentScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/assessments/")
	switch {
	case rest == "responses":
		rt.handleSubmitResponse(w, r)
	case rest == "responses/me":
		rt.handleMyResponses(w, r)
	case rest != "" && !strings.Contains(rest, "/"):
		rt.handleGetAssessment(w, r, rest)
	default:
		http.NotFound(w, r)
	}
}

func (rt *Router) handleGetAssessment(w http.ResponseWriter, r *http.Request, key string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a, err := rt.assessments.GetAssessmentByType(key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

type submitRequest struct {
	AssessmentID int64          `json:"assessment_id" validate:"required,gt=0"`
	Answers      map[string]int `json:"answers" validate:"required,min=1"`
}

func (rt *Router) handleSubmitResponse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req submitRequest
	if err := rt.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := rt.checkAnswerRanges(req.AssessmentID, req.Answers); err != nil {
		writeError(w, err)
		return
	}
	resp, err := rt.assessments.ProcessSubmission(uid, req.AssessmentID, req.Answers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// checkAnswerRanges rejects answers for unknown items or outside the item's
// declared scale. The scoring pipeline itself trusts its input, so malformed
// submissions must be stopped here.
func (rt *Router) checkAnswerRanges(assessmentID int64, answers map[string]int) error {
	a, err := rt.store.GetAssessmentByID(assessmentID)
	if err != nil {
		return err
	}
	if a == nil {
		return services.NewNotFoundError("assessment not found")
	}
	items := make(map[string]models.AssessmentItem, len(a.Items))
	for _, item := range a.Items {
		items[item.ID] = item
	}
	for id, v := range answers {
		item, ok := items[id]
		if !ok {
			return services.NewInvalidError("unknown item: " + id)
		}
		if v < item.ScaleMin || v > item.ScaleMax {
			return services.NewInvalidError("answer out of range for item " + id)
		}
	}
	return nil
}

func (rt *Router) handleMyResponses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	list, err := rt.assessments.History(uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type checkinRequest struct {
	MoodScore        int    `json:"mood_score" validate:"required,min=1,max=5"`
	EnergyLevel      *int   `json:"energy_level" validate:"omitempty,min=1,max=5"`
	SleepHours       *int   `json:"sleep_hours" validate:"omitempty,min=0,max=24"`
	AcademicPressure *int   `json:"academic_pressure" validate:"omitempty,min=1,max=5"`
	Note             string `json:"note" validate:"max=500"`
}

type checkinResponse struct {
	Checkin  *models.EmotionalCheckin `json:"checkin"`
	MoodTier models.Tier              `json:"mood_tier"`
}

func (rt *Router) handleCreateCheckin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req checkinRequest
	if err := rt.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	checkin, tier, err := rt.checkins.Create(uid, services.CheckinInput{
		MoodScore:        req.MoodScore,
		EnergyLevel:      req.EnergyLevel,
		SleepHours:       req.SleepHours,
		AcademicPressure: req.AcademicPressure,
		Note:             req.Note,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, checkinResponse{Checkin: checkin, MoodTier: tier})
}

func (rt *Router) handleMyCheckins(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := rt.checkins.History(uid, offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (rt *Router) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	severity := models.Tier(r.URL.Query().Get("severity"))
	status := r.URL.Query().Get("status")
	list, err := rt.alerts.List(severity, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (rt *Router) handleMyAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	list, err := rt.alerts.ListMine(uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type resolveRequest struct {
	IsResolved *bool `json:"is_resolved" validate:"required"`
}

func (rt *Router) handleResolveAlert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/api/alerts/"), 10, 64)
	if err != nil {
		writeError(w, services.NewInvalidError("invalid alert id"))
		return
	}
	var req resolveRequest
	if err := rt.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	alert, err := rt.alerts.Resolve(id, *req.IsResolved)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alert)
}

func (rt *Router) handleRiskSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	summary, err := rt.risk.Summary(uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type importanceResponse struct {
	ModelBacked bool               `json:"model_backed"`
	Importance  map[string]float64 `json:"importance"`
}

func (rt *Router) handleImportance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, importanceResponse{
		ModelBacked: rt.classifier.ModelBacked(),
		Importance:  rt.classifier.FeatureImportance(),
	})
}

func (rt *Router) handleSeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	n, err := db.SeedDefaultAssessments(rt.store)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"seeded": n})
}
