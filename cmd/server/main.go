package main

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Ggus23/Integrador-Final/internal/api"
	"github.com/Ggus23/Integrador-Final/internal/db"
	"github.com/Ggus23/Integrador-Final/internal/logger"
	"github.com/Ggus23/Integrador-Final/internal/middleware"
	"github.com/Ggus23/Integrador-Final/internal/ml"
	"github.com/Ggus23/Integrador-Final/internal/services"
	"github.com/Ggus23/Integrador-Final/internal/utils"
)

func main() {
	// Optional .env for local development; real deployments set env directly.
	_ = godotenv.Load()

	log, err := logger.New(utils.SafeEnv("MINDCARE_LOG_MODE", "prod"))
	if err != nil {
		os.Stderr.WriteString("logger init: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	store, closeStore, err := openStore(log)
	if err != nil {
		log.Fatal("store init failed", "error", err)
	}
	defer closeStore()

	if n, err := db.SeedDefaultAssessments(store); err != nil {
		log.Fatal("seeding assessments failed", "error", err)
	} else if n > 0 {
		log.Info("seeded assessment catalog", "count", n)
	}

	classifier := services.NewRiskClassifier(loadModel(log), log)

	mux := http.NewServeMux()
	api.NewRouter(store, classifier, log).Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":           true,
			"name":         "MindCare API",
			"model_backed": classifier.ModelBacked(),
		})
	})

	handler := middleware.CORS(
		middleware.SecureHeaders(
			middleware.WithAuth(
				middleware.RequestLogger(log)(mux))))

	addr := utils.SafeEnv("MINDCARE_ADDR", ":8080")
	log.Info("server listening", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal("server error", "error", err)
	}
}

// openStore picks sqlite when MINDCARE_SQLITE_PATH is set, otherwise an
// in-memory store suitable for demos and tests.
func openStore(log *logger.Logger) (db.Store, func(), error) {
	path := os.Getenv("MINDCARE_SQLITE_PATH")
	if path == "" {
		log.Warn("MINDCARE_SQLITE_PATH not set, using in-memory store")
		return db.NewMemoryStore(), func() {}, nil
	}
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, nil, err
	}
	if err := db.RunMigrations(conn, os.Getenv("MINDCARE_MIGRATIONS_DIR")); err != nil {
		conn.Close()
		return nil, nil, err
	}
	store, err := db.NewSQLiteStore(conn)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	log.Info("sqlite store ready", "path", path)
	return store, func() { conn.Close() }, nil
}

// loadModel reads the exported forest artifact. A missing or unreadable
// artifact is not fatal: the classifier degrades to its heuristic.
func loadModel(log *logger.Logger) *ml.ForestModel {
	path := os.Getenv("MINDCARE_MODEL_PATH")
	if path == "" {
		log.Warn("MINDCARE_MODEL_PATH not set, classifier runs heuristic only")
		return nil
	}
	model, err := ml.Load(path)
	if err != nil {
		log.Warn("model load failed, classifier runs heuristic only", "path", path, "error", err)
		return nil
	}
	log.Info("risk model loaded", "path", path, "trees", len(model.Trees))
	return model
}
