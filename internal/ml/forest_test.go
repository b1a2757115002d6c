package ml

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

const sampleArtifact = `{
  "version": 1,
  "features": ["pss_score", "mood_avg", "bad_days_freq", "study_pressure"],
  "classes": ["Low", "Medium", "High"],
  "importances": [0.45, 0.25, 0.18, 0.12],
  "trees": [
    {"nodes": [
      {"feature": 0, "threshold": 20.0, "left": 1, "right": 2},
      {"left": -1, "right": -1, "class": 0},
      {"left": -1, "right": -1, "class": 2}
    ]},
    {"nodes": [
      {"feature": 1, "threshold": 2.5, "left": 1, "right": 2},
      {"left": -1, "right": -1, "class": 2},
      {"left": -1, "right": -1, "class": 0}
    ]},
    {"nodes": [
      {"left": -1, "right": -1, "class": 1}
    ]}
  ]
}`

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndPredict(t *testing.T) {
	m, err := Load(writeArtifact(t, sampleArtifact))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(m.Trees) != 3 {
		t.Fatalf("expected 3 trees, got %d", len(m.Trees))
	}

	// High stress, low mood: tree 1 votes High, tree 2 votes High,
	// tree 3 always votes Medium.
	class, conf, err := m.Predict([]float64{30, 1.5, 5, 8})
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	if class != 2 {
		t.Fatalf("class = %d, want 2 (High)", class)
	}
	if math.Abs(conf-2.0/3.0) > 1e-9 {
		t.Fatalf("confidence = %v, want 2/3", conf)
	}

	// Low stress, good mood: two Low votes.
	class, conf, err = m.Predict([]float64{5, 4.5, 0, 2})
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	if class != 0 {
		t.Fatalf("class = %d, want 0 (Low)", class)
	}
	if math.Abs(conf-2.0/3.0) > 1e-9 {
		t.Fatalf("confidence = %v, want 2/3", conf)
	}
}

func TestPredictFeatureCountMismatch(t *testing.T) {
	m, err := Load(writeArtifact(t, sampleArtifact))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, _, err := m.Predict([]float64{1, 2}); err == nil {
		t.Fatal("expected feature count error")
	}
}

func TestFeatureImportances(t *testing.T) {
	m, err := Load(writeArtifact(t, sampleArtifact))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	imp := m.FeatureImportances()
	if imp["pss_score"] != 0.45 || imp["study_pressure"] != 0.12 {
		t.Fatalf("unexpected importances: %v", imp)
	}
}

func TestLoadRejectsBadArtifacts(t *testing.T) {
	cases := map[string]string{
		"not json":          `{]`,
		"no features":       `{"classes":["Low","High"],"trees":[{"nodes":[{"left":-1,"class":0}]}]}`,
		"one class":         `{"features":["a"],"classes":["Low"],"trees":[{"nodes":[{"left":-1,"class":0}]}]}`,
		"no trees":          `{"features":["a"],"classes":["Low","High"],"trees":[]}`,
		"empty tree":        `{"features":["a"],"classes":["Low","High"],"trees":[{"nodes":[]}]}`,
		"class range":       `{"features":["a"],"classes":["Low","High"],"trees":[{"nodes":[{"left":-1,"class":5}]}]}`,
		"child range":       `{"features":["a"],"classes":["Low","High"],"trees":[{"nodes":[{"feature":0,"left":9,"right":1},{"left":-1,"class":0}]}]}`,
		"importances shape": `{"features":["a"],"classes":["Low","High"],"importances":[0.5,0.5],"trees":[{"nodes":[{"left":-1,"class":0}]}]}`,
	}
	for name, content := range cases {
		if _, err := Load(writeArtifact(t, content)); err == nil {
			t.Errorf("%s: expected load to fail", name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWalkDetectsCycle(t *testing.T) {
	tree := Tree{Nodes: []Node{{Feature: 0, Threshold: 1, Left: 0, Right: 0}}}
	if _, err := tree.walk([]float64{0}); err == nil {
		t.Fatal("expected cycle error")
	}
}
