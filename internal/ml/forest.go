// Package ml loads and evaluates the serialized risk classifier.
//
// Training happens offline: the training pipeline fits a random forest on
// historical (pss_score, mood_avg, bad_days_freq, study_pressure) rows and
// exports it as a JSON artifact. This package only reads that artifact.
package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Node is one decision node in a flattened tree. Internal nodes route on
// feature <= threshold (left) versus > threshold (right); a node with
// Left == -1 is a leaf voting for Class.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Class     int     `json:"class"`
}

// Tree is a single decision tree stored as a flat node array rooted at 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// ForestModel is a trained random-forest classifier. Immutable after Load;
// safe for concurrent Predict calls.
type ForestModel struct {
	Version     int       `json:"version"`
	Features    []string  `json:"features"`
	Classes     []string  `json:"classes"`
	Importances []float64 `json:"importances,omitempty"`
	Trees       []Tree    `json:"trees"`
}

// Load reads and validates a model artifact from path.
func Load(path string) (*ForestModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	var m ForestModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid model artifact: %w", err)
	}
	return &m, nil
}

func (m *ForestModel) validate() error {
	if len(m.Features) == 0 {
		return errors.New("no features declared")
	}
	if len(m.Classes) < 2 {
		return errors.New("fewer than two classes")
	}
	if len(m.Trees) == 0 {
		return errors.New("no trees")
	}
	if len(m.Importances) > 0 && len(m.Importances) != len(m.Features) {
		return errors.New("importances length does not match features")
	}
	for ti, t := range m.Trees {
		if len(t.Nodes) == 0 {
			return fmt.Errorf("tree %d is empty", ti)
		}
		for ni, n := range t.Nodes {
			if n.Left == -1 {
				if n.Class < 0 || n.Class >= len(m.Classes) {
					return fmt.Errorf("tree %d node %d: leaf class %d out of range", ti, ni, n.Class)
				}
				continue
			}
			if n.Feature < 0 || n.Feature >= len(m.Features) {
				return fmt.Errorf("tree %d node %d: feature %d out of range", ti, ni, n.Feature)
			}
			if n.Left < 0 || n.Left >= len(t.Nodes) || n.Right < 0 || n.Right >= len(t.Nodes) {
				return fmt.Errorf("tree %d node %d: child index out of range", ti, ni)
			}
		}
	}
	return nil
}

// Predict runs the feature vector through every tree and returns the index of
// the majority class along with its vote share as confidence.
func (m *ForestModel) Predict(features []float64) (int, float64, error) {
	if len(features) != len(m.Features) {
		return 0, 0, fmt.Errorf("expected %d features, got %d", len(m.Features), len(features))
	}
	votes := make([]int, len(m.Classes))
	for ti := range m.Trees {
		class, err := m.Trees[ti].walk(features)
		if err != nil {
			return 0, 0, fmt.Errorf("tree %d: %w", ti, err)
		}
		votes[class]++
	}
	best := 0
	for c := 1; c < len(votes); c++ {
		if votes[c] > votes[best] {
			best = c
		}
	}
	return best, float64(votes[best]) / float64(len(m.Trees)), nil
}

// FeatureImportances returns the exported importances keyed by feature name,
// or nil when the artifact carries none.
func (m *ForestModel) FeatureImportances() map[string]float64 {
	if len(m.Importances) != len(m.Features) {
		return nil
	}
	out := make(map[string]float64, len(m.Features))
	for i, name := range m.Features {
		out[name] = m.Importances[i]
	}
	return out
}

func (t *Tree) walk(features []float64) (int, error) {
	idx := 0
	// Bounded by node count to defend against cycles in a corrupt artifact.
	for steps := 0; steps <= len(t.Nodes); steps++ {
		n := t.Nodes[idx]
		if n.Left == -1 {
			return n.Class, nil
		}
		if features[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
	return 0, errors.New("cycle detected")
}
