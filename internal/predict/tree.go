// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package predict

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// Ensemble kinds.
const (
	KindRegressor  = "regressor"
	KindClassifier = "classifier"
)

// leaf marks a node without children in the flattened tree arrays.
const leaf = -1

// Tree is a fitted binary decision tree in flattened array form: node i
// splits on Feature[i] <= Threshold[i], going to ChildrenLeft[i] when true.
// Value[i] holds the regression output (one element) or per-class weights.
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// TreeEnsemble is one or more trees evaluated together. A single decision
// tree is an ensemble of one.
type TreeEnsemble struct {
	Kind      string `json:"kind"`
	NFeatures int    `json:"n_features"`
	// Classes maps class weight positions to labels (classifiers only).
	Classes []int  `json:"classes,omitempty"`
	Trees   []Tree `json:"trees"`
}

// LoadTreeEnsemble decodes and validates a JSON tree export.
func LoadTreeEnsemble(path string) (*TreeEnsemble, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path built from configured model directories
	if err != nil {
		return nil, err
	}
	var ens TreeEnsemble
	if err := json.Unmarshal(data, &ens); err != nil {
		return nil, fmt.Errorf("decode tree ensemble: %w", err)
	}
	if err := ens.Validate(); err != nil {
		return nil, err
	}
	return &ens, nil
}

// Validate checks the structural invariants evaluation relies on.
func (m *TreeEnsemble) Validate() error {
	if m.Kind != KindRegressor && m.Kind != KindClassifier {
		return fmt.Errorf("tree ensemble kind %q is not %q or %q", m.Kind, KindRegressor, KindClassifier)
	}
	if m.NFeatures <= 0 {
		return errors.New("tree ensemble declares no features")
	}
	if len(m.Trees) == 0 {
		return errors.New("tree ensemble has no trees")
	}
	if m.Kind == KindClassifier && len(m.Classes) == 0 {
		return errors.New("classifier ensemble has no classes")
	}

	for ti, t := range m.Trees {
		n := len(t.ChildrenLeft)
		if n == 0 || len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
			return fmt.Errorf("tree %d: node arrays have inconsistent lengths", ti)
		}
		for i := 0; i < n; i++ {
			l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
			if (l == leaf) != (r == leaf) {
				return fmt.Errorf("tree %d node %d: half-leaf node", ti, i)
			}
			if l == leaf {
				if m.Kind == KindRegressor && len(t.Value[i]) < 1 {
					return fmt.Errorf("tree %d node %d: leaf has no value", ti, i)
				}
				if m.Kind == KindClassifier && len(t.Value[i]) != len(m.Classes) {
					return fmt.Errorf("tree %d node %d: leaf has %d class weights, want %d", ti, i, len(t.Value[i]), len(m.Classes))
				}
				continue
			}
			// Children always come after their parent, which rules out cycles
			if l <= i || r <= i || l >= n || r >= n {
				return fmt.Errorf("tree %d node %d: child index out of range", ti, i)
			}
			if f := t.Feature[i]; f < 0 || f >= m.NFeatures {
				return fmt.Errorf("tree %d node %d: feature %d out of range", ti, i, f)
			}
		}
	}
	return nil
}

// Width returns the fitted feature count.
func (m *TreeEnsemble) Width() int {
	return m.NFeatures
}

// PredictValue averages the leaf outputs of every tree.
func (m *TreeEnsemble) PredictValue(_ context.Context, x []float64) (float64, error) {
	if m.Kind != KindRegressor {
		return 0, fmt.Errorf("tree ensemble is a %s, not a regressor", m.Kind)
	}
	if err := CheckWidth(m.NFeatures, x); err != nil {
		return 0, err
	}

	sum := 0.0
	for i := range m.Trees {
		sum += m.Trees[i].Value[m.Trees[i].leafFor(x)][0]
	}
	return sum / float64(len(m.Trees)), nil
}

// PredictClass averages per-tree class probabilities and returns the label
// with the highest mean. Ties go to the earlier class.
func (m *TreeEnsemble) PredictClass(_ context.Context, x []float64) (int, error) {
	if m.Kind != KindClassifier {
		return 0, fmt.Errorf("tree ensemble is a %s, not a classifier", m.Kind)
	}
	if err := CheckWidth(m.NFeatures, x); err != nil {
		return 0, err
	}

	proba := make([]float64, len(m.Classes))
	for i := range m.Trees {
		weights := m.Trees[i].Value[m.Trees[i].leafFor(x)]
		total := 0.0
		for _, w := range weights {
			total += w
		}
		if total == 0 {
			continue
		}
		for c, w := range weights {
			proba[c] += w / total
		}
	}

	best := 0
	for c := 1; c < len(proba); c++ {
		if proba[c] > proba[best] {
			best = c
		}
	}
	return m.Classes[best], nil
}

func (t *Tree) leafFor(x []float64) int {
	node := 0
	for t.ChildrenLeft[node] != leaf {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return node
}
