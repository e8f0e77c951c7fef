// Package predictor evaluates the pretrained intrusion classifier. The model
// is an external artifact: the offline training pipeline exports a JSON
// decision forest, and this package only walks it. Model lifecycle
// (retraining, versioning) is not handled here.
package predictor

import (
	"encoding/json"
	"fmt"
	"os"
)

// Predictor maps a numeric feature vector to a binary intrusion label.
type Predictor interface {
	// Predict returns 0 (benign) or 1 (intrusion).
	Predict(features []float64) (int, error)
	// Arity returns the feature-vector length the model was trained on.
	Arity() int
}

// ErrArityMismatch is returned when a feature vector does not match the
// model's trained arity. This is a programming-contract violation, not a
// per-request input error.
type ErrArityMismatch struct {
	Want, Got int
}

func (e *ErrArityMismatch) Error() string {
	return fmt.Sprintf("feature vector has %d elements, model expects %d", e.Got, e.Want)
}

// node is one decision-tree node. Leaf nodes carry a label and no children;
// internal nodes route on features[Feature] <= Threshold.
type node struct {
	Feature   int      `json:"feature"`
	Threshold float64  `json:"threshold"`
	Left      int      `json:"left"`
	Right     int      `json:"right"`
	Leaf      *int     `json:"leaf,omitempty"`
}

type tree struct {
	Nodes []node `json:"nodes"`
}

type modelFile struct {
	Version      int      `json:"version"`
	FeatureNames []string `json:"feature_names"`
	Trees        []tree   `json:"trees"`
}

// Forest is a majority-vote decision forest loaded from a model artifact.
type Forest struct {
	arity int
	trees []tree
}

// Load reads and validates a serialized model. Callers treat failure as
// fatal at startup; a service must not run without a loaded model.
func Load(path string) (*Forest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	var mf modelFile
	if err := json.Unmarshal(raw, &mf); err != nil {
		return nil, fmt.Errorf("failed to decode model file: %w", err)
	}

	return newForest(mf)
}

func newForest(mf modelFile) (*Forest, error) {
	if len(mf.FeatureNames) == 0 {
		return nil, fmt.Errorf("model declares no features")
	}
	if len(mf.Trees) == 0 {
		return nil, fmt.Errorf("model contains no trees")
	}

	arity := len(mf.FeatureNames)
	for ti, tr := range mf.Trees {
		if len(tr.Nodes) == 0 {
			return nil, fmt.Errorf("tree %d is empty", ti)
		}
		for ni, n := range tr.Nodes {
			if n.Leaf != nil {
				if *n.Leaf != 0 && *n.Leaf != 1 {
					return nil, fmt.Errorf("tree %d node %d: leaf label %d out of range", ti, ni, *n.Leaf)
				}
				continue
			}
			if n.Feature < 0 || n.Feature >= arity {
				return nil, fmt.Errorf("tree %d node %d: feature index %d out of range", ti, ni, n.Feature)
			}
			if n.Left < 0 || n.Left >= len(tr.Nodes) || n.Right < 0 || n.Right >= len(tr.Nodes) {
				return nil, fmt.Errorf("tree %d node %d: child index out of range", ti, ni)
			}
			// Children must be forward references so evaluation terminates.
			if n.Left <= ni || n.Right <= ni {
				return nil, fmt.Errorf("tree %d node %d: child index must be a forward reference", ti, ni)
			}
		}
	}

	return &Forest{arity: arity, trees: mf.Trees}, nil
}

func (f *Forest) Arity() int {
	return f.arity
}

// Predict walks each tree and returns the majority label.
func (f *Forest) Predict(features []float64) (int, error) {
	if len(features) != f.arity {
		return 0, &ErrArityMismatch{Want: f.arity, Got: len(features)}
	}

	positive := 0
	for _, tr := range f.trees {
		if tr.eval(features) == 1 {
			positive++
		}
	}

	if positive*2 > len(f.trees) {
		return 1, nil
	}
	return 0, nil
}

func (t tree) eval(features []float64) int {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf != nil {
			return *n.Leaf
		}
		if features[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}
