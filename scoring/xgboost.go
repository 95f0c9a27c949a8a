package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"credit-risk/domain"
)

// XGBoost evaluates a gradient-boosted tree ensemble saved with XGBoost's
// JSON model format.
type XGBoost struct {
	info      ModelInfo
	columns   []int
	baseScore float64
	trees     []tree
}

type tree struct {
	left        []int
	right       []int
	feature     []int
	threshold   []float32
	defaultLeft []bool
}

type xgbDocument struct {
	Learner struct {
		FeatureNames    []string `json:"feature_names"`
		GradientBooster struct {
			Name  string `json:"name"`
			Model struct {
				Trees []xgbTree `json:"trees"`
			} `json:"model"`
		} `json:"gradient_booster"`
		LearnerModelParam struct {
			BaseScore  string `json:"base_score"`
			NumClass   string `json:"num_class"`
			NumFeature string `json:"num_feature"`
		} `json:"learner_model_param"`
		Objective struct {
			Name string `json:"name"`
		} `json:"objective"`
	} `json:"learner"`
}

type xgbTree struct {
	LeftChildren    []int     `json:"left_children"`
	RightChildren   []int     `json:"right_children"`
	SplitIndices    []int     `json:"split_indices"`
	SplitConditions []float64 `json:"split_conditions"`
	DefaultLeft     []flag    `json:"default_left"`
}

// flag accepts both the 0/1 and the true/false encodings of default_left.
type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "1", "true":
		*f = true
	case "0", "false":
		*f = false
	default:
		return fmt.Errorf("invalid default_left value %s", b)
	}
	return nil
}

func readXGBoost(r io.Reader, version string) (*XGBoost, error) {
	var doc xgbDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("could not decode xgboost model: %w", err)
	}
	learner := doc.Learner

	if name := learner.GradientBooster.Name; name != "" && name != "gbtree" {
		return nil, fmt.Errorf("%w: booster %q", ErrUnsupportedModel, name)
	}
	objective := learner.Objective.Name
	if objective != "binary:logistic" && objective != "reg:logistic" {
		return nil, fmt.Errorf("%w: objective %q", ErrUnsupportedModel, objective)
	}
	if nc := learner.LearnerModelParam.NumClass; nc != "" && nc != "0" && nc != "1" {
		return nil, fmt.Errorf("%w: %s classes", ErrUnsupportedModel, nc)
	}
	if nf := learner.LearnerModelParam.NumFeature; nf != "" && nf != strconv.Itoa(len(domain.FeatureNames)) {
		return nil, fmt.Errorf("%w: model has %s features", ErrModelSchema, nf)
	}

	columns, err := columnsFor(learner.FeatureNames)
	if err != nil {
		return nil, err
	}

	base, err := parseBaseScore(learner.LearnerModelParam.BaseScore)
	if err != nil {
		return nil, err
	}

	trees := make([]tree, len(learner.GradientBooster.Model.Trees))
	for i, t := range learner.GradientBooster.Model.Trees {
		trees[i], err = newTree(t, len(columns))
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
	}

	return &XGBoost{
		info: ModelInfo{
			Format:    FormatXGBoostJSON,
			Version:   version,
			Objective: objective,
			Trees:     len(trees),
			Features:  domain.FeatureNames,
		},
		columns:   columns,
		baseScore: math.Log(base / (1 - base)),
		trees:     trees,
	}, nil
}

// parseBaseScore handles both "5E-1" and the bracketed "[5E-1]" encodings.
func parseBaseScore(raw string) (float64, error) {
	raw = strings.Trim(strings.TrimSpace(raw), "[]")
	if raw == "" {
		return 0.5, nil
	}
	base, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid base_score %q: %w", raw, err)
	}
	if base <= 0 || base >= 1 {
		return 0, fmt.Errorf("%w: base_score %v outside (0,1)", ErrUnsupportedModel, base)
	}
	return base, nil
}

func newTree(t xgbTree, features int) (tree, error) {
	n := len(t.LeftChildren)
	if n == 0 {
		return tree{}, fmt.Errorf("empty tree")
	}
	if len(t.RightChildren) != n || len(t.SplitIndices) != n || len(t.SplitConditions) != n {
		return tree{}, fmt.Errorf("inconsistent node arrays")
	}

	out := tree{
		left:        t.LeftChildren,
		right:       t.RightChildren,
		feature:     t.SplitIndices,
		threshold:   make([]float32, n),
		defaultLeft: make([]bool, n),
	}
	for i := 0; i < n; i++ {
		out.threshold[i] = float32(t.SplitConditions[i])
		if i < len(t.DefaultLeft) {
			out.defaultLeft[i] = bool(t.DefaultLeft[i])
		}
		if out.left[i] == -1 {
			continue
		}
		// children always follow their parent, which rules out cycles
		if out.left[i] <= i || out.left[i] >= n || out.right[i] <= i || out.right[i] >= n {
			return tree{}, fmt.Errorf("node %d has invalid children", i)
		}
		if out.feature[i] < 0 || out.feature[i] >= features {
			return tree{}, fmt.Errorf("node %d splits on unknown feature %d", i, out.feature[i])
		}
	}
	return out, nil
}

// leaf walks the tree; leaf values live in split_conditions.
func (t tree) leaf(x []float32) float32 {
	node := 0
	for t.left[node] != -1 {
		v := x[t.feature[node]]
		switch {
		case math.IsNaN(float64(v)):
			if t.defaultLeft[node] {
				node = t.left[node]
			} else {
				node = t.right[node]
			}
		case v < t.threshold[node]:
			node = t.left[node]
		default:
			node = t.right[node]
		}
	}
	return t.threshold[node]
}

// Score implements Scorer.
func (m *XGBoost) Score(_ context.Context, features domain.FeatureVector) (float32, error) {
	values := features.Values()
	x := make([]float32, len(m.columns))
	for i, col := range m.columns {
		x[i] = float32(values[col])
	}

	var sum float32
	for _, t := range m.trees {
		sum += t.leaf(x)
	}
	return float32(sigmoid(m.baseScore + float64(sum))), nil
}

// Info implements Scorer.
func (m *XGBoost) Info() ModelInfo {
	return m.info
}
