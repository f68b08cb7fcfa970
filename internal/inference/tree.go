package inference

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// TreeNode is one node of an XGBoost JSON tree dump
// (booster.get_dump(dump_format="json")).
type TreeNode struct {
	NodeID         int        `json:"nodeid"`
	Split          string     `json:"split,omitempty"`
	SplitCondition float64    `json:"split_condition,omitempty"`
	Yes            int        `json:"yes,omitempty"`
	No             int        `json:"no,omitempty"`
	Missing        int        `json:"missing,omitempty"`
	Leaf           *float64   `json:"leaf,omitempty"`
	Children       []TreeNode `json:"children,omitempty"`
}

// compiledNode is a flattened TreeNode with the split feature resolved to a column.
type compiledNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	yes       int
	no        int
	missing   int
}

type compiledTree []compiledNode

// TreeEnsemble sums the leaf values of boosted regression trees on top of a base score.
type TreeEnsemble struct {
	baseScore   float64
	numFeatures int
	trees       []compiledTree
}

// NewTreeEnsemble compiles dumped trees against featureNames. Split features may be
// given by name or as "f<column>".
func NewTreeEnsemble(baseScore float64, trees []TreeNode, featureNames []string) (*TreeEnsemble, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("tree ensemble: no trees")
	}
	columns := make(map[string]int, len(featureNames))
	for i, n := range featureNames {
		columns[n] = i
	}
	e := &TreeEnsemble{baseScore: baseScore, numFeatures: len(featureNames)}
	for i, root := range trees {
		t, err := compileTree(root, columns, len(featureNames))
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		e.trees = append(e.trees, t)
	}
	return e, nil
}

func compileTree(root TreeNode, columns map[string]int, width int) (compiledTree, error) {
	byID := make(map[int]TreeNode)
	var walk func(n TreeNode) error
	walk = func(n TreeNode) error {
		if _, dup := byID[n.NodeID]; dup {
			return fmt.Errorf("duplicate node id %d", n.NodeID)
		}
		byID[n.NodeID] = n
		for _, c := range n.Children {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}

	maxID := 0
	for id := range byID {
		if id < 0 {
			return nil, fmt.Errorf("negative node id %d", id)
		}
		if id > maxID {
			maxID = id
		}
	}
	tree := make(compiledTree, maxID+1)
	for id, n := range byID {
		if n.Leaf != nil {
			tree[id] = compiledNode{leaf: true, value: *n.Leaf}
			continue
		}
		col, err := resolveFeature(n.Split, columns, width)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", id, err)
		}
		for _, child := range []int{n.Yes, n.No, n.Missing} {
			if _, ok := byID[child]; !ok {
				return nil, fmt.Errorf("node %d: child %d not found", id, child)
			}
		}
		tree[id] = compiledNode{
			feature:   col,
			threshold: n.SplitCondition,
			yes:       n.Yes,
			no:        n.No,
			missing:   n.Missing,
		}
	}
	if _, ok := byID[0]; !ok {
		return nil, fmt.Errorf("root node 0 not found")
	}
	return tree, nil
}

func resolveFeature(split string, columns map[string]int, width int) (int, error) {
	if col, ok := columns[split]; ok {
		return col, nil
	}
	if strings.HasPrefix(split, "f") {
		if col, err := strconv.Atoi(split[1:]); err == nil && col >= 0 && col < width {
			return col, nil
		}
	}
	return 0, fmt.Errorf("split feature %q: %w", split, ErrFeatureSchemaMismatch)
}

// NumFeatures implements Regressor.
func (e *TreeEnsemble) NumFeatures() int {
	return e.numFeatures
}

// Predict implements Regressor.
func (e *TreeEnsemble) Predict(x mat.Vector) (float64, error) {
	if x.Len() != e.numFeatures {
		return 0, fmt.Errorf("tree ensemble expects %d features, got %d: %w", e.numFeatures, x.Len(), ErrFeatureSchemaMismatch)
	}
	sum := e.baseScore
	for i, t := range e.trees {
		v, err := t.eval(x)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += v
	}
	return sum, nil
}

// eval compares in float32, matching how XGBoost stores split conditions.
func (t compiledTree) eval(x mat.Vector) (float64, error) {
	id := 0
	// A well-formed tree reaches a leaf in fewer steps than it has nodes.
	for steps := 0; steps <= len(t); steps++ {
		n := t[id]
		if n.leaf {
			return n.value, nil
		}
		v := x.AtVec(n.feature)
		switch {
		case math.IsNaN(v):
			id = n.missing
		case float32(v) < float32(n.threshold):
			id = n.yes
		default:
			id = n.no
		}
	}
	return 0, fmt.Errorf("cycle detected")
}
