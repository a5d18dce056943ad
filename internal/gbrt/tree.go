package gbrt

import (
	"sort"
)

// Node is one node of a regression tree, stored in a flat slice.
// Leaves have Feature == -1.
type Node struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t,omitempty"`
	Left      int     `json:"l,omitempty"`
	Right     int     `json:"r,omitempty"`
	Value     float64 `json:"v"`
}

// IsLeaf reports whether the node is terminal
func (n Node) IsLeaf() bool {
	return n.Feature < 0
}

// Tree is a binary regression tree. Samples with x[Feature] <= Threshold go left.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Predict walks the tree for one sample.
func (t *Tree) Predict(x []float64) float64 {
	if len(t.Nodes) == 0 {
		return 0
	}
	i := 0
	for {
		n := t.Nodes[i]
		if n.IsLeaf() {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Depth returns the number of edges on the longest root-to-leaf path.
func (t *Tree) Depth() int {
	if len(t.Nodes) == 0 {
		return 0
	}
	var walk func(i int) int
	walk = func(i int) int {
		n := t.Nodes[i]
		if n.IsLeaf() {
			return 0
		}
		l, r := walk(n.Left), walk(n.Right)
		if l > r {
			return l + 1
		}
		return r + 1
	}
	return walk(0)
}

type treeBuilder struct {
	x          [][]float64
	y          []float64
	maxDepth   int
	minLeaf    int
	nFeatures  int
	tree       Tree
	importance []float64
}

// fitTree grows a squared-error regression tree over the rows in idx.
// importance receives the weighted impurity decrease per feature.
func fitTree(x [][]float64, y []float64, idx []int, maxDepth, minLeaf int, importance []float64) Tree {
	b := &treeBuilder{
		x:          x,
		y:          y,
		maxDepth:   maxDepth,
		minLeaf:    minLeaf,
		nFeatures:  len(importance),
		importance: importance,
	}
	b.grow(idx, 0)
	return b.tree
}

func (b *treeBuilder) grow(idx []int, depth int) int {
	sum := 0.0
	for _, i := range idx {
		sum += b.y[i]
	}
	n := float64(len(idx))
	pos := len(b.tree.Nodes)
	b.tree.Nodes = append(b.tree.Nodes, Node{Feature: -1, Value: sum / n})

	if depth >= b.maxDepth || len(idx) < 2*b.minLeaf {
		return pos
	}

	s, ok := b.bestSplit(idx, sum)
	if !ok {
		return pos
	}

	left := make([]int, 0, s.nLeft)
	right := make([]int, 0, len(idx)-s.nLeft)
	for _, i := range idx {
		if b.x[i][s.feature] <= s.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	b.importance[s.feature] += s.gain
	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.tree.Nodes[pos] = Node{Feature: s.feature, Threshold: s.threshold, Left: l, Right: r, Value: sum / n}
	return pos
}

type split struct {
	feature   int
	threshold float64
	nLeft     int
	gain      float64
}

// bestSplit scans every feature for the threshold with the largest reduction
// in squared error. Ties keep the first candidate found.
func (b *treeBuilder) bestSplit(idx []int, total float64) (split, bool) {
	n := len(idx)
	parent := total * total / float64(n)
	best := split{gain: minGain}
	found := false

	order := make([]int, n)
	for f := 0; f < b.nFeatures; f++ {
		copy(order, idx)
		sort.SliceStable(order, func(a, c int) bool {
			return b.x[order[a]][f] < b.x[order[c]][f]
		})

		left := 0.0
		for k := 0; k < n-1; k++ {
			left += b.y[order[k]]
			nl := k + 1
			nr := n - nl
			if nl < b.minLeaf {
				continue
			}
			if nr < b.minLeaf {
				break
			}
			lo, hi := b.x[order[k]][f], b.x[order[k+1]][f]
			if lo == hi {
				continue
			}
			right := total - left
			gain := left*left/float64(nl) + right*right/float64(nr) - parent
			if gain > best.gain {
				threshold := lo + (hi-lo)/2
				if threshold >= hi {
					threshold = lo
				}
				best = split{feature: f, threshold: threshold, nLeft: nl, gain: gain}
				found = true
			}
		}
	}
	return best, found
}

// minGain filters out splits whose improvement is floating-point noise.
const minGain = 1e-12
