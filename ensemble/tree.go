package ensemble

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// node is a single node in a decision tree, stored in the tree's flat node
// slice. Leaf nodes have Left == -1 and Right == -1.
type node struct {
	Feature   int     // split feature index (-1 for leaves)
	Threshold float64 // go left when value <= Threshold
	Left      int
	Right     int
	Class     int // majority class id, valid for leaves
}

// decisionTree is one ensemble member: a CART classifier grown on a
// bootstrap sample with a random feature subset considered at every split.
type decisionTree struct {
	nodes []node

	// importance accumulates, per feature, the gini gain of every split on
	// that feature weighted by the fraction of the sample reaching the node.
	importance []float64
}

// predict returns the class id for one row of features.
func (t *decisionTree) predict(row []float64) int {
	id := 0
	for {
		n := &t.nodes[id]
		if n.Left == -1 {
			return n.Class
		}
		if row[n.Feature] <= n.Threshold {
			id = n.Left
		} else {
			id = n.Right
		}
	}
}

// treeBuilder carries the grow-time state for one tree.
type treeBuilder struct {
	x        *mat.Dense
	y        []int
	nClasses int

	maxDepth int // 0 means unlimited
	minLeaf  int
	mtry     int

	rng    *rand.Rand
	nTotal float64 // rows in the bootstrap sample, for importance weighting

	tree *decisionTree
}

// growTree fits a decision tree on the given sample rows (indices into x,
// possibly repeated by the bootstrap).
func growTree(x *mat.Dense, y []int, nClasses int, sample []int, maxDepth, minLeaf, mtry int, rng *rand.Rand) *decisionTree {
	_, nFeatures := x.Dims()
	b := &treeBuilder{
		x:        x,
		y:        y,
		nClasses: nClasses,
		maxDepth: maxDepth,
		minLeaf:  minLeaf,
		mtry:     mtry,
		rng:      rng,
		nTotal:   float64(len(sample)),
		tree:     &decisionTree{importance: make([]float64, nFeatures)},
	}
	b.build(sample, 0)
	return b.tree
}

func (b *treeBuilder) build(rows []int, depth int) int {
	counts := b.classCounts(rows)

	if b.isLeaf(rows, counts, depth) {
		return b.addLeaf(counts)
	}

	feature, threshold, gain := b.bestSplit(rows, counts)
	if gain <= 0 {
		return b.addLeaf(counts)
	}

	b.tree.importance[feature] += gain * float64(len(rows)) / b.nTotal

	var left, right []int
	for _, row := range rows {
		if b.x.At(row, feature) <= threshold {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}

	id := len(b.tree.nodes)
	b.tree.nodes = append(b.tree.nodes, node{Feature: feature, Threshold: threshold, Left: -1, Right: -1})
	leftID := b.build(left, depth+1)
	rightID := b.build(right, depth+1)
	b.tree.nodes[id].Left = leftID
	b.tree.nodes[id].Right = rightID
	return id
}

func (b *treeBuilder) isLeaf(rows []int, counts []int, depth int) bool {
	if len(rows) < 2*b.minLeaf {
		return true
	}
	if b.maxDepth > 0 && depth >= b.maxDepth {
		return true
	}
	// Pure node.
	for _, c := range counts {
		if c == len(rows) {
			return true
		}
	}
	return false
}

func (b *treeBuilder) addLeaf(counts []int) int {
	// Majority class; ties break toward the lower class id, which is the
	// stable first-observed label order.
	best := 0
	for c, n := range counts {
		if n > counts[best] {
			best = c
		}
	}
	id := len(b.tree.nodes)
	b.tree.nodes = append(b.tree.nodes, node{Feature: -1, Left: -1, Right: -1, Class: best})
	return id
}

// bestSplit searches a random subset of mtry features for the threshold with
// the highest gini gain. Candidate thresholds are midpoints between
// consecutive distinct sorted values.
func (b *treeBuilder) bestSplit(rows []int, counts []int) (feature int, threshold, gain float64) {
	n := len(rows)
	parent := gini(counts, n)

	feature = -1
	perm := b.rng.Perm(len(b.tree.importance))
	candidates := perm[:b.mtry]

	sorted := make([]int, n)
	leftCounts := make([]int, b.nClasses)
	rightCounts := make([]int, b.nClasses)

	for _, f := range candidates {
		copy(sorted, rows)
		sort.Slice(sorted, func(a, c int) bool {
			return b.x.At(sorted[a], f) < b.x.At(sorted[c], f)
		})

		for i := range leftCounts {
			leftCounts[i] = 0
		}
		copy(rightCounts, counts)

		for i := 1; i < n; i++ {
			cls := b.y[sorted[i-1]]
			leftCounts[cls]++
			rightCounts[cls]--

			prev := b.x.At(sorted[i-1], f)
			cur := b.x.At(sorted[i], f)
			if prev == cur {
				continue
			}
			if i < b.minLeaf || n-i < b.minLeaf {
				continue
			}

			g := parent -
				float64(i)/float64(n)*gini(leftCounts, i) -
				float64(n-i)/float64(n)*gini(rightCounts, n-i)
			if g > gain {
				gain = g
				feature = f
				threshold = prev + (cur-prev)/2
			}
		}
	}

	return feature, threshold, gain
}

func (b *treeBuilder) classCounts(rows []int) []int {
	counts := make([]int, b.nClasses)
	for _, row := range rows {
		counts[b.y[row]]++
	}
	return counts
}

// gini computes the gini impurity of a count vector over total samples.
func gini(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		impurity -= p * p
	}
	return impurity
}
