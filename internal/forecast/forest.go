package forecast

import (
	"math/rand/v2"
	"sort"
)

// node is one vertex of a regression tree. Leaves have left == nil.
type node struct {
	feature   int
	threshold float64
	value     float64
	left      *node
	right     *node
}

func (n *node) predict(row []float64) float64 {
	for n.left != nil {
		if row[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// Forest is a bagged ensemble of fully grown CART regression trees. Every
// split considers all features; randomness comes from the bootstrap samples.
type Forest struct {
	Trees          int
	MinSamplesLeaf int

	roots []*node
}

// NewForest returns an unfitted forest of the given size.
func NewForest(trees int) *Forest {
	return &Forest{Trees: trees, MinSamplesLeaf: 1}
}

// Fit grows the trees on (x, y) drawing bootstrap samples from rng.
func (f *Forest) Fit(x [][]float64, y []float64, rng *rand.Rand) {
	f.roots = make([]*node, 0, f.Trees)
	n := len(y)
	if n == 0 {
		return
	}
	for t := 0; t < f.Trees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.IntN(n)
		}
		f.roots = append(f.roots, f.grow(x, y, sample))
	}
}

// Predict averages the tree outputs for row.
func (f *Forest) Predict(row []float64) float64 {
	if len(f.roots) == 0 {
		return 0
	}
	var sum float64
	for _, root := range f.roots {
		sum += root.predict(row)
	}
	return sum / float64(len(f.roots))
}

// PredictAll runs Predict over every row of x.
func (f *Forest) PredictAll(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = f.Predict(row)
	}
	return out
}

func (f *Forest) grow(x [][]float64, y []float64, idx []int) *node {
	mean := 0.0
	for _, i := range idx {
		mean += y[i]
	}
	mean /= float64(len(idx))

	leaf := &node{value: mean}
	if len(idx) < 2*f.MinSamplesLeaf {
		return leaf
	}

	feature, threshold, ok := f.bestSplit(x, y, idx)
	if !ok {
		return leaf
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &node{
		feature:   feature,
		threshold: threshold,
		value:     mean,
		left:      f.grow(x, y, left),
		right:     f.grow(x, y, right),
	}
}

// bestSplit finds the (feature, threshold) pair minimising the summed squared
// error of the two children. ok is false when no split reduces the error.
func (f *Forest) bestSplit(x [][]float64, y []float64, idx []int) (feature int, threshold float64, ok bool) {
	n := len(idx)
	var total, totalSq float64
	for _, i := range idx {
		total += y[i]
		totalSq += y[i] * y[i]
	}
	bestSSE := totalSq - total*total/float64(n)
	if bestSSE <= 1e-12 {
		return 0, 0, false
	}

	sorted := make([]int, n)
	for j := range x[idx[0]] {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, b int) bool {
			return x[sorted[a]][j] < x[sorted[b]][j]
		})

		var leftSum, leftSq float64
		for k := 0; k < n-1; k++ {
			v := y[sorted[k]]
			leftSum += v
			leftSq += v * v

			nl := k + 1
			nr := n - nl
			if nl < f.MinSamplesLeaf || nr < f.MinSamplesLeaf {
				continue
			}
			cur, next := x[sorted[k]][j], x[sorted[k+1]][j]
			if cur == next {
				continue
			}

			rightSum := total - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/float64(nl)) + (rightSq - rightSum*rightSum/float64(nr))
			if sse < bestSSE-1e-12 {
				bestSSE = sse
				feature = j
				threshold = (cur + next) / 2
				if threshold >= next {
					threshold = cur
				}
				ok = true
			}
		}
	}
	return feature, threshold, ok
}
