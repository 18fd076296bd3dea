package cluster

import (
	"math"
	"sort"

	"github.com/grailbio/svcall/junction"
	"gonum.org/v1/gonum/mat"
)

// positionScale converts a breakend distance in bases to the unit of the
// inserted-length term of junctionDistance.
const positionScale = 1000

// junctionDistance is the dissimilarity of two junctions: the mean mate
// distance in kilobases plus the relative difference of inserted lengths.
// Junctions on different sequences or strands are infinitely far apart.
func junctionDistance(a, b junction.Junction) float64 {
	if a.Mate1.SeqName != b.Mate1.SeqName || a.Mate2.SeqName != b.Mate2.SeqName ||
		a.Mate1.Orientation != b.Mate1.Orientation || a.Mate2.Orientation != b.Mate2.Orientation {
		return math.Inf(1)
	}
	d := float64(abs(a.Mate1.Position-b.Mate1.Position)+abs(a.Mate2.Position-b.Mate2.Position)) / 2 / positionScale
	ia, ib := a.InsertedSize(), b.InsertedSize()
	if ia > 0 || ib > 0 {
		m := ia
		if ib > m {
			m = ib
		}
		d += float64(abs(ia-ib)) / float64(m)
	}
	return d
}

// blockRadius is the largest mate1 distance of two junctions whose
// junctionDistance can be below cutoff.
func blockRadius(cutoff float64) int {
	r := math.Ceil(2 * cutoff * positionScale)
	if r >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(r)
}

// hierarchicalClusters splits sorted junctions into blocks with sweep, then
// clusters each block with average linkage. Blocks are at least blockRadius
// apart, so no pair below the cutoff is ever split.
func hierarchicalClusters(js []junction.Junction, opts Opts) [][]junction.Junction {
	var out [][]junction.Junction
	for _, block := range sweep(js, blockRadius(opts.HierarchicalCutoff)) {
		out = append(out, averageLinkage(block, opts.HierarchicalCutoff)...)
	}
	return out
}

// averageLinkage repeatedly merges the two closest clusters while their
// distance is below cutoff. Ties are broken towards the pair with the lowest
// indices. The result is ordered by the smallest member index.
func averageLinkage(js []junction.Junction, cutoff float64) [][]junction.Junction {
	n := len(js)
	if n == 1 {
		return [][]junction.Junction{js}
	}
	dist := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for k := i + 1; k < n; k++ {
			dist.SetSym(i, k, junctionDistance(js[i], js[k]))
		}
	}

	var (
		members = make([][]int, n)
		active  = make([]bool, n)
		// nearest[i] is the closest active cluster to i, and minDist[i] the
		// distance to it.
		nearest = make([]int, n)
		minDist = make([]float64, n)
	)
	updateNearest := func(i int) {
		nearest[i], minDist[i] = -1, math.Inf(1)
		for k := 0; k < n; k++ {
			if k == i || !active[k] {
				continue
			}
			if d := dist.At(i, k); nearest[i] < 0 || d < minDist[i] {
				nearest[i], minDist[i] = k, d
			}
		}
	}
	for i := range members {
		members[i] = []int{i}
		active[i] = true
	}
	for i := range members {
		updateNearest(i)
	}

	for remaining := n; remaining > 1; remaining-- {
		a := -1
		for i := 0; i < n; i++ {
			if active[i] && (a < 0 || minDist[i] < minDist[a]) {
				a = i
			}
		}
		if !(minDist[a] < cutoff) {
			break
		}
		b := nearest[a]
		if b < a {
			a, b = b, a
		}
		na, nb := float64(len(members[a])), float64(len(members[b]))
		for k := 0; k < n; k++ {
			if k == a || k == b || !active[k] {
				continue
			}
			dist.SetSym(a, k, (na*dist.At(a, k)+nb*dist.At(b, k))/(na+nb))
		}
		members[a] = append(members[a], members[b]...)
		members[b] = nil
		active[b] = false

		updateNearest(a)
		for k := 0; k < n; k++ {
			if !active[k] || k == a {
				continue
			}
			if nearest[k] == a || nearest[k] == b {
				updateNearest(k)
			} else if d := dist.At(k, a); d < minDist[k] || (d == minDist[k] && a < nearest[k]) {
				nearest[k], minDist[k] = a, d
			}
		}
	}

	var groups [][]int
	for i := range members {
		if active[i] {
			sort.Ints(members[i])
			groups = append(groups, members[i])
		}
	}
	sort.Slice(groups, func(x, y int) bool { return groups[x][0] < groups[y][0] })
	out := make([][]junction.Junction, len(groups))
	for g, idx := range groups {
		for _, i := range idx {
			out[g] = append(out[g], js[i])
		}
	}
	return out
}
