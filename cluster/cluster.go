// Package cluster groups junctions that describe the same event.
package cluster

import (
	"github.com/grailbio/svcall/junction"
)

// Cluster is a non-empty group of junctions reduced to representative
// geometry. It is immutable once built.
type Cluster struct {
	members        []junction.Junction
	mate1, mate2   junction.Breakend
	insertedSize   int
	tandemDupCount int
}

// New creates a cluster from members, which must be non-empty. Members are
// copied and sorted; the representative values are computed once here.
func New(members []junction.Junction) Cluster {
	if len(members) == 0 {
		panic("cluster.New: no members")
	}
	c := Cluster{members: append([]junction.Junction(nil), members...)}
	junction.Sort(c.members)

	var sum1, sum2, sumIns int
	counts := map[int]int{}
	for _, j := range c.members {
		sum1 += j.Mate1.Position
		sum2 += j.Mate2.Position
		sumIns += j.InsertedSize()
		counts[j.TandemDupCount]++
	}
	n := len(c.members)
	c.mate1 = c.members[0].Mate1
	c.mate1.Position = sum1 / n
	c.mate2 = c.members[0].Mate2
	c.mate2.Position = sum2 / n
	c.insertedSize = sumIns / n
	for count, k := range counts {
		if 2*k > n {
			c.tandemDupCount = count
		}
	}
	return c
}

// Members returns the junctions in the cluster in sorted order. The caller
// must not modify the result.
func (c Cluster) Members() []junction.Junction { return c.members }

// Size is the number of members.
func (c Cluster) Size() int { return len(c.members) }

// AverageMate1 is the first mate at the mean mate1 position of the members.
// Sequence name, orientation and type are taken from the first member.
func (c Cluster) AverageMate1() junction.Breakend { return c.mate1 }

// AverageMate2 is the second mate at the mean mate2 position of the members.
func (c Cluster) AverageMate2() junction.Breakend { return c.mate2 }

// AverageInsertedSize is the mean inserted sequence length, rounded towards
// zero.
func (c Cluster) AverageInsertedSize() int { return c.insertedSize }

// CommonTandemDupCount is the tandem duplication count held by a strict
// majority of members, or 0 if there is none.
func (c Cluster) CommonTandemDupCount() int { return c.tandemDupCount }
