package variant

import (
	"fmt"
	"math"

	"github.com/biogo/store/llrb"
	"github.com/grailbio/svcall/junction"
)

// pointKey is an llrb entry holding the merged state of all equal point
// junctions.
type pointKey struct {
	j *junction.Junction
}

// Compare compares two pointKey objects for use in llrb.
func (k pointKey) Compare(c2 llrb.Comparable) int {
	return k.j.Compare(*c2.(pointKey).j)
}

// PointRecords emits one record per distinct point-event junction, in
// ascending junction order. Equal junctions are merged and their qualities
// summed. IDs are igenvar_<ins|del|snp>_<n> with a single counter shared by
// all three types.
func PointRecords(junctions []junction.Junction) []Record {
	tree := llrb.Tree{}
	for i := range junctions {
		j := junctions[i]
		if c := tree.Get(pointKey{&j}); c != nil {
			m := c.(pointKey).j
			m.Quality += j.Quality
			if j.DeletedSequence < m.DeletedSequence {
				m.DeletedSequence = j.DeletedSequence
			}
			continue
		}
		tree.Insert(pointKey{&j})
	}

	recs := make([]Record, 0, tree.Len())
	tree.Do(func(c llrb.Comparable) bool {
		j := c.(pointKey).j
		typ := "snp"
		switch {
		case j.DeletedSequence == "":
			typ = "ins"
		case j.InsertedSequence == "":
			typ = "del"
		}
		recs = append(recs, Record{
			Chrom:  j.Mate1.SeqName,
			Pos:    j.Mate1.Position + 1,
			ID:     fmt.Sprintf("igenvar_%s_%d", typ, len(recs)),
			Ref:    j.DeletedSequence,
			Alt:    j.InsertedSequence,
			Qual:   math.Round(j.Quality*100) / 100,
			Filter: PassFilter,
		})
		return false
	})
	return recs
}
