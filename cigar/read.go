// Package cigar extracts junctions from the alignment operations of a read.
package cigar

import (
	"github.com/grailbio/hts/sam"
)

// Read holds the decoded fields of one alignment record that the walkers
// need.
type Read struct {
	Name    string
	RefName string
	// Pos is the 0-based reference position of the first aligned base.
	Pos   int
	Cigar sam.Cigar
	// Seq is the read sequence as ASCII bases.
	Seq   []byte
	MapQ  byte
	Flags sam.Flags
}

// FromRecord decodes the fields of r. It returns false for records without a
// reference.
func FromRecord(r *sam.Record) (Read, bool) {
	if r.Ref == nil || r.Pos < 0 {
		return Read{}, false
	}
	return Read{
		Name:    r.Name,
		RefName: r.Ref.Name(),
		Pos:     r.Pos,
		Cigar:   append(sam.Cigar(nil), r.Cigar...),
		Seq:     r.Seq.Expand(),
		MapQ:    r.MapQ,
		Flags:   r.Flags,
	}, true
}

// readSlice returns seq[start:start+n], clipped to the bounds of seq.
func readSlice(seq []byte, start, n int) []byte {
	if start >= len(seq) {
		return nil
	}
	end := start + n
	if end > len(seq) {
		end = len(seq)
	}
	return seq[start:end]
}
