package cigar

import (
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/svcall/junction"
)

// Result is the outcome of walking the CIGAR of one read.
type Result struct {
	// Junctions lists the events in CIGAR order.
	Junctions []junction.Junction
	// RefPos is the reference cursor after the last operation.
	RefPos int
	// ReadPos is the read cursor after the last operation.
	ReadPos int
}

// Walk converts the insertions and deletions of at least minLength bases in
// read's CIGAR into junctions.
//
// An insertion at reference cursor p yields (p-1, Forward) -> (p, Forward)
// carrying the inserted read bases. A deletion of n bases yields
// (p-1, Forward) -> (p+n, Forward). Soft clips advance the read cursor only.
// Hard clips, skipped regions and padding are ignored.
func Walk(read Read, minLength int) Result {
	res := Result{RefPos: read.Pos}
	for _, op := range read.Cigar {
		n := op.Len()
		switch op.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			res.RefPos += n
			res.ReadPos += n
		case sam.CigarInsertion:
			if n >= minLength {
				res.Junctions = append(res.Junctions, junction.New(
					junction.NewBreakend(read.RefName, res.RefPos-1, junction.Forward),
					junction.NewBreakend(read.RefName, res.RefPos, junction.Forward),
					string(readSlice(read.Seq, res.ReadPos, n)), 0, read.Name))
			}
			res.ReadPos += n
		case sam.CigarDeletion:
			if n >= minLength {
				res.Junctions = append(res.Junctions, junction.New(
					junction.NewBreakend(read.RefName, res.RefPos-1, junction.Forward),
					junction.NewBreakend(read.RefName, res.RefPos+n, junction.Forward),
					"", 0, read.Name))
			}
			res.RefPos += n
		case sam.CigarSoftClipped:
			res.ReadPos += n
		default:
			// CigarHardClipped, CigarSkipped, CigarPadded, CigarBack.
		}
	}
	return res
}
