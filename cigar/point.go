package cigar

import (
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/svcall/junction"
)

// pointQuality is the quality of a point event observed on a single read.
const pointQuality = 1

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

func upperString(b []byte) string {
	s := make([]byte, len(b))
	for i, c := range b {
		s[i] = upper(c)
	}
	return string(s)
}

// WalkPointEvents compares read against refSeq, the sequence of the contig it
// aligns to, and returns a junction per mismatching base and per insertion or
// deletion shorter than maxLength.
//
//   SNP at p:            (p, Forward) -> (p+1, Forward), inserted = read base,
//                        deleted = reference base
//   insertion before p:  (p, Forward) -> (p, Forward), inserted = read bases
//   deletion of n at p:  (p, Forward) -> (p+n, Forward), deleted = reference bases
//
// Bases equal to N on either side never produce a SNP. The walk stops at the
// end of refSeq.
func WalkPointEvents(read Read, refSeq []byte, maxLength int) []junction.Junction {
	var (
		js      []junction.Junction
		refPos  = read.Pos
		readPos = 0
	)
	bp := func(pos int) junction.Breakend {
		return junction.NewBreakend(read.RefName, pos, junction.Forward)
	}
	for _, op := range read.Cigar {
		if refPos >= len(refSeq) {
			break
		}
		n := op.Len()
		switch op.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			for i := 0; i < n; i++ {
				if refPos+i >= len(refSeq) || readPos+i >= len(read.Seq) {
					break
				}
				r, q := upper(refSeq[refPos+i]), upper(read.Seq[readPos+i])
				if r == q || r == 'N' || q == 'N' {
					continue
				}
				js = append(js, junction.NewWithDeleted(bp(refPos+i), bp(refPos+i+1),
					string(q), string(r), 0, read.Name, pointQuality))
			}
			refPos += n
			readPos += n
		case sam.CigarInsertion:
			if n < maxLength {
				if ins := readSlice(read.Seq, readPos, n); len(ins) > 0 {
					js = append(js, junction.NewWithDeleted(bp(refPos), bp(refPos),
						upperString(ins), "", 0, read.Name, pointQuality))
				}
			}
			readPos += n
		case sam.CigarDeletion:
			if n < maxLength && refPos+n <= len(refSeq) {
				js = append(js, junction.NewWithDeleted(bp(refPos), bp(refPos+n),
					"", upperString(refSeq[refPos:refPos+n]), 0, read.Name, pointQuality))
			}
			refPos += n
		case sam.CigarSoftClipped:
			readPos += n
		case sam.CigarSkipped:
			refPos += n
		}
	}
	return js
}
