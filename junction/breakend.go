package junction

import (
	"fmt"
	"strings"
)

// Strand is the orientation of a Breakend.
type Strand uint8

const (
	// Forward means the event continues to the right of the breakend.
	Forward Strand = iota
	// Reverse means the event continues to the left of the breakend.
	Reverse
)

// String returns "Forward" or "Reverse".
func (s Strand) String() string {
	if s == Forward {
		return "Forward"
	}
	return "Reverse"
}

// SequenceType tells whether a breakend lies on the reference or on a read.
type SequenceType uint8

const (
	// Reference means SeqName names a contig of the reference genome.
	Reference SequenceType = iota
	// Read means SeqName names a read.
	Read
)

// Breakend is one side of a junction: a strand-anchored point on a sequence.
//
// Orientation only has meaning relative to the other breakend of the same
// junction. Flipping both breakends of a junction describes the same event.
type Breakend struct {
	// SeqName is the contig (or read) the breakend lies on.
	SeqName string
	// Position is the 0-based offset within SeqName.
	Position int
	// Orientation is the strand of the breakend.
	Orientation Strand
	// SeqType is Reference for all breakends produced from alignments.
	SeqType SequenceType
}

// NewBreakend creates a breakend on a reference contig.
func NewBreakend(seqName string, pos int, orientation Strand) Breakend {
	return Breakend{SeqName: seqName, Position: pos, Orientation: orientation, SeqType: Reference}
}

// Flip returns a copy of b with the opposite orientation.
func (b Breakend) Flip() Breakend {
	if b.Orientation == Forward {
		b.Orientation = Reverse
	} else {
		b.Orientation = Forward
	}
	return b
}

// before reports whether b lies strictly before o by (sequence name,
// position). This is the order junctions are canonicalized with.
func (b Breakend) before(o Breakend) bool {
	if b.SeqName != o.SeqName {
		return b.SeqName < o.SeqName
	}
	return b.Position < o.Position
}

// Compare returns -1, 0 or 1. Breakends are ordered by sequence name, then
// position; orientation and sequence type break the remaining ties.
func (b Breakend) Compare(o Breakend) int {
	if c := strings.Compare(b.SeqName, o.SeqName); c != 0 {
		return c
	}
	switch {
	case b.Position < o.Position:
		return -1
	case b.Position > o.Position:
		return 1
	case b.Orientation != o.Orientation:
		if b.Orientation < o.Orientation {
			return -1
		}
		return 1
	case b.SeqType != o.SeqType:
		if b.SeqType < o.SeqType {
			return -1
		}
		return 1
	}
	return 0
}

// String renders the breakend as "seq<TAB>pos<TAB>orientation".
func (b Breakend) String() string {
	return fmt.Sprintf("%s\t%d\t%s", b.SeqName, b.Position, b.Orientation)
}
