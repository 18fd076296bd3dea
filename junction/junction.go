package junction

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shenwei356/bio/seq"
)

// Junction is a pair of breakends describing one candidate structural event,
// plus the sequence evidence observed between them.
//
// Junctions are always canonical: Mate1 is not after Mate2 in (SeqName,
// Position) order. Use New or NewWithDeleted to build one.
type Junction struct {
	Mate1 Breakend
	Mate2 Breakend
	// InsertedSequence holds bases present between the mates on the read but
	// absent from the reference. It is expressed relative to Mate1.
	InsertedSequence string
	// DeletedSequence holds reference bases removed between the mates. It is
	// always quoted from the forward reference strand.
	DeletedSequence string
	// TandemDupCount is the number of tandem copies, 0 if the event is not a
	// tandem duplication.
	TandemDupCount int
	// ReadName is the supporting read. It does not take part in equality.
	ReadName string
	// Quality is the evidence score. It does not take part in equality.
	Quality float64
}

// New creates a canonical junction with no deleted sequence and zero quality.
func New(mate1, mate2 Breakend, inserted string, tandemDupCount int, readName string) Junction {
	return NewWithDeleted(mate1, mate2, inserted, "", tandemDupCount, readName, 0)
}

// NewWithDeleted creates a canonical junction. If mate2 lies before mate1 the
// mates are swapped, both orientations are flipped and the inserted sequence
// is reverse-complemented.
func NewWithDeleted(mate1, mate2 Breakend, inserted, deleted string, tandemDupCount int, readName string, quality float64) Junction {
	if mate2.before(mate1) {
		mate1, mate2 = mate2.Flip(), mate1.Flip()
		inserted = ReverseComplement(inserted)
	}
	return Junction{
		Mate1:            mate1,
		Mate2:            mate2,
		InsertedSequence: inserted,
		DeletedSequence:  deleted,
		TandemDupCount:   tandemDupCount,
		ReadName:         readName,
		Quality:          quality,
	}
}

// ReverseComplement returns the reverse complement of a nucleotide string.
// Bases other than A, C, G, T and N (either case) are treated as N.
func ReverseComplement(s string) string {
	if len(s) == 0 {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		switch c {
		case 'A', 'C', 'G', 'T', 'N', 'a', 'c', 'g', 't', 'n':
		default:
			b[i] = 'N'
		}
	}
	rc, err := seq.NewSeq(seq.DNAredundant, b)
	if err != nil {
		// Unreachable: b only contains DNA letters.
		panic(err)
	}
	return string(rc.RevComInplace().Seq)
}

// Equal reports whether j and o describe the same event. Read name, quality
// and deleted sequence are ignored.
func (j Junction) Equal(o Junction) bool {
	return j.Mate1 == o.Mate1 && j.Mate2 == o.Mate2 &&
		j.TandemDupCount == o.TandemDupCount &&
		j.InsertedSequence == o.InsertedSequence
}

// Compare orders junctions by (Mate1, Mate2, TandemDupCount,
// InsertedSequence). It returns 0 iff Equal would return true.
func (j Junction) Compare(o Junction) int {
	if c := j.Mate1.Compare(o.Mate1); c != 0 {
		return c
	}
	if c := j.Mate2.Compare(o.Mate2); c != 0 {
		return c
	}
	if j.TandemDupCount != o.TandemDupCount {
		if j.TandemDupCount < o.TandemDupCount {
			return -1
		}
		return 1
	}
	return strings.Compare(j.InsertedSequence, o.InsertedSequence)
}

// String renders the junction as
// "mate1<TAB>mate2<TAB>inserted length<TAB>tandem dup count<TAB>read name".
func (j Junction) String() string {
	return fmt.Sprintf("%v\t%v\t%d\t%d\t%s", j.Mate1, j.Mate2, len(j.InsertedSequence), j.TandemDupCount, j.ReadName)
}

// InsertedSize is the length of the inserted sequence.
func (j Junction) InsertedSize() int {
	return len(j.InsertedSequence)
}

// Sort sorts js in place. Junctions that compare equal are further ordered by
// read name, deleted sequence and quality, so that any permutation of the same
// multiset sorts to the same slice.
func Sort(js []Junction) {
	sort.Slice(js, func(a, b int) bool {
		ja, jb := &js[a], &js[b]
		if c := ja.Compare(*jb); c != 0 {
			return c < 0
		}
		if ja.ReadName != jb.ReadName {
			return ja.ReadName < jb.ReadName
		}
		if ja.DeletedSequence != jb.DeletedSequence {
			return ja.DeletedSequence < jb.DeletedSequence
		}
		return ja.Quality < jb.Quality
	})
}
