package cigar

import (
	"strings"
	"testing"

	"github.com/grailbio/hts/sam"
	"github.com/grailbio/svcall/junction"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRead(pos int, seq string, ops ...sam.CigarOp) Read {
	return Read{Name: "read0", RefName: "chr1", Pos: pos, Cigar: ops, Seq: []byte(seq), MapQ: 60}
}

func fwd(pos int) junction.Breakend {
	return junction.NewBreakend("chr1", pos, junction.Forward)
}

func TestWalkInsertion(t *testing.T) {
	ins := strings.Repeat("G", 40)
	seq := strings.Repeat("A", 50) + ins + strings.Repeat("C", 50)
	res := Walk(newRead(100, seq,
		sam.NewCigarOp(sam.CigarMatch, 50),
		sam.NewCigarOp(sam.CigarInsertion, 40),
		sam.NewCigarOp(sam.CigarMatch, 50)), 30)
	require.Len(t, res.Junctions, 1)
	j := res.Junctions[0]
	expect.EQ(t, j.Mate1, fwd(149))
	expect.EQ(t, j.Mate2, fwd(150))
	expect.EQ(t, j.InsertedSequence, ins)
	expect.EQ(t, j.TandemDupCount, 0)
	expect.EQ(t, j.ReadName, "read0")
	expect.EQ(t, res.RefPos, 200)
	expect.EQ(t, res.ReadPos, 140)
}

func TestWalkDeletion(t *testing.T) {
	seq := strings.Repeat("A", 100)
	ops := []sam.CigarOp{
		sam.NewCigarOp(sam.CigarMatch, 50),
		sam.NewCigarOp(sam.CigarDeletion, 10),
		sam.NewCigarOp(sam.CigarMatch, 50),
	}
	res := Walk(newRead(100, seq, ops...), 30)
	expect.EQ(t, len(res.Junctions), 0)
	expect.EQ(t, res.RefPos, 210)
	expect.EQ(t, res.ReadPos, 100)

	ops[1] = sam.NewCigarOp(sam.CigarDeletion, 45)
	res = Walk(newRead(100, seq, ops...), 30)
	require.Len(t, res.Junctions, 1)
	expect.EQ(t, res.Junctions[0].Mate1, fwd(149))
	expect.EQ(t, res.Junctions[0].Mate2, fwd(195))
	expect.EQ(t, res.Junctions[0].InsertedSequence, "")
	expect.EQ(t, res.RefPos, 245)
}

func TestWalkClipsAndSkips(t *testing.T) {
	seq := strings.Repeat("T", 10) + strings.Repeat("A", 20) + strings.Repeat("C", 30) + strings.Repeat("A", 20)
	res := Walk(newRead(0, seq,
		sam.NewCigarOp(sam.CigarHardClipped, 5),
		sam.NewCigarOp(sam.CigarSoftClipped, 10),
		sam.NewCigarOp(sam.CigarEqual, 20),
		sam.NewCigarOp(sam.CigarSkipped, 1000),
		sam.NewCigarOp(sam.CigarInsertion, 30),
		sam.NewCigarOp(sam.CigarMismatch, 20)), 30)
	require.Len(t, res.Junctions, 1)
	expect.EQ(t, res.Junctions[0].Mate1, fwd(19))
	expect.EQ(t, res.Junctions[0].Mate2, fwd(20))
	expect.EQ(t, res.Junctions[0].InsertedSequence, strings.Repeat("C", 30))
	expect.EQ(t, res.RefPos, 40)
	expect.EQ(t, res.ReadPos, 80)
}

func TestWalkShortSequence(t *testing.T) {
	// A record without bases still yields the junction.
	res := Walk(newRead(10, "",
		sam.NewCigarOp(sam.CigarMatch, 5),
		sam.NewCigarOp(sam.CigarInsertion, 35)), 30)
	require.Len(t, res.Junctions, 1)
	expect.EQ(t, res.Junctions[0].InsertedSequence, "")
}

func TestWalkPointEvents(t *testing.T) {
	ref := []byte("ACGTACGTACGTACGTACGT")
	// Read: ACGTA[T]GT + ins "GG" + ACG, deletion of 2, then CGTA.
	read := newRead(0, "ACGTATGTGGACGCGTA",
		sam.NewCigarOp(sam.CigarMatch, 8),
		sam.NewCigarOp(sam.CigarInsertion, 2),
		sam.NewCigarOp(sam.CigarMatch, 3),
		sam.NewCigarOp(sam.CigarDeletion, 2),
		sam.NewCigarOp(sam.CigarMatch, 4))
	js := WalkPointEvents(read, ref, 30)
	require.Len(t, js, 3)

	expect.EQ(t, js[0].Mate1, fwd(5))
	expect.EQ(t, js[0].Mate2, fwd(6))
	expect.EQ(t, js[0].InsertedSequence, "T")
	expect.EQ(t, js[0].DeletedSequence, "C")
	expect.EQ(t, js[0].Quality, 1.0)

	expect.EQ(t, js[1].Mate1, fwd(8))
	expect.EQ(t, js[1].Mate2, fwd(8))
	expect.EQ(t, js[1].InsertedSequence, "GG")
	expect.EQ(t, js[1].DeletedSequence, "")

	expect.EQ(t, js[2].Mate1, fwd(11))
	expect.EQ(t, js[2].Mate2, fwd(13))
	expect.EQ(t, js[2].InsertedSequence, "")
	expect.EQ(t, js[2].DeletedSequence, "TA")
}

func TestWalkPointEventsLimits(t *testing.T) {
	ref := []byte("ACGTNCGT")
	// Long indels are left to Walk; N never makes a SNP; the walk stops at
	// the reference end.
	read := newRead(0, "ACGTANGTAAAA",
		sam.NewCigarOp(sam.CigarMatch, 4),
		sam.NewCigarOp(sam.CigarMatch, 4),
		sam.NewCigarOp(sam.CigarDeletion, 40),
		sam.NewCigarOp(sam.CigarMatch, 4))
	js := WalkPointEvents(read, ref, 30)
	assert.Len(t, js, 0)
}

func TestFromRecord(t *testing.T) {
	ref, err := sam.NewReference("chr1", "", "", 1000, nil, nil)
	require.NoError(t, err)
	r := &sam.Record{
		Name:  "r1",
		Ref:   ref,
		Pos:   10,
		MapQ:  30,
		Cigar: sam.Cigar{sam.NewCigarOp(sam.CigarMatch, 4)},
		Seq:   sam.NewSeq([]byte("ACGT")),
		Flags: sam.Paired,
	}
	read, ok := FromRecord(r)
	require.True(t, ok)
	expect.EQ(t, read.Name, "r1")
	expect.EQ(t, read.RefName, "chr1")
	expect.EQ(t, read.Pos, 10)
	expect.EQ(t, string(read.Seq), "ACGT")
	expect.EQ(t, read.MapQ, byte(30))
	expect.EQ(t, read.Flags, sam.Paired)

	_, ok = FromRecord(&sam.Record{Name: "unmapped", Pos: -1})
	expect.False(t, ok)
}
