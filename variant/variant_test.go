package variant

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/grailbio/svcall/cluster"
	"github.com/grailbio/svcall/junction"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCluster(n int, m1, m2 junction.Breakend, insertedLen, tandemDupCount int) cluster.Cluster {
	var js []junction.Junction
	for i := 0; i < n; i++ {
		js = append(js, junction.New(m1, m2, strings.Repeat("C", insertedLen), tandemDupCount, "read"+string(rune('a'+i))))
	}
	return cluster.New(js)
}

func fwd(chrom string, pos int) junction.Breakend {
	return junction.NewBreakend(chrom, pos, junction.Forward)
}

func svInfo(end, svLen, altLen int, svType string) []InfoField {
	return []InfoField{
		{Key: "END", Value: end},
		{Key: "SVLEN", Value: svLen},
		{Key: "iGenVar_SVLEN", Value: altLen},
		{Key: "SVTYPE", Value: svType},
	}
}

func TestClassifyDeletion(t *testing.T) {
	rec, ok := Classify(newCluster(3, fwd("chr1", 500), fwd("chr1", 550), 0, 0), DefaultOpts)
	require.True(t, ok)
	expect.EQ(t, rec, Record{
		Chrom:  "chr1",
		Pos:    501,
		ID:     ".",
		Ref:    "N",
		Alt:    "<DEL>",
		Qual:   3,
		Filter: "PASS",
		Info:   svInfo(550, -49, -49, "DEL"),
	})
	expect.EQ(t, rec.InfoString(), "END=550;SVLEN=-49;iGenVar_SVLEN=-49;SVTYPE=DEL")
}

func TestClassifyTandemDupPrecedence(t *testing.T) {
	opts := DefaultOpts
	opts.MinVarLength = 5
	rec, ok := Classify(newCluster(2, fwd("chr1", 100), fwd("chr1", 106), 40, 2), opts)
	require.True(t, ok)
	expect.EQ(t, rec.Alt, "<DUP:TANDEM>")
	expect.EQ(t, rec.Pos, 101)
	expect.EQ(t, rec.Info, svInfo(107, 7, 40, "DUP"))

	// Same geometry without tandem copies is an inversion.
	rec, ok = Classify(newCluster(2, fwd("chr1", 100), fwd("chr1", 106), 40, 0), opts)
	require.True(t, ok)
	expect.EQ(t, rec.Alt, "<INV>")

	// Adjacent mates with tandem copies never become an insertion.
	_, ok = Classify(newCluster(2, fwd("chr1", 99), fwd("chr1", 100), 40, 1), DefaultOpts)
	expect.False(t, ok)
}

func TestClassifyInsertion(t *testing.T) {
	rec, ok := Classify(newCluster(5, fwd("chr1", 149), fwd("chr1", 150), 40, 0), DefaultOpts)
	require.True(t, ok)
	expect.EQ(t, rec.Pos, 150)
	expect.EQ(t, rec.Alt, "<INS>")
	expect.EQ(t, rec.Qual, 5.0)
	expect.EQ(t, rec.Info, svInfo(150, 40, 40, "INS"))

	// Negative distance fails the unsigned tolerance check.
	_, ok = Classify(newCluster(5, fwd("chr1", 150), fwd("chr1", 150), 40, 0), DefaultOpts)
	expect.False(t, ok)
	// Nothing inserted and nothing deleted.
	_, ok = Classify(newCluster(5, fwd("chr1", 149), fwd("chr1", 150), 0, 0), DefaultOpts)
	expect.False(t, ok)
}

func TestClassifyInversion(t *testing.T) {
	rec, ok := Classify(newCluster(5, fwd("chr1", 100), fwd("chr1", 300), 50, 0), DefaultOpts)
	require.True(t, ok)
	expect.EQ(t, rec.Pos, 102)
	expect.EQ(t, rec.Alt, "<INV>")
	expect.EQ(t, rec.Info, svInfo(301, 199, 199, "INV"))
}

func TestClassifyNoMatch(t *testing.T) {
	opts := DefaultOpts
	opts.MinVarLength = 100
	_, ok := Classify(newCluster(5, fwd("chr1", 100), fwd("chr1", 300), 60, 0), opts)
	expect.False(t, ok)

	// Different sequences.
	_, ok = Classify(newCluster(5, fwd("chr1", 100), fwd("chr2", 300), 0, 0), DefaultOpts)
	expect.False(t, ok)
	// Reverse first mate.
	_, ok = Classify(newCluster(5, junction.NewBreakend("chr1", 100, junction.Reverse), fwd("chr1", 300), 0, 0), DefaultOpts)
	expect.False(t, ok)
}

func TestAdmissionGate(t *testing.T) {
	_, ok := Classify(newCluster(5, fwd("chr1", 149), fwd("chr1", 150), 15, 0), DefaultOpts)
	expect.False(t, ok)
	_, ok = Classify(newCluster(5, fwd("chr1", 100), fwd("chr1", 20102), 0, 0), DefaultOpts)
	expect.False(t, ok)
	rec, ok := Classify(newCluster(5, fwd("chr1", 100), fwd("chr1", 10101), 0, 0), DefaultOpts)
	require.True(t, ok)
	expect.EQ(t, rec.InfoValue("SVLEN"), -10000)
}

func TestFromClusters(t *testing.T) {
	clusters := []cluster.Cluster{
		newCluster(4, fwd("chr1", 500), fwd("chr1", 550), 0, 0),
		newCluster(5, fwd("chr1", 149), fwd("chr1", 150), 40, 0),
		newCluster(9, fwd("chr1", 149), fwd("chr1", 150), 10, 0),
		newCluster(6, fwd("chr2", 500), fwd("chr2", 550), 0, 0),
	}
	recs := FromClusters(clusters, DefaultOpts)
	require.Len(t, recs, 2)
	expect.EQ(t, recs[0].Alt, "<INS>")
	expect.EQ(t, recs[1].Chrom, "chr2")
	expect.EQ(t, recs[1].Qual, 6.0)
}

func TestPointRecords(t *testing.T) {
	snp := junction.NewWithDeleted(fwd("chr1", 5), fwd("chr1", 6), "T", "C", 0, "r0", 1)
	ins := junction.NewWithDeleted(fwd("chr1", 8), fwd("chr1", 8), "GG", "", 0, "r0", 1)
	del := junction.NewWithDeleted(fwd("chr1", 11), fwd("chr1", 13), "", "TA", 0, "r0", 1)
	snp2 := junction.NewWithDeleted(fwd("chr1", 5), fwd("chr1", 6), "T", "C", 0, "r1", 0.333)

	recs := PointRecords([]junction.Junction{del, snp, ins, snp2})
	require.Len(t, recs, 3)
	expect.EQ(t, recs[0], Record{Chrom: "chr1", Pos: 6, ID: "igenvar_snp_0", Ref: "C", Alt: "T", Qual: 1.33, Filter: "PASS"})
	expect.EQ(t, recs[1], Record{Chrom: "chr1", Pos: 9, ID: "igenvar_ins_1", Ref: "", Alt: "GG", Qual: 1, Filter: "PASS"})
	expect.EQ(t, recs[2], Record{Chrom: "chr1", Pos: 12, ID: "igenvar_del_2", Ref: "TA", Alt: "", Qual: 1, Filter: "PASS"})
	assert.Len(t, PointRecords(nil), 0)
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, Header{
		Contigs:  []Contig{{Name: "chr2", Length: 2000}, {Name: "chr1", Length: 1000}},
		FileDate: time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, w.Write(Record{Chrom: "chr1", Pos: 501, ID: ".", Ref: "N", Alt: "<DEL>", Qual: 3, Filter: "PASS", Info: svInfo(550, -49, -49, "DEL")}))
	require.NoError(t, w.Write(Record{Chrom: "chr1", Pos: 9, ID: "igenvar_ins_1", Alt: "GG", Qual: 1.5, Filter: "PASS"}))
	require.NoError(t, w.Flush())
	expect.EQ(t, w.NumRecords(), 2)

	want := strings.Join([]string{
		"##fileformat=VCFv4.3",
		`##FILTER=<ID=PASS,Description="All filters passed">`,
		`##INFO=<ID=END,Number=1,Type=Integer,Description="End position of SV called.">`,
		`##INFO=<ID=SVLEN,Number=1,Type=Integer,Description="Difference in length between REF and ALT alleles.">`,
		`##INFO=<ID=iGenVar_SVLEN,Number=1,Type=Integer,Description="Length of SV called.">`,
		`##INFO=<ID=SVTYPE,Number=1,Type=String,Description="Type of SV called.">`,
		`##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">`,
		"##contig=<ID=chr1,length=1000>",
		"##contig=<ID=chr2,length=2000>",
		"##filedate=2021-03-04 05:06:07",
		"##source=bio-sv",
		`##ALT=<ID=DEL,Description="Deletion">`,
		`##ALT=<ID=DUP:TANDEM,Description="Tandem Duplication">`,
		`##ALT=<ID=INS,Description="Insertion of novel sequence">`,
		`##ALT=<ID=INV,Description="Inversion">`,
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tMYSAMPLE",
		"chr1\t501\t.\tN\t<DEL>\t3\tPASS\tEND=550;SVLEN=-49;iGenVar_SVLEN=-49;SVTYPE=DEL\tGT\t./.",
		"chr1\t9\tigenvar_ins_1\t.\tGG\t1.5\tPASS\t.\tGT\t./.",
	}, "\n") + "\n"
	expect.EQ(t, buf.String(), want)
}
