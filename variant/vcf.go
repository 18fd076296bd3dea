package variant

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/grailbio/base/tsv"
)

// Contig is a reference sequence listed in the VCF header.
type Contig struct {
	Name   string
	Length int
}

// Header describes the meta lines of a VCF file.
type Header struct {
	Contigs []Contig
	// SampleName is the name of the single genotype column.
	SampleName string
	// Source is written to the ##source line.
	Source string
	// FileDate is written to the ##filedate line.
	FileDate time.Time
}

const (
	// DefaultSampleName is used when no sample name is configured.
	DefaultSampleName = "MYSAMPLE"
	// DefaultSource is the default ##source value.
	DefaultSource = "bio-sv"
)

var fixedMetaLines = []string{
	"##fileformat=VCFv4.3",
	`##FILTER=<ID=PASS,Description="All filters passed">`,
	`##INFO=<ID=END,Number=1,Type=Integer,Description="End position of SV called.">`,
	`##INFO=<ID=SVLEN,Number=1,Type=Integer,Description="Difference in length between REF and ALT alleles.">`,
	`##INFO=<ID=iGenVar_SVLEN,Number=1,Type=Integer,Description="Length of SV called.">`,
	`##INFO=<ID=SVTYPE,Number=1,Type=String,Description="Type of SV called.">`,
	`##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">`,
}

var altMetaLines = []string{
	`##ALT=<ID=DEL,Description="Deletion">`,
	`##ALT=<ID=DUP:TANDEM,Description="Tandem Duplication">`,
	`##ALT=<ID=INS,Description="Insertion of novel sequence">`,
	`##ALT=<ID=INV,Description="Inversion">`,
}

var columnLabels = []string{"#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO", "FORMAT"}

// Writer writes records as VCF text. The header is written by NewWriter.
type Writer struct {
	w *tsv.Writer
	n int
}

// NewWriter writes the VCF header for h to out and returns a Writer for the
// records. Contig lines are sorted by name.
func NewWriter(out io.Writer, h Header) (*Writer, error) {
	w := &Writer{w: tsv.NewWriter(out)}
	if h.SampleName == "" {
		h.SampleName = DefaultSampleName
	}
	if h.Source == "" {
		h.Source = DefaultSource
	}
	contigs := append([]Contig(nil), h.Contigs...)
	sort.SliceStable(contigs, func(i, j int) bool { return contigs[i].Name < contigs[j].Name })

	lines := append([]string(nil), fixedMetaLines...)
	for _, c := range contigs {
		lines = append(lines, fmt.Sprintf("##contig=<ID=%s,length=%d>", c.Name, c.Length))
	}
	lines = append(lines,
		"##filedate="+h.FileDate.Format("2006-01-02 15:04:05"),
		"##source="+h.Source)
	lines = append(lines, altMetaLines...)
	for _, line := range lines {
		w.w.WriteString(line)
		if err := w.w.EndLine(); err != nil {
			return nil, err
		}
	}
	for _, label := range columnLabels {
		w.w.WriteString(label)
	}
	w.w.WriteString(h.SampleName)
	if err := w.w.EndLine(); err != nil {
		return nil, err
	}
	return w, nil
}

// Write appends one record line. Empty REF, ALT and INFO are written as ".".
func (w *Writer) Write(r Record) error {
	w.w.WriteString(r.Chrom)
	w.w.WriteInt64(int64(r.Pos))
	w.w.WriteString(orMissing(r.ID))
	w.w.WriteString(orMissing(r.Ref))
	w.w.WriteString(orMissing(r.Alt))
	w.w.WriteString(strconv.FormatFloat(r.Qual, 'g', -1, 64))
	w.w.WriteString(orMissing(r.Filter))
	w.w.WriteString(r.InfoString())
	w.w.WriteString("GT")
	w.w.WriteString("./.")
	w.n++
	return w.w.EndLine()
}

// NumRecords is the number of records written so far.
func (w *Writer) NumRecords() int { return w.n }

// Flush flushes buffered output. It does not close the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
