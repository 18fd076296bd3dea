package detect

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/svcall/variant"
)

// skipFlags marks alignments that never contribute evidence.
const skipFlags = sam.Unmapped | sam.Secondary | sam.QCFail | sam.Duplicate

// alignmentReader reads SAM or BAM records from a file.
type alignmentReader struct {
	path   string
	in     file.File
	header *sam.Header
	read   func() (*sam.Record, error)
	// closer releases the decoder layered on in, if any.
	closer io.Closer
}

// openAlignments opens a BAM file if path ends in .bam, and a SAM file,
// possibly compressed, otherwise.
func openAlignments(ctx context.Context, path string, parallelism int) (*alignmentReader, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open alignments", path)
	}
	r := &alignmentReader{path: path, in: in}
	if strings.HasSuffix(path, ".bam") {
		br, err := bam.NewReader(in.Reader(ctx), parallelism)
		if err != nil {
			_ = in.Close(ctx)
			return nil, errors.E(err, "read bam header", path)
		}
		r.header, r.read, r.closer = br.Header(), br.Read, br
		return r, nil
	}
	var inr io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(inr, in.Name()); u != nil {
		inr, r.closer = u, u
	}
	sr, err := sam.NewReader(inr)
	if err != nil {
		_ = r.Close(ctx)
		return nil, errors.E(err, "read sam header", path)
	}
	r.header, r.read = sr.Header(), sr.Read
	return r, nil
}

// Contigs lists the reference sequences of the header.
func (r *alignmentReader) Contigs() []variant.Contig {
	var contigs []variant.Contig
	for _, ref := range r.header.Refs() {
		contigs = append(contigs, variant.Contig{Name: ref.Name(), Length: ref.Len()})
	}
	return contigs
}

// Read returns the next record, or io.EOF.
func (r *alignmentReader) Read() (*sam.Record, error) {
	rec, err := r.read()
	if err != nil && err != io.EOF {
		err = errors.E(err, "read alignment", r.path)
	}
	return rec, err
}

// Close closes the decoder, then the underlying file.
func (r *alignmentReader) Close(ctx context.Context) error {
	e := errors.Once{}
	if r.closer != nil {
		e.Set(r.closer.Close())
	}
	e.Set(r.in.Close(ctx))
	return e.Err()
}

// skip reports whether rec is filtered out before junction extraction.
func skip(rec *sam.Record, minMapQ int) bool {
	return rec.Flags&skipFlags != 0 || rec.Ref == nil || int(rec.MapQ) < minMapQ
}
