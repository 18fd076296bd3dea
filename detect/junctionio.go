package detect

// This file writes the intermediate outputs of Run: junction and cluster TSVs,
// and a recordio dump of all junctions that can replace the alignment input
// of a later run.

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"hash"
	"strings"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/recordio"
	"github.com/grailbio/base/recordio/recordiozstd"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/svcall/cluster"
	"github.com/grailbio/svcall/junction"
	"github.com/grailbio/svcall/variant"
)

func writeBreakend(w *tsv.Writer, b junction.Breakend) {
	w.WriteString(b.SeqName)
	w.WriteInt64(int64(b.Position))
	w.WriteString(b.Orientation.String())
}

// writeJunctions writes one line per junction. Kind is "sv" for junctions
// that go through clustering, "point" for SNPs and short indels.
func writeJunctions(ctx context.Context, path string, sv, point []junction.Junction) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create junctions file", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	w := tsv.NewWriter(out.Writer(ctx))
	for _, col := range []string{"#kind", "mate1_seq", "mate1_pos", "mate1_orientation",
		"mate2_seq", "mate2_pos", "mate2_orientation", "inserted_length", "tandem_dup_count", "read_name"} {
		w.WriteString(col)
	}
	if err = w.EndLine(); err != nil {
		return
	}
	for _, part := range []struct {
		kind string
		js   []junction.Junction
	}{{"sv", sv}, {"point", point}} {
		for _, j := range part.js {
			w.WriteString(part.kind)
			writeBreakend(w, j.Mate1)
			writeBreakend(w, j.Mate2)
			w.WriteInt64(int64(j.InsertedSize()))
			w.WriteInt64(int64(j.TandemDupCount))
			w.WriteString(j.ReadName)
			if err = w.EndLine(); err != nil {
				return
			}
		}
	}
	return w.Flush()
}

// writeClusters writes one line per cluster with its representative
// geometry and the names of its supporting reads.
func writeClusters(ctx context.Context, path string, clusters []cluster.Cluster) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create clusters file", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	w := tsv.NewWriter(out.Writer(ctx))
	for _, col := range []string{"#size", "mate1_seq", "mate1_pos", "mate1_orientation",
		"mate2_seq", "mate2_pos", "mate2_orientation", "inserted_size", "tandem_dup_count", "reads"} {
		w.WriteString(col)
	}
	if err = w.EndLine(); err != nil {
		return
	}
	names := make([]string, 0, 16)
	for _, c := range clusters {
		w.WriteInt64(int64(c.Size()))
		writeBreakend(w, c.AverageMate1())
		writeBreakend(w, c.AverageMate2())
		w.WriteInt64(int64(c.AverageInsertedSize()))
		w.WriteInt64(int64(c.CommonTandemDupCount()))
		names = names[:0]
		for _, j := range c.Members() {
			names = append(names, j.ReadName)
		}
		w.WriteString(strings.Join(names, ","))
		if err = w.EndLine(); err != nil {
			return
		}
	}
	return w.Flush()
}

const (
	// <dumpVersionHeader, dumpVersion> is stored in the recordio header.
	dumpVersionHeader = "svversion"
	dumpVersion       = "SV_JUNCTIONS_V1"
)

// dumpRecord is one recordio item.
type dumpRecord struct {
	Junction junction.Junction
	Point    bool
}

// dumpTrailer is stored in the trailer of the recordio file.
type dumpTrailer struct {
	Contigs []variant.Contig
	Stats   Stats
	// Checksum is the seahash of all encoded records, in file order.
	Checksum uint64
}

// dumpWriter writes junctions to a recordio file.
type dumpWriter struct {
	out file.File
	w   recordio.Writer
	h   hash.Hash64
}

func newDumpWriter(ctx context.Context, path string) (*dumpWriter, error) {
	recordiozstd.Init()
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "create junction dump", path)
	}
	w := recordio.NewWriter(out.Writer(ctx), recordio.WriterOpts{
		Transformers: []string{recordiozstd.Name},
	})
	w.AddHeader(dumpVersionHeader, dumpVersion)
	w.AddHeader(recordio.KeyTrailer, true)
	return &dumpWriter{out: out, w: w, h: seahash.New()}, nil
}

func (w *dumpWriter) Write(j junction.Junction, point bool) error {
	b := bytes.NewBuffer(nil)
	if err := gob.NewEncoder(b).Encode(dumpRecord{Junction: j, Point: point}); err != nil {
		return err
	}
	w.h.Write(b.Bytes())
	w.w.Append(b.Bytes())
	return nil
}

// Close writes the trailer and closes the file. It must be called exactly
// once.
func (w *dumpWriter) Close(ctx context.Context, trailer dumpTrailer) error {
	b := bytes.NewBuffer(nil)
	e := errors.Once{}
	trailer.Checksum = w.h.Sum64()
	e.Set(gob.NewEncoder(b).Encode(trailer))
	w.w.SetTrailer(b.Bytes())
	e.Set(w.w.Finish())
	e.Set(w.out.Close(ctx))
	return e.Err()
}

// writeDump writes all junctions and the trailer to path.
func writeDump(ctx context.Context, path string, sv, point []junction.Junction, trailer dumpTrailer) error {
	w, err := newDumpWriter(ctx, path)
	if err != nil {
		return err
	}
	e := errors.Once{}
	for _, j := range sv {
		e.Set(w.Write(j, false))
	}
	for _, j := range point {
		e.Set(w.Write(j, true))
	}
	e.Set(w.Close(ctx, trailer))
	if err := e.Err(); err != nil {
		return errors.E(err, "write junction dump", path)
	}
	return nil
}

// readDump reads a file written by writeDump.
func readDump(ctx context.Context, path string) (sv, point []junction.Junction, trailer dumpTrailer, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, trailer, errors.E(err, "open junction dump", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	recordiozstd.Init()
	r := recordio.NewScanner(in.Reader(ctx), recordio.ScannerOpts{})
	versionFound := false
	for _, kv := range r.Header() {
		if kv.Key == dumpVersionHeader {
			if v, _ := kv.Value.(string); v != dumpVersion {
				return nil, nil, trailer, errors.E(errors.NotSupported,
					fmt.Sprintf("junction dump version mismatch, got %v, expect %v", kv.Value, dumpVersion), path)
			}
			versionFound = true
			break
		}
	}
	if !versionFound {
		if err = r.Err(); err == nil {
			err = errors.E(errors.Invalid, dumpVersionHeader+" not found", path)
		}
		return nil, nil, trailer, err
	}
	if err = gob.NewDecoder(bytes.NewReader(r.Trailer())).Decode(&trailer); err != nil {
		return nil, nil, trailer, errors.E(err, "decode junction dump trailer", path)
	}
	h := seahash.New()
	for r.Scan() {
		var (
			rec dumpRecord
			b   = r.Get().([]byte)
		)
		h.Write(b)
		if err = gob.NewDecoder(bytes.NewReader(b)).Decode(&rec); err != nil {
			return nil, nil, trailer, errors.E(err, "decode junction", path)
		}
		if rec.Point {
			point = append(point, rec.Junction)
		} else {
			sv = append(sv, rec.Junction)
		}
	}
	if err = r.Err(); err != nil {
		return nil, nil, trailer, errors.E(err, "read junction dump", path)
	}
	if sum := h.Sum64(); sum != trailer.Checksum {
		return nil, nil, trailer, errors.E(errors.Integrity,
			fmt.Sprintf("junction dump checksum mismatch, got %x, expect %x", sum, trailer.Checksum), path)
	}
	return sv, point, trailer, nil
}
