// Package detect runs structural variant detection end to end: it reads
// alignments, extracts junctions, clusters them, classifies the clusters and
// writes a VCF.
package detect

import (
	"context"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/svcall/cigar"
	"github.com/grailbio/svcall/cluster"
	"github.com/grailbio/svcall/junction"
	"github.com/grailbio/svcall/variant"
	"github.com/klauspost/compress/gzip"
)

// batchSize is the number of reads walked per traverse.Each round.
const batchSize = 1 << 16

// extractor accumulates junctions over all alignment inputs.
type extractor struct {
	opts    Opts
	genome  map[string][]byte
	contigs []variant.Contig
	sv      []junction.Junction
	point   []junction.Junction
	stats   Stats
}

func (e *extractor) addContigs(contigs []variant.Contig) {
	seen := map[string]bool{}
	for _, c := range e.contigs {
		seen[c.Name] = true
	}
	for _, c := range contigs {
		if !seen[c.Name] {
			seen[c.Name] = true
			e.contigs = append(e.contigs, c)
		}
	}
}

// processInput extracts junctions from one alignment file.
func (e *extractor) processInput(ctx context.Context, path string, kind ReadKind) (err error) {
	var walkCigar, walkPoints bool
	for _, m := range e.opts.Methods {
		switch m {
		case CigarString:
			walkCigar = true
		case SNPIndel:
			if e.genome == nil {
				log.Printf("%s: the snp/indel method needs a genome, skipping it", path)
				continue
			}
			walkPoints = true
		default:
			log.Printf("%v", unimplementedDetection(m, kind))
		}
	}

	r, err := openAlignments(ctx, path, e.opts.Parallelism)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := r.Close(ctx); cerr != nil && err == nil {
			err = errors.E(cerr, "close", path)
		}
	}()
	e.addContigs(r.Contigs())
	if !walkCigar && !walkPoints {
		return nil
	}

	var (
		batch = make([]cigar.Read, 0, batchSize)
		nRead = 0
	)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		nRead++
		e.stats.Reads++
		if skip(rec, e.opts.MinMapQ) {
			e.stats.FilteredReads++
			continue
		}
		read, ok := cigar.FromRecord(rec)
		if !ok {
			e.stats.FilteredReads++
			continue
		}
		batch = append(batch, read)
		if len(batch) == batchSize {
			if err := e.processBatch(batch, walkCigar, walkPoints); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := e.processBatch(batch, walkCigar, walkPoints); err != nil {
		return err
	}
	log.Printf("%s: processed %d %v reads", path, nRead, kind)
	return nil
}

// processBatch walks reads across Opts.Parallelism workers. Results are
// appended in read order.
func (e *extractor) processBatch(batch []cigar.Read, walkCigar, walkPoints bool) error {
	if len(batch) == 0 {
		return nil
	}
	type shardResult struct {
		sv, point []junction.Junction
		stats     Stats
	}
	parallelism := e.opts.Parallelism
	if parallelism > len(batch) {
		parallelism = len(batch)
	}
	var (
		results   = make([]shardResult, parallelism)
		nRead     = len(batch)
		minLength = e.opts.Variant.MinVarLength
	)
	err := traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * nRead) / parallelism
		endIdx := ((jobIdx + 1) * nRead) / parallelism
		res := &results[jobIdx]
		for _, read := range batch[startIdx:endIdx] {
			if walkCigar {
				res.sv = append(res.sv, cigar.Walk(read, minLength).Junctions...)
			}
			if walkPoints {
				if ref, ok := e.genome[read.RefName]; ok {
					res.point = append(res.point, cigar.WalkPointEvents(read, ref, minLength)...)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, res := range results {
		if e.opts.Verbose {
			for _, j := range res.sv {
				if j.InsertedSize() > 0 {
					log.Printf("INS: %v", j)
				} else {
					log.Printf("DEL: %v", j)
				}
			}
		}
		e.sv = append(e.sv, res.sv...)
		e.point = append(e.point, res.point...)
		e.stats = e.stats.Merge(res.stats)
	}
	return nil
}

// extract reads junctions either from a dump or from the alignment inputs.
func extract(ctx context.Context, opts Opts) (*extractor, error) {
	e := &extractor{opts: opts}
	if opts.DumpInputPath != "" {
		sv, point, trailer, err := readDump(ctx, opts.DumpInputPath)
		if err != nil {
			return nil, err
		}
		e.sv, e.point, e.contigs = sv, point, trailer.Contigs
		e.stats = Stats{
			Reads:          trailer.Stats.Reads,
			FilteredReads:  trailer.Stats.FilteredReads,
			Junctions:      len(sv),
			PointJunctions: len(point),
		}
		log.Printf("%s: read %d junctions and %d point junctions", opts.DumpInputPath, len(sv), len(point))
		return e, nil
	}
	if opts.GenomePath != "" && opts.hasMethod(SNPIndel) {
		genome, err := loadGenome(opts.GenomePath)
		if err != nil {
			return nil, err
		}
		e.genome = genome
		log.Printf("%s: loaded %d sequences", opts.GenomePath, len(genome))
	}
	for _, input := range []struct {
		path string
		kind ReadKind
	}{{opts.ShortReadsPath, ShortReads}, {opts.LongReadsPath, LongReads}} {
		if input.path == "" {
			continue
		}
		if err := e.processInput(ctx, input.path, input.kind); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Run detects variants as configured by opts and writes them to
// opts.OutputPath, or stdout.
//
// Unimplemented detection, clustering and refinement methods are reported
// through the log and contribute nothing.
func Run(ctx context.Context, opts Opts) (stats Stats, err error) {
	if err = opts.Validate(); err != nil {
		return
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.NumCPU()
	}
	e, err := extract(ctx, opts)
	if err != nil {
		return
	}
	stats = e.stats
	log.Debug.Printf("found %d junctions and %d point junctions in %d reads (%d filtered)",
		stats.Junctions, stats.PointJunctions, stats.Reads, stats.FilteredReads)

	if opts.JunctionsPath != "" {
		if err = writeJunctions(ctx, opts.JunctionsPath, e.sv, e.point); err != nil {
			return
		}
	}
	if opts.DumpPath != "" {
		if err = writeDump(ctx, opts.DumpPath, e.sv, e.point, dumpTrailer{Contigs: e.contigs, Stats: stats}); err != nil {
			return
		}
	}

	log.Printf("Start clustering...")
	copts := opts.Clustering
	copts.Parallelism = opts.Parallelism
	clusters, err := cluster.Run(e.sv, copts)
	if uerr, ok := err.(*cluster.UnimplementedError); ok {
		log.Printf("%v", uerr)
		clusters, err = nil, nil
	}
	if err != nil {
		return
	}
	stats.Clusters = len(clusters)
	log.Printf("Done with clustering. Found %d junction clusters.", len(clusters))
	if opts.ClustersPath != "" {
		if err = writeClusters(ctx, opts.ClustersPath, clusters); err != nil {
			return
		}
	}

	switch opts.Refinement {
	case NoRefinement:
		log.Printf("No refinement was selected.")
	default:
		log.Printf("%v", unimplementedRefinement(opts.Refinement))
	}

	records := variant.FromClusters(clusters, opts.Variant)
	points := variant.PointRecords(e.point)
	n, err := writeVCF(ctx, opts, e.contigs, records, points)
	if err != nil {
		return
	}
	stats.SVCalls, stats.PointCalls = len(records), n-len(records)
	log.Printf("Detected %d SVs and %d SNPs/Indels.", stats.SVCalls, stats.PointCalls)
	if log.At(log.Debug) {
		log.Debug.Printf("SVs by type: %v", countTypes(records))
	}
	return
}

// countTypes counts records by their SVTYPE.
func countTypes(records []variant.Record) map[string]int {
	counts := map[string]int{}
	for _, r := range records {
		if typ, ok := r.InfoValue("SVTYPE").(string); ok {
			counts[typ]++
		}
	}
	return counts
}

// writeVCF writes structural variant records followed by point records and
// returns the # of records written. A path ending in .gz is gzip-compressed.
func writeVCF(ctx context.Context, opts Opts, contigs []variant.Contig, records, points []variant.Record) (n int, err error) {
	var out io.Writer = os.Stdout
	if opts.OutputPath != "" {
		var f file.File
		if f, err = file.Create(ctx, opts.OutputPath); err != nil {
			return 0, errors.E(err, "create vcf", opts.OutputPath)
		}
		defer file.CloseAndReport(ctx, f, &err)
		out = f.Writer(ctx)
		if fileio.DetermineType(opts.OutputPath) == fileio.Gzip {
			gz := gzip.NewWriter(out)
			defer func() {
				if cerr := gz.Close(); cerr != nil && err == nil {
					err = errors.E(cerr, "close vcf", opts.OutputPath)
				}
			}()
			out = gz
		}
	}
	w, err := variant.NewWriter(out, variant.Header{
		Contigs:    contigs,
		SampleName: opts.SampleName,
		FileDate:   time.Now(),
	})
	if err != nil {
		return 0, err
	}
	for _, recs := range [][]variant.Record{records, points} {
		for _, r := range recs {
			if err = w.Write(r); err != nil {
				return w.NumRecords(), err
			}
		}
	}
	return w.NumRecords(), w.Flush()
}
