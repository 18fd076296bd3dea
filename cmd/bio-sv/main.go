package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/svcall/cluster"
	"github.com/grailbio/svcall/detect"
)

var defaults = detect.DefaultOpts

func methodNames() string {
	var names []string
	for _, m := range defaults.Methods {
		names = append(names, m.String())
	}
	return strings.Join(names, ",")
}

var (
	configPath       = flag.String("config", "", "TOML file with options. Flags given explicitly override it")
	shortReadsPath   = flag.String("input-short-reads", "", "Input short read alignments in SAM or BAM format (Illumina)")
	longReadsPath    = flag.String("input-long-reads", "", "Input long read alignments in SAM or BAM format (PacBio, Oxford Nanopore, ...)")
	genomePath       = flag.String("genome", "", "Reference FASTA, needed by the snp_indel method")
	outputPath       = flag.String("output", "", "Output VCF path. Empty means stdout")
	junctionsPath    = flag.String("junctions-output", "", "If set, write all junctions to this TSV file")
	clustersPath     = flag.String("clusters-output", "", "If set, write all clusters to this TSV file")
	dumpPath         = flag.String("junction-dump-output", "", "If set, dump all junctions to this recordio file")
	dumpInputPath    = flag.String("junction-dump-input", "", "Read junctions from a file written by -junction-dump-output instead of alignments")
	sampleName       = flag.String("vcf-sample-name", defaults.SampleName, "Sample name of the VCF genotype column")
	methods          = flag.String("method", methodNames(), "Comma-separated detection methods: cigar_string, split_read, read_pairs, read_depth, snp_indel")
	clusteringMethod = flag.String("clustering-method", defaults.Clustering.Method.String(), "One of simple_clustering, hierarchical_clustering, self_balancing_binary_tree, candidate_selection_based_on_voting")
	refinementMethod = flag.String("refinement-method", defaults.Refinement.String(), "One of no_refinement, sViper_refinement_method, sVirl_refinement_method")
	minVarLength     = flag.Int("min-var-length", defaults.Variant.MinVarLength, "Minimum length of reported SVs")
	maxVarLength     = flag.Int("max-var-length", defaults.Variant.MaxVarLength, "Maximum length of reported SVs")
	maxTolInserted   = flag.Int("max-tol-inserted-length", defaults.Variant.MaxTolInsertedLength, "Longest inserted sequence tolerated inside a deletion")
	maxTolDeleted    = flag.Int("max-tol-deleted-length", defaults.Variant.MaxTolDeletedLength, "Longest gap tolerated inside an insertion or tandem duplication")
	maxOverlap       = flag.Int("max-overlap", defaults.MaxOverlap, "Maximum overlap between the alignments of a split read")
	minQual          = flag.Int("min-qual", defaults.Variant.MinQual, "Minimum # of supporting reads of a reported SV")
	partitionMaxDist = flag.Int("partition-max-distance", defaults.Clustering.PartitionMaxDistance, "Maximum mate1 distance between neighboring junctions of a partition")
	hierarchicalCut  = flag.Float64("hierarchical-clustering-cutoff", defaults.Clustering.HierarchicalCutoff, "Distance at which hierarchical clustering stops merging")
	minMapQ          = flag.Int("min-mapq", defaults.MinMapQ, "Alignments with MAPQ below this are skipped")
	verbose          = flag.Bool("verbose", false, "Log every junction found")
	parallelism      = flag.Int("parallelism", 0, "Number of concurrent workers; 0 = runtime.NumCPU()")
)

func bioSVUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] -input-short-reads|-input-long-reads <sam/bam>\n", os.Args[0])
	flag.PrintDefaults()
}

// applyFlags copies the explicitly set flags to opts.
func applyFlags(opts *detect.Opts) error {
	var err error
	flag.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "input-short-reads":
			opts.ShortReadsPath = *shortReadsPath
		case "input-long-reads":
			opts.LongReadsPath = *longReadsPath
		case "genome":
			opts.GenomePath = *genomePath
		case "output":
			opts.OutputPath = *outputPath
		case "junctions-output":
			opts.JunctionsPath = *junctionsPath
		case "clusters-output":
			opts.ClustersPath = *clustersPath
		case "junction-dump-output":
			opts.DumpPath = *dumpPath
		case "junction-dump-input":
			opts.DumpInputPath = *dumpInputPath
		case "vcf-sample-name":
			opts.SampleName = *sampleName
		case "method":
			opts.Methods, err = detect.ParseDetectionMethods(*methods)
		case "clustering-method":
			opts.Clustering.Method, err = cluster.ParseMethod(*clusteringMethod)
		case "refinement-method":
			opts.Refinement, err = detect.ParseRefinementMethod(*refinementMethod)
		case "min-var-length":
			opts.Variant.MinVarLength = *minVarLength
		case "max-var-length":
			opts.Variant.MaxVarLength = *maxVarLength
		case "max-tol-inserted-length":
			opts.Variant.MaxTolInsertedLength = *maxTolInserted
		case "max-tol-deleted-length":
			opts.Variant.MaxTolDeletedLength = *maxTolDeleted
		case "max-overlap":
			opts.MaxOverlap = *maxOverlap
		case "min-qual":
			opts.Variant.MinQual = *minQual
		case "partition-max-distance":
			opts.Clustering.PartitionMaxDistance = *partitionMaxDist
		case "hierarchical-clustering-cutoff":
			opts.Clustering.HierarchicalCutoff = *hierarchicalCut
		case "min-mapq":
			opts.MinMapQ = *minMapQ
		case "verbose":
			opts.Verbose = *verbose
		case "parallelism":
			opts.Parallelism = *parallelism
		}
	})
	return err
}

func main() {
	flag.Usage = bioSVUsage
	shutdown := grail.Init()
	defer shutdown()
	if flag.NArg() > 0 {
		log.Fatalf("Unexpected positional arguments: '%s'", strings.Join(flag.Args(), " "))
	}

	ctx := vcontext.Background()
	opts := detect.DefaultOpts
	if *configPath != "" {
		if err := detect.LoadOpts(ctx, *configPath, &opts); err != nil {
			log.Panicf("%v", err)
		}
	}
	if err := applyFlags(&opts); err != nil {
		log.Fatalf("%v", err)
	}
	stats, err := detect.Run(ctx, opts)
	if err != nil {
		log.Panicf("%v", err)
	}
	log.Debug.Printf("stats: %+v", stats)
	log.Debug.Printf("exiting")
}
