package detect

import (
	"context"
	"io/ioutil"
	"runtime"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/svcall/cluster"
	"github.com/grailbio/svcall/variant"
	"github.com/pelletier/go-toml/v2"
)

// Opts configures Run. The zero value is not useful; start from DefaultOpts.
type Opts struct {
	// ShortReadsPath is a SAM or BAM file of short read alignments.
	ShortReadsPath string `toml:"input_short_reads"`
	// LongReadsPath is a SAM or BAM file of long read alignments.
	LongReadsPath string `toml:"input_long_reads"`
	// GenomePath is the reference FASTA. It is only read by SNPIndel.
	GenomePath string `toml:"genome"`
	// OutputPath is the VCF output. Empty means stdout.
	OutputPath string `toml:"output"`
	// JunctionsPath, if set, receives the junctions as TSV.
	JunctionsPath string `toml:"junctions_output"`
	// ClustersPath, if set, receives the clusters as TSV.
	ClustersPath string `toml:"clusters_output"`
	// DumpPath, if set, receives all junctions as a recordio file.
	DumpPath string `toml:"junction_dump_output"`
	// DumpInputPath, if set, replaces alignment input with a file written
	// through DumpPath.
	DumpInputPath string `toml:"junction_dump_input"`
	// SampleName is the genotype column of the VCF.
	SampleName string `toml:"vcf_sample_name"`

	// Methods lists the detection methods to run, each at most once.
	Methods []DetectionMethod `toml:"method"`
	// Refinement is applied to clusters before classification.
	Refinement RefinementMethod `toml:"refinement_method"`
	Clustering cluster.Opts     `toml:"clustering"`
	Variant    variant.Opts     `toml:"variant"`

	// MaxOverlap is the largest overlap between the parts of a split read.
	MaxOverlap int `toml:"max_overlap"`
	// MinMapQ drops alignments with a lower mapping quality.
	MinMapQ int `toml:"min_mapq"`
	// Verbose logs every junction found.
	Verbose bool `toml:"verbose"`
	// Parallelism is the number of concurrent workers. Values <= 0 mean
	// runtime.NumCPU().
	Parallelism int `toml:"parallelism"`
}

// DefaultOpts is the default configuration.
var DefaultOpts = Opts{
	SampleName:  variant.DefaultSampleName,
	Methods:     append([]DetectionMethod(nil), AllDetectionMethods...),
	Refinement:  NoRefinement,
	Clustering:  cluster.DefaultOpts,
	Variant:     variant.DefaultOpts,
	MaxOverlap:  50,
	MinMapQ:     20,
	Parallelism: runtime.NumCPU(),
}

func (opts *Opts) hasMethod(m DetectionMethod) bool {
	for _, o := range opts.Methods {
		if o == m {
			return true
		}
	}
	return false
}

// LoadOpts overwrites the fields of opts that are set in the TOML file at
// path.
func LoadOpts(ctx context.Context, path string, opts *Opts) (err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return errors.E(err, "open options", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	data, err := ioutil.ReadAll(in.Reader(ctx))
	if err != nil {
		return errors.E(err, "read options", path)
	}
	// Methods may share its array with DefaultOpts.
	opts.Methods = append([]DetectionMethod(nil), opts.Methods...)
	if err := toml.Unmarshal(data, opts); err != nil {
		return errors.E(errors.Invalid, err, "parse options", path)
	}
	return nil
}
