package detect

import (
	"fmt"
	"math"

	"github.com/grailbio/base/errors"
)

func invalid(format string, args ...interface{}) error {
	return errors.E(errors.Invalid, fmt.Sprintf(format, args...))
}

// Validate checks opts before any input is read.
func (opts *Opts) Validate() error {
	if opts.ShortReadsPath == "" && opts.LongReadsPath == "" && opts.DumpInputPath == "" {
		return invalid("you need to input at least one sam/bam file; use -input-short-reads or -input-long-reads")
	}
	seen := map[DetectionMethod]bool{}
	for _, m := range opts.Methods {
		if m < 0 || int(m) >= len(detectionMethodNames) {
			return invalid("unknown detection method %d", int(m))
		}
		if seen[m] {
			return invalid("the same detection method was selected multiple times: %v", opts.Methods)
		}
		seen[m] = true
	}
	if opts.Refinement < 0 || int(opts.Refinement) >= len(refinementMethodNames) {
		return invalid("unknown refinement method %d", int(opts.Refinement))
	}
	for _, v := range []struct {
		name  string
		value int
	}{
		{"min-var-length", opts.Variant.MinVarLength},
		{"max-var-length", opts.Variant.MaxVarLength},
		{"max-tol-inserted-length", opts.Variant.MaxTolInsertedLength},
		{"max-tol-deleted-length", opts.Variant.MaxTolDeletedLength},
		{"min-qual", opts.Variant.MinQual},
		{"max-overlap", opts.MaxOverlap},
		{"partition-max-distance", opts.Clustering.PartitionMaxDistance},
		{"min-mapq", opts.MinMapQ},
	} {
		if v.value < 0 {
			return invalid("%s must be non-negative, got %d", v.name, v.value)
		}
	}
	if opts.MinMapQ > math.MaxUint8 {
		return invalid("min-mapq must be at most %d, got %d", math.MaxUint8, opts.MinMapQ)
	}
	if c := opts.Clustering.HierarchicalCutoff; math.IsNaN(c) || c < 0 {
		return invalid("hierarchical-clustering-cutoff must be non-negative, got %v", c)
	}
	if opts.Variant.MinVarLength > opts.Variant.MaxVarLength {
		return invalid("min-var-length (%d) must not exceed max-var-length (%d)",
			opts.Variant.MinVarLength, opts.Variant.MaxVarLength)
	}
	return nil
}
