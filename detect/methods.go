package detect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
)

// DetectionMethod selects how junctions are extracted from alignments.
type DetectionMethod int

const (
	// CigarString extracts long insertions and deletions from CIGARs.
	CigarString DetectionMethod = iota
	// SplitRead is not implemented.
	SplitRead
	// ReadPairs is not implemented.
	ReadPairs
	// ReadDepth is not implemented.
	ReadDepth
	// SNPIndel extracts mismatches and short indels against the genome.
	SNPIndel
)

var detectionMethodNames = []string{
	CigarString: "cigar_string",
	SplitRead:   "split_read",
	ReadPairs:   "read_pairs",
	ReadDepth:   "read_depth",
	SNPIndel:    "snp_indel",
}

var detectionMethodDescriptions = []string{
	CigarString: "cigar string",
	SplitRead:   "split read",
	ReadPairs:   "read pair",
	ReadDepth:   "read depth",
	SNPIndel:    "snp/indel",
}

// AllDetectionMethods lists every detection method in numeric order.
var AllDetectionMethods = []DetectionMethod{CigarString, SplitRead, ReadPairs, ReadDepth, SNPIndel}

func (m DetectionMethod) String() string {
	if m < 0 || int(m) >= len(detectionMethodNames) {
		return fmt.Sprintf("DetectionMethod(%d)", int(m))
	}
	return detectionMethodNames[m]
}

// ParseDetectionMethod parses a method name such as "cigar_string" or its
// number such as "0".
func ParseDetectionMethod(s string) (DetectionMethod, error) {
	i, err := parseEnum(s, detectionMethodNames)
	if err != nil {
		return 0, errors.E(errors.Invalid, fmt.Sprintf("unknown detection method %q", s), err)
	}
	return DetectionMethod(i), nil
}

// ParseDetectionMethods parses a comma-separated list of detection methods.
func ParseDetectionMethods(s string) ([]DetectionMethod, error) {
	var methods []DetectionMethod
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f == "" {
			continue
		}
		m, err := ParseDetectionMethod(f)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}

// MarshalText implements encoding.TextMarshaler.
func (m DetectionMethod) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *DetectionMethod) UnmarshalText(text []byte) (err error) {
	*m, err = ParseDetectionMethod(string(text))
	return
}

// RefinementMethod selects how clusters are refined before classification.
type RefinementMethod int

const (
	// NoRefinement passes clusters through.
	NoRefinement RefinementMethod = iota
	// SViperRefinement is not implemented.
	SViperRefinement
	// SVirlRefinement is not implemented.
	SVirlRefinement
)

var refinementMethodNames = []string{
	NoRefinement:     "no_refinement",
	SViperRefinement: "sViper_refinement_method",
	SVirlRefinement:  "sVirl_refinement_method",
}

var refinementMethodDescriptions = []string{
	NoRefinement:     "no",
	SViperRefinement: "sViper",
	SVirlRefinement:  "sVirl",
}

func (m RefinementMethod) String() string {
	if m < 0 || int(m) >= len(refinementMethodNames) {
		return fmt.Sprintf("RefinementMethod(%d)", int(m))
	}
	return refinementMethodNames[m]
}

// ParseRefinementMethod parses a method name such as "no_refinement" or its
// number such as "0".
func ParseRefinementMethod(s string) (RefinementMethod, error) {
	i, err := parseEnum(s, refinementMethodNames)
	if err != nil {
		return 0, errors.E(errors.Invalid, fmt.Sprintf("unknown refinement method %q", s), err)
	}
	return RefinementMethod(i), nil
}

// MarshalText implements encoding.TextMarshaler.
func (m RefinementMethod) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *RefinementMethod) UnmarshalText(text []byte) (err error) {
	*m, err = ParseRefinementMethod(string(text))
	return
}

func parseEnum(s string, names []string) (int, error) {
	for i, name := range names {
		if s == name {
			return i, nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 || n >= len(names) {
		return 0, fmt.Errorf("%d out of range", n)
	}
	return n, nil
}

// ReadKind tells which sequencing technology an input comes from.
type ReadKind int

const (
	// ShortReads are paired-end reads (Illumina).
	ShortReads ReadKind = iota
	// LongReads are single-molecule reads (PacBio, Oxford Nanopore).
	LongReads
)

func (k ReadKind) String() string {
	if k == ShortReads {
		return "short"
	}
	return "long"
}

// UnimplementedError reports a detection or refinement method that is known
// but not implemented. The method contributes nothing; no other method runs
// in its place.
type UnimplementedError struct {
	// Method is the method name, e.g. "read_depth".
	Method string
	// Description is the human readable method name, e.g. "read depth".
	Description string
	// Reads is set for detection methods.
	Reads *ReadKind
}

func (e *UnimplementedError) Error() string {
	if e.Reads != nil {
		return fmt.Sprintf("The %s method for %v reads is not yet implemented.", e.Description, *e.Reads)
	}
	return fmt.Sprintf("The %s refinement method is not yet implemented.", e.Description)
}

func unimplementedDetection(m DetectionMethod, kind ReadKind) *UnimplementedError {
	return &UnimplementedError{Method: m.String(), Description: detectionMethodDescriptions[m], Reads: &kind}
}

func unimplementedRefinement(m RefinementMethod) *UnimplementedError {
	return &UnimplementedError{Method: m.String(), Description: refinementMethodDescriptions[m]}
}
