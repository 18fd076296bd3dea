package cluster

import (
	"fmt"
	"strconv"

	"github.com/grailbio/base/errors"
)

// Method selects a clustering strategy.
type Method int

const (
	// SimpleClustering sweeps sorted junctions and splits on mate1 gaps.
	SimpleClustering Method = iota
	// HierarchicalClustering runs average-linkage agglomerative clustering.
	HierarchicalClustering
	// SelfBalancingBinaryTree is not implemented.
	SelfBalancingBinaryTree
	// CandidateSelectionBasedOnVoting is not implemented.
	CandidateSelectionBasedOnVoting
)

var methodNames = []string{
	SimpleClustering:                "simple_clustering",
	HierarchicalClustering:          "hierarchical_clustering",
	SelfBalancingBinaryTree:         "self_balancing_binary_tree",
	CandidateSelectionBasedOnVoting: "candidate_selection_based_on_voting",
}

var methodDescriptions = []string{
	SimpleClustering:                "simple",
	HierarchicalClustering:          "hierarchical",
	SelfBalancingBinaryTree:         "self-balancing binary tree",
	CandidateSelectionBasedOnVoting: "candidate selection based on voting",
}

// String returns the configuration name of m, e.g. "simple_clustering".
func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

// ParseMethod parses a method name such as "hierarchical_clustering", or its
// number such as "1".
func ParseMethod(s string) (Method, error) {
	for i, name := range methodNames {
		if s == name {
			return Method(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < len(methodNames) {
		return Method(n), nil
	}
	return 0, errors.E(errors.Invalid, fmt.Sprintf("unknown clustering method %q", s))
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	v, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// UnimplementedError is returned when a known but unimplemented method is
// requested. No other method is substituted.
type UnimplementedError struct {
	Method Method
}

// Error implements error.
func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("The %s clustering method is not yet implemented.", methodDescriptions[e.Method])
}
