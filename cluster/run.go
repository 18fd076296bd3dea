package cluster

import (
	"fmt"
	"runtime"

	"github.com/grailbio/base/traverse"
	"github.com/grailbio/svcall/junction"
	"github.com/minio/highwayhash"
)

// Opts configures Run.
type Opts struct {
	// Method is the clustering strategy.
	Method Method `toml:"clustering_method"`
	// PartitionMaxDistance is the largest mate1 gap between consecutive
	// junctions of one cluster (simple), or of one block (hierarchical).
	PartitionMaxDistance int `toml:"partition_max_distance"`
	// HierarchicalCutoff stops agglomeration once the closest pair of
	// clusters is at least this far apart.
	HierarchicalCutoff float64 `toml:"hierarchical_clustering_cutoff"`
	// Parallelism is the number of partitions clustered concurrently.
	Parallelism int `toml:"-"`
}

// DefaultOpts is the default clustering configuration.
var DefaultOpts = Opts{
	Method:               HierarchicalClustering,
	PartitionMaxDistance: 50,
	HierarchicalCutoff:   0.3,
	Parallelism:          runtime.NumCPU(),
}

// Run groups junctions into clusters. Junctions whose mates lie on different
// sequence pairs, or whose orientations differ, never share a cluster.
// The result is ordered by partition, then by the first member of each
// cluster, and does not depend on the order of junctions.
//
// Run returns an *UnimplementedError for SelfBalancingBinaryTree and
// CandidateSelectionBasedOnVoting.
func Run(junctions []junction.Junction, opts Opts) ([]Cluster, error) {
	var clusterFn func(js []junction.Junction, opts Opts) [][]junction.Junction
	switch opts.Method {
	case SimpleClustering:
		clusterFn = simpleClusters
	case HierarchicalClustering:
		clusterFn = hierarchicalClusters
	case SelfBalancingBinaryTree, CandidateSelectionBasedOnVoting:
		return nil, &UnimplementedError{Method: opts.Method}
	default:
		return nil, fmt.Errorf("cluster.Run: unknown method %v", opts.Method)
	}
	groups := partition(junctions)
	if len(groups) == 0 {
		return nil, nil
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = 1
	}
	if parallelism > len(groups) {
		parallelism = len(groups)
	}
	results := make([][]Cluster, len(groups))
	nGroup := len(groups)
	err := traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * nGroup) / parallelism
		endIdx := ((jobIdx + 1) * nGroup) / parallelism
		for g := startIdx; g < endIdx; g++ {
			for _, members := range clusterFn(groups[g], opts) {
				results[g] = append(results[g], New(members))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	var clusters []Cluster
	for _, r := range results {
		clusters = append(clusters, r...)
	}
	return clusters, nil
}

type hashKey = [highwayhash.Size]uint8

// partitionKey hashes the sequence names and orientations of both mates.
func partitionKey(j junction.Junction, buf []byte) (hashKey, []byte) {
	var zeroSeed = hashKey{}
	buf = append(buf[:0], j.Mate1.SeqName...)
	buf = append(buf, 0)
	buf = append(buf, j.Mate2.SeqName...)
	buf = append(buf, 0, byte(j.Mate1.Orientation), byte(j.Mate2.Orientation))
	return highwayhash.Sum(buf, zeroSeed[:]), buf
}

// partition sorts a copy of junctions and splits it into groups of
// compatible junctions. Groups are ordered by their smallest junction and
// each group is sorted.
func partition(junctions []junction.Junction) [][]junction.Junction {
	sorted := append([]junction.Junction(nil), junctions...)
	junction.Sort(sorted)

	var (
		groups [][]junction.Junction
		index  = map[hashKey]int{}
		buf    []byte
		key    hashKey
	)
	for _, j := range sorted {
		key, buf = partitionKey(j, buf)
		g, ok := index[key]
		if !ok {
			g = len(groups)
			index[key] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], j)
	}
	return groups
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// sweep splits sorted junctions wherever the mate1 positions of two
// consecutive junctions are more than maxDistance apart.
func sweep(js []junction.Junction, maxDistance int) [][]junction.Junction {
	var blocks [][]junction.Junction
	start := 0
	for i := 1; i <= len(js); i++ {
		if i == len(js) || abs(js[i].Mate1.Position-js[i-1].Mate1.Position) > maxDistance {
			blocks = append(blocks, js[start:i])
			start = i
		}
	}
	return blocks
}

func simpleClusters(js []junction.Junction, opts Opts) [][]junction.Junction {
	return sweep(js, opts.PartitionMaxDistance)
}
