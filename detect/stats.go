package detect

// Stats summarizes one run of Run.
type Stats struct {
	// Reads is the # of alignment records read.
	Reads int
	// FilteredReads is the # of records dropped because they are unmapped,
	// secondary, QC-failed, duplicates or below Opts.MinMapQ.
	FilteredReads int
	// Junctions is the # of junctions sent to clustering.
	Junctions int
	// PointJunctions is the # of SNP and short indel junctions, before
	// merging duplicates.
	PointJunctions int
	// Clusters is the # of clusters found.
	Clusters int
	// SVCalls is the # of structural variant records written.
	SVCalls int
	// PointCalls is the # of SNP and indel records written.
	PointCalls int
}

// Merge adds the field values of the two Stats objects and creates new Stats.
func (s Stats) Merge(o Stats) Stats {
	s.Reads += o.Reads
	s.FilteredReads += o.FilteredReads
	s.Junctions += o.Junctions
	s.PointJunctions += o.PointJunctions
	s.Clusters += o.Clusters
	s.SVCalls += o.SVCalls
	s.PointCalls += o.PointCalls
	return s
}
