package variant

import (
	"github.com/grailbio/svcall/cluster"
	"github.com/grailbio/svcall/junction"
)

// Opts holds the length thresholds of the classifier.
type Opts struct {
	// MinVarLength is the smallest |SVLEN| reported. It is also the smallest
	// inserted length that turns a deletion-shaped cluster into an inversion.
	MinVarLength int `toml:"min_var_length"`
	// MaxVarLength is the largest |SVLEN| reported.
	MaxVarLength int `toml:"max_var_length"`
	// MaxTolInsertedLength is the longest inserted sequence tolerated inside
	// a deletion.
	MaxTolInsertedLength int `toml:"max_tol_inserted_length"`
	// MaxTolDeletedLength is the longest gap tolerated between the mates of
	// an insertion or tandem duplication.
	MaxTolDeletedLength int `toml:"max_tol_deleted_length"`
	// MinQual is the smallest cluster size classified.
	MinQual int `toml:"min_qual"`
}

// DefaultOpts is the default classifier configuration.
var DefaultOpts = Opts{
	MinVarLength:         30,
	MaxVarLength:         10000,
	MaxTolInsertedLength: 50,
	MaxTolDeletedLength:  50,
	MinQual:              5,
}

const (
	svTypeDel = "DEL"
	svTypeDup = "DUP"
	svTypeIns = "INS"
	svTypeInv = "INV"
)

// within reports whether 0 <= v <= max.
func within(v, max int) bool {
	return v >= 0 && v <= max
}

// Classify maps the representative geometry of c to a structural variant.
// It returns false if c matches no variant type or its length falls outside
// [MinVarLength, MaxVarLength]. Clusters spanning two sequences, or whose
// first mate is reverse, are not classified.
func Classify(c cluster.Cluster, opts Opts) (Record, bool) {
	mate1, mate2 := c.AverageMate1(), c.AverageMate2()
	if mate1.SeqName != mate2.SeqName || mate1.Orientation != junction.Forward {
		return Record{}, false
	}
	var (
		insertSize = c.AverageInsertedSize()
		distance   = mate2.Position - mate1.Position - 1
		rec        = Record{
			Chrom:  mate1.SeqName,
			Pos:    mate1.Position + 1,
			ID:     MissingValue,
			Ref:    "N",
			Qual:   float64(c.Size()),
			Filter: PassFilter,
		}
		end, svLen, altSVLen int
		svType               string
	)
	switch {
	case c.CommonTandemDupCount() > 0 && within(distance, opts.MaxTolDeletedLength):
		rec.Alt = "<DUP:TANDEM>"
		end = mate2.Position + 1
		svLen = distance + 2
		altSVLen = insertSize
		svType = svTypeDup
	case distance > 0:
		switch {
		case insertSize >= opts.MinVarLength:
			// mate1 is the last base before the inverted segment.
			rec.Pos++
			rec.Alt = "<INV>"
			end = mate2.Position + 1
			svLen = distance
			svType = svTypeInv
		case insertSize <= opts.MaxTolInsertedLength:
			rec.Alt = "<DEL>"
			end = mate2.Position
			svLen = -distance
			svType = svTypeDel
		default:
			return Record{}, false
		}
		altSVLen = svLen
	case insertSize > 0 && within(distance, opts.MaxTolDeletedLength):
		rec.Alt = "<INS>"
		end = mate1.Position + 1
		svLen = insertSize
		altSVLen = svLen
		svType = svTypeIns
	default:
		return Record{}, false
	}
	if abs := absInt(svLen); abs < opts.MinVarLength || abs > opts.MaxVarLength {
		return Record{}, false
	}
	rec.Info = []InfoField{
		{Key: "END", Value: end},
		{Key: "SVLEN", Value: svLen},
		{Key: "iGenVar_SVLEN", Value: altSVLen},
		{Key: "SVTYPE", Value: svType},
	}
	return rec, true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// FromClusters classifies every cluster with at least opts.MinQual members
// and returns the calls in cluster order.
func FromClusters(clusters []cluster.Cluster, opts Opts) []Record {
	var recs []Record
	for _, c := range clusters {
		if c.Size() < opts.MinQual {
			continue
		}
		if rec, ok := Classify(c, opts); ok {
			recs = append(recs, rec)
		}
	}
	return recs
}
