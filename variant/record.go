// Package variant turns clusters and point-event junctions into typed
// variant records, and writes them as VCF.
package variant

import (
	"fmt"
	"strings"
)

const (
	// PassFilter is the FILTER value of every record.
	PassFilter = "PASS"
	// MissingValue renders empty REF, ALT and INFO columns.
	MissingValue = "."
)

// InfoField is one key=value entry of the INFO column.
type InfoField struct {
	Key string
	// Value is an int or a string.
	Value interface{}
}

// Record is one variant call. Pos is 1-based.
type Record struct {
	Chrom  string
	Pos    int
	ID     string
	Ref    string
	Alt    string
	Qual   float64
	Filter string
	// Info is ordered: END, SVLEN, iGenVar_SVLEN, SVTYPE for structural
	// variants, empty for point events.
	Info []InfoField
}

// InfoValue returns the value stored under key, or nil.
func (r Record) InfoValue(key string) interface{} {
	for _, f := range r.Info {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

// InfoString renders the INFO column, e.g. "END=550;SVLEN=-49".
func (r Record) InfoString() string {
	if len(r.Info) == 0 {
		return MissingValue
	}
	var b strings.Builder
	for i, f := range r.Info {
		if i > 0 {
			b.WriteByte(';')
		}
		fmt.Fprintf(&b, "%s=%v", f.Key, f.Value)
	}
	return b.String()
}

func orMissing(s string) string {
	if s == "" {
		return MissingValue
	}
	return s
}
