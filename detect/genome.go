package detect

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fastx"
)

// loadGenome reads every sequence of a FASTA file, possibly compressed, into
// memory, keyed by sequence ID. Bases are upper-cased.
func loadGenome(path string) (map[string][]byte, error) {
	r, err := fastx.NewReader(nil, path, "")
	if err != nil {
		return nil, errors.Wrapf(err, "open genome %s", path)
	}
	defer r.Close()
	genome := map[string][]byte{}
	for {
		record, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrapf(err, "read genome %s", path)
		}
		// The reader reuses record buffers.
		id := string(record.ID)
		if _, ok := genome[id]; ok {
			return nil, errors.Errorf("genome %s: duplicate sequence %s", path, id)
		}
		genome[id] = bytes.ToUpper(record.Seq.Seq)
	}
	if len(genome) == 0 {
		return nil, errors.Errorf("genome %s: no sequences", path)
	}
	return genome, nil
}
