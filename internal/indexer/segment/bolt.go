package segment

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/RoaringBitmap/roaring"
	"go.etcd.io/bbolt"

	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/index"
)

var (
	bucketInverted   = []byte("inverted")
	bucketPositional = []byte("positional")
	bucketMeta       = []byte("meta")

	keyVersion  = []byte("version")
	keyBuiltAt  = []byte("built_at")
	keyUniverse = []byte("universe")
)

type boltOccurrence struct {
	Doc       index.DocID `json:"d"`
	Positions []int       `json:"p"`
}

// saveBolt writes a fresh database next to path and renames it over the
// previous one. Terms are bolt keys, so they are stored in sorted order.
func saveBolt(path string, snap *index.Snapshot) error {
	tmpPath := path + ".tmp"
	os.Remove(tmpPath)

	db, err := bbolt.Open(tmpPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("opening bolt index: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		inv, err := tx.CreateBucket(bucketInverted)
		if err != nil {
			return fmt.Errorf("creating bucket %s: %w", bucketInverted, err)
		}
		for term, p := range snap.Inverted {
			data, err := json.Marshal(p.Docs)
			if err != nil {
				return fmt.Errorf("marshaling postings for term %q: %w", term, err)
			}
			if err := inv.Put([]byte(term), data); err != nil {
				return err
			}
		}

		pos, err := tx.CreateBucket(bucketPositional)
		if err != nil {
			return fmt.Errorf("creating bucket %s: %w", bucketPositional, err)
		}
		for term, p := range snap.Positional {
			occs := make([]boltOccurrence, len(p.Occurrences))
			for i, occ := range p.Occurrences {
				occs[i] = boltOccurrence{Doc: occ.Doc, Positions: occ.Positions}
			}
			data, err := json.Marshal(occs)
			if err != nil {
				return fmt.Errorf("marshaling positions for term %q: %w", term, err)
			}
			if err := pos.Put([]byte(term), data); err != nil {
				return err
			}
		}

		meta, err := tx.CreateBucket(bucketMeta)
		if err != nil {
			return fmt.Errorf("creating bucket %s: %w", bucketMeta, err)
		}
		universe, err := snap.Universe().ToBytes()
		if err != nil {
			return fmt.Errorf("serializing universe: %w", err)
		}
		builtAt, err := snap.BuiltAt.MarshalBinary()
		if err != nil {
			return fmt.Errorf("serializing build time: %w", err)
		}
		if err := meta.Put(keyVersion, binary.BigEndian.AppendUint64(nil, uint64(snap.Version))); err != nil {
			return err
		}
		if err := meta.Put(keyBuiltAt, builtAt); err != nil {
			return err
		}
		return meta.Put(keyUniverse, universe)
	})
	if err != nil {
		db.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing bolt index: %w", err)
	}
	if err := db.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing bolt index: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming bolt index: %w", err)
	}
	return nil
}

func loadBolt(path string) (*index.Snapshot, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening bolt index: %w", err)
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{ReadOnly: true, Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt index: %w", err)
	}
	defer db.Close()

	var (
		version  int64
		builtAt  time.Time
		universe = roaring.New()
		inverted = make(index.InvertedIndex)
		position = make(index.PositionalIndex)
	)
	err = db.View(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		inv := tx.Bucket(bucketInverted)
		pos := tx.Bucket(bucketPositional)
		if meta == nil || inv == nil || pos == nil {
			return corrupt("missing bucket")
		}

		v := meta.Get(keyVersion)
		if len(v) != 8 {
			return corrupt("bad version record")
		}
		version = int64(binary.BigEndian.Uint64(v))
		if err := builtAt.UnmarshalBinary(meta.Get(keyBuiltAt)); err != nil {
			return corrupt("bad build time: %v", err)
		}
		if err := universe.UnmarshalBinary(meta.Get(keyUniverse)); err != nil {
			return corrupt("bad universe: %v", err)
		}

		err := inv.ForEach(func(k, v []byte) error {
			var docs []index.DocID
			if err := json.Unmarshal(v, &docs); err != nil {
				return corrupt("postings for term %q: %v", k, err)
			}
			term := string(k)
			inverted[term] = &index.InvertedPosting{Term: term, DocFreq: len(docs), Docs: docs}
			return nil
		})
		if err != nil {
			return err
		}
		return pos.ForEach(func(k, v []byte) error {
			var occs []boltOccurrence
			if err := json.Unmarshal(v, &occs); err != nil {
				return corrupt("positions for term %q: %v", k, err)
			}
			term := string(k)
			p := &index.PositionalPosting{Term: term, DocFreq: len(occs), Occurrences: make([]index.Occurrence, len(occs))}
			for i, occ := range occs {
				p.Occurrences[i] = index.Occurrence{Doc: occ.Doc, Positions: occ.Positions}
			}
			position[term] = p
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return index.NewSnapshot(version, builtAt, inverted, position, index.DocsOf(universe)), nil
}
