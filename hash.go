package bitwuzla

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// structHasher builds the structural hash used to bucket candidates in the
// sort/term hash-consing tables, mirroring borzacchiello-gosmt's ExprBuilder
// cache: a cheap digest selects a bucket, then a linear scan within the
// bucket confirms exact structural equality before minting a fresh node.
type structHasher struct {
	d *xxhash.Digest
	b [8]byte
}

func newStructHasher() *structHasher {
	return &structHasher{d: xxhash.New()}
}

func (h *structHasher) writeUint64(v uint64) {
	binary.LittleEndian.PutUint64(h.b[:], v)
	h.d.Write(h.b[:])
}

func (h *structHasher) writeString(s string) {
	h.d.Write([]byte(s))
	h.d.Write([]byte{0})
}

func (h *structHasher) writeBytes(b []byte) {
	h.d.Write(b)
	h.d.Write([]byte{0})
}

func (h *structHasher) sum() uint64 {
	return h.d.Sum64()
}
