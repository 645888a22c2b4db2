package converter

import (
	"encoding/binary"
	"io"

	"golang.org/x/exp/rand"

	"github.com/oliverans/starway/internal/starway"
)

// Buffer is the converter's bounded-RAM shuffle buffer: records accumulate
// until it is full, at which point it is shuffled in place and flushed to the
// data file, with one sidecar offset written per batch boundary.
type Buffer struct {
	records    []starway.Record
	capacity   int
	batchSize  int
	rng        *rand.Rand
}

// NewBuffer allocates a buffer capacity rounded down to a multiple of
// batchSize, per the spec's "capacity = floor(MB*1e6/recordSize) rounded down
// to a multiple of batch size" rule (the rounding is the caller's job; this
// constructor just asserts the invariant it depends on).
func NewBuffer(capacity, batchSize int, seed uint64) *Buffer {
	if batchSize <= 0 || capacity%batchSize != 0 {
		panic("converter: buffer capacity must be a positive multiple of batch size")
	}
	return &Buffer{
		records:   make([]starway.Record, 0, capacity),
		capacity:  capacity,
		batchSize: batchSize,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Push appends a record. Returns true if the buffer is now full.
func (b *Buffer) Push(r starway.Record) bool {
	b.records = append(b.records, r)
	return len(b.records) >= b.capacity
}

// Len reports the current record count.
func (b *Buffer) Len() int { return len(b.records) }

// Flush truncates any partial-batch tail, shuffles uniformly (Fisher-Yates,
// via golang.org/x/exp/rand), writes the remaining records to data in order,
// and appends one u64 little-endian offset per batch start to offsets.
// Returns the number of records written.
func (b *Buffer) Flush(data io.Writer, offsets io.Writer, dataOffsetSoFar int64) (int, error) {
	full := (len(b.records) / b.batchSize) * b.batchSize
	b.records = b.records[:full]

	b.rng.Shuffle(len(b.records), func(i, j int) {
		b.records[i], b.records[j] = b.records[j], b.records[i]
	})

	offset := dataOffsetSoFar
	var offBuf [8]byte
	for i, rec := range b.records {
		if i%b.batchSize == 0 {
			binary.LittleEndian.PutUint64(offBuf[:], uint64(offset))
			if _, err := offsets.Write(offBuf[:]); err != nil {
				return i, err
			}
		}
		if _, err := rec.WriteTo(data); err != nil {
			return i, err
		}
		offset += starway.RecordSize
	}

	written := len(b.records)
	b.records = b.records[:0]
	return written, nil
}
