// Package interleave implements the converter's second shuffle pass: it
// globalizes the bounded-RAM shuffle by splitting the data file into
// independently-seeked chunks and uniformly picking across all of them.
package interleave

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/rand"

	"github.com/oliverans/starway/internal/starway"
)

// chunk is one independent read cursor into the input data file.
type chunk struct {
	file      *os.File
	remaining int
}

// Run reads the offsets sidecar, splits the input file into
// ceil(totalRecords/bufferCapacity) chunks, and repeatedly picks a uniformly
// random remaining record across all chunks, writing sequentially to output
// and recording new batch offsets. The output file's size will equal the
// input file's size.
func Run(inPath, outPath string, bufferCapacity int, offsetsInPath, offsetsOutPath string, batchSize int, seed uint64) error {
	if bufferCapacity%batchSize != 0 {
		return fmt.Errorf("interleave: buffer capacity must be a multiple of batch size")
	}

	offsetsData, err := os.ReadFile(offsetsInPath)
	if err != nil {
		return fmt.Errorf("interleave: reading offsets sidecar: %w", err)
	}
	if len(offsetsData)%8 != 0 {
		return fmt.Errorf("interleave: offsets sidecar size is not a multiple of 8")
	}
	numOffsets := len(offsetsData) / 8
	offsets := make([]int64, numOffsets)
	for i := 0; i < numOffsets; i++ {
		offsets[i] = int64(binary.LittleEndian.Uint64(offsetsData[i*8:]))
	}
	if numOffsets == 0 {
		return fmt.Errorf("interleave: offsets sidecar is empty")
	}

	info, err := os.Stat(inPath)
	if err != nil {
		return fmt.Errorf("interleave: stat input: %w", err)
	}
	inSize := info.Size()
	totalRecords := int(inSize / starway.RecordSize)
	if inSize%starway.RecordSize != 0 {
		return fmt.Errorf("interleave: input file size is not a multiple of the record size")
	}

	batchesPerChunk := bufferCapacity / batchSize
	numChunks := (totalRecords + bufferCapacity - 1) / bufferCapacity

	chunks := make([]*chunk, 0, numChunks)
	remainingTotal := 0
	for i := 0; i < numChunks; i++ {
		startBatch := batchesPerChunk * i
		var startOffset int64
		if startBatch < numOffsets {
			startOffset = offsets[startBatch]
		} else {
			startOffset = inSize
		}
		count := bufferCapacity
		if i == numChunks-1 {
			count = totalRecords - bufferCapacity*i
		}
		f, err := os.Open(inPath)
		if err != nil {
			return fmt.Errorf("interleave: opening chunk reader: %w", err)
		}
		if _, err := f.Seek(startOffset, io.SeekStart); err != nil {
			return fmt.Errorf("interleave: seeking chunk reader: %w", err)
		}
		chunks = append(chunks, &chunk{file: f, remaining: count})
		remainingTotal += count
	}
	defer func() {
		for _, c := range chunks {
			c.file.Close()
		}
	}()

	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("interleave: creating output: %w", err)
	}
	defer outFile.Close()

	var newOffsets []byte
	rng := rand.New(rand.NewSource(seed))

	var written int64
	for remainingTotal > 0 {
		k := rng.Intn(remainingTotal)
		chunkIdx := -1
		for i, c := range chunks {
			if c.remaining == 0 {
				continue
			}
			if k < c.remaining {
				chunkIdx = i
				break
			}
			k -= c.remaining
		}
		if chunkIdx < 0 {
			return fmt.Errorf("interleave: internal error selecting a chunk")
		}

		rec, err := starway.ReadFrom(chunks[chunkIdx].file)
		if err != nil {
			return fmt.Errorf("interleave: reading record: %w", err)
		}
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("interleave: %w", err)
		}

		if remainingTotal%batchSize == 0 {
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], uint64(written))
			newOffsets = append(newOffsets, buf[:]...)
		}

		if _, err := rec.WriteTo(outFile); err != nil {
			return fmt.Errorf("interleave: writing record: %w", err)
		}
		written += starway.RecordSize

		chunks[chunkIdx].remaining--
		remainingTotal--
		if chunks[chunkIdx].remaining == 0 {
			chunks[chunkIdx].file.Close()
			chunks = append(chunks[:chunkIdx], chunks[chunkIdx+1:]...)
		}
	}

	if written != inSize {
		return fmt.Errorf("interleave: output size %d does not match input size %d", written, inSize)
	}

	if err := os.WriteFile(offsetsOutPath, newOffsets, 0o644); err != nil {
		return fmt.Errorf("interleave: writing offsets sidecar: %w", err)
	}

	return nil
}
