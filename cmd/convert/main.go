// Command convert streams a Montyformat self-play file into Starway training
// records plus a batch-offsets sidecar.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/oliverans/starway/internal/converter"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: convert <in.binpack> <out.data> <out.offsets> <buffer-capacity> <batch-size> <seed> [limit]")
}

func main() {
	args := os.Args[1:]
	if len(args) < 6 {
		usage()
		os.Exit(1)
	}

	inPath, dataPath, offsetsPath := args[0], args[1], args[2]
	bufferCapacity, err := strconv.Atoi(args[3])
	if err != nil {
		fmt.Fprintf(os.Stderr, "convert: bad buffer capacity: %v\n", err)
		os.Exit(1)
	}
	batchSize, err := strconv.Atoi(args[4])
	if err != nil {
		fmt.Fprintf(os.Stderr, "convert: bad batch size: %v\n", err)
		os.Exit(1)
	}
	seed, err := strconv.ParseUint(args[5], 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "convert: bad seed: %v\n", err)
		os.Exit(1)
	}
	limit := 0
	if len(args) >= 7 {
		limit, err = strconv.Atoi(args[6])
		if err != nil {
			fmt.Fprintf(os.Stderr, "convert: bad limit: %v\n", err)
			os.Exit(1)
		}
	}

	in, err := os.Open(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "convert: %v\n", err)
		os.Exit(1)
	}
	defer in.Close()

	data, err := os.Create(dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "convert: %v\n", err)
		os.Exit(1)
	}
	defer data.Close()

	offsets, err := os.Create(offsetsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "convert: %v\n", err)
		os.Exit(1)
	}
	defer offsets.Close()

	stats, err := converter.Run(in, data, offsets, converter.Options{
		BufferCapacity: bufferCapacity,
		BatchSize:      batchSize,
		Seed:           seed,
		Limit:          limit,
		Progress:       os.Stderr,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "convert: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "games: %d\n", stats.Games)
	fmt.Fprintf(os.Stderr, "entries written: %d\n", stats.EntriesWritten)
	stats.Filter.PrintCounts(os.Stderr)
	fmt.Fprintf(os.Stderr, "entries filtered: %d\n", stats.Filter.Total())
}
