// Command interleave performs the converter's second shuffle pass over an
// already-converted Starway data file, globalizing the bounded-RAM shuffle.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/oliverans/starway/internal/interleave"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: interleave <in.data> <in.offsets> <out.data> <out.offsets> <buffer-capacity> <batch-size> <seed>")
}

func main() {
	args := os.Args[1:]
	if len(args) != 7 {
		usage()
		os.Exit(1)
	}

	inData, inOffsets, outData, outOffsets := args[0], args[1], args[2], args[3]

	bufferCapacity, err := strconv.Atoi(args[4])
	if err != nil {
		fmt.Fprintf(os.Stderr, "interleave: bad buffer capacity: %v\n", err)
		os.Exit(1)
	}
	batchSize, err := strconv.Atoi(args[5])
	if err != nil {
		fmt.Fprintf(os.Stderr, "interleave: bad batch size: %v\n", err)
		os.Exit(1)
	}
	seed, err := strconv.ParseUint(args[6], 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "interleave: bad seed: %v\n", err)
		os.Exit(1)
	}

	if err := interleave.Run(inData, outData, bufferCapacity, inOffsets, outOffsets, batchSize, seed); err != nil {
		fmt.Fprintf(os.Stderr, "interleave: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, "interleave complete")
}
