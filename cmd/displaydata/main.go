// Command displaydata dumps a handful of Starway records from a data file in
// human-readable form, for spot-checking a converter/interleave run.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/oliverans/starway/internal/starway"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: displaydata <data-file> <start-index> <count>")
}

func main() {
	args := os.Args[1:]
	if len(args) != 3 {
		usage()
		os.Exit(1)
	}

	path := args[0]
	start, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "displaydata: bad start index: %v\n", err)
		os.Exit(1)
	}
	count, err := strconv.Atoi(args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "displaydata: bad count: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "displaydata: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if _, err := f.Seek(int64(start)*starway.RecordSize, 0); err != nil {
		fmt.Fprintf(os.Stderr, "displaydata: %v\n", err)
		os.Exit(1)
	}

	for i := 0; i < count; i++ {
		rec, err := starway.ReadFrom(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "displaydata: record %d: %v\n", start+i, err)
			os.Exit(1)
		}
		fmt.Printf("#%d stm=%d in_check=%v our_king=%d their_king=%d ks=%v qs=%v ep_file=%d result=%d score=%d best_move=%s occupied_popcount=%d\n",
			start+i, rec.STM, rec.InCheck, rec.OurKingOriented, rec.TheirKingOriented,
			rec.CastlingKS, rec.CastlingQS, rec.EPFile, rec.Result, rec.StmScore, rec.BestMove, popcount(rec.Occupied))
	}
}

func popcount(x uint64) int {
	n := 0
	for x != 0 {
		n++
		x &= x - 1
	}
	return n
}
