// Command perft runs the move generator's node-count oracle against a FEN.
package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/oliverans/starway/internal/chess"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: perft <fen> <depth> [divide]")
}

func main() {
	args := os.Args[1:]
	if len(args) < 2 {
		usage()
		os.Exit(1)
	}

	fen := args[0]
	depth, err := strconv.Atoi(args[1])
	if err != nil || depth <= 0 {
		fmt.Fprintln(os.Stderr, "perft: depth must be a positive integer")
		os.Exit(1)
	}
	divide := len(args) >= 3 && args[2] == "divide"

	pos, err := chess.ParseFEN(fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "perft: %v\n", err)
		os.Exit(1)
	}

	if divide {
		div := chess.PerftDivide(pos, depth)
		moves := make([]string, 0, len(div))
		for m := range div {
			moves = append(moves, m)
		}
		sort.Strings(moves)
		var total uint64
		for _, m := range moves {
			fmt.Printf("%s: %d\n", m, div[m])
			total += div[m]
		}
		fmt.Printf("total: %d\n", total)
		return
	}

	start := time.Now()
	nodes := chess.Perft(pos, depth)
	elapsed := time.Since(start)
	fmt.Printf("depth %d: %d nodes in %s (%.0f nps)\n", depth, nodes, elapsed, float64(nodes)/elapsed.Seconds())
}
