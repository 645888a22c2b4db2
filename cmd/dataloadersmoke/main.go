// Command dataloadersmoke exercises the dataloader package directly (no cgo)
// and prints a batch's shapes, for smoke-testing a converted data file.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/oliverans/starway/internal/dataloader"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: dataloadersmoke <data-file> <offsets-file> <batch-size> <num-threads> <num-batches>")
}

func main() {
	args := os.Args[1:]
	if len(args) != 5 {
		usage()
		os.Exit(1)
	}

	dataPath, offsetsPath := args[0], args[1]
	batchSize, err := strconv.Atoi(args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "dataloadersmoke: bad batch size: %v\n", err)
		os.Exit(1)
	}
	numThreads, err := strconv.Atoi(args[3])
	if err != nil {
		fmt.Fprintf(os.Stderr, "dataloadersmoke: bad num threads: %v\n", err)
		os.Exit(1)
	}
	numBatches, err := strconv.Atoi(args[4])
	if err != nil {
		fmt.Fprintf(os.Stderr, "dataloadersmoke: bad num batches: %v\n", err)
		os.Exit(1)
	}

	loader, err := dataloader.Open(dataPath, offsetsPath, batchSize, numThreads)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dataloadersmoke: %v\n", err)
		os.Exit(1)
	}
	defer loader.Close()

	for i := 0; i < numBatches; i++ {
		batch, err := loader.NextBatch()
		if err != nil {
			fmt.Fprintf(os.Stderr, "dataloadersmoke: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("batch %d: size=%d active_features_stm=%d legal_move_idxs=%d best_move_idx[0]=%d stm_score[0]=%d stm_result[0]=%.1f\n",
			i, batch.BatchSize, len(batch.ActiveFeaturesStm), len(batch.LegalMoveIdxs),
			batch.BestMoveIdx[0], batch.StmScores[0], batch.StmResults[0])
	}
}
