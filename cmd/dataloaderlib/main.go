// Command dataloaderlib builds a C-shared library exposing init/next_batch
// to the external trainer, mirroring the upstream dataloader's C ABI.
package main

/*
#include <stddef.h>
#include <stdint.h>

typedef struct {
    int32_t* active_features_stm;
    int32_t* active_features_ntm;
    int16_t* stm_scores;
    float*   stm_results;
    int16_t* legal_move_idxs;
    int16_t* best_move_idx;
    size_t   batch_size;
} CBatch;
*/
import "C"

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/oliverans/starway/internal/dataloader"
)

// gLoader lives for the lifetime of the process; init is one-shot. Every
// next_batch call mallocs fresh C-owned arrays and copies the decoded Go
// slices into them — cgo forbids a C caller from retaining a pointer into Go
// memory past the call, so the batch is never handed across the boundary by
// reference. The allocations are intentionally never freed, matching
// spec.md's "memory is not freed during process lifetime".
var gLoader *dataloader.Loader

//export init_loader
func init_loader(dataPath, offsetsPath *C.char, batchSize, numThreads C.size_t) {
	loader, err := dataloader.Open(C.GoString(dataPath), C.GoString(offsetsPath), int(batchSize), int(numThreads))
	if err != nil {
		fmt.Fprintf(os.Stderr, "dataloaderlib: %v\n", err)
		os.Exit(1)
	}
	gLoader = loader
}

//export next_batch
func next_batch() *C.CBatch {
	batch, err := gLoader.NextBatch()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dataloaderlib: %v\n", err)
		os.Exit(1)
	}

	cb := (*C.CBatch)(C.malloc(C.size_t(unsafe.Sizeof(C.CBatch{}))))
	cb.active_features_stm = (*C.int32_t)(cMallocCopyInt32(batch.ActiveFeaturesStm))
	cb.active_features_ntm = (*C.int32_t)(cMallocCopyInt32(batch.ActiveFeaturesNtm))
	cb.stm_scores = (*C.int16_t)(cMallocCopyInt16(batch.StmScores))
	cb.stm_results = (*C.float)(cMallocCopyFloat32(batch.StmResults))
	cb.legal_move_idxs = (*C.int16_t)(cMallocCopyInt16(batch.LegalMoveIdxs))
	cb.best_move_idx = (*C.int16_t)(cMallocCopyInt16(batch.BestMoveIdx))
	cb.batch_size = C.size_t(batch.BatchSize)
	return cb
}

func cMallocCopyInt32(src []int32) unsafe.Pointer {
	p := C.malloc(C.size_t(len(src)) * C.size_t(unsafe.Sizeof(C.int32_t(0))))
	dst := unsafe.Slice((*int32)(p), len(src))
	copy(dst, src)
	return p
}

func cMallocCopyInt16(src []int16) unsafe.Pointer {
	p := C.malloc(C.size_t(len(src)) * C.size_t(unsafe.Sizeof(C.int16_t(0))))
	dst := unsafe.Slice((*int16)(p), len(src))
	copy(dst, src)
	return p
}

func cMallocCopyFloat32(src []float32) unsafe.Pointer {
	p := C.malloc(C.size_t(len(src)) * C.size_t(unsafe.Sizeof(C.float(0))))
	dst := unsafe.Slice((*float32)(p), len(src))
	copy(dst, src)
	return p
}

func main() {
	fmt.Println("dataloaderlib")
}
