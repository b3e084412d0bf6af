// bench-hibernation measures heap memory before and after Hibernate() calls
// while a forest of random trees is built chunk by chunk. Trees are spread over
// the shards of a ShardedAllocator, which hibernate and boot in parallel.
//
// Usage:
//
//	go run ./scripts/bench-hibernation --count 5000000 --chunk-size 1000000 \
//	  --profile-dir docs/profiles/hibernation
package main

import (
	"cmp"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
	"github.com/Sumatoshi-tech/redblack/pkg/safeconv"
)

type heapSnapshot struct {
	label     string
	heapInUse uint64
	heapSys   uint64
	heapIdle  uint64
}

func main() {
	count := flag.Int("count", 2_000_000, "Number of values to insert")
	chunkSize := flag.Int("chunk-size", 500_000, "Values inserted between hibernations")
	trees := flag.Int("trees", 1, "Number of trees in the forest")
	shards := flag.Int("shards", 1, "Number of allocator shards the trees are spread over")
	seed := flag.Int64("seed", 1, "Random seed")
	profileDir := flag.String("profile-dir", "", "Directory to write heap profiles (empty = none)")
	cpuProfile := flag.Bool("cpu-profile", false, "Write CPU profile to profile-dir/cpu.prof")

	flag.Parse()

	if *trees <= 0 || *chunkSize <= 0 || *shards <= 0 {
		log.Fatal("--trees, --shards and --chunk-size must be positive")
	}

	if *profileDir != "" {
		if err := os.MkdirAll(*profileDir, 0o755); err != nil {
			log.Fatalf("mkdir profile-dir: %v", err)
		}
	}

	if *cpuProfile {
		if *profileDir == "" {
			log.Fatal("--cpu-profile requires --profile-dir")
		}

		cpuPath := filepath.Join(*profileDir, "cpu.prof")

		cpuFile, cpuErr := os.Create(cpuPath)
		if cpuErr != nil {
			log.Fatalf("create cpu profile: %v", cpuErr)
		}
		defer cpuFile.Close()

		if startErr := pprof.StartCPUProfile(cpuFile); startErr != nil {
			log.Fatalf("start cpu profile: %v", startErr)
		}

		defer pprof.StopCPUProfile()

		log.Printf("CPU profiling enabled -> %s", cpuPath)
	}

	rng := rand.New(rand.NewSource(*seed)) //nolint:gosec // reproducible workload.
	allocator := rbtree.NewShardedAllocator[int](*shards, 0)

	forest := make([]*rbtree.Tree[int], *trees)
	for i := range forest {
		forest[i] = rbtree.NewWithAllocator(allocator.ShardFor(fmt.Sprintf("tree-%d", i)), cmp.Compare[int])
	}

	var snapshots []heapSnapshot

	takeSnapshot := func(label string) {
		runtime.GC()
		runtime.GC()

		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		snapshots = append(snapshots, heapSnapshot{
			label:     label,
			heapInUse: m.HeapInuse,
			heapSys:   m.HeapSys,
			heapIdle:  m.HeapIdle,
		})
		log.Printf("  [heap] %-40s inuse=%9s  sys=%9s  idle=%9s",
			label, humanize.Bytes(m.HeapInuse), humanize.Bytes(m.HeapSys), humanize.Bytes(m.HeapIdle))
	}

	writeHeapProfile := func(name string) {
		if *profileDir == "" {
			return
		}

		runtime.GC()

		path := filepath.Join(*profileDir, name)

		f, ferr := os.Create(path)
		if ferr != nil {
			log.Printf("warning: create heap profile %s: %v", path, ferr)

			return
		}
		defer f.Close()

		if perr := pprof.WriteHeapProfile(f); perr != nil {
			log.Printf("warning: write heap profile %s: %v", path, perr)
		}
	}

	takeSnapshot("before_inserts")
	writeHeapProfile("heap_before_inserts.prof")

	inserted := 0

	for chunk := 0; inserted < *count; chunk++ {
		if chunk > 0 {
			label := fmt.Sprintf("chunk_%d_end", chunk)
			takeSnapshot(label + "_before_hibernate")
			writeHeapProfile(fmt.Sprintf("heap_chunk_%d_before_hibernate.prof", chunk))

			slots := allocator.Size()

			start := time.Now()
			if err := allocator.Hibernate(); err != nil {
				log.Fatalf("hibernate: %v", err)
			}

			log.Printf("hibernated %s slots over %d shards into %s in %v",
				humanize.Comma(int64(slots)), len(allocator.Shards()),
				humanize.Bytes(safeconv.MustIntToUint64(allocator.HibernatedBytes())), time.Since(start))

			takeSnapshot(label + "_after_hibernate")
			writeHeapProfile(fmt.Sprintf("heap_chunk_%d_after_hibernate.prof", chunk))

			start = time.Now()
			if err := allocator.Boot(); err != nil {
				log.Fatalf("boot: %v", err)
			}

			log.Printf("booted in %v", time.Since(start))
			takeSnapshot(label + "_after_boot")
		}

		end := min(inserted+*chunkSize, *count)
		log.Printf("inserting chunk %d (values %d-%d)", chunk+1, inserted, end)

		for ; inserted < end; inserted++ {
			forest[inserted%len(forest)].Insert(rng.Int())
		}
	}

	takeSnapshot("after_all_chunks")
	writeHeapProfile("heap_after_all_chunks.prof")

	for i, tree := range forest {
		if err := tree.Validate(); err != nil {
			log.Fatalf("tree %d: %v", i, err)
		}
	}

	fmt.Println()
	fmt.Println("=== Heap Memory Timeline ===")
	fmt.Printf("%-45s %10s %10s %10s\n", "Phase", "InUse", "Sys", "Idle")
	fmt.Println("---------------------------------------------+----------+----------+----------")

	for _, s := range snapshots {
		fmt.Printf("%-45s %10s %10s %10s\n",
			s.label, humanize.Bytes(s.heapInUse), humanize.Bytes(s.heapSys), humanize.Bytes(s.heapIdle))
	}

	fmt.Println()
	fmt.Println("=== Hibernation Memory Deltas ===")

	for i := 0; i+1 < len(snapshots); i++ {
		curr := snapshots[i]
		next := snapshots[i+1]

		if strings.HasSuffix(curr.label, "before_hibernate") && strings.HasSuffix(next.label, "after_hibernate") {
			delta := float64(curr.heapInUse) - float64(next.heapInUse)
			pct := (delta / float64(curr.heapInUse)) * 100
			fmt.Printf("  %s -> %s: %.1f MB freed (%.1f%%)\n",
				curr.label, next.label, delta/1e6, pct)
		}
	}
}
