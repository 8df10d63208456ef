package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/codewandler/cachr-go/core/cache"
	"github.com/codewandler/cachr-go/core/lru"
)

// === Config ===

var (
	logLevel  = slog.LevelInfo
	N         = getEnvInt("N", 2_000_000)
	batchSize = getEnvInt("B", 50_000)
	cacheSize = getEnvInt("SIZE", 10_000)
	keyspace  = getEnvInt("K", 50_000)
	workers   = getEnvInt("W", 4)
	ttlMs     = getEnvInt("TTL_MS", 0)
	sweepMs   = getEnvInt("SWEEP_MS", 250)
	withPool  = getEnvBool("POOL", true)
)

func getEnvBool(key string, fallback bool) bool {
	v := getEnv(key, strconv.FormatBool(fallback))
	if v == "" {
		return fallback
	}
	if v == "1" || strings.ToLower(v) == "true" {
		return true
	}
	return false
}

func getEnv(key, fallback string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, fmt.Sprintf("%d", fallback)))
	if err != nil {
		return fallback
	}
	return v
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	fmt.Printf("     Ops: %d\n", N)
	fmt.Printf("Capacity: %d\n", cacheSize)
	fmt.Printf("Keyspace: %d\n", keyspace)
	fmt.Printf(" Workers: %d\n", workers)
	fmt.Printf("    Pool: %s\n", strconv.FormatBool(withPool))
	if ttlMs > 0 {
		fmt.Printf("     TTL: %dms (sweep every %dms)\n", ttlMs, sweepMs)
	}

	runChurn()
	runConcurrent(log)
}

// === Phase 1: insert churn on the unsynchronized core ===

func runChurn() {
	println("")
	println("=== phase 1: insert churn (single goroutine) ===")

	c := lru.MustNew(lru.Opts[int, int]{Max: cacheSize})

	// fill to capacity so every insert below evicts and recycles a node
	for i := 0; i < cacheSize; i++ {
		c.Set(i, i)
	}

	// keep the loop print-free; the alloc delta should reflect cache work only
	runtime.GC()
	before := getMemUsage()
	startAt := time.Now()

	for i := 0; i < N; i++ {
		c.Set(cacheSize+i, i)
		if !withPool {
			c.DiscardPool()
		}
	}

	took := time.Since(startAt)
	after := getMemUsage()
	allocated := after.TotalAlloc - before.TotalAlloc

	fmt.Printf("total runtime: %.3f seconds\n", took.Seconds())
	fmt.Printf("    inserts/s: %d\n", int(float64(N)/took.Seconds()))
	fmt.Printf("  alloc delta: %d MiB (%d B/insert)\n", allocated/1024/1024, allocated/uint64(N))
	fmt.Printf(" pooled nodes: %d\n", c.Stats().Pooled)
}

// === Phase 2: concurrent get/set on the guarded cache ===

func runConcurrent(log *slog.Logger) {
	println("")
	println("=== phase 2: concurrent get/set ===")

	c, err := cache.NewLRU(cache.LRUOpts{
		Size:          cacheSize,
		TTL:           time.Duration(ttlMs) * time.Millisecond,
		AutoSweep:     ttlMs > 0,
		SweepInterval: time.Duration(sweepMs) * time.Millisecond,
		Name:          "loadtest",
		Log:           log,
	})
	checkErr(err)
	defer c.Close()

	var (
		ops       atomic.Int64
		perWorker = N / workers
		startAt   = time.Now()
	)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < perWorker; i++ {
				key := fmt.Sprintf("key-%d", rng.Intn(keyspace))
				if i%4 == 0 {
					c.Set(key, i)
				} else {
					c.Get(key)
				}
				if i > 0 && i%batchSize == 0 {
					print(".")
				}
			}
			ops.Add(int64(perWorker))
		}(int64(w))
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	// one progress line per second until the workers drain
	t := time.NewTicker(time.Second)
	defer t.Stop()
	lastTime := startAt

progress:
	for {
		select {
		case <-done:
			break progress
		case n := <-t.C:
			mu := getMemUsage()
			st := c.Stats()
			took := n.Sub(lastTime)
			fmt.Printf(" | %8d resident | hit rate %.3f | (%d / %d) MiB mem (sys) | +%dms |\n",
				st.Len, st.HitRate(), mu.Alloc/1024/1024, mu.Sys/1024/1024, took.Milliseconds())
			lastTime = n
		}
	}

	// === stats ===
	println("")
	println("==========================================")

	took := time.Since(startAt)
	runtime.GC()

	st := c.Stats()
	fmt.Printf("total runtime: %.3f seconds\n", took.Seconds())
	fmt.Printf("   avg. ops/s: %d\n", int(float64(ops.Load())/took.Seconds()))
	fmt.Printf("     hit rate: %.3f (%d hits / %d misses)\n", st.HitRate(), st.Hits, st.Misses)
	fmt.Printf("     resident: %d / %d\n", st.Len, st.Cap)
	fmt.Printf(" pooled nodes: %d\n", st.Pooled)
}

// === stats helpers ===

type MemUsage struct {
	Alloc      uint64 // bytes allocated and not yet freed (heap)
	TotalAlloc uint64 // cumulative bytes allocated
	Sys        uint64 // total bytes obtained from OS
	NumGC      uint32 // gc cycles
}

func getMemUsage() MemUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemUsage{
		Alloc:      m.Alloc,
		TotalAlloc: m.TotalAlloc,
		Sys:        m.Sys,
		NumGC:      m.NumGC,
	}
}

// === Helpers ===

func checkErr(err error) {
	if err != nil {
		panic(err)
	}
}
