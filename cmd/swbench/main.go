// Command swbench builds a small-world index over random vectors and
// measures query recall against exact brute-force search. It doubles
// as a smoke test for the full surface: concurrent build, the query
// beam variant selected by SWBENCH_ALGO, an optional save, and the
// Prometheus metrics endpoint. It does not load a saved index.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/Tencv/nmslib"
	"github.com/Tencv/nmslib/params"
	"github.com/Tencv/nmslib/progress"
	"github.com/Tencv/nmslib/query"
	"github.com/Tencv/nmslib/space"
)

// Config is read from SWBENCH_* environment variables, optionally
// seeded from a .env file.
type Config struct {
	Points         int    `envconfig:"POINTS" default:"10000"`
	Queries        int    `envconfig:"QUERIES" default:"1000"`
	Dimension      int    `envconfig:"DIMENSION" default:"16"`
	K              int    `envconfig:"K" default:"10"`
	NN             uint   `envconfig:"NN" default:"20"`
	EFConstruction uint   `envconfig:"EF_CONSTRUCTION" default:"100"`
	EFSearch       uint   `envconfig:"EF_SEARCH" default:"100"`
	IndexThreads   int    `envconfig:"INDEX_THREADS" default:"0"` // 0 = GOMAXPROCS
	QueryWorkers   int    `envconfig:"QUERY_WORKERS" default:"4"`
	Algo           string `envconfig:"ALGO" default:"v1merge"`
	Seed           int64  `envconfig:"SEED" default:"42"`
}

func main() {
	metricsAddr := flag.String("metrics", "", "Address to serve Prometheus metrics on (empty disables)")
	savePath := flag.String("save", "", "Save the built index to this path (optionally .zst)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// A missing .env file is fine; explicit environment wins anyway.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("SWBENCH", &cfg); err != nil {
		logger.Error("Failed to read configuration", "error", err)
		os.Exit(1)
	}
	if cfg.IndexThreads <= 0 {
		cfg.IndexThreads = runtime.GOMAXPROCS(0)
	}

	if *metricsAddr != "" {
		go func() {
			logger.Info("Starting metrics server", "address", *metricsAddr)
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				logger.Error("Failed to start metrics server", "error", err)
			}
		}()
	}

	if err := run(cfg, logger, *savePath); err != nil {
		logger.Error("Benchmark failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger, savePath string) error {
	rng := rand.New(rand.NewSource(cfg.Seed))

	data := make([]*space.Object, cfg.Points)
	for i := range data {
		data[i] = space.Float32Object(int32(i), randomVector(rng, cfg.Dimension))
	}
	queries := make([]*space.Object, cfg.Queries)
	for i := range queries {
		queries[i] = space.Float32Object(int32(-i-1), randomVector(rng, cfg.Dimension))
	}

	sp := space.L2Float32{}
	ix := nmslib.New[float32](sp, data,
		nmslib.WithLogger(nmslib.NewLogger(logger.Handler())),
		nmslib.WithMetrics(nmslib.NewPrometheusCollector(prometheus.DefaultRegisterer)),
		nmslib.WithProgress(progress.NewLogTracker(logger)),
	)

	buildStart := time.Now()
	if err := ix.CreateIndex(params.FromMap(map[string]string{
		"NN":             fmt.Sprint(cfg.NN),
		"efConstruction": fmt.Sprint(cfg.EFConstruction),
		"indexThreadQty": fmt.Sprint(cfg.IndexThreads),
	})); err != nil {
		return err
	}
	logger.Info("Index built",
		"points", cfg.Points,
		"duration", time.Since(buildStart).String(),
	)

	if err := ix.SetQueryTimeParams(params.FromMap(map[string]string{
		"efSearch": fmt.Sprint(cfg.EFSearch),
		"algoType": cfg.Algo,
	})); err != nil {
		return err
	}

	var hits, total atomic.Int64
	queryStart := time.Now()

	var g errgroup.Group
	for w := 0; w < cfg.QueryWorkers; w++ {
		worker := w
		g.Go(func() error {
			for i := worker; i < len(queries); i += cfg.QueryWorkers {
				q := queries[i]
				res, err := ix.KNNQuery(q, cfg.K)
				if err != nil {
					return err
				}
				exact := bruteForce(sp, data, q, cfg.K)
				hits.Add(int64(overlap(res, exact)))
				total.Add(int64(len(exact)))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	elapsed := time.Since(queryStart)
	recall := float64(hits.Load()) / float64(total.Load())
	logger.Info("Benchmark finished",
		"algo", cfg.Algo,
		"queries", cfg.Queries,
		"k", cfg.K,
		"recall", recall,
		"qps", float64(cfg.Queries)/elapsed.Seconds(),
	)

	if savePath != "" {
		if err := ix.Save(savePath); err != nil {
			return err
		}
		logger.Info("Index saved", "path", savePath)
	}
	return nil
}

func randomVector(rng *rand.Rand, dim int) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = rng.Float32()
	}
	return v
}

func bruteForce(sp space.L2Float32, data []*space.Object, q *space.Object, k int) []int32 {
	type pair struct {
		d  float32
		id int32
	}
	pairs := make([]pair, len(data))
	for i, o := range data {
		pairs[i] = pair{d: sp.Distance(o, q), id: o.ID()}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].d < pairs[j].d })
	if k > len(pairs) {
		k = len(pairs)
	}
	ids := make([]int32, k)
	for i := 0; i < k; i++ {
		ids[i] = pairs[i].id
	}
	return ids
}

func overlap(res []query.Result[float32], exact []int32) int {
	found := make(map[int32]bool, len(exact))
	for _, id := range exact {
		found[id] = true
	}
	n := 0
	for _, r := range res {
		if found[r.Object.ID()] {
			n++
		}
	}
	return n
}
