// Package smallworld implements a navigable small-world proximity
// graph for approximate k-nearest-neighbor search over arbitrary,
// possibly non-metric distance functions. The graph is built by
// incremental insertion: each new element is connected to the NN
// closest nodes found by a greedy beam search over the partially built
// graph, and queries run the same kind of traversal from a fixed entry
// point.
package smallworld

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Tencv/nmslib/params"
	"github.com/Tencv/nmslib/progress"
	"github.com/Tencv/nmslib/query"
	"github.com/Tencv/nmslib/space"
)

const (
	// MethodDesc identifies this index method in saved files.
	MethodDesc = "small_world_rand"

	defaultNN = 10

	// progressUpdateQty batches progress updates to amortize display
	// lock contention across build workers.
	progressUpdateQty = 200

	// mergeBufferAlgoSwitchThreshold selects between per-item
	// insertion and a batched merge in the V1Merge search.
	mergeBufferAlgoSwitchThreshold = 100
)

// AlgoType selects the query-time beam search variant.
type AlgoType int

const (
	// AlgoOld is the classic two-heap beam search.
	AlgoOld AlgoType = iota
	// AlgoV1Merge is the sorted-array beam with in-place
	// re-exploration.
	AlgoV1Merge
)

func (a AlgoType) String() string {
	switch a {
	case AlgoV1Merge:
		return "v1merge"
	default:
		return "old"
	}
}

// Options configures collaborators of the index.
type Options struct {
	// Logger receives build-parameter and lifecycle logs. Defaults to
	// slog.Default.
	Logger *slog.Logger

	// Progress receives batched completion counts during builds.
	// Defaults to NoopTracker.
	Progress progress.Tracker
}

// SmallWorld is a small-world graph index over a fixed data sequence.
// The data objects are borrowed and must outlive the index; a node's
// internal id equals the object's position in the sequence.
//
// Many inserters may run concurrently during CreateIndex. Once built,
// the index serves any number of concurrent readers, but mixing
// builders with readers is not supported.
type SmallWorld[T space.Dist] struct {
	space  space.Space[T]
	data   []*space.Object
	logger *slog.Logger
	prog   progress.Tracker

	nn             uint
	efConstruction uint
	indexThreadQty uint
	useProxyDist   bool
	buildDist      func(a, b *space.Object) T

	// Query-time parameters; set via SetQueryTimeParams between
	// queries, never during one.
	efSearch uint
	algo     AlgoType

	// elListMu guards elList and the initial-empty check only.
	elListMu sync.Mutex
	elList   map[int32]*node

	// entryPoint is captured when the first node is created and never
	// changes afterward.
	entryPoint *node
}

// New creates an unbuilt index over the given space and data sequence.
func New[T space.Dist](sp space.Space[T], data []*space.Object, optFns ...func(o *Options)) *SmallWorld[T] {
	opts := Options{
		Logger:   slog.Default(),
		Progress: progress.NoopTracker{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &SmallWorld[T]{
		space:    sp,
		data:     data,
		logger:   opts.Logger,
		prog:     opts.Progress,
		efSearch: defaultNN,
		elList:   make(map[int32]*node, len(data)),
	}
}

// StrDesc returns the method descriptor written to saved files.
func (sw *SmallWorld[T]) StrDesc() string { return MethodDesc }

// Size returns the number of indexed nodes.
func (sw *SmallWorld[T]) Size() int {
	sw.elListMu.Lock()
	defer sw.elListMu.Unlock()
	return len(sw.elList)
}

// CreateIndex builds the graph by inserting every data object.
// Recognized parameters: NN (target out-degree, default 10),
// efConstruction (construction beam width, default NN), indexThreadQty
// (insertion workers, default GOMAXPROCS), useProxyDist (use the
// space's proxy distance for all build comparisons, default false).
// Unknown parameters fail with params.ErrBadParam.
func (sw *SmallWorld[T]) CreateIndex(prm *params.Params) error {
	nn, err := prm.GetUint("NN", defaultNN)
	if err != nil {
		return err
	}
	efConstruction, err := prm.GetUint("efConstruction", nn)
	if err != nil {
		return err
	}
	indexThreadQty, err := prm.GetUint("indexThreadQty", uint(runtime.GOMAXPROCS(0)))
	if err != nil {
		return err
	}
	useProxyDist, err := prm.GetBool("useProxyDist", false)
	if err != nil {
		return err
	}
	if err := prm.CheckUnused(); err != nil {
		return err
	}
	if nn == 0 {
		return &params.ErrBadParam{Name: "NN", Reason: "must be positive"}
	}

	sw.nn = nn
	sw.efConstruction = efConstruction
	sw.indexThreadQty = indexThreadQty
	sw.useProxyDist = useProxyDist
	sw.efSearch = nn
	sw.algo = AlgoOld

	sw.logger.Info("small world build parameters",
		"space", sw.space.Name(),
		"NN", nn,
		"efConstruction", efConstruction,
		"indexThreadQty", indexThreadQty,
		"useProxyDist", useProxyDist,
	)
	if efConstruction == nn {
		sw.logger.Warn("efConstruction equals NN; the construction beam degenerates to the result size, consider a larger value")
	}

	sw.buildDist = sw.space.IndexTimeDistance
	if useProxyDist {
		if ps, ok := sw.space.(space.ProxySpace[T]); ok {
			sw.buildDist = ps.ProxyDistance
		} else {
			sw.logger.Warn("useProxyDist requested but the space supplies no proxy distance; falling back to the index-time distance", "space", sw.space.Name())
		}
	}

	if len(sw.data) == 0 {
		return nil
	}

	// The first node must exist before any worker starts, or add()
	// would observe an empty table.
	first := newNode(sw.data[0], 0)
	sw.addCriticalSection(first)
	sw.entryPoint = first

	total := len(sw.data)
	maxInternalID := int32(total - 1)

	sw.prog.Begin(total)
	sw.prog.Add(1)

	if indexThreadQty <= 1 {
		pending := 0
		for id := 1; id < total; id++ {
			if err := sw.add(newNode(sw.data[id], int32(id)), maxInternalID); err != nil {
				return err
			}
			if pending++; pending == progressUpdateQty {
				sw.prog.Add(pending)
				pending = 0
			}
		}
		sw.prog.Add(pending)
	} else {
		var g errgroup.Group
		for i := 0; i < int(indexThreadQty); i++ {
			worker := i
			g.Go(func() error {
				pending := 0
				for id := 1; id < total; id++ {
					if id%int(indexThreadQty) != worker {
						continue
					}
					if err := sw.add(newNode(sw.data[id], int32(id)), maxInternalID); err != nil {
						return err
					}
					if pending++; pending == progressUpdateQty {
						sw.prog.Add(pending)
						pending = 0
					}
				}
				sw.prog.Add(pending)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		if n := sw.Size(); n != total {
			return &ErrGraphCorruption{Detail: fmt.Sprintf("node table holds %d entries for %d data objects", n, total)}
		}
		sw.logger.Info("indexing workers finished", "workers", indexThreadQty)
	}

	sw.prog.Done()
	return nil
}

// SetQueryTimeParams adjusts query behavior. Recognized parameters:
// efSearch (query beam width, default NN) and algoType (old or
// v1merge, default old). Passing nil resets both to defaults. Must not
// be called concurrently with queries.
func (sw *SmallWorld[T]) SetQueryTimeParams(prm *params.Params) error {
	efSearch, err := prm.GetUint("efSearch", sw.nn)
	if err != nil {
		return err
	}
	algoRaw := prm.GetString("algoType", "old")
	if err := prm.CheckUnused(); err != nil {
		return err
	}

	var algo AlgoType
	switch strings.ToLower(algoRaw) {
	case "old":
		algo = AlgoOld
	case "v1merge":
		algo = AlgoV1Merge
	default:
		return &params.ErrBadParam{Name: "algoType", Reason: "should be one of the following: old, v1merge"}
	}
	if efSearch == 0 {
		return &params.ErrBadParam{Name: "efSearch", Reason: "must be positive"}
	}

	sw.efSearch = efSearch
	sw.algo = algo

	sw.logger.Info("small world query-time parameters",
		"efSearch", efSearch,
		"algoType", algo.String(),
	)
	return nil
}

// Algo returns the currently selected query algorithm.
func (sw *SmallWorld[T]) Algo() AlgoType { return sw.algo }

// SearchKNN answers a k-nearest-neighbor query using the configured
// beam variant. Results accumulate in the query's own top-k buffer.
func (sw *SmallWorld[T]) SearchKNN(q *query.KNN[T]) error {
	if sw.algo == AlgoV1Merge {
		return sw.searchV1Merge(q)
	}
	return sw.searchOld(q)
}

// SearchRange rejects range queries.
func (sw *SmallWorld[T]) SearchRange(*query.Range[T]) error {
	return ErrUnsupported
}

// add inserts a freshly created node: it locates up to NN connection
// candidates with the indexing beam search, links the node to each
// bidirectionally, then publishes it through the table. Publication is
// the point where new searches can discover the node via the table,
// though it may already be reachable through neighbors it linked to;
// neighbor locks mediate that visibility.
func (sw *SmallWorld[T]) add(n *node, maxInternalID int32) error {
	n.removeAllFriends()

	sw.elListMu.Lock()
	isEmpty := len(sw.elList) == 0
	sw.elListMu.Unlock()

	if isEmpty {
		return ErrNotInitialized
	}

	resultSet, err := sw.searchForIndexing(n.obj, maxInternalID)
	if err != nil {
		return err
	}
	for {
		it, ok := resultSet.PopItem()
		if !ok {
			break
		}
		link(it.Value, n)
	}

	sw.addCriticalSection(n)
	return nil
}

func (sw *SmallWorld[T]) addCriticalSection(n *node) {
	sw.elListMu.Lock()
	sw.elList[n.obj.ID()] = n
	sw.elListMu.Unlock()
}
