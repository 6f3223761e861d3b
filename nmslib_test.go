package nmslib

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tencv/nmslib/params"
	"github.com/Tencv/nmslib/query"
	"github.com/Tencv/nmslib/smallworld"
	"github.com/Tencv/nmslib/space"
)

type captureCollector struct {
	mu       sync.Mutex
	builds   int
	searches int
	saves    int
	loads    int
}

func (c *captureCollector) RecordBuild(int, time.Duration, error) {
	c.mu.Lock()
	c.builds++
	c.mu.Unlock()
}

func (c *captureCollector) RecordSearch(string, int, time.Duration, error) {
	c.mu.Lock()
	c.searches++
	c.mu.Unlock()
}

func (c *captureCollector) RecordSave(time.Duration, error) {
	c.mu.Lock()
	c.saves++
	c.mu.Unlock()
}

func (c *captureCollector) RecordLoad(int, time.Duration, error) {
	c.mu.Lock()
	c.loads++
	c.mu.Unlock()
}

func testData(n int) []*space.Object {
	data := make([]*space.Object, n)
	for i := range data {
		data[i] = space.Float32Object(int32(i), []float32{float32(i), float32(i % 3)})
	}
	return data
}

func TestIndexLifecycle(t *testing.T) {
	data := testData(50)
	mc := &captureCollector{}
	ix := New[float32](space.L2Float32{}, data, WithMetrics(mc))

	require.NoError(t, ix.CreateIndex(params.FromMap(map[string]string{
		"NN":             "8",
		"efConstruction": "32",
		"indexThreadQty": "2",
	})))
	assert.Equal(t, 50, ix.Size())

	require.NoError(t, ix.SetQueryTimeParams(params.FromMap(map[string]string{
		"efSearch": "50",
		"algoType": "v1merge",
	})))

	res, err := ix.KNNQuery(space.Float32Object(-1, []float32{10.2, 1.1}), 5)
	require.NoError(t, err)
	require.Len(t, res, 5)
	for i := 1; i < len(res); i++ {
		assert.LessOrEqual(t, res[i-1].Dist, res[i].Dist)
	}

	location := filepath.Join(t.TempDir(), "index.txt")
	require.NoError(t, ix.Save(location))

	restored := New[float32](space.L2Float32{}, data, WithMetrics(mc))
	require.NoError(t, restored.Load(location))
	assert.Equal(t, 50, restored.Size())

	res2, err := restored.KNNQuery(space.Float32Object(-1, []float32{10.2, 1.1}), 5)
	require.NoError(t, err)
	assert.Len(t, res2, 5)

	assert.Equal(t, 1, mc.builds)
	assert.Equal(t, 2, mc.searches)
	assert.Equal(t, 1, mc.saves)
	assert.Equal(t, 1, mc.loads)
}

func TestKNNQueryRejectsBadK(t *testing.T) {
	ix := New[float32](space.L2Float32{}, testData(3))
	require.NoError(t, ix.CreateIndex(nil))

	_, err := ix.KNNQuery(space.Float32Object(-1, []float32{0, 0}), 0)
	assert.ErrorIs(t, err, query.ErrInvalidK)
}

func TestRangeQueryRejected(t *testing.T) {
	ix := New[float32](space.L2Float32{}, testData(3))
	require.NoError(t, ix.CreateIndex(nil))

	err := ix.RangeQuery(space.Float32Object(-1, []float32{0, 0}), 1)
	assert.ErrorIs(t, err, smallworld.ErrUnsupported)
}

func TestEmptyIndexQuery(t *testing.T) {
	ix := New[float32](space.L2Float32{}, nil)
	require.NoError(t, ix.CreateIndex(nil))

	res, err := ix.KNNQuery(space.Float32Object(-1, []float32{1, 1}), 5)
	require.NoError(t, err)
	assert.Empty(t, res)
}
