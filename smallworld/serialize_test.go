package smallworld

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tencv/nmslib/space"
)

func adjacencyOf(sw *SmallWorld[float32]) map[int32][]int32 {
	adj := make(map[int32][]int32, len(sw.elList))
	for _, nd := range sw.elList {
		ids := make([]int32, len(nd.friends))
		for i, fr := range nd.friends {
			ids[i] = fr.id
		}
		adj[nd.id] = ids
	}
	return adj
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"graph.txt", "graph.txt.zst"} {
		t.Run(name, func(t *testing.T) {
			data := randomData(t, 300, 4, 21)
			sw := buildIndex(t, data, map[string]string{
				"NN":             "10",
				"efConstruction": "40",
				"indexThreadQty": "4",
			})

			location := filepath.Join(t.TempDir(), name)
			require.NoError(t, sw.Save(location))

			loaded := New[float32](space.L2Float32{}, data, discardLogger())
			require.NoError(t, loaded.Load(location))

			require.Equal(t, sw.Size(), loaded.Size())
			assert.Equal(t, adjacencyOf(sw), adjacencyOf(loaded))

			for objID, nd := range sw.elList {
				got, ok := loaded.elList[objID]
				require.True(t, ok, "object id %d missing after load", objID)
				assert.Equal(t, nd.id, got.id)
			}

			require.NotNil(t, loaded.entryPoint)
			assert.Equal(t, int32(0), loaded.entryPoint.id)

			// The loaded index must be queryable as-is.
			q := space.Float32Object(-1, []float32{0.4, 0.4, 0.4, 0.4})
			assert.NotEmpty(t, knnIDs(t, loaded, q, 3))
		})
	}
}

func TestLoadPreservesDuplicateEdges(t *testing.T) {
	data := []*space.Object{
		space.Float32Object(0, []float32{0, 0}),
		space.Float32Object(1, []float32{1, 1}),
	}

	location := filepath.Join(t.TempDir(), "dup.txt")
	content := strings.Join([]string{
		"methodDesc: small_world_rand",
		"NN: 5",
		"0:0: 1 1",
		"1:1: 0 0",
		"",
		"lineQty: 6",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(location, []byte(content), 0o644))

	sw := New[float32](space.L2Float32{}, data, discardLogger())
	require.NoError(t, sw.Load(location))

	adj := adjacencyOf(sw)
	assert.Equal(t, []int32{1, 1}, adj[0])
	assert.Equal(t, []int32{0, 0}, adj[1])

	// A second save keeps the multiplicity.
	out := filepath.Join(t.TempDir(), "dup2.txt")
	require.NoError(t, sw.Save(out))
	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "0:0: 1 1\n")
}

func TestLoadRejectsOutOfRangeFriend(t *testing.T) {
	data := randomData(t, 3, 2, 1)
	location := filepath.Join(t.TempDir(), "bad.txt")
	content := strings.Join([]string{
		"methodDesc: small_world_rand",
		"NN: 3",
		"0:0: 1",
		"1:1: 0 3",
		"2:2:",
		"",
		"lineQty: 7",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(location, []byte(content), 0o644))

	sw := New[float32](space.L2Float32{}, data, discardLogger())
	err := sw.Load(location)

	var format *ErrFormat
	var mutation *ErrDataMutation
	require.Error(t, err)
	assert.True(t, errors.As(err, &format) || errors.As(err, &mutation),
		"expected a format or data mutation error, got %v", err)
}

func TestLoadRejectsObjectIDMismatch(t *testing.T) {
	data := randomData(t, 2, 2, 1)
	location := filepath.Join(t.TempDir(), "mismatch.txt")
	content := strings.Join([]string{
		"methodDesc: small_world_rand",
		"NN: 3",
		"0:7: 1",
		"1:1: 0",
		"",
		"lineQty: 6",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(location, []byte(content), 0o644))

	sw := New[float32](space.L2Float32{}, data, discardLogger())
	err := sw.Load(location)

	var mutation *ErrDataMutation
	assert.ErrorAs(t, err, &mutation)
}

func TestLoadRejectsLineCountMismatch(t *testing.T) {
	data := randomData(t, 2, 2, 1)
	location := filepath.Join(t.TempDir(), "count.txt")
	content := strings.Join([]string{
		"methodDesc: small_world_rand",
		"NN: 3",
		"0:0: 1",
		"1:1: 0",
		"",
		"lineQty: 42",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(location, []byte(content), 0o644))

	sw := New[float32](space.L2Float32{}, data, discardLogger())
	err := sw.Load(location)

	var format *ErrFormat
	assert.ErrorAs(t, err, &format)
}

func TestLoadRejectsWrongMethod(t *testing.T) {
	data := randomData(t, 1, 2, 1)
	location := filepath.Join(t.TempDir(), "method.txt")
	content := strings.Join([]string{
		"methodDesc: hnsw",
		"NN: 3",
		"0:0:",
		"",
		"lineQty: 5",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(location, []byte(content), 0o644))

	sw := New[float32](space.L2Float32{}, data, discardLogger())
	err := sw.Load(location)

	var format *ErrFormat
	assert.ErrorAs(t, err, &format)
}

func TestLoadRejectsTruncatedFile(t *testing.T) {
	data := randomData(t, 2, 2, 1)
	location := filepath.Join(t.TempDir(), "trunc.txt")
	content := strings.Join([]string{
		"methodDesc: small_world_rand",
		"NN: 3",
		"0:0: 1",
	}, "\n")
	require.NoError(t, os.WriteFile(location, []byte(content), 0o644))

	sw := New[float32](space.L2Float32{}, data, discardLogger())
	err := sw.Load(location)

	var format *ErrFormat
	assert.ErrorAs(t, err, &format)
}

func TestLoadMissingFile(t *testing.T) {
	sw := New[float32](space.L2Float32{}, randomData(t, 1, 2, 1), discardLogger())
	err := sw.Load(filepath.Join(t.TempDir(), "absent.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveEmptyIndexRoundTrip(t *testing.T) {
	sw := buildIndex(t, nil, nil)
	location := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, sw.Save(location))

	loaded := New[float32](space.L2Float32{}, nil, discardLogger())
	require.NoError(t, loaded.Load(location))
	assert.Equal(t, 0, loaded.Size())
}
