package smallworld

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// The save format is line-oriented ASCII: a method descriptor field, a
// NN field, one line per node ("internalID:objID:" followed by
// space-separated friend internal ids), an empty terminator line, and
// a trailing field carrying the total line count including itself.
// When the location ends in ".zst" the same text stream is wrapped in
// zstd transparently.
const (
	fieldMethodDesc = "methodDesc"
	fieldNN         = "NN"
	fieldLineQty    = "lineQty"

	zstSuffix = ".zst"
)

func writeField(w io.Writer, name string, value any) error {
	_, err := fmt.Fprintf(w, "%s: %v\n", name, value)
	return err
}

// Save writes the graph topology to location. Only the topology and
// the id bindings are persisted; per-node state beyond that does not
// exist.
func (sw *SmallWorld[T]) Save(location string) error {
	f, err := os.Create(location)
	if err != nil {
		return fmt.Errorf("smallworld: cannot open %q for writing: %w", location, err)
	}

	var w io.Writer = f
	var enc *zstd.Encoder
	if strings.HasSuffix(location, zstSuffix) {
		enc, err = zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return fmt.Errorf("smallworld: zstd writer for %q: %w", location, err)
		}
		w = enc
	}

	bw := bufio.NewWriter(w)
	saveErr := sw.save(bw)
	if saveErr == nil {
		saveErr = bw.Flush()
	}
	if enc != nil {
		if err := enc.Close(); saveErr == nil {
			saveErr = err
		}
	}
	if err := f.Close(); saveErr == nil {
		saveErr = err
	}
	if saveErr != nil {
		return saveErr
	}

	sw.logger.Info("index saved", "location", location, "nodes", sw.Size())
	return nil
}

func (sw *SmallWorld[T]) save(w io.Writer) error {
	nodes := sw.nodesByInternalID()

	lineNum := 0
	if err := writeField(w, fieldMethodDesc, sw.StrDesc()); err != nil {
		return err
	}
	lineNum++
	if err := writeField(w, fieldNN, sw.nn); err != nil {
		return err
	}
	lineNum++

	for _, n := range nodes {
		if int(n.id) < 0 || int(n.id) >= len(sw.data) {
			return &ErrGraphCorruption{Detail: fmt.Sprintf("unexpected node id %d for object id %d, data size %d", n.id, n.obj.ID(), len(sw.data))}
		}
		if _, err := fmt.Fprintf(w, "%d:%d:", n.id, n.obj.ID()); err != nil {
			return err
		}
		for _, friend := range n.friends {
			if int(friend.id) < 0 || int(friend.id) >= len(sw.data) {
				return &ErrGraphCorruption{Detail: fmt.Sprintf("unexpected friend id %d for object id %d, data size %d", friend.id, friend.obj.ID(), len(sw.data))}
			}
			if _, err := fmt.Fprintf(w, " %d", friend.id); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		lineNum++
	}

	// The empty line marks the end of the node records.
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	lineNum++

	return writeField(w, fieldLineQty, lineNum+1)
}

func (sw *SmallWorld[T]) nodesByInternalID() []*node {
	sw.elListMu.Lock()
	nodes := make([]*node, 0, len(sw.elList))
	for _, n := range sw.elList {
		nodes = append(nodes, n)
	}
	sw.elListMu.Unlock()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].id < nodes[j].id })
	return nodes
}

// Load reconstructs the graph from location over the index's data
// sequence. The file is read twice: the first pass materializes every
// node so the second pass can rebind friend ids to pointers; edges
// could not be installed before all endpoints exist. The data sequence
// must be the one the index was saved against.
func (sw *SmallWorld[T]) Load(location string) error {
	ptrMapper := make([]*node, len(sw.data))
	elList := make(map[int32]*node, len(sw.data))

	for pass := 0; pass < 2; pass++ {
		if err := sw.loadPass(location, pass, ptrMapper, elList); err != nil {
			return err
		}
	}

	sw.elListMu.Lock()
	sw.elList = elList
	sw.elListMu.Unlock()
	if len(sw.data) > 0 {
		sw.entryPoint = ptrMapper[0]
	}
	if sw.efSearch == 0 {
		sw.efSearch = sw.nn
	}

	sw.logger.Info("index loaded", "location", location, "nodes", len(elList), "NN", sw.nn)
	return nil
}

func (sw *SmallWorld[T]) loadPass(location string, pass int, ptrMapper []*node, elList map[int32]*node) error {
	f, err := os.Open(location)
	if err != nil {
		return fmt.Errorf("smallworld: cannot open %q for reading: %w", location, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(location, zstSuffix) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return fmt.Errorf("smallworld: zstd reader for %q: %w", location, err)
		}
		defer dec.Close()
		r = dec
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)

	lineNum := 1

	readField := func(name string) (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", fmt.Errorf("smallworld: reading %q: %w", location, err)
			}
			return "", &ErrFormat{Line: lineNum, Detail: fmt.Sprintf("missing %s field", name)}
		}
		value, ok := strings.CutPrefix(sc.Text(), name+":")
		if !ok {
			return "", &ErrFormat{Line: lineNum, Detail: fmt.Sprintf("expected %s field, got %q", name, sc.Text())}
		}
		return strings.TrimSpace(value), nil
	}

	methDesc, err := readField(fieldMethodDesc)
	if err != nil {
		return err
	}
	lineNum++
	if methDesc != sw.StrDesc() {
		return &ErrFormat{Line: 1, Detail: fmt.Sprintf("looks like an index created by a different method: %q", methDesc)}
	}

	nnRaw, err := readField(fieldNN)
	if err != nil {
		return err
	}
	lineNum++
	nn, err := strconv.ParseUint(nnRaw, 10, 32)
	if err != nil {
		return &ErrFormat{Line: 2, Detail: fmt.Sprintf("bad NN value %q", nnRaw)}
	}
	sw.nn = uint(nn)

	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			lineNum++
			break
		}

		idRaw, rest, ok := strings.Cut(line, ":")
		if !ok {
			return &ErrFormat{Line: lineNum, Detail: "missing id separator"}
		}
		objRaw, friendsRaw, ok := strings.Cut(rest, ":")
		if !ok {
			return &ErrFormat{Line: lineNum, Detail: "missing object id separator"}
		}
		nodeID, err := strconv.Atoi(idRaw)
		if err != nil {
			return &ErrFormat{Line: lineNum, Detail: fmt.Sprintf("bad node id %q", idRaw)}
		}
		objID, err := strconv.ParseInt(objRaw, 10, 32)
		if err != nil {
			return &ErrFormat{Line: lineNum, Detail: fmt.Sprintf("bad object id %q", objRaw)}
		}

		if nodeID < 0 || nodeID >= len(sw.data) {
			return &ErrDataMutation{Detail: fmt.Sprintf("unexpected node id %d for object id %d, data size %d", nodeID, objID, len(sw.data))}
		}
		if got := sw.data[nodeID].ID(); got != int32(objID) {
			return &ErrDataMutation{Detail: fmt.Sprintf("unexpected object id %d for data element %d, expected object id %d", got, nodeID, objID)}
		}

		if pass == 0 {
			n := newNode(sw.data[nodeID], int32(nodeID))
			ptrMapper[nodeID] = n
			elList[n.obj.ID()] = n
		} else {
			n := ptrMapper[nodeID]
			if n == nil {
				return &ErrGraphCorruption{Detail: fmt.Sprintf("no node materialized for id %d in the second pass", nodeID)}
			}
			for _, friendRaw := range strings.Fields(friendsRaw) {
				friendID, err := strconv.Atoi(friendRaw)
				if err != nil {
					return &ErrFormat{Line: lineNum, Detail: fmt.Sprintf("erroneous trailing content %q", friendRaw)}
				}
				if friendID < 0 || friendID >= len(sw.data) {
					return &ErrFormat{Line: lineNum, Detail: fmt.Sprintf("friend id %d out of range, data size %d", friendID, len(sw.data))}
				}
				friend := ptrMapper[friendID]
				if friend == nil {
					return &ErrGraphCorruption{Detail: fmt.Sprintf("no node materialized for friend id %d in the second pass", friendID)}
				}
				n.addFriend(friend)
			}
		}
		lineNum++
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("smallworld: reading %q: %w", location, err)
	}

	qtyRaw, err := readField(fieldLineQty)
	if err != nil {
		return err
	}
	expLineQty, err := strconv.Atoi(qtyRaw)
	if err != nil {
		return &ErrFormat{Line: lineNum, Detail: fmt.Sprintf("bad line quantity %q", qtyRaw)}
	}
	if lineNum != expLineQty {
		return &ErrFormat{Line: lineNum, Detail: fmt.Sprintf("expected number of lines %d doesn't match the number of read lines %d", expLineQty, lineNum)}
	}
	return nil
}
