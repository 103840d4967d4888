package flat

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/fwojciec/navigator"
)

// Snapshot file names inside the index directory.
const (
	VectorsFile = "index.bin"
	SidecarFile = "index.json"
)

const (
	magic   = "NVIX"
	version = 1

	// headerSize is the magic plus version, dimension and count.
	headerSize = len(magic) + 3*4
)

type sidecar struct {
	EmbeddingModel string           `json:"embedding_model"`
	Dimension      int              `json:"dimension"`
	Normalized     bool             `json:"normalized"`
	Passages       []sidecarPassage `json:"passages"`
}

type sidecarPassage struct {
	Text     string            `json:"text"`
	Source   string            `json:"source"`
	Offset   int               `json:"offset"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Persist writes idx into dir, creating it if needed. Existing snapshot
// files are overwritten.
func Persist(idx *navigator.Index, dir string) error {
	if idx == nil {
		return navigator.Errorf(navigator.EEMPTY, "no index to persist")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	if err := writeFile(filepath.Join(dir, VectorsFile), func(w io.Writer) error {
		return encodeVectors(w, idx)
	}); err != nil {
		return fmt.Errorf("write vectors: %w", err)
	}

	sc := sidecar{
		EmbeddingModel: idx.EmbeddingModel,
		Dimension:      idx.Dimension,
		Normalized:     idx.Normalized,
		Passages:       make([]sidecarPassage, len(idx.Passages)),
	}
	for i, p := range idx.Passages {
		sc.Passages[i] = sidecarPassage{Text: p.Text, Source: p.SourceURL, Offset: p.Offset, Metadata: p.Metadata}
	}
	if err := writeFile(filepath.Join(dir, SidecarFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		return enc.Encode(sc)
	}); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}
	return nil
}

// Restore reads the snapshot in dir. The snapshot must have been built with
// embeddingModel; otherwise EMODELMISMATCH is returned because its scores
// would be meaningless against the active model.
func Restore(dir string, embeddingModel string) (*navigator.Index, error) {
	data, err := os.ReadFile(filepath.Join(dir, SidecarFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, navigator.Errorf(navigator.ENOTFOUND, "no index snapshot in %s", dir)
	} else if err != nil {
		return nil, fmt.Errorf("read sidecar: %w", err)
	}

	var sc sidecar
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, navigator.Errorf(navigator.EINVALID, "corrupt index sidecar: %v", err)
	}
	if sc.EmbeddingModel != embeddingModel {
		return nil, navigator.Errorf(navigator.EMODELMISMATCH,
			"index was built with %q but the active embedding model is %q", sc.EmbeddingModel, embeddingModel)
	}

	f, err := os.Open(filepath.Join(dir, VectorsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, navigator.Errorf(navigator.EINVALID, "index snapshot in %s has no vectors", dir)
	} else if err != nil {
		return nil, fmt.Errorf("open vectors: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat vectors: %w", err)
	}
	if sc.Dimension < 0 {
		return nil, navigator.Errorf(navigator.EINVALID, "corrupt index sidecar: dimension %d", sc.Dimension)
	}
	// Allocations below stay bounded by the file size.
	want := int64(headerSize) + 4*int64(sc.Dimension)*int64(len(sc.Passages))
	if sc.Dimension > math.MaxInt32 || info.Size() != want {
		return nil, navigator.Errorf(navigator.EINVALID,
			"corrupt index vectors: %d bytes for %d passages of dimension %d", info.Size(), len(sc.Passages), sc.Dimension)
	}

	vectors, err := decodeVectors(bufio.NewReader(f), sc.Dimension, len(sc.Passages))
	if err != nil {
		return nil, err
	}

	idx := navigator.NewIndex(sc.EmbeddingModel, sc.Dimension, sc.Normalized)
	for i, p := range sc.Passages {
		passage := &navigator.Passage{Text: p.Text, SourceURL: p.Source, Offset: p.Offset, Metadata: p.Metadata}
		if err := idx.Add(passage, vectors[i]); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := fn(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// encodeVectors writes the little-endian header and vector data.
func encodeVectors(w io.Writer, idx *navigator.Index) error {
	if _, err := io.WriteString(w, magic); err != nil {
		return err
	}
	header := []uint32{version, uint32(idx.Dimension), uint32(len(idx.Vectors))}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return err
	}
	buf := make([]byte, 4*idx.Dimension)
	for _, vec := range idx.Vectors {
		for i, x := range vec {
			binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(x))
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// decodeVectors reads vectors and checks the header against the sidecar.
func decodeVectors(r io.Reader, dim, count int) ([][]float32, error) {
	corrupt := func(format string, args ...any) ([][]float32, error) {
		return nil, navigator.Errorf(navigator.EINVALID, "corrupt index vectors: "+format, args...)
	}

	m := make([]byte, len(magic))
	if _, err := io.ReadFull(r, m); err != nil || string(m) != magic {
		return corrupt("bad magic")
	}
	var header [3]uint32
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return corrupt("short header")
	}
	if header[0] != version {
		return corrupt("unsupported version %d", header[0])
	}
	if int(header[1]) != dim || int(header[2]) != count {
		return corrupt("%d vectors of dimension %d for %d passages of dimension %d", header[2], header[1], count, dim)
	}

	buf := make([]byte, 4*dim)
	vectors := make([][]float32, 0, count)
	for range count {
		if _, err := io.ReadFull(r, buf); err != nil {
			return corrupt("expected %d vectors, got %d", count, len(vectors))
		}
		vec := make([]float32, dim)
		for i := range vec {
			vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
		}
		vectors = append(vectors, vec)
	}
	if n, _ := r.Read(make([]byte, 1)); n > 0 {
		return corrupt("trailing data")
	}
	return vectors, nil
}
