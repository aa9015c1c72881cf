package dataset

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"golang.org/x/sync/errgroup"
)

// DefaultSplitSeed seeds the train/valid permutation so every run of a
// pipeline sees the same partition.
const DefaultSplitSeed int64 = 42

// Split partitions n slice indices into train and valid sets by a
// seeded permutation. The train set takes the first floor(0.8*n)
// permuted indices, the valid set the rest.
func Split(n int, seed int64) (train, valid []int, err error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("slice count must be positive: %d", n)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	cut := int(float64(n) * 0.8)
	return perm[:cut], perm[cut:], nil
}

// LoaderConfig holds batching parameters. BatchSize below one means
// one; Workers bounds intra-batch assembly concurrency and defaults to
// serial; Seed seeds the shuffle order when Rand is nil.
type LoaderConfig struct {
	BatchSize int
	Workers   int
	Seed      int64
	Rand      *rand.Rand
}

func normalizeLoaderConfig(cfg LoaderConfig) LoaderConfig {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg
}

// Loader iterates a subset of a dataset in batches of gomlx tensors.
// Yield returns io.EOF once the epoch is exhausted; Reset starts the
// next epoch, reshuffling when the loader shuffles. A Loader is not
// safe for concurrent use.
type Loader struct {
	ds       *Dataset
	name     string
	order    []int
	pos      int
	batch    int
	workers  int
	shuffle  bool
	dropLast bool
	rng      *rand.Rand
}

func newLoader(ds *Dataset, name string, indices []int, cfg LoaderConfig, shuffle, dropLast bool) *Loader {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}
	l := &Loader{
		ds:       ds,
		name:     name,
		order:    append([]int(nil), indices...),
		batch:    cfg.BatchSize,
		workers:  cfg.Workers,
		shuffle:  shuffle,
		dropLast: dropLast,
		rng:      rng,
	}
	l.Reset()
	return l
}

// NewTrainLoaders splits the dataset with the fixed split seed and
// returns shuffled train and valid loaders that drop ragged final
// batches, plus a shuffled full loader over every slice that keeps
// them.
func NewTrainLoaders(ds *Dataset, cfg LoaderConfig) (train, valid, full *Loader, err error) {
	cfg = normalizeLoaderConfig(cfg)
	trainIdx, validIdx, err := Split(ds.Len(), DefaultSplitSeed)
	if err != nil {
		return nil, nil, nil, err
	}
	train = newLoader(ds, "train", trainIdx, cfg, true, true)
	valid = newLoader(ds, "valid", validIdx, cfg, true, true)
	full = newLoader(ds, "full", allIndices(ds.Len()), cfg, true, false)
	return train, valid, full, nil
}

// NewTestLoader returns an unshuffled loader over every slice that
// drops the ragged final batch.
func NewTestLoader(ds *Dataset, cfg LoaderConfig) (*Loader, error) {
	cfg = normalizeLoaderConfig(cfg)
	if ds.Len() == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}
	return newLoader(ds, "test", allIndices(ds.Len()), cfg, false, true), nil
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// Name identifies the loader within a training loop.
func (l *Loader) Name() string { return l.name }

// Len returns the number of slices the loader iterates per epoch before
// batching.
func (l *Loader) Len() int { return len(l.order) }

// Batches returns the number of batches per epoch.
func (l *Loader) Batches() int {
	if l.dropLast {
		return len(l.order) / l.batch
	}
	return (len(l.order) + l.batch - 1) / l.batch
}

// Reset rewinds the loader to the start of a new epoch.
func (l *Loader) Reset() {
	if l.shuffle {
		l.rng.Shuffle(len(l.order), func(i, j int) {
			l.order[i], l.order[j] = l.order[j], l.order[i]
		})
	}
	l.pos = 0
}

// Yield assembles the next batch. Inputs are the zero-filled recon
// [B,2,Nx,Ny], k-space [B,2,Nx,Ny,Nc], sensitivity maps [B,2,Nx,Ny,Nc],
// and the per-item random mask [B,Nx,Ny]; the single label is the
// reference recon [B,2,Nx,Ny]. The spec result is always nil.
func (l *Loader) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	remaining := len(l.order) - l.pos
	size := l.batch
	if remaining < size {
		if l.dropLast || remaining == 0 {
			return nil, nil, nil, io.EOF
		}
		size = remaining
	}
	indices := l.order[l.pos : l.pos+size]
	l.pos += size

	// Items are fetched serially so the shared random-mask source stays
	// race-free and the draw order depends only on the epoch order.
	samples := make([]Sample, size)
	for b, idx := range indices {
		s, err := l.ds.Item(idx)
		if err != nil {
			return nil, nil, nil, err
		}
		samples[b] = s
	}

	nx, ny, nc := l.ds.nx, l.ds.ny, l.ds.nc
	x0 := make([][][][]float32, size)
	xref := make([][][][]float32, size)
	ksp := make([][][][][]float32, size)
	sens := make([][][][][]float32, size)
	msk := make([][][]float32, size)

	var g errgroup.Group
	g.SetLimit(l.workers)
	for b := range samples {
		g.Go(func() error {
			s := samples[b]
			x0[b] = channelPlanes(s.X0, nx, ny)
			xref[b] = channelPlanes(s.Ref, nx, ny)
			ksp[b] = channelCoils(s.KSpace, nx, ny, nc)
			sens[b] = channelCoils(s.Sens, nx, ny, nc)
			msk[b] = maskRows(s.Mask.Data(), nx, ny)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	inputs = []*tensors.Tensor{
		tensors.FromAnyValue(x0),
		tensors.FromAnyValue(ksp),
		tensors.FromAnyValue(sens),
		tensors.FromAnyValue(msk),
	}
	labels = []*tensors.Tensor{tensors.FromAnyValue(xref)}
	return nil, inputs, labels, nil
}

// channelPlanes lays out a complex plane as [2][nx][ny] float32, real
// channel first.
func channelPlanes(src []complex64, nx, ny int) [][][]float32 {
	re := make([][]float32, nx)
	im := make([][]float32, nx)
	for x := 0; x < nx; x++ {
		reRow := make([]float32, ny)
		imRow := make([]float32, ny)
		for y, v := range src[x*ny : (x+1)*ny] {
			reRow[y] = real(v)
			imRow[y] = imag(v)
		}
		re[x] = reRow
		im[x] = imRow
	}
	return [][][]float32{re, im}
}

// channelCoils lays out coil-interleaved data as [2][nx][ny][nc].
func channelCoils(src []complex64, nx, ny, nc int) [][][][]float32 {
	re := make([][][]float32, nx)
	im := make([][][]float32, nx)
	for x := 0; x < nx; x++ {
		reRows := make([][]float32, ny)
		imRows := make([][]float32, ny)
		for y := 0; y < ny; y++ {
			reCoils := make([]float32, nc)
			imCoils := make([]float32, nc)
			base := (x*ny + y) * nc
			for c := 0; c < nc; c++ {
				v := src[base+c]
				reCoils[c] = real(v)
				imCoils[c] = imag(v)
			}
			reRows[y] = reCoils
			imRows[y] = imCoils
		}
		re[x] = reRows
		im[x] = imRows
	}
	return [][][][]float32{re, im}
}

// maskRows lays out mask weights as [nx][ny] float32.
func maskRows(data []float64, nx, ny int) [][]float32 {
	rows := make([][]float32, nx)
	for x := 0; x < nx; x++ {
		row := make([]float32, ny)
		for y := 0; y < ny; y++ {
			row[y] = float32(data[x*ny+y])
		}
		rows[x] = row
	}
	return rows
}
