// Package dataset assembles multicoil k-space volumes into per-slice
// training examples for undersampled reconstruction.
//
// New loads paired k-space and sensitivity volumes, normalizes each
// slice by its k-space magnitude peak, and precomputes the zero-filled
// and reference reconstructions against a fixed uniform mask. Item then
// serves slices with a fresh Gaussian-weighted random mask per call, so
// every epoch sees different sampling patterns while the guaranteed
// columns stay intact. Split and the loaders mirror the usual
// train/valid/test preparation including shuffling and drop-last
// batching.
package dataset

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-mri/mask"
	"github.com/cwbudde/algo-mri/sense"
	"github.com/cwbudde/algo-mri/volume"
)

const (
	defaultACSWidth  = 24
	defaultEdgeWidth = 18
)

// Config holds dataset construction parameters. Zero ACSWidth and
// EdgeWidth select the defaults (24 and 18 columns); Slices of zero or
// below loads all slices after Start.
type Config struct {
	KSpacePath string
	KSpaceName string
	SensPath   string
	SensName   string
	Accel      int
	Slices     int
	Start      int
	Stride     int
	ACSWidth   int
	EdgeWidth  int
	Rand       *rand.Rand
}

func normalizeConfig(cfg Config) Config {
	if cfg.ACSWidth == 0 {
		cfg.ACSWidth = defaultACSWidth
	}
	if cfg.EdgeWidth == 0 {
		cfg.EdgeWidth = defaultEdgeWidth
	}
	if cfg.Stride < 1 {
		cfg.Stride = 1
	}
	return cfg
}

// Sample is one training example. The complex slices are views into the
// dataset's backing arrays and must not be modified; Mask is freshly
// generated per call and owned by the caller.
type Sample struct {
	X0     []complex64
	Ref    []complex64
	KSpace []complex64
	Sens   []complex64
	Mask   *mask.Mask
	Index  int
}

// Dataset holds normalized k-space, sensitivity maps, and precomputed
// reconstructions for a stack of slices.
type Dataset struct {
	cfg        Config
	nx, ny, nc int
	slices     int
	kspace     []complex64
	sens       []complex64
	x0         []complex64
	xref       []complex64
	fixed      *mask.Mask
}

// New loads the volumes named by cfg and prepares all per-slice data.
func New(cfg Config) (*Dataset, error) {
	cfg = normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	sel := volume.Selection{Start: cfg.Start, Count: cfg.Slices, Stride: cfg.Stride}
	ksp, err := volume.Read(cfg.KSpacePath, cfg.KSpaceName, sel)
	if err != nil {
		return nil, fmt.Errorf("k-space volume: %w", err)
	}
	if len(ksp.Dims) != 4 {
		return nil, fmt.Errorf("k-space volume must have 4 axes [slice,x,y,coil]: %v", ksp.Dims)
	}
	maps, err := volume.Read(cfg.SensPath, cfg.SensName, sel)
	if err != nil {
		return nil, fmt.Errorf("sensitivity volume: %w", err)
	}
	if err := requireSameDims(ksp.Dims, maps.Dims); err != nil {
		return nil, err
	}

	n, nx, ny, nc := ksp.Dims[0], ksp.Dims[1], ksp.Dims[2], ksp.Dims[3]
	fixed, err := mask.Uniform(nx, ny, cfg.Accel,
		mask.WithACSWidth(cfg.ACSWidth), mask.WithEdgeWidth(cfg.EdgeWidth))
	if err != nil {
		return nil, fmt.Errorf("fixed mask: %w", err)
	}

	ds := &Dataset{
		cfg:    cfg,
		nx:     nx,
		ny:     ny,
		nc:     nc,
		slices: n,
		kspace: ksp.Data,
		sens:   maps.Data,
		x0:     make([]complex64, n*nx*ny),
		xref:   make([]complex64, n*nx*ny),
		fixed:  fixed,
	}
	if err := ds.prepare(); err != nil {
		return nil, err
	}
	return ds, nil
}

// prepare normalizes each slice in place and fills the zero-filled and
// reference reconstructions.
func (ds *Dataset) prepare() error {
	coils := ds.nx * ds.ny * ds.nc
	plane := ds.nx * ds.ny
	op, err := sense.NewOperator(ds.sens[:coils], ds.nx, ds.ny, ds.nc)
	if err != nil {
		return fmt.Errorf("slice 0 operator: %w", err)
	}
	masked := make([]complex64, coils)

	for i := 0; i < ds.slices; i++ {
		ksp := ds.kspace[i*coils : (i+1)*coils]

		peak := 0.0
		for _, v := range ksp {
			re := float64(real(v))
			im := float64(imag(v))
			if p := re*re + im*im; p > peak {
				peak = p
			}
		}
		if peak == 0 {
			return fmt.Errorf("slice %d: %w", i, errZeroSlice)
		}
		scale := complex(float32(1/math.Sqrt(peak)), 0)
		for j := range ksp {
			ksp[j] *= scale
		}

		if err := op.SetMaps(ds.sens[i*coils : (i+1)*coils]); err != nil {
			return fmt.Errorf("slice %d maps: %w", i, err)
		}
		if err := ds.fixed.Apply(masked, ksp, ds.nc); err != nil {
			return fmt.Errorf("slice %d mask: %w", i, err)
		}
		if err := op.Decode(ds.x0[i*plane:(i+1)*plane], masked); err != nil {
			return fmt.Errorf("slice %d zero-filled: %w", i, err)
		}
		if err := op.Decode(ds.xref[i*plane:(i+1)*plane], ksp); err != nil {
			return fmt.Errorf("slice %d reference: %w", i, err)
		}
	}
	return nil
}

// Len returns the number of slices.
func (ds *Dataset) Len() int { return ds.slices }

// Nx returns the row count of each slice.
func (ds *Dataset) Nx() int { return ds.nx }

// Ny returns the column count of each slice.
func (ds *Dataset) Ny() int { return ds.ny }

// Coils returns the coil count.
func (ds *Dataset) Coils() int { return ds.nc }

// FixedMask returns the uniform mask the zero-filled reconstructions
// were computed with.
func (ds *Dataset) FixedMask() *mask.Mask { return ds.fixed }

// Item returns the sample at index i with a freshly drawn random mask.
func (ds *Dataset) Item(i int) (Sample, error) {
	if i < 0 || i >= ds.slices {
		return Sample{}, fmt.Errorf("index %d out of range [0,%d)", i, ds.slices)
	}
	opts := []mask.Option{
		mask.WithACSWidth(ds.cfg.ACSWidth),
		mask.WithEdgeWidth(ds.cfg.EdgeWidth),
	}
	if ds.cfg.Rand != nil {
		opts = append(opts, mask.WithRand(ds.cfg.Rand))
	}
	random, err := mask.GaussianRandom(ds.nx, ds.ny, ds.cfg.Accel, opts...)
	if err != nil {
		return Sample{}, fmt.Errorf("random mask: %w", err)
	}

	plane := ds.nx * ds.ny
	coils := plane * ds.nc
	return Sample{
		X0:     ds.x0[i*plane : (i+1)*plane],
		Ref:    ds.xref[i*plane : (i+1)*plane],
		KSpace: ds.kspace[i*coils : (i+1)*coils],
		Sens:   ds.sens[i*coils : (i+1)*coils],
		Mask:   random,
		Index:  i,
	}, nil
}
