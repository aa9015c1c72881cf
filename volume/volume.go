// Package volume reads and writes complex MRI volumes in the NumPy
// .npy format and .npz archives.
//
// Volumes are row-major (C-order) complex64 arrays; '<c16' files are
// narrowed on read. The leading axis is the slice axis and can be
// subsampled on read with a Selection, mirroring start:stop:step
// slicing semantics including silent clamping of overlong counts.
package volume

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sbinet/npyio"
)

// Selection picks slices along the leading axis. Start is the first
// slice, Stride the step between picked slices (values below one mean
// one), Count the number of slices to pick (values below one mean all
// remaining). Counts past the end are clamped.
type Selection struct {
	Start  int
	Count  int
	Stride int
}

// Volume is a row-major complex array of one or more dimensions.
type Volume struct {
	Dims []int
	Data []complex64
}

// Slices returns the extent of the leading axis.
func (v *Volume) Slices() int {
	if len(v.Dims) == 0 {
		return 0
	}
	return v.Dims[0]
}

// ElemsPerSlice returns the number of elements in one leading-axis
// slice.
func (v *Volume) ElemsPerSlice() int {
	n := 1
	for _, d := range v.Dims[1:] {
		n *= d
	}
	return n
}

var zipMagic = [4]byte{'P', 'K', 0x03, 0x04}

// Read loads a complex volume from a .npy file or a .npz archive,
// applying the slice selection. For archives, name picks the member
// (with or without the .npy suffix member names carry); an empty name
// picks the first member. For plain .npy files name is ignored.
func Read(path, name string, sel Selection) (*Volume, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open volume: %w", err)
	}
	defer f.Close()

	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if magic == zipMagic {
		return readArchive(f, path, name, sel)
	}
	return readArray(f, path, sel)
}

func readArchive(f *os.File, path, name string, sel Selection) (*Volume, error) {
	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	zr, err := zip.NewReader(f, st.Size())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(zr.File) == 0 {
		return nil, fmt.Errorf("read %s: %w", path, errEmptyArchive)
	}

	member := zr.File[0]
	if name != "" {
		member = nil
		for _, zf := range zr.File {
			if zf.Name == name || zf.Name == name+".npy" {
				member = zf
				break
			}
		}
		if member == nil {
			names := make([]string, len(zr.File))
			for i, zf := range zr.File {
				names[i] = strings.TrimSuffix(zf.Name, ".npy")
			}
			return nil, fmt.Errorf("read %s: no member %q (have %s)",
				path, name, strings.Join(names, ", "))
		}
	}

	rc, err := member.Open()
	if err != nil {
		return nil, fmt.Errorf("read %s member %s: %w", path, member.Name, err)
	}
	defer rc.Close()
	vol, err := readArray(rc, path+":"+member.Name, sel)
	if err != nil {
		return nil, err
	}
	return vol, nil
}

func readArray(r io.Reader, src string, sel Selection) (*Volume, error) {
	nr, err := npyio.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}
	descr := nr.Header.Descr
	if descr.Fortran {
		return nil, fmt.Errorf("read %s: %w", src, errFortranOrder)
	}
	dims := descr.Shape
	if err := validateDims(dims); err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}
	n := 1
	for _, d := range dims {
		n *= d
	}

	var data []complex64
	switch descr.Type {
	case "<c8":
		data = make([]complex64, n)
		if err := nr.Read(&data); err != nil {
			return nil, fmt.Errorf("read %s: %w", src, err)
		}
	case "<c16":
		wide := make([]complex128, n)
		if err := nr.Read(&wide); err != nil {
			return nil, fmt.Errorf("read %s: %w", src, err)
		}
		data = make([]complex64, n)
		for i, v := range wide {
			data[i] = complex64(v)
		}
	default:
		return nil, fmt.Errorf("read %s: unsupported dtype %q (want <c8 or <c16)",
			src, descr.Type)
	}
	return applySelection(dims, data, sel, src)
}

func applySelection(dims []int, data []complex64, sel Selection, src string) (*Volume, error) {
	stride := sel.Stride
	if stride < 1 {
		stride = 1
	}
	if sel.Start < 0 {
		return nil, fmt.Errorf("read %s: slice start must be >= 0: %d", src, sel.Start)
	}
	total := dims[0]
	if sel.Start >= total {
		return nil, fmt.Errorf("read %s: slice start %d beyond %d slices", src, sel.Start, total)
	}
	avail := (total - sel.Start + stride - 1) / stride
	count := sel.Count
	if count < 1 || count > avail {
		count = avail
	}

	elems := 1
	for _, d := range dims[1:] {
		elems *= d
	}
	if sel.Start == 0 && stride == 1 && count == total {
		return &Volume{Dims: dims, Data: data}, nil
	}
	out := make([]complex64, count*elems)
	for i := 0; i < count; i++ {
		from := (sel.Start + i*stride) * elems
		copy(out[i*elems:(i+1)*elems], data[from:from+elems])
	}
	outDims := append([]int{count}, dims[1:]...)
	return &Volume{Dims: outDims, Data: out}, nil
}
