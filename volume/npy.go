package volume

import (
	"archive/zip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
)

// Write encodes a complex64 array as NumPy .npy version 1.0: magic,
// little-endian header length, a '<c8' C-order header dict padded to a
// 64-byte boundary, then the raw little-endian element stream.
func Write(w io.Writer, dims []int, data []complex64) error {
	if err := validateDims(dims); err != nil {
		return err
	}
	n := 1
	for _, d := range dims {
		n *= d
	}
	if n != len(data) {
		return fmt.Errorf("data length must be %d for shape %v: %d", n, dims, len(data))
	}

	dict := fmt.Sprintf("{'descr': '<c8', 'fortran_order': False, 'shape': %s, }",
		shapeLiteral(dims))
	pad := 0
	if rem := (len(magicPreamble) + 2 + len(dict) + 1) % 64; rem != 0 {
		pad = 64 - rem
	}
	header := dict + strings.Repeat(" ", pad) + "\n"

	if _, err := w.Write(magicPreamble); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(header))); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := io.WriteString(w, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	return nil
}

// magicPreamble is the .npy magic string plus format version 1.0.
var magicPreamble = []byte("\x93NUMPY\x01\x00")

func shapeLiteral(dims []int) string {
	if len(dims) == 1 {
		return fmt.Sprintf("(%d,)", dims[0])
	}
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = fmt.Sprintf("%d", d)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// WriteFile writes a .npy file at path, creating or truncating it.
func WriteFile(path string, dims []int, data []complex64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create volume: %w", err)
	}
	if err := Write(f, dims, data); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close volume: %w", err)
	}
	return nil
}

// Member is one named array of a .npz archive.
type Member struct {
	Name string
	Dims []int
	Data []complex64
}

// WriteArchive writes members into a .npz archive (a zip of .npy
// entries) at path, preserving member order.
func WriteArchive(path string, members []Member) error {
	if len(members) == 0 {
		return errEmptyArchive
	}
	for i, m := range members {
		if m.Name == "" {
			return fmt.Errorf("member %d: %w", i, errUnnamedMember)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	zw := zip.NewWriter(f)
	for _, m := range members {
		w, err := zw.Create(m.Name + ".npy")
		if err != nil {
			f.Close()
			return fmt.Errorf("archive member %s: %w", m.Name, err)
		}
		if err := Write(w, m.Dims, m.Data); err != nil {
			f.Close()
			return fmt.Errorf("archive member %s: %w", m.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}
