// Package volio reads and writes 3D images in the vol format: a text header
// of "Key: value" lines closed by a line holding a single dot, followed by
// one byte per voxel with x varying fastest, then y, then z.
package volio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"dgsurface/internal/models"
)

var (
	// ErrBadHeader is returned when the header is malformed or lacks a
	// mandatory field.
	ErrBadHeader = errors.New("volio: bad vol header")

	// ErrShortData is returned when the file ends before every voxel is read.
	ErrShortData = errors.New("volio: truncated voxel data")
)

// Header holds the fields of a vol header. Fields is the raw key/value map,
// including keys this package does not interpret.
type Header struct {
	Width, Height, Depth int
	VoxelSize            [3]float64
	Fields               map[string]string
}

// maxHeaderLines bounds the header so that a binary file given by mistake
// fails fast.
const maxHeaderLines = 64

// MaxVoxels is the largest image Read accepts. Headers declaring more
// voxels are rejected with ErrBadHeader before anything is allocated.
const MaxVoxels = 1 << 28

// Read decodes a vol image from r.
func Read(r io.Reader) (*models.Volume, *Header, error) {
	br := bufio.NewReader(r)
	h, err := readHeader(br)
	if err != nil {
		return nil, nil, err
	}

	vol := models.NewVolume(h.Width, h.Height, h.Depth)
	vol.VoxelSize.X, vol.VoxelSize.Y, vol.VoxelSize.Z = h.VoxelSize[0], h.VoxelSize[1], h.VoxelSize[2]

	buf := make([]byte, vol.Len())
	if n, err := io.ReadFull(br, buf); err != nil {
		return nil, nil, fmt.Errorf("%w: read %d of %d voxels", ErrShortData, n, len(buf))
	}
	for i, b := range buf {
		vol.Data[i] = int(b)
	}
	return vol, h, nil
}

func readHeader(br *bufio.Reader) (*Header, error) {
	h := &Header{Fields: make(map[string]string), VoxelSize: [3]float64{1, 1, 1}}
	for lines := 0; ; lines++ {
		if lines == maxHeaderLines {
			return nil, fmt.Errorf("%w: no end marker within %d lines", ErrBadHeader, maxHeaderLines)
		}
		line, err := br.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "." {
			break
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("%w: line %q", ErrBadHeader, line)
		}
		h.Fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	dims := []struct {
		key string
		dst *int
	}{{"X", &h.Width}, {"Y", &h.Height}, {"Z", &h.Depth}}
	for _, d := range dims {
		raw, ok := h.Fields[d.key]
		if !ok {
			return nil, fmt.Errorf("%w: missing %s", ErrBadHeader, d.key)
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: invalid %s %q", ErrBadHeader, d.key, raw)
		}
		*d.dst = n
	}
	// divide instead of multiplying so that the check cannot wrap
	if h.Width > MaxVoxels/h.Height || h.Width*h.Height > MaxVoxels/h.Depth {
		return nil, fmt.Errorf("%w: %dx%dx%d exceeds %d voxels", ErrBadHeader, h.Width, h.Height, h.Depth, MaxVoxels)
	}

	if raw, ok := h.Fields["Voxel-Size"]; ok {
		parts := strings.Fields(raw)
		if len(parts) != 1 && len(parts) != 3 {
			return nil, fmt.Errorf("%w: invalid Voxel-Size %q", ErrBadHeader, raw)
		}
		for i := range h.VoxelSize {
			f, err := strconv.ParseFloat(parts[i%len(parts)], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid Voxel-Size %q", ErrBadHeader, raw)
			}
			h.VoxelSize[i] = f
		}
	}
	return h, nil
}

// ReadFile decodes the vol file at path.
func ReadFile(path string) (*models.Volume, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening vol file: %w", err)
	}
	defer f.Close()

	vol, _, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return vol, nil
}

// Write encodes vol to w. Values are clamped to [0, 255].
func Write(w io.Writer, vol *models.Volume) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Center-X: 0\nCenter-Y: 0\nCenter-Z: 0\n")
	fmt.Fprintf(bw, "X: %d\nY: %d\nZ: %d\n", vol.Width, vol.Height, vol.Depth)
	if vol.VoxelSize.X == vol.VoxelSize.Y && vol.VoxelSize.Y == vol.VoxelSize.Z {
		fmt.Fprintf(bw, "Voxel-Size: %g\n", vol.VoxelSize.X)
	} else {
		fmt.Fprintf(bw, "Voxel-Size: %g %g %g\n", vol.VoxelSize.X, vol.VoxelSize.Y, vol.VoxelSize.Z)
	}
	fmt.Fprintf(bw, "Alpha-Color: 0\nVoxel-Endian: 0\nInt-Endian: 0123\nVersion: 2\n.\n")

	for _, v := range vol.Data {
		switch {
		case v < 0:
			v = 0
		case v > 255:
			v = 255
		}
		if err := bw.WriteByte(byte(v)); err != nil {
			return fmt.Errorf("error writing voxels: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("error writing vol data: %w", err)
	}
	return nil
}

// WriteFile encodes vol to the file at path.
func WriteFile(path string, vol *models.Volume) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating vol file: %w", err)
	}
	if err := Write(f, vol); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
