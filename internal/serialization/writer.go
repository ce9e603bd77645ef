package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/spf13/afero"
)

// CreatorVersion is recorded in every header written by this package.
const CreatorVersion = "0.1.0"

// Writer writes state dictionaries in .born format.
type Writer struct {
	w io.Writer
}

// NewWriter creates a .born writer on top of w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteStateDict writes a state dictionary with the given header.
//
// Parameters are stored in name order; header.Params, FormatVersion and
// CreatorVersion are filled in by the writer. A zero CreatedAt is set to now.
func (w *Writer) WriteStateDict(stateDict map[string]float64, header Header) error {
	names := slices.Sorted(maps.Keys(stateDict))
	if len(names) > MaxParamCount {
		return fmt.Errorf("%w: %d", ErrTooManyParams, len(names))
	}

	header.FormatVersion = FormatVersion
	header.CreatorVersion = CreatorVersion
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	payload := make([]byte, len(names)*ParamSize)
	header.Params = make([]ParamMeta, len(names))
	for i, name := range names {
		offset := int64(i * ParamSize)
		header.Params[i] = ParamMeta{Name: name, Offset: offset}
		binary.LittleEndian.PutUint64(payload[offset:], math.Float64bits(stateDict[name]))
	}

	if err := ValidateHeader(&header); err != nil {
		return fmt.Errorf("invalid header: %w", err)
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if header.CheckpointMeta != nil && header.CheckpointMeta.IsCheckpoint {
		flags |= FlagHasOptimizer
	}

	var buf bytes.Buffer
	buf.Grow(fixedHeaderSize + len(headerJSON) + ChecksumSize + len(payload))
	buf.WriteString(MagicBytes)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(FormatVersion))
	_ = binary.Write(&buf, binary.LittleEndian, flags)
	_ = binary.Write(&buf, binary.LittleEndian, uint64(len(headerJSON)))
	buf.Write(headerJSON)
	checksum := ComputeChecksum(payload)
	buf.Write(checksum[:])
	buf.Write(payload)

	if _, err := w.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write state dict: %w", err)
	}
	return nil
}

// Save writes stateDict to path on fs.
func Save(fs afero.Fs, path string, stateDict map[string]float64, header Header) (err error) {
	file, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return NewWriter(file).WriteStateDict(stateDict, header)
}
