package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/spf13/afero"
)

// Reader reads state dictionaries from .born format.
type Reader struct {
	r        io.Reader
	header   Header
	version  uint32
	flags    uint32
	checksum [ChecksumSize]byte
}

// NewReader parses the header of a .born stream.
//
// The parameter data is read by ReadStateDict.
func NewReader(r io.Reader) (*Reader, error) {
	reader := &Reader{r: r}
	if err := reader.parseHeader(); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	if err := ValidateHeader(&reader.header); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return reader, nil
}

// parseHeader reads the fixed header, the JSON header and the checksum.
func (r *Reader) parseHeader() error {
	magic := make([]byte, len(MagicBytes))
	if _, err := io.ReadFull(r.r, magic); err != nil {
		return fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if string(magic) != MagicBytes {
		return ErrInvalidMagic
	}

	if err := binary.Read(r.r, binary.LittleEndian, &r.version); err != nil {
		return fmt.Errorf("failed to read version: %w", err)
	}
	if r.version != FormatVersion {
		return fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, r.version, FormatVersion)
	}

	if err := binary.Read(r.r, binary.LittleEndian, &r.flags); err != nil {
		return fmt.Errorf("failed to read flags: %w", err)
	}

	var headerSize uint64
	if err := binary.Read(r.r, binary.LittleEndian, &headerSize); err != nil {
		return fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r.r, headerJSON); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	if err := json.Unmarshal(headerJSON, &r.header); err != nil {
		return fmt.Errorf("failed to unmarshal header: %w", err)
	}

	if _, err := io.ReadFull(r.r, r.checksum[:]); err != nil {
		return fmt.Errorf("failed to read checksum: %w", err)
	}
	return nil
}

// Header returns the parsed header.
func (r *Reader) Header() Header {
	return r.header
}

// Flags returns the format flags.
func (r *Reader) Flags() uint32 {
	return r.flags
}

// ReadStateDict reads and verifies the parameter data.
func (r *Reader) ReadStateDict() (map[string]float64, error) {
	payload := make([]byte, len(r.header.Params)*ParamSize)
	if _, err := io.ReadFull(r.r, payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutOfBounds, err)
	}
	if err := ValidateChecksum(ComputeChecksum(payload), r.checksum); err != nil {
		return nil, err
	}

	stateDict := make(map[string]float64, len(r.header.Params))
	for _, p := range r.header.Params {
		stateDict[p.Name] = math.Float64frombits(binary.LittleEndian.Uint64(payload[p.Offset:]))
	}
	return stateDict, nil
}

// Load reads a state dictionary and its header from path on fs.
func Load(fs afero.Fs, path string) (stateDict map[string]float64, header Header, err error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, Header{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	reader, err := NewReader(file)
	if err != nil {
		return nil, Header{}, err
	}
	stateDict, err = reader.ReadStateDict()
	if err != nil {
		return nil, Header{}, err
	}
	return stateDict, reader.Header(), nil
}
