package serialization_test

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/born-ml/microborn/internal/serialization"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() map[string]float64 {
	return map[string]float64{
		"layers.0.neurons.0.weight.0": 0.25,
		"layers.0.neurons.0.weight.1": -1.5,
		"layers.0.neurons.0.bias":     3e-9,
		"optimizer.velocity.0":        -0.125,
	}
}

// TestSaveLoad_RoundTrip tests writing and reading a state dict through afero.
func TestSaveLoad_RoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	header := serialization.Header{
		ModelType: "MLP",
		RunID:     "run-1",
		CreatedAt: created,
		Metadata:  map[string]string{"activation": "tanh"},
		CheckpointMeta: &serialization.CheckpointMeta{
			IsCheckpoint:    true,
			Epoch:           7,
			Step:            70,
			Loss:            0.5,
			OptimizerType:   "SGD",
			OptimizerConfig: map[string]float64{"lr": 0.1},
		},
	}

	require.NoError(t, serialization.Save(fs, "model.born", sampleState(), header))

	state, got, err := serialization.Load(fs, "model.born")
	require.NoError(t, err)

	if diff := cmp.Diff(sampleState(), state); diff != "" {
		t.Errorf("state dict mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, serialization.FormatVersion, got.FormatVersion)
	assert.Equal(t, serialization.CreatorVersion, got.CreatorVersion)
	assert.Equal(t, "MLP", got.ModelType)
	assert.Equal(t, "run-1", got.RunID)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.Equal(t, "tanh", got.Metadata["activation"])
	require.NotNil(t, got.CheckpointMeta)
	assert.Equal(t, 7, got.CheckpointMeta.Epoch)
	assert.Equal(t, 0.1, got.CheckpointMeta.OptimizerConfig["lr"])

	// Parameters are laid out in name order.
	require.Len(t, got.Params, 4)
	assert.Equal(t, "layers.0.neurons.0.bias", got.Params[0].Name)
	assert.Equal(t, int64(0), got.Params[0].Offset)
	assert.Equal(t, int64(24), got.Params[3].Offset)
}

// TestReader_Flags tests flag bits derived from the header.
func TestReader_Flags(t *testing.T) {
	var buf bytes.Buffer
	header := serialization.Header{
		Metadata:       map[string]string{"k": "v"},
		CheckpointMeta: &serialization.CheckpointMeta{IsCheckpoint: true},
	}
	require.NoError(t, serialization.NewWriter(&buf).WriteStateDict(sampleState(), header))

	reader, err := serialization.NewReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, serialization.FlagHasMetadata|serialization.FlagHasOptimizer, reader.Flags())
}

// TestEmptyStateDict tests a file without parameters.
func TestEmptyStateDict(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, serialization.NewWriter(&buf).WriteStateDict(nil, serialization.Header{}))

	reader, err := serialization.NewReader(&buf)
	require.NoError(t, err)
	state, err := reader.ReadStateDict()
	require.NoError(t, err)
	assert.Empty(t, state)
	assert.Zero(t, reader.Flags())
}

// TestLoad_Corruption tests detection of damaged files.
func TestLoad_Corruption(t *testing.T) {
	var good bytes.Buffer
	require.NoError(t, serialization.NewWriter(&good).WriteStateDict(sampleState(), serialization.Header{}))

	tests := []struct {
		name    string
		corrupt func([]byte) []byte
		wantErr error
	}{
		{"flipped_payload_byte", func(b []byte) []byte {
			b[len(b)-1] ^= 0xFF
			return b
		}, serialization.ErrChecksumMismatch},
		{"bad_magic", func(b []byte) []byte {
			copy(b, "NOPE")
			return b
		}, serialization.ErrInvalidMagic},
		{"bad_version", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[4:], 99)
			return b
		}, serialization.ErrUnsupportedVersion},
		{"huge_header", func(b []byte) []byte {
			binary.LittleEndian.PutUint64(b[12:], serialization.MaxHeaderSize+1)
			return b
		}, serialization.ErrHeaderTooLarge},
		{"truncated_payload", func(b []byte) []byte {
			return b[:len(b)-3]
		}, serialization.ErrOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			data := tt.corrupt(bytes.Clone(good.Bytes()))
			require.NoError(t, afero.WriteFile(fs, "bad.born", data, 0o644))

			_, _, err := serialization.Load(fs, "bad.born")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// TestLoad_MissingFile tests opening a file that does not exist.
func TestLoad_MissingFile(t *testing.T) {
	_, _, err := serialization.Load(afero.NewMemMapFs(), "missing.born")
	require.Error(t, err)
}

// TestValidateHeader tests parameter layout validation.
func TestValidateHeader(t *testing.T) {
	tests := []struct {
		name    string
		params  []serialization.ParamMeta
		wantErr error
	}{
		{"valid", []serialization.ParamMeta{{Name: "a", Offset: 0}, {Name: "b", Offset: 8}}, nil},
		{"empty_name", []serialization.ParamMeta{{Name: "", Offset: 0}}, serialization.ErrInvalidParamName},
		{"duplicate_name", []serialization.ParamMeta{{Name: "a", Offset: 0}, {Name: "a", Offset: 8}}, serialization.ErrInvalidParamName},
		{"misaligned", []serialization.ParamMeta{{Name: "a", Offset: 3}}, serialization.ErrOutOfBounds},
		{"beyond_data", []serialization.ParamMeta{{Name: "a", Offset: 8}}, serialization.ErrOutOfBounds},
		{"negative", []serialization.ParamMeta{{Name: "a", Offset: -8}}, serialization.ErrOutOfBounds},
		{"overlap", []serialization.ParamMeta{{Name: "a", Offset: 0}, {Name: "b", Offset: 0}}, serialization.ErrOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := serialization.ValidateHeader(&serialization.Header{Params: tt.params})
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			var vErr *serialization.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// TestWriter_RejectsEmptyName tests that invalid names never reach disk.
func TestWriter_RejectsEmptyName(t *testing.T) {
	var buf bytes.Buffer
	err := serialization.NewWriter(&buf).WriteStateDict(map[string]float64{"": 1}, serialization.Header{})
	require.ErrorIs(t, err, serialization.ErrInvalidParamName)
	assert.Zero(t, buf.Len())
}
