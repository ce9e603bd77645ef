package serialization

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
)

// TestComputeChecksum verifies SHA-256 checksum computation.
func TestComputeChecksum(t *testing.T) {
	data := []byte("test data")
	checksum1 := ComputeChecksum(data)
	checksum2 := ComputeChecksum(data)

	// Same data should produce same checksum
	if checksum1 != checksum2 {
		t.Error("Checksums should match for identical data")
	}

	// Different data should produce different checksum
	if checksum1 == ComputeChecksum([]byte("different data")) {
		t.Error("Checksums should differ for different data")
	}
}

// TestComputeChecksum_SingleParameterChange verifies that nudging one
// float64 parameter by one ulp changes the digest.
func TestComputeChecksum_SingleParameterChange(t *testing.T) {
	params := []float64{0.5, -1.25, 3.0}
	encode := func(xs []float64) []byte {
		payload := make([]byte, len(xs)*ParamSize)
		for i, x := range xs {
			binary.LittleEndian.PutUint64(payload[i*ParamSize:], math.Float64bits(x))
		}
		return payload
	}

	before := ComputeChecksum(encode(params))
	params[1] = math.Nextafter(params[1], 0)
	after := ComputeChecksum(encode(params))

	if before == after {
		t.Error("Checksum should change when a parameter changes")
	}
}

// TestValidateChecksum verifies checksum validation.
func TestValidateChecksum(t *testing.T) {
	checksum := ComputeChecksum([]byte("test data"))

	if err := ValidateChecksum(checksum, checksum); err != nil {
		t.Errorf("Expected no error for matching checksums, got: %v", err)
	}

	other := ComputeChecksum([]byte("other data"))
	err := ValidateChecksum(checksum, other)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("Expected ErrChecksumMismatch, got: %v", err)
	}
	for _, digest := range []string{fmt.Sprintf("%x", checksum[:4]), fmt.Sprintf("%x", other[:4])} {
		if !strings.Contains(err.Error(), digest) {
			t.Errorf("Error %q should name digest %s", err, digest)
		}
	}
}
