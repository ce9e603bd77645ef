package serialization

import (
	"time"
)

// Format constants.
const (
	MagicBytes      = "BORN"
	FormatVersion   = 3  // v3: scalar float64 parameters with SHA-256 checksum
	ChecksumSize    = 32 // SHA-256 checksum size (32 bytes)
	ParamSize       = 8  // Bytes per float64 parameter
	fixedHeaderSize = 4 + 4 + 4 + 8
)

// Flags for the .born format.
const (
	FlagHasOptimizer uint32 = 1 << 1 // bit 1: optimizer state included
	FlagHasMetadata  uint32 = 1 << 2 // bit 2: custom metadata included
)

// Header represents the JSON header in a .born file.
type Header struct {
	FormatVersion  int               `json:"format_version"`       // Version of the .born format
	CreatorVersion string            `json:"creator_version"`      // Version of the library that wrote the file
	ModelType      string            `json:"model_type"`           // Type of model (e.g., "MLP")
	RunID          string            `json:"run_id,omitempty"`     // Training run identifier
	CreatedAt      time.Time         `json:"created_at"`           // When the file was created
	Params         []ParamMeta       `json:"params"`               // Parameter layout
	Metadata       map[string]string `json:"metadata"`             // Custom metadata
	CheckpointMeta *CheckpointMeta   `json:"checkpoint,omitempty"` // Checkpoint metadata (optional)
}

// CheckpointMeta contains training state information for checkpoints.
type CheckpointMeta struct {
	IsCheckpoint    bool               `json:"is_checkpoint"`    // Whether this is a checkpoint file
	Epoch           int                `json:"epoch"`            // Training epoch number
	Step            int64              `json:"step"`             // Training step number
	Loss            float64            `json:"loss"`             // Loss value at checkpoint
	OptimizerType   string             `json:"optimizer_type"`   // Optimizer type ("SGD", "Adam", etc.)
	OptimizerConfig map[string]float64 `json:"optimizer_config"` // Optimizer hyperparameters
}

// ParamMeta describes one parameter in the .born file.
type ParamMeta struct {
	Name   string `json:"name"`   // Parameter name (e.g., "layers.0.neurons.1.weight.2")
	Offset int64  `json:"offset"` // Byte offset in the data section
}
