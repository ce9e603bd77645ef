package nn

import (
	"github.com/spf13/afero"

	"github.com/born-ml/microborn/internal/serialization"
)

// Save writes the parameters of m to a .born file.
//
// Unlike Checkpoint.Save, no training metadata or optimizer state is stored.
//
// Example:
//
//	err := nn.Save(afero.NewOsFs(), model, "model.born", model.Config().Describe())
func Save(fs afero.Fs, m Module, path string, metadata map[string]string) error {
	return serialization.Save(fs, path, StateDict(m), serialization.Header{
		ModelType: modelType(m),
		Metadata:  metadata,
	})
}

// Load reads a .born file into m and returns its header.
//
// The file must hold exactly the parameters of m.
func Load(fs afero.Fs, path string, m Module) (serialization.Header, error) {
	state, header, err := serialization.Load(fs, path)
	if err != nil {
		return serialization.Header{}, err
	}
	if err := LoadStateDict(m, state); err != nil {
		return serialization.Header{}, err
	}
	return header, nil
}
