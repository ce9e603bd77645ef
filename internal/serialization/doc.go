// Package serialization implements the .born checkpoint format for scalar models.
//
// A .born file stores named float64 parameters together with a JSON header:
//
//	Format Structure:
//	  [4 bytes: Magic "BORN"]
//	  [4 bytes: Version (uint32 LE)]
//	  [4 bytes: Flags (uint32 LE)]
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON metadata]
//	  [32 bytes: SHA-256 of the parameter data]
//	  [Parameter data: float64 LE, 8 bytes per parameter]
//
// Files are read and written through an afero.Fs so callers can swap the OS
// filesystem for an in-memory one.
//
// Example usage:
//
//	state := model.StateDict()
//	header := serialization.Header{ModelType: "MLP"}
//	if err := serialization.Save(afero.NewOsFs(), "model.born", state, header); err != nil {
//	    log.Fatal(err)
//	}
//
//	state, header, err := serialization.Load(afero.NewOsFs(), "model.born")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	model.LoadStateDict(state)
package serialization
