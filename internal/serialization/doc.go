// Package serialization saves and loads named float32 tensors.
//
// Checkpoints use a small binary container built on the protobuf wire
// format, without generated code:
//
//	File Structure:
//	  [4 bytes:  Magic "MHA1"]
//	  [32 bytes: SHA-256 of the body]
//	  [Body: repeated field 1, one length-delimited Tensor message each]
//
//	Tensor message:
//	  field 1: name  (bytes, UTF-8)
//	  field 2: shape (packed varint)
//	  field 3: data  (packed fixed32, IEEE-754 float32 bits)
//
// Tensors are written in name order, so equal inputs produce identical
// files. The checksum covers the whole body and is verified before any
// tensor is decoded.
//
// Example usage:
//
//	// Save
//	if err := serialization.WriteFile("mha.ckpt", m.StateDict()); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Load
//	state, err := serialization.ReadFile("mha.ckpt")
//	if err != nil {
//	    log.Fatal(err)
//	}
package serialization
