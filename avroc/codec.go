package avroc

// Codec is the interface an object-container-file layer or a schema
// registry client would implement compression against (spec §1, §6). This
// module ships no implementation: compression remains out of scope,
// matching spec.md's stated non-goal, but the interface is defined here
// so a caller wiring in klauspost/compress (or any other codec) has a
// stable seam to implement against.
type Codec interface {
	Name() string
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}
