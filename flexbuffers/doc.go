// Package flexbuffers implements the FlexBuffers binary format: a
// schema-less, self-describing encoding for trees of scalars, strings,
// blobs, vectors and string-keyed maps, read in place by walking offsets
// backward from the end of the buffer.
//
// A document is built with a Builder, which serializes children before
// their parents (a two pass, stack based construction) so that a parent
// can always refer back to an already-written child by a relative byte
// offset. Once Finish is called the document is read with GetRoot, which
// decodes the two trailing bytes to locate the root value and returns a
// Reference. References, Vectors and Maps are thin views over the
// supplied byte slice: no heap allocation or up-front parse is performed.
//
// The format itself carries no schema: every value is self-describing via
// a packed type byte that fuses a 6 bit type tag with a 2 bit bit-width
// code, so a reader with no prior knowledge of the document's shape can
// still navigate it correctly.
package flexbuffers
