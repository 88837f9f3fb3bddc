// Package types defines the in-memory application status model shared by
// slider-server and sliderctl. These are the canonical domain representations,
// separate from the protobuf wire envelopes in package wire.
//
// Optional fields are pointers: nil means the value was never reported, which
// is distinct from a reported zero. Slice fields distinguish nil (absent) from
// empty on the way out; see package marshal for the exact contract.
package types
