// Package wire holds the binary envelopes exchanged between slider-server,
// sliderctl and other cluster nodes.
//
// The envelopes follow proto2 semantics and are encoded by hand with
// google.golang.org/protobuf/encoding/protowire; proto/slider/v1/messages.proto
// is the schema they implement. Required scalars are always written, zero
// values included. Optional scalars are pointer fields and are written only
// when non-nil, so the pointer doubles as the field's presence bit (HasX).
// Repeated fields keep wire order. Unknown fields are skipped on decode.
//
// Every envelope implements Message. Codec adapts Message to gRPC so the
// envelopes can be used as RPC request and response types.
package wire
