// Package marshal converts between the domain status model (package types)
// and the wire envelopes (package wire).
//
// Each entity pair has its own Marshal/Unmarshal function. The conversions
// honour field optionality in both directions:
//
//   - an optional domain field that is nil is omitted from the envelope, and an
//     envelope without the field yields a nil domain field, never a zero value;
//   - a nil domain slice performs no list write, while an inbound list is always
//     a non-nil slice, empty when the wire carried no elements.
//
// Configuration documents travel as a JSON string inside wire.WrappedJSON and
// decode into one of three shapes chosen by the caller. Credential stores are
// read whole from disk into wire.CertificateStoreResponse.
//
// Every function is pure apart from the credential store read, and safe for
// concurrent use. Failures are returned as *DecodeError or *IOError; nothing
// here logs or retries.
package marshal
