package marshal

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/sliderstack/sliderstack/pkg/types"
	"github.com/sliderstack/sliderstack/pkg/wire"
)

var (
	errEmptyDocument = errors.New("empty document")
	errNullDocument  = errors.New("document is null")
)

// UnmarshalJSON returns the raw document carried by the envelope.
func UnmarshalJSON(w *wire.WrappedJSON) string {
	return w.GetJSON()
}

// UnmarshalConfTree decodes the envelope as a single configuration tree.
func UnmarshalConfTree(w *wire.WrappedJSON) (*types.ConfTree, error) {
	tree := &types.ConfTree{}
	if err := decodeDocument(w.GetJSON(), tree); err != nil {
		return nil, &DecodeError{Shape: "ConfTree", Err: err}
	}
	tree.Normalize()
	return tree, nil
}

// UnmarshalAggregateConf decodes the envelope as an aggregate of the
// internal, resources and appConf trees.
func UnmarshalAggregateConf(w *wire.WrappedJSON) (*types.AggregateConf, error) {
	agg := &types.AggregateConf{}
	if err := decodeDocument(w.GetJSON(), agg); err != nil {
		return nil, &DecodeError{Shape: "AggregateConf", Err: err}
	}
	agg.Normalize()
	return agg, nil
}

// UnmarshalConfTreeOperations decodes the envelope as a configuration tree
// and wraps it for option lookups.
func UnmarshalConfTreeOperations(w *wire.WrappedJSON) (*types.ConfTreeOperations, error) {
	tree := &types.ConfTree{}
	if err := decodeDocument(w.GetJSON(), tree); err != nil {
		return nil, &DecodeError{Shape: "ConfTreeOperations", Err: err}
	}
	return types.NewConfTreeOperations(tree), nil
}

// decodeDocument rejects documents that would otherwise decode to an
// all-zero value without error.
func decodeDocument(doc string, v any) error {
	switch strings.TrimSpace(doc) {
	case "":
		return errEmptyDocument
	case "null":
		return errNullDocument
	}
	return json.Unmarshal([]byte(doc), v)
}

// WrapJSON places an already serialized document in an envelope.
func WrapJSON(doc string) *wire.WrappedJSON {
	return &wire.WrappedJSON{JSON: doc}
}

// WrapConfTree serializes a tree into an envelope.
func WrapConfTree(tree *types.ConfTree) (*wire.WrappedJSON, error) {
	data, err := json.Marshal(tree)
	if err != nil {
		return nil, err
	}
	return WrapJSON(string(data)), nil
}
