package wire

import "google.golang.org/protobuf/encoding/protowire"

// WrappedJSON transports a JSON configuration document as a single string.
type WrappedJSON struct {
	JSON string
}

func (m *WrappedJSON) GetJSON() string {
	if m == nil {
		return ""
	}
	return m.JSON
}

func (m *WrappedJSON) Marshal() ([]byte, error) {
	return appendString(nil, 1, m.JSON), nil
}

func (m *WrappedJSON) Unmarshal(b []byte) error {
	*m = WrappedJSON{}
	return walk("WrappedJSON", b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, b, &m.JSON)
		}
		return 0, nil
	})
}

// GetModelRequest names an application model and, optionally, one of its
// sections (internal, resources or appConf).
type GetModelRequest struct {
	Name    string
	Section string
}

func (m *GetModelRequest) Marshal() ([]byte, error) {
	b := appendString(nil, 1, m.Name)
	return appendString(b, 2, m.Section), nil
}

func (m *GetModelRequest) Unmarshal(b []byte) error {
	*m = GetModelRequest{}
	return walk("GetModelRequest", b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Name)
		case 2:
			return consumeString(typ, b, &m.Section)
		}
		return 0, nil
	})
}

// UpdateModelRequest replaces the named model with an aggregate document.
type UpdateModelRequest struct {
	Name string
	JSON string
}

func (m *UpdateModelRequest) Marshal() ([]byte, error) {
	b := appendString(nil, 1, m.Name)
	return appendString(b, 2, m.JSON), nil
}

func (m *UpdateModelRequest) Unmarshal(b []byte) error {
	*m = UpdateModelRequest{}
	return walk("UpdateModelRequest", b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Name)
		case 2:
			return consumeString(typ, b, &m.JSON)
		}
		return 0, nil
	})
}
