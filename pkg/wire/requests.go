package wire

import "google.golang.org/protobuf/encoding/protowire"

// Empty is the request or response of calls that carry no payload.
type Empty struct{}

func (m *Empty) Marshal() ([]byte, error) { return nil, nil }

func (m *Empty) Unmarshal(b []byte) error {
	return walk("Empty", b, func(protowire.Number, protowire.Type, []byte) (int, error) {
		return 0, nil
	})
}

// GetComponentRequest names the component to look up.
type GetComponentRequest struct {
	Name string
}

func (m *GetComponentRequest) Marshal() ([]byte, error) {
	return appendString(nil, 1, m.Name), nil
}

func (m *GetComponentRequest) Unmarshal(b []byte) error {
	*m = GetComponentRequest{}
	return walk("GetComponentRequest", b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, b, &m.Name)
		}
		return 0, nil
	})
}

// GetCertificateStoreRequest selects the credential store to fetch.
type GetCertificateStoreRequest struct {
	Type string
}

func (m *GetCertificateStoreRequest) Marshal() ([]byte, error) {
	return appendString(nil, 1, m.Type), nil
}

func (m *GetCertificateStoreRequest) Unmarshal(b []byte) error {
	*m = GetCertificateStoreRequest{}
	return walk("GetCertificateStoreRequest", b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, b, &m.Type)
		}
		return 0, nil
	})
}

// CertificateStoreResponse carries the raw contents of a credential store.
type CertificateStoreResponse struct {
	Store []byte
}

func (m *CertificateStoreResponse) Marshal() ([]byte, error) {
	return appendBytes(nil, 1, m.Store), nil
}

func (m *CertificateStoreResponse) Unmarshal(b []byte) error {
	*m = CertificateStoreResponse{}
	return walk("CertificateStoreResponse", b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeBytes(typ, b, &m.Store)
		}
		return 0, nil
	})
}
