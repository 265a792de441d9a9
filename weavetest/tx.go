package weavetest

import "github.com/iov-one/bazaar"

// Tx is a transaction wrapping a single message. Its serialized form is the
// serialized message.
type Tx struct {
	Msg bazaar.Msg
	// Err is returned by every method when set.
	Err error
}

var _ bazaar.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (bazaar.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Marshal() ([]byte, error) {
	if tx.Err != nil || tx.Msg == nil {
		return nil, tx.Err
	}
	return tx.Msg.Marshal()
}

// Unmarshal loads raw bytes into a Msg, replacing any message already set.
func (tx *Tx) Unmarshal(raw []byte) error {
	m := &Msg{}
	if err := m.Unmarshal(raw); err != nil {
		return err
	}
	tx.Msg = m
	return tx.Err
}

// Msg is a message routed by RoutePath. Serialized holds whatever bytes it
// was loaded from or should produce.
type Msg struct {
	RoutePath  string
	Serialized []byte
	// Err is returned by Validate, Marshal and Unmarshal when set.
	Err error
}

var _ bazaar.Msg = (*Msg)(nil)

func (m *Msg) Path() string             { return m.RoutePath }
func (m *Msg) Validate() error          { return m.Err }
func (m *Msg) Marshal() ([]byte, error) { return m.Serialized, m.Err }

func (m *Msg) Unmarshal(raw []byte) error {
	m.Serialized = append([]byte(nil), raw...)
	return m.Err
}
