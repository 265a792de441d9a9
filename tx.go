package bazaar

import (
	"reflect"
	"regexp"

	"github.com/iov-one/bazaar/errors"
)

// Msg is a request for a single state transition, such as placing a bid.
// Signatures travel in the enclosing Tx, never in the message.
type Msg interface {
	Persistent

	// Path routes the message to its handler, for example "auction/bid".
	// It must satisfy IsValidPath.
	Path() string

	// Validate checks the message on its own, before any state is read.
	Validate() error
}

// Marshaller is implemented by value types that serialize themselves.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent round trips through bytes. Unmarshal usually needs a pointer
// receiver, so Marshaller is kept apart for value callers.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx is the signed envelope submitted by clients. Each application
// defines its own concrete type.
type Tx interface {
	Persistent
	GetMsg() (Msg, error)
}

// GetPath returns the path of the carried message or "(missing)".
func GetPath(tx Tx) string {
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// TxDecoder parses raw transaction bytes.
type TxDecoder func(txBytes []byte) (Tx, error)

// IsValidPath reports whether path is made of slash separated segments of
// letters, digits, underscores and dashes.
func IsValidPath(path string) bool {
	return validPath(path)
}

var validPath = regexp.MustCompile(`^[a-zA-Z0-9_\-]+(/[a-zA-Z0-9_\-]+)*$`).MatchString

// LoadMsg copies the message of tx into destination and validates it.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrMsg, "transaction carries no message")
	}

	if err := assignMsg(msg, destination); err != nil {
		return err
	}
	return msg.Validate()
}

// assignMsg sets the message to the destination. Destination must be a
// pointer to either the message type or, when the message is a pointer, the
// type it points to.
func assignMsg(msg Msg, destination interface{}) error {
	dst := reflect.ValueOf(destination)
	if dst.Kind() != reflect.Ptr || dst.IsNil() {
		return errors.Wrapf(errors.ErrHuman, "destination must be a non nil pointer, got %T", destination)
	}
	src := reflect.ValueOf(msg)
	switch {
	case src.Type().AssignableTo(dst.Elem().Type()):
		dst.Elem().Set(src)
	case src.Kind() == reflect.Ptr && src.Elem().Type().AssignableTo(dst.Elem().Type()):
		dst.Elem().Set(src.Elem())
	default:
		return errors.Wrapf(errors.ErrType, "expected %T, got %T", destination, msg)
	}
	return nil
}
