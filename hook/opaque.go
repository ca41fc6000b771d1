package hook

import "fmt"

// Opaque is the type-erased error shape. It holds any error behind a
// uniform face: its text, formatting and Unwrap are those of the held error.
type Opaque struct {
	err error
}

// Box converts any error into the opaque shape. Box(nil) returns nil and an
// *Opaque is returned unchanged.
func Box(err error) *Opaque {
	if err == nil {
		return nil
	}
	if o, ok := err.(*Opaque); ok {
		return o
	}
	return &Opaque{err: err}
}

// emptyOpaque is the text of an Opaque holding no error.
const emptyOpaque = "<nil>"

func (o *Opaque) Error() string {
	if o.err == nil {
		return emptyOpaque
	}
	return o.err.Error()
}

// Unwrap returns the erased error.
func (o *Opaque) Unwrap() error { return o.err }

// Format passes every verb and flag through to the erased error.
func (o *Opaque) Format(s fmt.State, verb rune) {
	if o.err == nil {
		_, _ = fmt.Fprintf(s, fmt.FormatString(s, verb), emptyOpaque)
		return
	}
	_, _ = fmt.Fprintf(s, fmt.FormatString(s, verb), o.err)
}
