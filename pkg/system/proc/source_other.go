//go:build !linux

package proc

// NewSource has no implementation outside Linux.
func NewSource() (Source, error) {
	return nil, ErrUnsupported
}

// NewSourceFS has no implementation outside Linux.
func NewSourceFS(string) (Source, error) {
	return nil, ErrUnsupported
}
