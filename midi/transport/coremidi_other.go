//go:build !darwin

package transport

func newCoremidi(Options) (Transport, error) {
	return nil, ErrUnsupported
}
