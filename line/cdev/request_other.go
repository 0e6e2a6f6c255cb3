//go:build !linux

package cdev

func probe(string) error {
	return ErrUnsupported
}

func requestLine(string, int, bool, string) (lineHandle, error) {
	return nil, ErrUnsupported
}
