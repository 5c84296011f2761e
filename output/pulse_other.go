//go:build !linux

package output

import "fmt"

func openPulse(Config) (Device, error) {
	return nil, fmt.Errorf("%w: pulse is only available on linux", ErrUnavailable)
}
