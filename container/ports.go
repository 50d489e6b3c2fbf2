package container

import (
	"fmt"
	"net"
)

// NoFreePortError reports an exhausted probe range.
type NoFreePortError struct {
	Low  int
	High int
}

func (e *NoFreePortError) Error() string {
	return fmt.Sprintf("no free port available in range [%d, %d)", e.Low, e.High)
}

// ReservePort probes ports in [low, high) in ascending order and returns the
// first one that accepts a TCP bind on the wildcard address. The probe
// listener is closed immediately, so another process can still claim the
// port before the caller uses it.
func ReservePort(low, high int) (int, error) {
	for port := low; port < high; port++ {
		l, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			continue
		}
		l.Close()
		return port, nil
	}
	return 0, &NoFreePortError{Low: low, High: high}
}
