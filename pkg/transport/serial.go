package transport

import (
	"go.bug.st/serial"
)

// DefaultBaudRate is the rate of the controller's USB serial console.
const DefaultBaudRate = 115200

// OpenSerial opens a serial port as a Stream.
func OpenSerial(port string, baudRate int) (*Stream, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	p, err := serial.Open(port, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, err
	}
	return NewStream(port, p), nil
}

// SerialPorts lists the serial ports available.
func SerialPorts() ([]string, error) {
	return serial.GetPortsList()
}
