package serial

import (
	"errors"
	"fmt"
	"strings"

	"go.bug.st/serial/enumerator"
)

var ErrNoAdapter = errors.New("no usb serial adapter found")

// PortInfo describes a serial port present on the host.
type PortInfo struct {
	Name    string `yaml:"name" json:"name"`
	USB     bool   `yaml:"usb" json:"usb"`
	VID     string `yaml:"vid,omitempty" json:"vid,omitempty"`
	PID     string `yaml:"pid,omitempty" json:"pid,omitempty"`
	Serial  string `yaml:"serial,omitempty" json:"serial,omitempty"`
	Product string `yaml:"product,omitempty" json:"product,omitempty"`
	Adapter string `yaml:"adapter,omitempty" json:"adapter,omitempty"`
}

// adapters are USB to UART bridges commonly wired to the amplifier console port,
// keyed by VID:PID.
var adapters = map[string]string{
	"0403:6001": "FTDI FT232R",
	"0403:6015": "FTDI FT231X",
	"10C4:EA60": "Silicon Labs CP210x",
	"1A86:7523": "WCH CH340",
	"067B:2303": "Prolific PL2303",
}

var listPorts = enumerator.GetDetailedPortsList

// Ports lists the serial ports of the host.
func Ports() ([]PortInfo, error) {
	details, err := listPorts()
	if err != nil {
		return nil, fmt.Errorf("could not list serial ports: %w", err)
	}
	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		info := PortInfo{Name: d.Name, USB: d.IsUSB}
		if d.IsUSB {
			info.VID = strings.ToUpper(d.VID)
			info.PID = strings.ToUpper(d.PID)
			info.Serial = d.SerialNumber
			info.Product = d.Product
			info.Adapter = adapters[info.VID+":"+info.PID]
		}
		ports = append(ports, info)
	}
	return ports, nil
}

// Detect returns the first port backed by a known USB serial adapter.
func Detect() (PortInfo, error) {
	ports, err := Ports()
	if err != nil {
		return PortInfo{}, err
	}
	for _, p := range ports {
		if p.Adapter != "" {
			return p, nil
		}
	}
	return PortInfo{}, ErrNoAdapter
}
