package serialplot

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"go.bug.st/serial/enumerator"
)

// DefaultDeviceMarker is the description the ST-Link virtual COM port driver
// reports for the board's UART bridge.
const DefaultDeviceMarker = "STMicroelectronics STLink Virtual COM Port"

// PortInfo describes one visible serial port.
type PortInfo struct {
	Device      string
	Description string
	HWID        string
}

// ListPorts enumerates the serial ports currently visible to the OS.
func ListPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerate ports: %w", err)
	}
	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		ports = append(ports, portInfoFromDetails(d))
	}
	return ports, nil
}

func portInfoFromDetails(d *enumerator.PortDetails) PortInfo {
	info := PortInfo{Device: d.Name, Description: d.Product, HWID: "n/a"}
	if info.Description == "" {
		info.Description = "n/a"
	}
	if d.IsUSB {
		info.HWID = fmt.Sprintf("USB VID:PID=%s:%s", strings.ToUpper(d.VID), strings.ToUpper(d.PID))
		if d.SerialNumber != "" {
			info.HWID += " SER=" + d.SerialNumber
		}
	}
	return info
}

// MatchPort returns the device path of the first port, in device path order,
// whose description contains marker.
func MatchPort(ports []PortInfo, marker string) (string, bool) {
	sorted := slices.Clone(ports)
	slices.SortFunc(sorted, func(a, b PortInfo) int {
		return strings.Compare(a.Device, b.Device)
	})
	for _, p := range sorted {
		if strings.Contains(p.Description, marker) {
			return p.Device, true
		}
	}
	return "", false
}

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	portStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Selector picks the serial device to open. When no port matches Marker it
// lists every port and asks for a device path on In.
type Selector struct {
	Marker string
	List   func() ([]PortInfo, error)
	In     io.Reader
	Out    io.Writer
	Logger logrus.FieldLogger
}

// NewSelector returns a Selector wired to the OS port list and the terminal.
func NewSelector(marker string) *Selector {
	if marker == "" {
		marker = DefaultDeviceMarker
	}
	return &Selector{
		Marker: marker,
		List:   ListPorts,
		In:     os.Stdin,
		Out:    os.Stdout,
		Logger: logrus.StandardLogger(),
	}
}

// Select returns the device path of the target board. It returns
// ErrDeviceNotFound when nothing matches and no path is entered.
func (s *Selector) Select() (string, error) {
	ports, err := s.List()
	if err != nil {
		// Still offer the manual prompt; the user may know the path.
		s.Logger.WithError(err).Warn("port enumeration failed")
		ports = nil
	}

	if device, ok := MatchPort(ports, s.Marker); ok {
		s.Logger.WithField("device", device).Info("serial device detected")
		return device, nil
	}
	return s.prompt(ports)
}

func (s *Selector) prompt(ports []PortInfo) (string, error) {
	sorted := slices.Clone(ports)
	slices.SortFunc(sorted, func(a, b PortInfo) int {
		return strings.Compare(a.Device, b.Device)
	})

	fmt.Fprintln(s.Out, errorStyle.Render("Serial device not found"))
	fmt.Fprintln(s.Out, noticeStyle.Render("Automatic port detection failed."))
	fmt.Fprintln(s.Out, noticeStyle.Render("Please select the port manually."))
	fmt.Fprintln(s.Out, noticeStyle.Render("Available ports:"))
	for _, p := range sorted {
		fmt.Fprintln(s.Out, portStyle.Render(fmt.Sprintf("Port: %s | Description: %s | HWID: %s", p.Device, p.Description, p.HWID)))
	}
	fmt.Fprintln(s.Out, "Example: COM3 (Windows) or /dev/ttyUSB0 (Unix-like)")
	fmt.Fprint(s.Out, "Please enter the port name: ")

	line, err := bufio.NewReader(s.In).ReadString('\n')
	device := strings.TrimSpace(line)
	if device == "" {
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("%w: %v", ErrDeviceNotFound, err)
		}
		return "", ErrDeviceNotFound
	}
	return device, nil
}
