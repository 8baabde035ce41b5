package serialplot

import (
	"errors"
	"strconv"
	"strings"
)

// Unit suffixes emitted by the sensor firmware, one reading per line.
const (
	PressureUnit    = "hPa"
	TemperatureUnit = "deg C"
)

// Kind tags a Sample with the physical quantity it measures.
type Kind int

const (
	Temperature Kind = iota + 1
	Pressure
)

func (k Kind) String() string {
	switch k {
	case Temperature:
		return "temperature"
	case Pressure:
		return "pressure"
	default:
		return "unknown"
	}
}

// Unit returns the suffix the device appends to readings of this kind.
func (k Kind) Unit() string {
	switch k {
	case Temperature:
		return TemperatureUnit
	case Pressure:
		return PressureUnit
	default:
		return ""
	}
}

// Sample is a single kind-tagged measurement.
type Sample struct {
	Kind  Kind
	Value float64
}

// String formats the sample the way the device prints it, e.g. "1013.25hPa".
func (s Sample) String() string {
	return strconv.FormatFloat(s.Value, 'f', -1, 64) + s.Kind.Unit()
}

// ParseLine classifies a decoded line and parses its reading.
//
// Lines containing "hPa" are pressure readings, otherwise lines containing
// "deg C" are temperature readings. The unit is removed and the remainder,
// trimmed of surrounding whitespace, must be a float. Any other line is a
// banner or diagnostic and yields ok == false with a nil error.
//
// Non-finite readings ("nan", "inf", "-inf") are accepted, and so are
// magnitudes beyond float64 which become ±Inf. Renderers leave gaps for them.
func ParseLine(line string) (s Sample, ok bool, err error) {
	var kind Kind
	switch {
	case strings.Contains(line, PressureUnit):
		kind = Pressure
	case strings.Contains(line, TemperatureUnit):
		kind = Temperature
	default:
		return Sample{}, false, nil
	}

	raw := strings.TrimSpace(strings.ReplaceAll(line, kind.Unit(), ""))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Sample{}, false, &ParseError{Line: line, Kind: kind, Err: err}
	}
	return Sample{Kind: kind, Value: v}, true, nil
}

// ParsePolicy decides what the driver loop does with a ParseError.
type ParsePolicy int

const (
	// ParseFatal stops the loop and returns the error.
	ParseFatal ParsePolicy = iota
	// ParseDrop logs the malformed line and keeps reading.
	ParseDrop
)

// ParsePolicyFromString maps the config spelling onto a ParsePolicy.
func ParsePolicyFromString(s string) (ParsePolicy, bool) {
	switch s {
	case "", "fatal":
		return ParseFatal, true
	case "drop":
		return ParseDrop, true
	default:
		return ParseFatal, false
	}
}
