package serialplot

import "slices"

// Series is the ordered readings of one kind collected during one cycle.
type Series []float64

// Accumulator owns the temperature and pressure series fed by one port.
// It is not safe for concurrent use; the driver loop is its only writer.
type Accumulator struct {
	temperature Series
	pressure    Series
}

// NewAccumulator returns an accumulator with both series empty.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Add appends s to the series of its kind. Samples of an unknown kind are ignored.
func (a *Accumulator) Add(s Sample) {
	switch s.Kind {
	case Temperature:
		a.temperature = append(a.temperature, s.Value)
	case Pressure:
		a.pressure = append(a.pressure, s.Value)
	}
}

// Temperature returns a copy of the temperature series.
func (a *Accumulator) Temperature() Series {
	return slices.Clone(a.temperature)
}

// Pressure returns a copy of the pressure series.
func (a *Accumulator) Pressure() Series {
	return slices.Clone(a.pressure)
}

// Len returns the length of the series of kind k.
func (a *Accumulator) Len(k Kind) int {
	switch k {
	case Temperature:
		return len(a.temperature)
	case Pressure:
		return len(a.pressure)
	default:
		return 0
	}
}

// Full reports whether both series hold at least size readings.
//
// Collection goes on while either series is short, so the series that fills
// first keeps growing and may end a cycle with more than size readings.
func (a *Accumulator) Full(size int) bool {
	return len(a.temperature) >= size && len(a.pressure) >= size
}

// Reset clears both series.
func (a *Accumulator) Reset() {
	a.temperature = nil
	a.pressure = nil
}
