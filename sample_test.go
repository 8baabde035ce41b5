package serialplot

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want Sample
		ok   bool
	}{
		{"1013.25hPa", Sample{Pressure, 1013.25}, true},
		{"1013.25 hPa", Sample{Pressure, 1013.25}, true},
		{"1013.25 hPa\r", Sample{Pressure, 1013.25}, true},
		{"23.45deg C", Sample{Temperature, 23.45}, true},
		{"23.45 deg C", Sample{Temperature, 23.45}, true},
		{"-4.10 deg C", Sample{Temperature, -4.1}, true},
		{"  998 hPa  ", Sample{Pressure, 998}, true},
		{"", Sample{}, false},
		{"BMP280 initialised", Sample{}, false},
		{"Pressure\tTemperature", Sample{}, false},
		{"23.45 degC", Sample{}, false},
		{"1013.25 HPA", Sample{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok, err := ParseLine(tt.line)
			require.NoError(t, err)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseLine_PressureNeverTemperature(t *testing.T) {
	for _, v := range []float64{0, 1, 850.5, 1013.25, 1100} {
		line := strconv.FormatFloat(v, 'f', 2, 64) + " hPa"
		s, ok, err := ParseLine(line)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, Pressure, s.Kind)
		require.Equal(t, v, s.Value)
	}
}

func TestParseLine_NonFinite(t *testing.T) {
	tests := []struct {
		line string
		kind Kind
		nan  bool
		sign int
	}{
		{"nan hPa", Pressure, true, 0},
		{"NaN deg C", Temperature, true, 0},
		{"inf deg C", Temperature, false, 1},
		{"-inf hPa", Pressure, false, -1},
		{"1e400 hPa", Pressure, false, 1},
		{"-1e400 deg C", Temperature, false, -1},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			s, ok, err := ParseLine(tt.line)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, tt.kind, s.Kind)
			if tt.nan {
				require.True(t, math.IsNaN(s.Value))
				return
			}
			require.True(t, math.IsInf(s.Value, tt.sign), "got %v", s.Value)
		})
	}
}

func TestParseLine_Malformed(t *testing.T) {
	tests := []struct {
		line string
		kind Kind
	}{
		{"hPa", Pressure},
		{"12.3.4 hPa", Pressure},
		{"abc deg C", Temperature},
		{"23.45 deg C deg", Temperature},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, ok, err := ParseLine(tt.line)
			require.False(t, ok)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			require.Equal(t, tt.kind, parseErr.Kind)
			require.Equal(t, tt.line, parseErr.Line)
			require.ErrorIs(t, err, strconv.ErrSyntax)
		})
	}
}

func TestSample_RoundTrip(t *testing.T) {
	samples := []Sample{
		{Temperature, 23.45},
		{Temperature, -0.01},
		{Pressure, 1013.25},
		{Pressure, 987.654321},
	}
	for _, s := range samples {
		got, ok, err := ParseLine(s.String())
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, s.Kind, got.Kind)
		require.InDelta(t, s.Value, got.Value, 1e-9)
	}

	require.Equal(t, "23.45deg C", Sample{Temperature, 23.45}.String())
	require.Equal(t, "1013.25hPa", Sample{Pressure, 1013.25}.String())
}

func TestParsePolicyFromString(t *testing.T) {
	p, ok := ParsePolicyFromString("drop")
	require.True(t, ok)
	require.Equal(t, ParseDrop, p)

	p, ok = ParsePolicyFromString("")
	require.True(t, ok)
	require.Equal(t, ParseFatal, p)

	_, ok = ParsePolicyFromString("ignore")
	require.False(t, ok)
}
