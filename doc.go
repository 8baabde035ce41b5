// Package serialplot reads temperature and pressure readings streamed as text
// by a BMP280 sensor board over its serial port and hands them to a chart
// renderer.
//
// The board prints one reading per line, e.g. "1013.25 hPa" or "23.45 deg C",
// after a free-form banner line. Lines are parsed by ParseLine, collected by an
// Accumulator and rendered by a Driver in one of two modes:
//   - Batch: collect DefaultBufferSize readings of each kind, render once and
//     block until the figure is dismissed, then start over with empty series.
//   - Live: keep every reading and redraw the full history after each sample.
//
// On Linux the port is driven with raw termios and poll; elsewhere through
// go.bug.st/serial. Close on a SerialReader unblocks a pending ReadLine.
//
// Example usage:
//
//	device, err := serialplot.NewSelector(serialplot.DefaultDeviceMarker).Select()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	reader, err := serialplot.Open(serialplot.Config{Device: device})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer reader.Close()
//
//	d, err := serialplot.NewDriver(serialplot.DriverConfig{
//	    Reader:   reader,
//	    Renderer: chart.NewWindow(chart.Options{}),
//	    Mode:     serialplot.Batch,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(d.Run(context.Background()))
package serialplot
