package iqsource

import (
	"context"
	"encoding/binary"
	"io"

	"github.com/sirupsen/logrus"

	"uat978/internal/rtlsdr"
)

// RTLSDRSource drives a live RTL-SDR device tuned to the UAT channel and
// converts its native CU8 (unsigned 8-bit) samples into the CS16 wire
// format the rest of the pipeline expects (spec.md §5.1 only documents the
// CS16 stdin contract; a live device is an additive convenience this
// module provides on top of it).
type RTLSDRSource struct {
	device *rtlsdr.RTLSDRDevice

	DeviceIndex int
	FrequencyHz uint32
	SampleRate  uint32
	Gain        int // whole dB; 0 means auto gain

	logger *logrus.Logger
}

// NewRTLSDRSource creates a Source tuned to freqHz at sampleRate, using
// deviceIndex'th RTL-SDR dongle. gain of 0 selects the device's auto-gain
// mode.
func NewRTLSDRSource(deviceIndex int, freqHz, sampleRate uint32, gain int) *RTLSDRSource {
	return &RTLSDRSource{
		DeviceIndex: deviceIndex,
		FrequencyHz: freqHz,
		SampleRate:  sampleRate,
		Gain:        gain,
		logger:      logrus.New(),
	}
}

// Open configures and starts the device, returning a reader of CS16 I/Q
// samples converted live from the device's CU8 stream. The reader reaches
// EOF once ctx is canceled.
func (s *RTLSDRSource) Open(ctx context.Context) (io.Reader, error) {
	dev, err := rtlsdr.NewRTLSDRDevice(s.DeviceIndex)
	if err != nil {
		return nil, err
	}
	if err := dev.Configure(s.FrequencyHz, s.SampleRate, s.Gain); err != nil {
		return nil, err
	}
	s.device = dev

	raw := make(chan []byte, 64)
	pr, pw := io.Pipe()

	go func() {
		err := dev.StartCapture(ctx, raw)
		if err != nil {
			s.logger.WithError(err).Error("rtlsdr capture ended")
		}
	}()

	go func() {
		defer pw.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case chunk, ok := <-raw:
				if !ok {
					return
				}
				if _, err := pw.Write(cu8ToCS16(chunk)); err != nil {
					return
				}
			}
		}
	}()

	return pr, nil
}

// Close releases the underlying RTL-SDR device.
func (s *RTLSDRSource) Close() error {
	if s.device == nil {
		return nil
	}
	return s.device.Close()
}

// cu8ToCS16 converts a buffer of interleaved unsigned 8-bit I/Q samples
// (RTL-SDR's native CU8 format, centered on 127/128) into little-endian
// signed 16-bit samples, preserving interleaving.
func cu8ToCS16(cu8 []byte) []byte {
	out := make([]byte, 2*len(cu8))
	for i, b := range cu8 {
		v := (int32(b) - 127) * 256
		if v > 32767 {
			v = 32767
		}
		binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(v)))
	}
	return out
}
