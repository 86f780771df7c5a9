package wireframe

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

// CaptureFileName returns the per-frame raw capture filename
// "<epoch>.<ms>.<type>.i32" spec.md §3 and §4.2 use for both
// --capture-dir and --fail-capture-dir, where type is 'f' for FIS-B and
// 'a' for ADS-B.
func CaptureFileName(h Header) string {
	letter := byte('a')
	if h.Type == FISB {
		letter = 'f'
	}
	return fmt.Sprintf("%d.%d.%c.i32", h.Seconds, h.Micros/1000, letter)
}

// WriteCaptureFile writes samples as raw little-endian int32 values (no
// header) to dir/CaptureFileName(h), for later replay through the error
// corrector.
func WriteCaptureFile(dir string, h Header, samples []int32) error {
	path := filepath.Join(dir, CaptureFileName(h))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wireframe: creating capture file %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(s))
	}
	_, err = f.Write(buf)
	return err
}

// ReadCaptureFile reads raw little-endian int32 samples back from a
// previously written capture file, for replay.
func ReadCaptureFile(path string) ([]int32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wireframe: reading capture file %s: %w", path, err)
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("wireframe: capture file %s has non-multiple-of-4 length %d", path, len(raw))
	}
	samples := make([]int32, len(raw)/4)
	for i := range samples {
		samples[i] = int32(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return samples, nil
}
