package sqlite

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/quentinrf/spectrum-reader/internal/domain"
)

// Each acquisition session is one SQLite file. Every top-level key is a row
// in groups; detectors additionally own rows in radiation_readings, ordered
// by seq. Spectrum rows are little-endian float64 channel arrays.
const schema = `
CREATE TABLE IF NOT EXISTS groups (
	name TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS radiation_readings (
	group_name TEXT NOT NULL,
	seq INTEGER NOT NULL,
	time INTEGER NOT NULL,
	spectrum BLOB NOT NULL,
	PRIMARY KEY (group_name, seq)
);
`

const bytesPerChannel = 8

func encodeRow(row []float64) []byte {
	buf := make([]byte, len(row)*bytesPerChannel)
	for i, v := range row {
		binary.LittleEndian.PutUint64(buf[i*bytesPerChannel:], math.Float64bits(v))
	}
	return buf
}

func decodeRow(buf []byte, dst []float64) ([]float64, error) {
	if len(buf)%bytesPerChannel != 0 {
		return nil, fmt.Errorf("%w: spectrum blob of %d bytes", domain.ErrMalformedRecord, len(buf))
	}
	for i := 0; i < len(buf); i += bytesPerChannel {
		dst = append(dst, math.Float64frombits(binary.LittleEndian.Uint64(buf[i:])))
	}
	return dst, nil
}
