package corpus

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/ossf/binpattern/internal/featureflags"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// decoder undoes zstd framing on samples when CompressedSamples is enabled.
type decoder struct {
	zr *zstd.Decoder
}

func newDecoder() (*decoder, error) {
	if !featureflags.CompressedSamples.Enabled() {
		return &decoder{}, nil
	}
	zr, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &decoder{zr: zr}, nil
}

// decompress returns data unchanged unless it starts with a zstd frame.
func (d *decoder) decompress(data []byte) ([]byte, error) {
	if d.zr == nil || !bytes.HasPrefix(data, zstdMagic) {
		return data, nil
	}
	out, err := d.zr.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	return out, nil
}

func (d *decoder) Close() {
	if d.zr != nil {
		d.zr.Close()
	}
}
