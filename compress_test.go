package arith

import (
	"bytes"
	"io"
	"math/rand"
	"testing"

	"github.com/fumin/arith/ac"
	"github.com/fumin/arith/bitio"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testInputs() map[string][]byte {
	rng := rand.New(rand.NewSource(4))
	uniform := make([]byte, 5000)
	rng.Read(uniform)
	skewed := make([]byte, 5000)
	for i := range skewed {
		skewed[i] = byte(rng.ExpFloat64() * 12)
	}
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	return map[string][]byte{
		"empty":    {},
		"zeros":    make([]byte, 10),
		"short":    {0, 3, 1, 2},
		"all":      all,
		"repeated": bytes.Repeat([]byte("abracadabra "), 200),
		// Long runs of the most and least probable bytes drive the coder through underflow.
		"underflow": append(append(bytes.Repeat([]byte{0}, 500), bytes.Repeat([]byte{255}, 500)...), 0x80, 0x7F),
		"uniform":   uniform,
		"skewed":    skewed,
	}
}

func testConfigs() []Config {
	var cfgs []Config
	for _, mode := range []Mode{Static, Adaptive} {
		cfg := DefaultConfig()
		cfg.Mode = mode
		cfgs = append(cfgs, cfg)
	}
	for order := -1; order <= 3; order++ {
		cfg := DefaultConfig()
		cfg.Order = order
		cfgs = append(cfgs, cfg)
	}
	return cfgs
}

func TestRoundTrip(t *testing.T) {
	for _, cfg := range testConfigs() {
		for name, input := range testInputs() {
			compressed, err := CompressBytes(input, cfg)
			require.NoError(t, err, "%v %d %s", cfg.Mode, cfg.Order, name)

			again, err := CompressBytes(input, cfg)
			require.NoError(t, err)
			require.Equal(t, compressed, again, "output must be deterministic")

			checked := cfg
			checked.Checked = true
			withChecks, err := CompressBytes(input, checked)
			require.NoError(t, err)
			require.Equal(t, compressed, withChecks, "checking must not change the output")

			output, err := DecompressBytes(compressed, cfg)
			require.NoError(t, err, "%v %d %s", cfg.Mode, cfg.Order, name)
			require.Equal(t, len(input), len(output), "%v %d %s", cfg.Mode, cfg.Order, name)
			require.True(t, bytes.Equal(input, output), "%v %d %s", cfg.Mode, cfg.Order, name)

			output, err = DecompressBytes(withChecks, checked)
			require.NoError(t, err)
			require.True(t, bytes.Equal(input, output))
		}
	}
}

func TestRoundTripStateBits(t *testing.T) {
	input := bytes.Repeat([]byte("the quick brown fox "), 20)
	for _, bits := range []int{16, 24, 40, 50} {
		cfg := DefaultConfig()
		cfg.StateBits = bits
		compressed, err := CompressBytes(input, cfg)
		require.NoError(t, err, "%d", bits)
		output, err := DecompressBytes(compressed, cfg)
		require.NoError(t, err, "%d", bits)
		require.Equal(t, input, output)
	}

	// The smallest state that fits the alphabet still works where the totals stay small.
	cfg := DefaultConfig()
	cfg.StateBits = 10
	cfg.Order = -1
	compressed, err := CompressBytes(input, cfg)
	require.NoError(t, err)
	output, err := DecompressBytes(compressed, cfg)
	require.NoError(t, err)
	require.Equal(t, input, output)
}

func TestCompressionRatio(t *testing.T) {
	input := bytes.Repeat([]byte("abracadabra "), 1000)
	sizes := make(map[Mode]int)
	for _, cfg := range testConfigs()[:2] {
		compressed, err := CompressBytes(input, cfg)
		require.NoError(t, err)
		sizes[cfg.Mode] = len(compressed)
	}
	compressed, err := CompressBytes(input, DefaultConfig())
	require.NoError(t, err)
	sizes[PPM] = len(compressed)
	t.Logf("%d bytes: %v", len(input), sizes)

	require.Less(t, sizes[Static], len(input))
	require.Less(t, sizes[Adaptive], len(input))
	// A context model sees through the period of the input.
	require.Less(t, sizes[PPM], sizes[Adaptive]/5)
}

func TestStaticHeader(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	input := make([]byte, 100000)
	zeros := 0
	for i := range input {
		if rng.Intn(10) != 0 {
			zeros++
			continue
		}
		input[i] = byte(1 + rng.Intn(255))
	}

	cfg := DefaultConfig()
	cfg.Mode = Static
	compressed, err := CompressBytes(input, cfg)
	require.NoError(t, err)
	require.Less(t, len(compressed), len(input)/4)

	freqs, err := ReadFrequencies(bitio.NewReader(bytes.NewReader(compressed)))
	require.NoError(t, err)
	require.Equal(t, zeros, freqs.Get(0))
	require.Equal(t, 1, freqs.Get(EOF))
	require.Equal(t, len(input)+1, freqs.Total())

	// The header alone must parse back to the same table.
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	require.NoError(t, WriteFrequencies(w, freqs))
	require.NoError(t, w.Flush())
	require.Equal(t, EOF*headerBits/8, buf.Len())
	require.Equal(t, compressed[:buf.Len()], buf.Bytes())
}

func TestStaticTruncatedHeader(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = Static
	compressed, err := CompressBytes([]byte("hello"), cfg)
	require.NoError(t, err)

	_, err = DecompressBytes(compressed[:100], cfg)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestStaticMissingSymbol(t *testing.T) {
	freqs, err := Frequencies(bytes.NewReader([]byte("aab")))
	require.NoError(t, err)
	require.Equal(t, 2, freqs.Get('a'))
	require.Equal(t, 0, freqs.Get(EOF))

	// Without an EOF count the end of the stream cannot be coded.
	var buf bytes.Buffer
	err = CompressStatic(freqs, bytes.NewReader([]byte("ab")), bitio.NewWriter(&buf), DefaultConfig())
	require.ErrorIs(t, err, ac.ErrZeroFrequency)
}

func TestFixedCapacity(t *testing.T) {
	input := bytes.Repeat([]byte("0123456789"), 100)
	cfg := DefaultConfig()
	cfg.Mode = Adaptive

	out := bitio.NewFixedBuffer(8)
	err := CompressAdaptive(bytes.NewReader(input), bitio.NewByteWriter(out), cfg)
	require.ErrorIs(t, err, bitio.ErrCapacity)
	require.Equal(t, 8, out.Len())

	out = bitio.NewFixedBuffer(len(input))
	require.NoError(t, CompressAdaptive(bytes.NewReader(input), bitio.NewByteWriter(out), cfg))

	decoded := bitio.NewFixedBuffer(len(input))
	require.NoError(t, DecompressAdaptive(bitio.NewReader(bytes.NewReader(out.Bytes())), decoded, cfg))
	require.Equal(t, input, decoded.Bytes())
}

func TestAdaptiveTotalTooLarge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = Adaptive
	cfg.StateBits = 10

	// One byte and EOF fit in a total of 258, a second byte does not.
	compressed, err := CompressBytes([]byte{7}, cfg)
	require.NoError(t, err)
	output, err := DecompressBytes(compressed, cfg)
	require.NoError(t, err)
	require.Equal(t, []byte{7}, output)

	_, err = CompressBytes([]byte{7, 7}, cfg)
	require.ErrorIs(t, err, ac.ErrTotalTooLarge)
}

func TestCompressInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = Mode(9)
	_, err := CompressBytes(nil, cfg)
	require.ErrorIs(t, err, ErrMode)
	_, err = DecompressBytes(nil, cfg)
	require.ErrorIs(t, err, ErrMode)
}

func TestLogger(t *testing.T) {
	require.Equal(t, zerolog.Disabled, logger.GetLevel(), "library must be silent by default")
	defer SetLogger(zerolog.Nop())

	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))
	_, err := CompressBytes([]byte("hello"), DefaultConfig())
	require.NoError(t, err)
	require.Empty(t, buf.String())

	SetLogger(zerolog.New(&buf))
	compressed, err := CompressBytes([]byte("hello"), DefaultConfig())
	require.NoError(t, err)
	_, err = DecompressBytes(compressed, DefaultConfig())
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"message":"compressed"`)
	require.Contains(t, buf.String(), `"message":"decompressed"`)
	require.Contains(t, buf.String(), `"mode":"ppm"`)
	require.Contains(t, buf.String(), `"in":5`)
}
