package ppm

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/fumin/arith/ac"
	"github.com/fumin/arith/bitio"
	"github.com/stretchr/testify/require"
)

const (
	testLimit  = 4
	testEscape = 3
)

func TestNewModel(t *testing.T) {
	_, err := NewModel(-2, testLimit, testEscape)
	require.ErrorIs(t, err, ErrOrder)
	_, err = NewModel(2, testLimit, testLimit)
	require.ErrorIs(t, err, ErrEscape)
	_, err = NewModel(2, testLimit, -1)
	require.ErrorIs(t, err, ErrEscape)

	m, err := NewModel(2, testLimit, testEscape)
	require.NoError(t, err)
	require.Equal(t, 2, m.Order())
	require.Equal(t, testEscape, m.EscapeSymbol())
	require.Equal(t, 1, m.Len())

	root, ok := m.Context(nil)
	require.True(t, ok)
	require.Equal(t, 1, root.Total())
	require.Equal(t, 1, root.Get(testEscape))
}

func TestOrderMinus1(t *testing.T) {
	m, err := NewModel(-1, testLimit, testEscape)
	require.NoError(t, err)
	require.Equal(t, 0, m.Len())
	require.NoError(t, m.IncrementContexts(nil, 1))
	require.Equal(t, 0, m.Len())
	_, ok := m.Context(nil)
	require.False(t, ok)

	visited := 0
	m.Walk(func([]int, ac.FrequencyTable) { visited++ })
	require.Equal(t, 0, visited)
}

func TestHistoryTooLong(t *testing.T) {
	m, err := NewModel(1, testLimit, testEscape)
	require.NoError(t, err)
	require.ErrorIs(t, m.IncrementContexts([]int{0, 1}, 0), ErrHistory)
	require.ErrorIs(t, m.IncrementContexts([]int{4}, 0), ac.ErrSymbolRange)
	require.ErrorIs(t, m.IncrementContexts([]int{0}, 4), ac.ErrSymbolRange)
	_, ok := m.Context([]int{0, 1})
	require.False(t, ok)

	enc, err := ac.NewEncoder(32, bitio.NewWriter(&bytes.Buffer{}))
	require.NoError(t, err)
	require.ErrorIs(t, m.Encode(enc, []int{0, 1}, 0), ErrHistory)
	require.ErrorIs(t, m.Encode(enc, nil, testLimit), ac.ErrSymbolRange)
	require.ErrorIs(t, m.Encode(enc, []int{0}, -1), ac.ErrSymbolRange)
}

// contextDump lists every context of m as its path followed by its frequencies.
func contextDump(m *Model) [][]int {
	var dump [][]int
	m.Walk(func(path []int, freqs ac.FrequencyTable) {
		row := append([]int(nil), path...)
		row = append(row, -1)
		for s := 0; s < freqs.SymbolLimit(); s++ {
			row = append(row, freqs.Get(s))
		}
		dump = append(dump, row)
	})
	return dump
}

func TestIncrementContexts(t *testing.T) {
	const a, b = 0, 1
	m, err := NewModel(2, testLimit, testEscape)
	require.NoError(t, err)
	h := NewHistory(2)

	for i, s := range []int{a, b, a, b, a, b} {
		if i == 2 {
			// Before the third symbol only the context following a has been created.
			_, ok := m.Context([]int{a})
			require.True(t, ok)
			_, ok = m.Context([]int{b})
			require.False(t, ok)
			require.Equal(t, []int{b, a}, h.Symbols())
		}
		require.NoError(t, m.IncrementContexts(h.Symbols(), s))
		h.Push(s)
	}

	require.Equal(t, 5, m.Len())
	expected := [][]int{
		{-1, 3, 3, 0, 1},
		{a, -1, 0, 3, 0, 1},
		{a, b, -1, 0, 2, 0, 1},
		{b, -1, 2, 0, 0, 1},
		{b, a, -1, 2, 0, 0, 1},
	}
	require.Equal(t, expected, contextDump(m))

	ctx, ok := m.Context([]int{b, a})
	require.True(t, ok)
	require.Equal(t, 3, ctx.Total())
}

func TestHistory(t *testing.T) {
	h := NewHistory(3)
	require.Empty(t, h.Symbols())
	for _, s := range []int{5, 6, 7, 8} {
		h.Push(s)
	}
	require.Equal(t, []int{8, 7, 6}, h.Symbols())

	for _, order := range []int{-1, 0} {
		h := NewHistory(order)
		h.Push(1)
		require.Empty(t, h.Symbols())
	}
}

func TestEncodeDecode(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	symbols := make([]int, 3000)
	for i := range symbols {
		// Mostly repeating patterns, with occasional noise.
		symbols[i] = (i % 3) % (testLimit - 1)
		if rng.Intn(10) == 0 {
			symbols[i] = rng.Intn(testLimit - 1)
		}
	}
	symbols = append(symbols, testEscape)

	for order := -1; order <= 3; order++ {
		encModel, err := NewModel(order, testLimit, testEscape)
		require.NoError(t, err)
		var buf bytes.Buffer
		enc, err := ac.NewEncoder(32, bitio.NewWriter(&buf))
		require.NoError(t, err)
		h := NewHistory(order)
		for _, s := range symbols {
			require.NoError(t, encModel.Encode(enc, h.Symbols(), s))
			require.NoError(t, encModel.IncrementContexts(h.Symbols(), s))
			h.Push(s)
		}
		require.NoError(t, enc.Finish())
		t.Logf("order %d: %d symbols in %d bytes, %d contexts", order, len(symbols), buf.Len(), encModel.Len())

		decModel, err := NewModel(order, testLimit, testEscape)
		require.NoError(t, err)
		dec, err := ac.NewDecoder(32, bitio.NewReader(&buf))
		require.NoError(t, err)
		h = NewHistory(order)
		for i, want := range symbols {
			got, err := decModel.Decode(dec, h.Symbols())
			require.NoError(t, err)
			require.Equal(t, want, got, "order %d symbol %d", order, i)
			require.NoError(t, decModel.IncrementContexts(h.Symbols(), got))
			h.Push(got)
		}

		// A third model that never coded anything must agree with both.
		replay, err := NewModel(order, testLimit, testEscape)
		require.NoError(t, err)
		h = NewHistory(order)
		for _, s := range symbols {
			require.NoError(t, replay.IncrementContexts(h.Symbols(), s))
			h.Push(s)
		}
		require.Equal(t, contextDump(encModel), contextDump(decModel), "order %d", order)
		require.Equal(t, contextDump(replay), contextDump(decModel), "order %d", order)
		require.Equal(t, replay.Len(), decModel.Len())
	}
}

func TestEncodeEscapesToOrderMinus1(t *testing.T) {
	// A symbol never seen before costs one escape per existing context plus a flat order -1 code,
	// so it must take more room than a well predicted one.
	size := func(seen, next int) int {
		m, err := NewModel(1, testLimit, testEscape)
		require.NoError(t, err)
		var buf bytes.Buffer
		enc, err := ac.NewEncoder(32, bitio.NewWriter(&buf))
		require.NoError(t, err)
		h := NewHistory(1)
		for i := 0; i < 200; i++ {
			require.NoError(t, m.Encode(enc, h.Symbols(), seen))
			require.NoError(t, m.IncrementContexts(h.Symbols(), seen))
			h.Push(seen)
		}
		for i := 0; i < 40; i++ {
			require.NoError(t, m.Encode(enc, h.Symbols(), next))
		}
		require.NoError(t, enc.Finish())
		return buf.Len()
	}
	require.Greater(t, size(0, 1), size(0, 0))
}
