package arith

import (
	"bytes"
	"os"
	"testing"
)

func benchmarkCompress(b *testing.B, cfg Config) {
	text, err := os.ReadFile("testdata/gettysburg.txt")
	if err != nil {
		b.Fatalf("%v", err)
	}
	input := bytes.Repeat(text, 20)
	b.SetBytes(int64(len(input)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := CompressBytes(input, cfg); err != nil {
			b.Fatalf("%+v", err)
		}
	}
}

func BenchmarkCompressStatic(b *testing.B) {
	cfg := DefaultConfig()
	cfg.Mode = Static
	benchmarkCompress(b, cfg)
}

func BenchmarkCompressAdaptive(b *testing.B) {
	cfg := DefaultConfig()
	cfg.Mode = Adaptive
	benchmarkCompress(b, cfg)
}

func BenchmarkCompressPPM2(b *testing.B) {
	cfg := DefaultConfig()
	cfg.Order = 2
	benchmarkCompress(b, cfg)
}

func BenchmarkCompressPPM3(b *testing.B) {
	benchmarkCompress(b, DefaultConfig())
}

func BenchmarkDecompressPPM3(b *testing.B) {
	text, err := os.ReadFile("testdata/gettysburg.txt")
	if err != nil {
		b.Fatalf("%v", err)
	}
	input := bytes.Repeat(text, 20)
	cfg := DefaultConfig()
	compressed, err := CompressBytes(input, cfg)
	if err != nil {
		b.Fatalf("%+v", err)
	}
	b.SetBytes(int64(len(input)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := DecompressBytes(compressed, cfg); err != nil {
			b.Fatalf("%+v", err)
		}
	}
}
