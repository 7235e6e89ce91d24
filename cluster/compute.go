// Command cluster prints the normalized compression distance between every pair of files in a directory.
//
// The distance between x and y is (C(xy) - min(C(x), C(y))) / max(C(x), C(y)),
// where C is the compressed size under the chosen estimator.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fumin/arith"
	"github.com/fumin/arith/internal/logutil"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

var (
	estimatorFlag = &cli.StringFlag{
		Name:    "estimator",
		Aliases: []string{"i"},
		Value:   "ppm",
		Usage:   "complexity estimator (ppm|adaptive|static|gzip)",
	}
	dirFlag = &cli.StringFlag{
		Name:    "dir",
		Aliases: []string{"d"},
		Value:   "mammals10",
		Usage:   "data directory",
	}
	orderFlag = &cli.IntFlag{
		Name:  "order",
		Value: 3,
		Usage: "PPM model order",
	}
	nucleotidesFlag = &cli.BoolFlag{
		Name:  "nucleotides",
		Usage: "treat files as FASTA and pack their bases to 2 bits before estimating",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Value: "info",
		Usage: "log level",
	}
)

func main() {
	app := &cli.App{
		Name:  "cluster",
		Usage: "normalized compression distance matrix of the files in a directory",
		Flags: []cli.Flag{estimatorFlag, dirFlag, orderFlag, nucleotidesFlag, logLevelFlag},
		Before: func(c *cli.Context) error {
			logutil.Setup(c.String(logLevelFlag.Name), false)
			arith.SetLogger(log.Logger)
			return nil
		},
		Action: func(c *cli.Context) error {
			est, err := newEstimator(c.String(estimatorFlag.Name), c.Int(orderFlag.Name))
			if err != nil {
				return errors.Wrap(err, "")
			}
			return run(newCorpus(est, c.Bool(nucleotidesFlag.Name)), c.String(dirFlag.Name))
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Msgf("%+v", err)
	}
}

func run(c *corpus, dir string) error {
	data, err := listFiles(dir)
	if err != nil {
		return errors.Wrap(err, "")
	}
	distMat, err := c.distanceMatrix(data)
	if err != nil {
		return errors.Wrap(err, "")
	}
	log.Info().Msgf("[%s]", names(data))
	log.Info().Msgf("[%s]", formatMatrix(distMat))
	return nil
}

// names returns the quoted base names of data without extensions, comma separated.
func names(data []string) string {
	quoted := make([]string, 0, len(data))
	for _, fpath := range data {
		name := filepath.Base(fpath)
		quoted = append(quoted, strconv.Quote(strings.TrimSuffix(name, filepath.Ext(name))))
	}
	return strings.Join(quoted, ",")
}

func formatMatrix(distMat []float64) string {
	fs := make([]string, 0, len(distMat))
	for _, f := range distMat {
		fs = append(fs, strconv.FormatFloat(f, 'f', -1, 64))
	}
	return strings.Join(fs, ",")
}

// An estimator returns the compressed size of b.
type estimator func(b []byte) (int, error)

func newEstimator(name string, order int) (estimator, error) {
	if name == "gzip" {
		return gzipSize, nil
	}
	mode, err := arith.ParseMode(name)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	cfg := arith.DefaultConfig()
	cfg.Mode = mode
	cfg.Order = order
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return func(b []byte) (int, error) {
		c, err := arith.CompressBytes(b, cfg)
		if err != nil {
			return -1, errors.Wrap(err, "")
		}
		return len(c), nil
	}, nil
}

func gzipSize(b []byte) (int, error) {
	buf := bytes.NewBuffer(nil)
	w, err := gzip.NewWriterLevel(buf, gzip.BestCompression)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	if _, err := w.Write(b); err != nil {
		return -1, errors.Wrap(err, "")
	}
	if err := w.Close(); err != nil {
		return -1, errors.Wrap(err, "")
	}
	return buf.Len(), nil
}

// A corpus caches the contents and compressed sizes of files.
type corpus struct {
	est         estimator
	nucleotides bool
	contents    map[string][]byte
	sizes       map[string]float64
}

func newCorpus(est estimator, nucleotides bool) *corpus {
	return &corpus{
		est:         est,
		nucleotides: nucleotides,
		contents:    make(map[string][]byte),
		sizes:       make(map[string]float64),
	}
}

func (c *corpus) read(fpath string) ([]byte, error) {
	if b, ok := c.contents[fpath]; ok {
		return b, nil
	}
	b, err := os.ReadFile(fpath)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	if c.nucleotides {
		if b, err = packedNucleotides(b); err != nil {
			return nil, errors.Wrap(err, fpath)
		}
	}
	c.contents[fpath] = b
	return b, nil
}

func (c *corpus) complexity(fpath string) (float64, error) {
	if size, ok := c.sizes[fpath]; ok {
		return size, nil
	}
	b, err := c.read(fpath)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	size, err := c.est(b)
	if err != nil {
		return -1, errors.Wrap(err, fpath)
	}
	c.sizes[fpath] = float64(size)
	return float64(size), nil
}

func (c *corpus) distance(x, y string) (float64, error) {
	bx, err := c.read(x)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	by, err := c.read(y)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	xy := make([]byte, 0, len(bx)+len(by))
	xy = append(append(xy, bx...), by...)
	sxy, err := c.est(xy)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	kxy := float64(sxy)

	kx, err := c.complexity(x)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	ky, err := c.complexity(y)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}

	minxy := kx
	if ky < kx {
		minxy = ky
	}
	maxxy := kx
	if ky > kx {
		maxxy = ky
	}

	dist := (kxy - minxy) / maxxy
	return dist, nil
}

// distanceMatrix returns the upper triangle of the distance matrix, row by row.
func (c *corpus) distanceMatrix(data []string) ([]float64, error) {
	n := len(data)
	if n < 2 {
		return nil, nil
	}
	mat := make([]float64, 0, n*(n-1)/2)
	for i, dx := range data[:n-1] {
		for _, dy := range data[i+1:] {
			dist, err := c.distance(dx, dy)
			if err != nil {
				return nil, errors.Wrap(err, "")
			}
			mat = append(mat, dist)
			log.Debug().Str("x", dx).Str("y", dy).Float64("distance", dist).Msg("")
		}
	}
	return mat, nil
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	data := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data = append(data, filepath.Join(dir, e.Name()))
	}
	return data, nil
}
