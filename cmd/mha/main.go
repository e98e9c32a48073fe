// Package main provides the mha command: it tokenizes text, embeds it and
// runs one multi-head self-attention block over the sequence.
//
// Usage:
//
//	mha [options] <text>...
//
// Example:
//
//	mha -heads 4 -dmodel 32 -causal -save mha.ckpt "The quick brown fox"
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/born-ml/mha/internal/backend/blas"
	"github.com/born-ml/mha/internal/backend/cpu"
	"github.com/born-ml/mha/internal/nn"
	"github.com/born-ml/mha/internal/parallel"
	"github.com/born-ml/mha/internal/tensor"
	"github.com/born-ml/mha/internal/tokenizer"
)

const version = "v0.1.0"

// options holds the parsed command line.
type options struct {
	heads    int
	dModel   int
	vocab    int
	seed     uint64
	workers  int
	encoding string
	backend  string
	causal   bool
	save     string
	load     string
	verbose  bool
	text     string
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "mha: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("mha", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.IntVar(&opts.heads, "heads", 2, "Number of attention heads")
	fs.IntVar(&opts.dModel, "dmodel", 16, "Model dimension (multiple of -heads)")
	fs.IntVar(&opts.vocab, "vocab", 4096, "Embedding table size; token ids are taken modulo this")
	fs.Uint64Var(&opts.seed, "seed", 42, "Seed for weight initialization")
	fs.IntVar(&opts.workers, "workers", runtime.NumCPU(), "Number of worker goroutines")
	fs.StringVar(&opts.encoding, "encoding", "cl100k_base", `Tokenizer encoding: "bytes" or a tiktoken encoding`)
	fs.StringVar(&opts.backend, "backend", "cpu", "Compute backend: cpu or blas")
	fs.BoolVar(&opts.causal, "causal", false, "Apply a causal attention mask")
	fs.StringVar(&opts.save, "save", "", "Write the attention weights to this checkpoint")
	fs.StringVar(&opts.load, "load", "", "Load the attention weights from this checkpoint")
	fs.BoolVar(&opts.verbose, "v", false, "Enable debug logging")
	showVersion := fs.Bool("version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: mha [options] <text>...\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *showVersion {
		fmt.Fprintf(stderr, "mha %s (Go %s)\n", version, runtime.Version())
		return nil, flag.ErrHelp
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return nil, errors.New("no input text")
	}
	if opts.vocab <= 0 || opts.vocab > math.MaxInt32 {
		return nil, fmt.Errorf("-vocab must be in [1, %d], got %d", math.MaxInt32, opts.vocab)
	}
	opts.text = strings.Join(fs.Args(), " ")
	return opts, nil
}

func newBackend(name string, workers int) (tensor.Backend, error) {
	switch strings.ToLower(name) {
	case "cpu":
		if workers <= 1 {
			return cpu.NewWithConfig(parallel.Sequential()), nil
		}
		return cpu.New(), nil
	case "blas":
		return blas.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want cpu or blas)", name)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	backend, err := newBackend(opts.backend, opts.workers)
	if err != nil {
		return err
	}

	tok, err := tokenizer.New(opts.encoding)
	if err != nil {
		return err
	}
	ids, err := tok.Encode(opts.text)
	if err != nil {
		return fmt.Errorf("tokenize: %w", err)
	}
	if len(ids) == 0 {
		return errors.New("input text produced no tokens")
	}
	logger.Debug("tokenized", "encoding", tok.Name(), "tokens", len(ids))

	mha, err := loadOrCreate(opts, backend, logger)
	if err != nil {
		return err
	}

	gen := nn.NewGenerator(opts.seed + 1)
	emb, err := nn.NewEmbedding(opts.vocab, mha.DModel, gen)
	if err != nil {
		return err
	}
	for i, id := range ids {
		ids[i] = int32(int(id) % opts.vocab)
	}
	x, err := emb.Forward(ids)
	if err != nil {
		return err
	}
	norm, err := nn.NewLayerNorm(mha.DModel, 1e-5)
	if err != nil {
		return err
	}
	if x, err = norm.Forward(x); err != nil {
		return err
	}

	var mask *tensor.Tensor
	if opts.causal {
		if mask, err = nn.CausalMask(len(ids)); err != nil {
			return err
		}
	}

	start := time.Now()
	out, weights, err := mha.ForwardWithWeights(x, x, x, mask)
	if err != nil {
		return fmt.Errorf("attention: %w", err)
	}
	logger.Info("forward",
		"backend", backend.Name(),
		"heads", mha.NumHeads,
		"d_model", mha.DModel,
		"seq", len(ids),
		"causal", opts.causal,
		"elapsed", time.Since(start))
	logger.Debug("attention weights", "shape", weights.Shape())

	if opts.save != "" {
		if err := nn.SaveMultiHeadAttention(opts.save, mha); err != nil {
			return err
		}
		logger.Info("saved checkpoint", "path", opts.save)
	}

	first, err := out.Index(0)
	if err != nil {
		return err
	}
	row, err := first.Index(0)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "output shape: %v\n", out.Shape())
	fmt.Fprintf(stdout, "first row:    %v\n", row.Data())
	return nil
}

// loadOrCreate restores the layer from -load or initializes a new one.
func loadOrCreate(opts *options, backend tensor.Backend, logger *slog.Logger) (*nn.MultiHeadAttention, error) {
	if opts.load != "" {
		m, err := nn.LoadMultiHeadAttention(opts.load, opts.heads, backend)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded checkpoint", "path", opts.load, "d_model", m.DModel)
		return m.WithWorkers(opts.workers), nil
	}

	cfg := nn.MHAConfig{NumHeads: opts.heads, DModel: opts.dModel, Workers: opts.workers}
	return nn.NewMultiHeadAttention(cfg, nn.NewGenerator(opts.seed), backend)
}
