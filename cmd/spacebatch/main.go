// Package main provides the spacebatch CLI.
//
// It fills a tensor with 0, 1, 2, ... and runs one block transform on it:
//
//	spacebatch -op s2b -shape 1,4,4,1 -block 2,2
//	spacebatch -op b2s -shape 4,2,2,1 -block 2,2 -pads 0,0,0,0 -dtype int32
//	spacebatch version
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/born-ml/spacebatch/backend/cpu"
	"github.com/born-ml/spacebatch/tensor"
	"github.com/pkg/errors"
	"github.com/x448/float16"
	"k8s.io/klog/v2"
)

const version = "v0.1.0"

// options holds the parsed command line.
type options struct {
	op      string
	shape   tensor.Shape
	block   []int
	amounts [][2]int
	dtype   tensor.DataType
	workers int
}

func main() {
	klog.InitFlags(nil)
	op := flag.String("op", "s2b", "transform to run: s2b (space to batch) or b2s (batch to space)")
	shape := flag.String("shape", "1,4,4,1", "input shape, comma separated: batch,spatial...,channels")
	block := flag.String("block", "2,2", "block size per spatial axis, comma separated")
	pads := flag.String("pads", "", "before,after pairs per spatial axis (paddings for s2b, crops for b2s); empty means zero")
	dtype := flag.String("dtype", "float32", "element type: float16, float32, float64, int32, int64, uint8 or bool")
	workers := flag.Int("workers", 0, "worker goroutines; 0 uses every CPU, 1 runs sequentially")
	flag.Parse()
	defer klog.Flush()

	if flag.Arg(0) == "version" {
		fmt.Printf("spacebatch %s\n", version)
		return
	}

	opts, err := parseOptions(*op, *shape, *block, *pads, *dtype, *workers)
	if err != nil {
		klog.Errorf("invalid arguments: %v", err)
		flag.Usage()
		klog.Flush()
		os.Exit(2)
	}
	if err := run(opts, os.Stdout); err != nil {
		klog.Errorf("%s failed: %v", opts.op, err)
		klog.Flush()
		os.Exit(1)
	}
}

func parseOptions(op, shape, block, pads, dtype string, workers int) (*options, error) {
	if op != "s2b" && op != "b2s" {
		return nil, errors.Errorf("unknown op %q (want s2b or b2s)", op)
	}
	dims, err := parseInts(shape)
	if err != nil {
		return nil, errors.Wrap(err, "-shape")
	}
	blockShape, err := parseInts(block)
	if err != nil {
		return nil, errors.Wrap(err, "-block")
	}
	flat, err := parseInts(pads)
	if err != nil {
		return nil, errors.Wrap(err, "-pads")
	}
	amounts := make([][2]int, len(blockShape))
	switch len(flat) {
	case 0:
	case 2 * len(blockShape):
		for d := range amounts {
			amounts[d] = [2]int{flat[2*d], flat[2*d+1]}
		}
	default:
		return nil, errors.Errorf("-pads: got %d values, want %d (before,after per spatial axis)", len(flat), 2*len(blockShape))
	}
	dt, ok := tensor.ParseDataType(dtype)
	if !ok {
		return nil, errors.Errorf("unknown dtype %q", dtype)
	}
	if workers < 0 {
		return nil, errors.Errorf("-workers must be >= 0, got %d", workers)
	}
	return &options{
		op:      op,
		shape:   tensor.Shape(dims),
		block:   blockShape,
		amounts: amounts,
		dtype:   dt,
		workers: workers,
	}, nil
}

func parseInts(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		out[i] = v
	}
	return out, nil
}

func newBackend(workers int) *cpu.Backend {
	switch workers {
	case 0:
		return cpu.New()
	case 1:
		return cpu.NewWithConfig(cpu.Sequential())
	default:
		cfg := cpu.DefaultParallelConfig()
		cfg.Enabled = true
		cfg.NumWorkers = workers
		return cpu.NewWithConfig(cfg)
	}
}

// run executes the transform and prints the output shape followed by the values.
func run(opts *options, w io.Writer) error {
	backend := newBackend(opts.workers)
	klog.V(1).Infof("running %s on %s%v with block %v and amounts %v (backend %s, %d workers)",
		opts.op, opts.dtype, opts.shape, opts.block, opts.amounts, backend.Name(), backend.ParallelConfig().NumWorkers)

	switch opts.dtype {
	case tensor.Float32:
		return runTyped[float32](opts, backend, w)
	case tensor.Float64:
		return runTyped[float64](opts, backend, w)
	case tensor.Float16:
		return runTyped[float16.Float16](opts, backend, w)
	case tensor.Int32:
		return runTyped[int32](opts, backend, w)
	case tensor.Int64:
		return runTyped[int64](opts, backend, w)
	case tensor.Uint8:
		return runTyped[uint8](opts, backend, w)
	case tensor.Bool:
		return runTyped[bool](opts, backend, w)
	default:
		return errors.Errorf("unsupported dtype %s", opts.dtype)
	}
}

func runTyped[T tensor.DType](opts *options, backend *cpu.Backend, w io.Writer) error {
	if err := opts.shape.Validate(); err != nil {
		return errors.Wrap(err, "-shape")
	}
	x := tensor.Arange[T](opts.shape, backend)

	var (
		y   *tensor.Tensor[T, *cpu.Backend]
		err error
	)
	if opts.op == "s2b" {
		y, err = x.SpaceToBatch(opts.block, opts.amounts)
	} else {
		y, err = x.BatchToSpace(opts.block, opts.amounts)
	}
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "shape: %v\n", y.Shape()); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "values: %v\n", y.Data())
	return err
}
