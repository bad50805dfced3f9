// Command lvdist-trmm runs the distributed right-lower triangular multiply
// X := alpha·X·op(L) on an in-process grid and reports the residual against
// a single-process reference.
//
//	lvdist-trmm --procs 6 --r 2 --m 300 --n 500 --nb 64 --adjoint --complex
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/katalvlaran/lvdist/blas3"
	"github.com/katalvlaran/lvdist/comm"
	"github.com/katalvlaran/lvdist/config"
	"github.com/katalvlaran/lvdist/dist"
	"github.com/katalvlaran/lvdist/grid"
	"github.com/katalvlaran/lvdist/matrix"
)

// errResidual is returned when the distributed result disagrees with the
// reference beyond tolerance.
var errResidual = errors.New("lvdist-trmm: residual above tolerance")

const tolerance = 1e-8

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()
	var (
		path    string
		adjoint bool
	)
	var vv, verbose, q bool
	cmd := &cobra.Command{
		Use:          "lvdist-trmm",
		Short:        "Distributed X := alpha·X·op(L) with a residual check",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path != "" {
				if err := loadUnder(cmd.Flags(), &cfg, path); err != nil {
					return err
				}
			}
			if adjoint {
				cfg.Orientation = "adjoint"
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			level, ok := config.LevelFromFlags(vv, verbose, q)
			if !ok {
				level, _ = cfg.Level()
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return run(cmd.Context(), cfg, logger, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&path, "config", "c", "", "TOML or YAML run configuration; explicit flags override it")
	f.IntVar(&cfg.Procs, "procs", cfg.Procs, "number of ranks")
	f.IntVar(&cfg.GridHeight, "r", cfg.GridHeight, "height of process grid (0 picks a near-square grid)")
	f.IntVar(&cfg.M, "m", cfg.M, "height of X")
	f.IntVar(&cfg.N, "n", cfg.N, "order of L and width of X")
	f.IntVar(&cfg.Blocksize, "nb", cfg.Blocksize, "algorithmic blocksize")
	f.IntVar(&cfg.RoutingRatio, "ratio", cfg.RoutingRatio, "L/X height ratio above which the panel-broadcast variant runs")
	f.StringVar(&cfg.Variant, "variant", cfg.Variant, "auto, panel-broadcast (a) or blocked-diagonal (c)")
	f.BoolVar(&adjoint, "adjoint", false, "multiply by the adjoint of L instead of its transpose")
	f.BoolVar(&cfg.Unit, "unit", cfg.Unit, "treat L as unit diagonal")
	f.BoolVar(&cfg.Complex, "complex", cfg.Complex, "use complex128 data")
	f.Float64Var(&cfg.Alpha, "alpha", cfg.Alpha, "real part of alpha")
	f.Float64Var(&cfg.AlphaImag, "alpha-imag", cfg.AlphaImag, "imaginary part of alpha (complex only)")
	f.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "seed of the random operands")
	f.BoolVar(&cfg.Print, "print", cfg.Print, "print the matrices")
	f.BoolVar(&vv, "vv", false, "debug logging")
	f.BoolVarP(&verbose, "verbose", "v", false, "info logging")
	f.BoolVarP(&q, "quiet", "q", false, "errors only")
	return cmd
}

// loadUnder replaces cfg by the file at path, then re-applies the flags
// the user set explicitly.
func loadUnder(fs *pflag.FlagSet, cfg *config.Config, path string) error {
	explicit := map[string]string{}
	fs.Visit(func(f *pflag.Flag) { explicit[f.Name] = f.Value.String() })
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	*cfg = loaded
	for name, v := range explicit {
		if err := fs.Set(name, v); err != nil {
			return fmt.Errorf("lvdist-trmm: --%s: %w", name, err)
		}
	}
	return nil
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger, out io.Writer) error {
	if cfg.Complex {
		return runTrmm(ctx, cfg, complex(cfg.Alpha, cfg.AlphaImag), logger, out)
	}
	return runTrmm(ctx, cfg, cfg.Alpha, logger, out)
}

// operands returns the same L and X on every rank.
func operands[T matrix.Scalar](cfg config.Config) (l, x *matrix.Dense[T]) {
	rng := rand.New(rand.NewPCG(cfg.Seed, 0x6c76))
	fill := func(h, w int) *matrix.Dense[T] {
		d, _ := matrix.NewDense[T](h, w)
		vals := d.Data()
		for k := range vals {
			vals[k] = matrix.FromParts[T](2*rng.Float64()-1, 2*rng.Float64()-1)
		}
		return d
	}
	return fill(cfg.N, cfg.N), fill(cfg.M, cfg.N)
}

func runTrmm[T matrix.Scalar](ctx context.Context, cfg config.Config, alpha T, logger *slog.Logger, out io.Writer) error {
	o, _ := cfg.ParsedOrientation()
	r, c := cfg.Grid()
	lRef, xRef := operands[T](cfg)
	opts := []blas3.Option{
		blas3.WithBlocksize(cfg.Blocksize),
		blas3.WithRoutingRatio(cfg.RoutingRatio),
		blas3.WithVariant(cfg.ParsedVariant()),
		blas3.WithLogger(logger),
	}

	var (
		got     *matrix.Dense[T]
		elapsed time.Duration
	)
	err := comm.Run(ctx, cfg.Procs, func(ctx context.Context, cm *comm.Comm) error {
		g, err := grid.New(cm, r, c)
		if err != nil {
			return err
		}
		l, err := dist.Distribute(g, dist.MCMR, lRef)
		if err != nil {
			return err
		}
		x, err := dist.Distribute(g, dist.MCMR, xRef)
		if err != nil {
			return err
		}
		if err := comm.Barrier(g.Comm()); err != nil {
			return err
		}
		start := time.Now()
		if err := blas3.TrmmRLT(ctx, o, cfg.Diag(), alpha, l, x, opts...); err != nil {
			return err
		}
		if err := comm.Barrier(g.Comm()); err != nil {
			return err
		}
		result, err := x.Gather()
		if err != nil {
			return err
		}
		if g.Rank() == 0 {
			elapsed = time.Since(start)
			got = result
		}
		return nil
	}, comm.WithLogger(logger))
	if err != nil {
		return err
	}

	want := xRef.Clone()
	if err := matrix.Trmm(matrix.Right, matrix.Lower, o, cfg.Diag(), alpha, lRef, want); err != nil {
		return err
	}
	res := residual(got, want)
	fmt.Fprintf(out, "grid %dx%d  m=%d n=%d nb=%d  orientation=%s diag=%s  variant=%s\n",
		r, c, cfg.M, cfg.N, cfg.Blocksize, o, cfg.Diag(), cfg.ParsedVariant())
	fmt.Fprintf(out, "time %s  relative residual %.3e\n", elapsed.Round(time.Microsecond), res)
	if cfg.Print {
		fmt.Fprintf(out, "L =\n%v\nX·op(L)·alpha =\n%v\n", lRef, got)
	}
	if res > tolerance {
		return fmt.Errorf("%.3e > %.0e: %w", res, tolerance, errResidual)
	}
	return nil
}

// residual is max|got-want| / max(1, max|want|).
func residual[T matrix.Scalar](got, want *matrix.Dense[T]) float64 {
	var diff, norm float64
	gv, wv := got.Values(), want.Values()
	for k := range wv {
		diff = math.Max(diff, matrix.Abs(gv[k]-wv[k]))
		norm = math.Max(norm, matrix.Abs(wv[k]))
	}
	return diff / math.Max(1, norm)
}
