package blas3

import (
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultBlocksize is the panel width of the blocked loops.
	DefaultBlocksize = 128

	// DefaultRoutingRatio selects the panel-broadcast variant when
	// L.Height() > DefaultRoutingRatio*X.Height().
	DefaultRoutingRatio = 5
)

// Variant selects the TrmmRLT algorithm.
type Variant uint8

const (
	// VariantAuto routes by the shape heuristic.
	VariantAuto Variant = iota
	// VariantPanelBroadcast walks row panels of X (the "A" variant).
	VariantPanelBroadcast
	// VariantBlockedDiagonal walks the diagonal of L (the "C" variant).
	VariantBlockedDiagonal
)

// String returns the variant name.
func (v Variant) String() string {
	switch v {
	case VariantAuto:
		return "auto"
	case VariantPanelBroadcast:
		return "panel-broadcast"
	case VariantBlockedDiagonal:
		return "blocked-diagonal"
	default:
		return fmt.Sprintf("Variant(%d)", uint8(v))
	}
}

// ParseVariant accepts "auto", "panel-broadcast" (or "a") and
// "blocked-diagonal" (or "c"), case-insensitively.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return VariantAuto, nil
	case "a", "panel", "panel-broadcast":
		return VariantPanelBroadcast, nil
	case "c", "blocked", "blocked-diagonal":
		return VariantBlockedDiagonal, nil
	}
	return VariantAuto, fmt.Errorf("blas3: unknown variant %q", s)
}

// Options configures the blocked routines.
//
//   - Blocksize: panel width of the outer loops. Must be ≥ 1. Default 128.
//   - RoutingRatio: height ratio above which TrmmRLT picks the
//     panel-broadcast variant. Must be ≥ 0. Default 5.
//   - Variant: forces a TrmmRLT variant. Default VariantAuto.
//   - Tracer: OpenTelemetry tracer for operation spans. Default: the global
//     provider's tracer for this package.
//   - Logger: debug logger for routing decisions. Default slog.Default().
type Options struct {
	Blocksize    int
	RoutingRatio int
	Variant      Variant
	Tracer       trace.Tracer
	Logger       *slog.Logger
}

// Option represents a functional option for the blocked routines.
type Option func(*Options)

// WithBlocksize sets the panel width. Panics on n < 1.
func WithBlocksize(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("blas3: blocksize must be positive, got %d", n))
	}
	return func(o *Options) { o.Blocksize = n }
}

// WithRoutingRatio sets the TrmmRLT routing ratio. Panics on r < 0.
func WithRoutingRatio(r int) Option {
	if r < 0 {
		panic(fmt.Sprintf("blas3: routing ratio must be non-negative, got %d", r))
	}
	return func(o *Options) { o.RoutingRatio = r }
}

// WithVariant forces the TrmmRLT variant.
func WithVariant(v Variant) Option {
	return func(o *Options) { o.Variant = v }
}

// WithTracer sets the tracer used for spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *Options) {
		if t != nil {
			o.Tracer = t
		}
	}
}

// WithLogger sets the debug logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Blocksize:    DefaultBlocksize,
		RoutingRatio: DefaultRoutingRatio,
		Variant:      VariantAuto,
		Tracer:       getTracer(),
		Logger:       slog.Default(),
	}
}

func gatherOptions(user ...Option) Options {
	o := DefaultOptions()
	for _, set := range user {
		set(&o)
	}
	return o
}
