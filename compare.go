package rpcdiff

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/openbindings/rpcdiff/schemadiff"
)

// Side names the left or right input of a comparison.
type Side = schemadiff.Side

const (
	Left  = schemadiff.Left
	Right = schemadiff.Right
)

// SideError reports a failure to obtain the document for one side.
type SideError struct {
	Side Side
	Path string
	Err  error
}

func (e *SideError) Error() string {
	if e == nil {
		return "side error"
	}
	return fmt.Sprintf("%s document %s: %v", e.Side, e.Path, e.Err)
}

func (e *SideError) Unwrap() error { return e.Err }

// Loader turns a path into a comparable Document.
type Loader interface {
	Load(ctx context.Context, path string) (*Document, error)
}

type compareOptions struct {
	concurrency int
	logger      *slog.Logger
	methods     []string
}

// CompareOption configures Compare and CompareFiles.
type CompareOption func(*compareOptions)

// WithConcurrency diffs up to n methods at once. Values below 1 mean sequential.
func WithConcurrency(n int) CompareOption {
	return func(o *compareOptions) { o.concurrency = n }
}

// WithLogger sets the logger used for debug output. Nil means slog.Default().
func WithLogger(l *slog.Logger) CompareOption {
	return func(o *compareOptions) { o.logger = l }
}

// WithMethods limits the comparison to methods whose names match at least one
// of the glob patterns (doublestar syntax, e.g. "pet_*" or "{get,list}_*").
// Methods that match no pattern are left out of every Summary list.
func WithMethods(patterns ...string) CompareOption {
	return func(o *compareOptions) { o.methods = append(o.methods, patterns...) }
}

func buildOptions(opts []CompareOption) compareOptions {
	o := compareOptions{concurrency: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.concurrency < 1 {
		o.concurrency = 1
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// Compare diffs every method of left against right and assembles the Summary.
// The first failing method aborts the comparison; no partial Summary is returned.
func Compare(ctx context.Context, left, right *Document, opts ...CompareOption) (*Summary, error) {
	o := buildOptions(opts)
	for _, p := range o.methods {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("method pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}
	v := Partition(selectMethods(left.Methods, o.methods), selectMethods(right.Methods, o.methods))

	verdicts := make([]*MethodChange, len(v.Common))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, name := range v.Common {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ls, rs := left.Methods[name], right.Methods[name]
			if ls.Name == "" {
				ls = &Signature{Name: name, Params: ls.Params, Result: ls.Result}
			}
			mc, err := PairSignatures(ls, rs, left.Definitions, right.Definitions)
			if err != nil {
				return err
			}
			verdicts[i] = mc
			o.logger.Debug("method compared", "method", name, "equivalent", mc == nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byName := make(map[string]*MethodChange, len(v.Common))
	for i, name := range v.Common {
		byName[name] = verdicts[i]
	}
	s := Assemble(v, byName)
	o.logger.Debug("comparison assembled",
		"equivalent", len(s.Equivalent), "different", len(s.Different),
		"left_only", len(s.Left), "right_only", len(s.Right))
	return s, nil
}

// selectMethods returns the methods whose names match one of patterns, or all
// of them when there are no patterns. The input map is not modified.
func selectMethods(methods map[string]*Signature, patterns []string) map[string]*Signature {
	if len(patterns) == 0 {
		return methods
	}
	out := make(map[string]*Signature, len(methods))
	for name, sig := range methods {
		for _, p := range patterns {
			if ok, _ := doublestar.Match(p, name); ok {
				out[name] = sig
				break
			}
		}
	}
	return out
}

// CompareFiles loads both documents through loader and compares them. Load
// failures are wrapped in a *SideError.
func CompareFiles(ctx context.Context, loader Loader, leftPath, rightPath string, opts ...CompareOption) (*Summary, error) {
	o := buildOptions(opts)
	paths := [2]string{leftPath, rightPath}
	sides := [2]Side{Left, Right}
	var docs [2]*Document

	g, gctx := errgroup.WithContext(ctx)
	for i := range paths {
		g.Go(func() error {
			start := time.Now()
			doc, err := loader.Load(gctx, paths[i])
			if err != nil {
				return &SideError{Side: sides[i], Path: paths[i], Err: err}
			}
			o.logger.Debug("document loaded", "side", sides[i], "path", paths[i],
				"methods", len(doc.Methods), "elapsed", time.Since(start))
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Compare(ctx, docs[0], docs[1], opts...)
}
