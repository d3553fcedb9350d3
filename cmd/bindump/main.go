package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/wippyai/bincodec/codec"
	"github.com/wippyai/bincodec/compiler"
	"github.com/wippyai/bincodec/layout"
)

func main() {
	var (
		layoutFile  = flag.String("layout", "", "Path to YAML layout file")
		typeName    = flag.String("type", "", "Layout type to decode (default: first declared)")
		text        = flag.Bool("text", false, "Decode input as text")
		partial     = flag.Bool("partial", false, "Allow trailing bytes after the value")
		jobs        = flag.Int("j", runtime.GOMAXPROCS(0), "Files decoded in parallel")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *layoutFile == "" || flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: bindump -layout <file.yaml> [-type name] [-text] [-partial] files...")
		fmt.Fprintln(os.Stderr, "       bindump -layout <file.yaml> -i files...  (interactive mode)")
		os.Exit(1)
	}

	log := zap.NewNop()
	if *verbose {
		var err error
		if log, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()
	}

	opts := options{typeName: *typeName, text: *text, partial: *partial, jobs: *jobs}
	results, err := run(context.Background(), log, *layoutFile, flag.Args(), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: -i requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	failed := false
	for _, r := range results {
		if r.err != nil {
			failed = true
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.file, r.err)
			continue
		}
		if len(results) > 1 {
			fmt.Printf("# %s\n", r.file)
		}
		fmt.Printf("%s\n", r.json)
	}
	if failed {
		os.Exit(1)
	}
}

type options struct {
	typeName string
	text     bool
	partial  bool
	jobs     int
}

// result is the outcome of decoding one file.
type result struct {
	file string
	json []byte
	rest int
	err  error
}

func run(ctx context.Context, log *zap.Logger, layoutFile string, files []string, opts options) ([]result, error) {
	c := compiler.New(compiler.Config{Logger: log})

	l, err := layout.Load(layoutFile, c)
	if err != nil {
		return nil, err
	}
	name := opts.typeName
	if name == "" {
		if len(l.Names()) == 0 {
			return nil, fmt.Errorf("layout %s declares no types", layoutFile)
		}
		name = l.Names()[0]
	}
	p, err := l.Codec(name)
	if err != nil {
		return nil, err
	}
	log.Debug("decoding", zap.String("type", name), zap.Int("files", len(files)))

	results := make([]result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.jobs, 1))
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = decodeFile(log, p, file, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func decodeFile(log *zap.Logger, p *compiler.Procedure, file string, opts options) result {
	r := result{file: file}
	data, err := os.ReadFile(file)
	if err != nil {
		r.err = fmt.Errorf("read file: %w", err)
		return r
	}

	src := codec.FromBytes(data)
	if opts.text {
		src = codec.FromString(string(data))
	}
	v, rest, err := p.Decode(src, nil)
	if err != nil {
		r.err = err
		return r
	}
	r.rest = rest.Len()
	if r.rest > 0 && !opts.partial {
		r.err = fmt.Errorf("%d trailing bytes at offset %d", r.rest, rest.Offset())
		return r
	}
	if r.json, err = render(v); err != nil {
		r.err = fmt.Errorf("render: %w", err)
		return r
	}
	log.Debug("decoded", zap.String("file", file), zap.Int("bytes", len(data)), zap.Int("rest", r.rest))
	return r
}
