// gdsinfo prints a summary of a binary layout library: header fields,
// structure table and, on request, per-structure element counts. The
// input may be raw or gzip/zstd compressed; compression is detected
// from the leading magic bytes.
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/algorithmx/gdsii-toolbox-146-sub004/observability"
	"github.com/algorithmx/gdsii-toolbox-146-sub004/parser"
	"github.com/algorithmx/gdsii-toolbox-146-sub004/recovery"
	"github.com/algorithmx/gdsii-toolbox-146-sub004/scanner"
	"github.com/algorithmx/gdsii-toolbox-146-sub004/scripting"
)

var (
	flagVerbose  = pflag.BoolP("verbose", "v", false, "log parse progress")
	flagLenient  = pflag.Bool("lenient", false, "skip malformed structures instead of failing")
	flagElements = pflag.BoolP("elements", "e", false, "materialize every structure and print element counts")
	flagValidate = pflag.Bool("validate", false, "check that all references resolve")
	flagRecords  = pflag.Bool("records", false, "dump the raw record stream and exit")
	flagScript   = pflag.String("script", "", "run a JavaScript file against the library")
	flagTimeout  = pflag.Duration("timeout", 30*time.Second, "script execution timeout")
)

func main() {
	pflag.Parse()
	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: gdsinfo [flags] <library>")
		pflag.PrintDefaults()
		os.Exit(2)
	}
	if err := run(pflag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "gdsinfo: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	data, err := readLibrary(path)
	if err != nil {
		return err
	}
	if *flagRecords {
		return dumpRecords(data)
	}

	log := observability.Logger(observability.NopLogger{})
	if *flagVerbose {
		zl, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer zl.Sync()
		log = observability.NewZapLogger(zl)
	}

	cfg := parser.Config{Logger: log}
	var lenient *recovery.LenientStrategy
	if *flagLenient {
		lenient = recovery.NewLenientStrategy()
		cfg.Recovery = lenient
	}

	lib, err := parser.New(cfg).Parse(data)
	if err != nil {
		return err
	}
	defer lib.Close()
	if err := lib.Scan(); err != nil {
		return err
	}

	fmt.Printf("library:  %s (version %d)\n", lib.Name(), lib.Version())
	fmt.Printf("created:  %s\n", lib.Created())
	fmt.Printf("modified: %s\n", lib.Modified())
	fmt.Printf("units:    %g user, %g m\n", lib.UserUnit(), lib.MeterUnit())
	fmt.Printf("structures: %d\n", lib.StructureCount())

	if *flagElements {
		if err := lib.ParseAll(); err != nil {
			return err
		}
		for _, s := range lib.Structures() {
			elems, err := s.Elements()
			if err != nil {
				fmt.Printf("  %-24s <unparsed: %v>\n", s.Name(), err)
				continue
			}
			fmt.Printf("  %-24s %d elements\n", s.Name(), len(elems))
		}
		st := lib.Stats()
		fmt.Printf("elements: %d (%d vertices), ~%s resident\n",
			st.Elements, st.Vertices, humanize.Bytes(uint64(st.MemoryUsage)))
	}

	if *flagValidate {
		if err := lib.Validate(); err != nil {
			return fmt.Errorf("validation failed:\n%w", err)
		}
		fmt.Println("all references resolve")
	}

	if *flagScript != "" {
		if err := runScript(lib, log, *flagScript); err != nil {
			return err
		}
	}

	if lenient != nil && len(lenient.Errors) > 0 {
		fmt.Printf("skipped %d malformed region(s):\n", len(lenient.Errors))
		for _, e := range lenient.Errors {
			fmt.Printf("  %v\n", e)
		}
	}
	return nil
}

// readLibrary loads the file, decompressing gzip or zstd input based
// on the magic bytes.
func readLibrary(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch {
	case bytes.HasPrefix(raw, []byte{0x1f, 0x8b}):
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("gzip input: %w", err)
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case bytes.HasPrefix(raw, []byte{0x28, 0xb5, 0x2f, 0xfd}):
		zr, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		out, err := zr.DecodeAll(raw, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd input: %w", err)
		}
		return out, nil
	}
	return raw, nil
}

// dumpRecords prints every record header in the stream, diagnostics
// only, no structure decoding.
func dumpRecords(data []byte) error {
	cur, err := scanner.NewCursor(data)
	if err != nil {
		return err
	}
	defer cur.Close()
	s := scanner.New(cur, scanner.Config{})
	for {
		rec, err := s.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("%8d  %-14s %d bytes\n", rec.Pos, rec.Type, len(rec.Data))
	}
}

func runScript(lib *parser.Library, log observability.Logger, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	engine := scripting.NewEngine()
	if err := engine.RegisterDOM(scripting.NewLibraryDOM(lib, log)); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), *flagTimeout)
	defer cancel()
	out, err := engine.Execute(ctx, string(src))
	if err != nil {
		return fmt.Errorf("script: %w", err)
	}
	if out != nil {
		fmt.Printf("script result: %v\n", out)
	}
	return nil
}
