// Command relscope-demo walks a directory of JS/TS sources, feeds every
// file through tsfacts into one engine.Engine transaction, and prints the
// derived diagnostics. It exists to exercise the library end-to-end, in
// the spirit of inspector/coder/example/main.go - a small main calling
// straight into the library and printing what came back.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"

	"github.com/viant/relscope/engine"
	"github.com/viant/relscope/ir"
	"github.com/viant/relscope/rules"
	"github.com/viant/relscope/tsfacts"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: relscope-demo <directory>")
		os.Exit(1)
	}
	if err := run(context.Background(), os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "relscope-demo: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, root string) error {
	fs := afs.New()
	interner := ir.NewInterner()
	eng := engine.New(engine.WithInterner(interner))

	var paths []string
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return true, nil
		}
		if !isSourceFile(info.Name()) {
			return true, nil
		}
		paths = append(paths, url.Join(baseURL, path.Join(parent, info.Name())))
		return true, nil
	}
	if err := fs.Walk(ctx, root, visitor); err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}

	if err := eng.TransactionStart(); err != nil {
		return err
	}
	for i, path := range paths {
		code, err := fs.DownloadWithURL(ctx, path)
		if err != nil {
			return fmt.Errorf("download %s: %w", path, err)
		}
		facts, err := tsfacts.Produce(path, code, ir.FileId(i+1), interner)
		if err != nil {
			return fmt.Errorf("produce %s: %w", path, err)
		}
		if err := eng.ApplyUpdates(facts.Updates()); err != nil {
			return fmt.Errorf("apply %s: %w", path, err)
		}
	}

	result, err := eng.TransactionCommit()
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	fmt.Printf("files analyzed: %d\n", len(paths))
	printDiagnostics(interner, result)
	return nil
}

func isSourceFile(name string) bool {
	for _, ext := range []string{".js", ".jsx", ".ts", ".tsx"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func printDiagnostics(interner *ir.Interner, result rules.Result) {
	for _, d := range result.NoUndef {
		fmt.Printf("no-undef: %q at %d-%d (file %d)\n", interner.Text(d.Name), d.Span.Start, d.Span.End, d.File)
	}
	for _, d := range result.TypeofUndef {
		fmt.Printf("typeof-undef: expr %d within typeof %d (file %d)\n", d.Undefined, d.Whole, d.File)
	}
	for _, d := range result.UseBeforeDecl {
		fmt.Printf("use-before-decl: %q used at %d-%d, declared at %d-%d (file %d)\n",
			interner.Text(d.Name), d.UsedIn.Start, d.UsedIn.End, d.DeclaredIn.Start, d.DeclaredIn.End, d.File)
	}
	for _, d := range result.UnusedVariables {
		fmt.Printf("unused-variable: %q declared at %d-%d (file %d)\n", interner.Text(d.Name), d.Span.Start, d.Span.End, d.File)
	}
}
