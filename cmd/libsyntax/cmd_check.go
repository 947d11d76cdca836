package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/dhamidi/libsyntax/ast"
	"github.com/dhamidi/libsyntax/config"
	"github.com/dhamidi/libsyntax/ide"
	"github.com/dhamidi/libsyntax/text"
	"github.com/dhamidi/libsyntax/treesitter"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
)

var checkLog = commonlog.GetLogger("libsyntax.check")

type checkResult struct {
	path        string
	diagnostics []string
	mismatches  []treesitter.Mismatch
	err         error
}

func newCheckCmd() *cobra.Command {
	var crossCheck bool

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Report syntax errors in Rust files and directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectFiles(args, cfg.Check.Extensions)
			if err != nil {
				return err
			}
			results, err := runCheck(files, cfg.Check, crossCheck)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var failed int
			for _, r := range results {
				if r.err != nil {
					fmt.Fprintf(out, "%s: %v\n", r.path, r.err)
					failed++
					continue
				}
				for _, d := range r.diagnostics {
					fmt.Fprintf(out, "%s:%s\n", r.path, d)
				}
				for _, m := range r.mismatches {
					fmt.Fprintf(out, "%s: outline mismatch %s\n", r.path, m)
				}
				if len(r.diagnostics) > 0 || len(r.mismatches) > 0 {
					failed++
				}
			}
			fmt.Fprintf(out, "checked %d files, %d with problems\n", len(results), failed)
			if failed > 0 {
				return fmt.Errorf("%d files with problems", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&crossCheck, "cross-check", false, "compare each outline with the tree-sitter Rust grammar")

	return cmd
}

// collectFiles expands directories in paths to the files below them whose
// extension is one of exts. Files named explicitly are always kept.
func collectFiles(paths []string, exts []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != path && d.Name() != "." && d.Name()[0] == '.' {
					return filepath.SkipDir
				}
				return nil
			}
			if slices.Contains(exts, filepath.Ext(p)) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", path, err)
		}
	}
	return files, nil
}

// runCheck parses files with at most cfg.Workers goroutines. Results keep
// the order of files.
func runCheck(files []string, cfg config.CheckConfig, crossCheck bool) ([]checkResult, error) {
	results := make([]checkResult, len(files))
	var g errgroup.Group
	g.SetLimit(cfg.Workers)
	for i, path := range files {
		g.Go(func() error {
			results[i] = checkFile(path, crossCheck)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func checkFile(path string, crossCheck bool) checkResult {
	result := checkResult{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		result.err = err
		return result
	}
	src := string(data)
	file := ast.Parse(src)
	lines := text.NewLineIndex(src)
	for _, d := range ide.Diagnostics(file) {
		pos := lines.LineCol(d.Range.Start)
		result.diagnostics = append(result.diagnostics, fmt.Sprintf("%d:%d: %s", pos.Line+1, pos.Col+1, d.Message))
	}
	checkLog.Debugf("%s: %d diagnostics", path, len(result.diagnostics))

	if crossCheck {
		items, err := treesitter.Outline(data)
		if err != nil {
			result.err = err
			return result
		}
		result.mismatches = treesitter.Compare(ide.FileStructure(file), items)
	}
	return result
}
