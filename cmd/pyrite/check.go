package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"pyrite/internal/diag"
	"pyrite/internal/diagfmt"
	"pyrite/internal/driver"
	"pyrite/internal/project"
	"pyrite/internal/ui"
)

var (
	checkFormat     string
	checkJobs       int
	checkNoWarnings bool
	checkNoCache    bool
	checkModules    []string
)

func init() {
	checkCmd.Flags().StringVar(&checkFormat, "format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().IntVar(&checkJobs, "jobs", 0, "parallel module checks (0 = all CPUs)")
	checkCmd.Flags().BoolVar(&checkNoWarnings, "no-warnings", false, "show errors only")
	checkCmd.Flags().BoolVar(&checkNoCache, "no-cache", false, "skip the on-disk result cache")
	checkCmd.Flags().StringSliceVar(&checkModules, "module", nil, "check only these module paths (default: every bundle)")
}

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Check every module bundle under a project directory",
	Long: `Check loads AST bundles (` + driver.BundleExt + ` files) from the project
directory, resolves imports, orders modules and runs semantic analysis.
The directory may hold a pyrite.toml manifest; its package.root then
points at the bundle tree.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	baseDir := "."
	if len(args) > 0 && args[0] != "" {
		baseDir = args[0]
	}
	root, err := resolveBundleRoot(baseDir)
	if err != nil {
		return err
	}

	loader := driver.DirLoader{Root: root}
	roots := checkModules
	if len(roots) == 0 {
		roots, err = loader.ListModules()
		if err != nil {
			return fmt.Errorf("failed to scan %q: %w", root, err)
		}
	}
	if len(roots) == 0 {
		return fmt.Errorf("no %s bundles under %q", driver.BundleExt, root)
	}

	maxDiag, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	opts := driver.Options{
		Jobs:           checkJobs,
		MaxDiagnostics: maxDiag,
	}
	if !checkNoCache {
		if cache, err := driver.OpenDiskCache("pyrite"); err == nil {
			opts.Cache = cache
		}
	}

	result, err := driver.CheckProject(cmd.Context(), loader, roots, opts)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if err := renderCheck(cmd, result); err != nil {
		return err
	}
	if result.HasErrors() {
		os.Exit(1)
	}
	return nil
}

// resolveBundleRoot maps the command argument to the directory holding the
// bundles, honoring a pyrite.toml manifest when one is present.
func resolveBundleRoot(baseDir string) (string, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to stat %q: %w", baseDir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%q is not a directory", baseDir)
	}
	manifestPath, ok, err := project.FindManifest(baseDir)
	if err != nil {
		return "", err
	}
	if !ok {
		return baseDir, nil
	}
	manifest, err := project.LoadManifest(manifestPath)
	if err != nil {
		return "", fmt.Errorf("failed to load %q: %w", manifestPath, err)
	}
	return project.ResolvePackageRoot(filepath.Dir(manifestPath), manifest.Package.Root)
}

func renderCheck(cmd *cobra.Command, result *driver.Result) error {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}

	// report in dependency order, blocked and cyclic modules last
	paths := append([]string(nil), result.Order...)
	inOrder := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		inOrder[p] = struct{}{}
	}
	var rest []string
	for p := range result.Modules {
		if _, ok := inOrder[p]; !ok {
			rest = append(rest, p)
		}
	}
	sort.Strings(rest)
	paths = append(paths, rest...)

	switch strings.ToLower(checkFormat) {
	case "pretty":
		colorMode := diagfmt.ColorAuto
		switch colorFlag {
		case "on":
			colorMode = diagfmt.ColorAlways
		case "off":
			colorMode = diagfmt.ColorNever
		}
		prettyOpts := diagfmt.PrettyOpts{
			Color:      colorMode,
			ShowSource: true,
			ShowNotes:  true,
			NoWarnings: checkNoWarnings,
		}
		statuses := make([]ui.ModuleStatus, 0, len(paths))
		totalErrors, totalWarnings := 0, 0
		for _, path := range paths {
			m := result.Modules[path]
			diagfmt.Pretty(os.Stdout, m.Bag, result.Files, prettyOpts)
			errs, warns := countBySeverity(m.Bag)
			totalErrors += errs
			totalWarnings += warns
			statuses = append(statuses, ui.ModuleStatus{
				Path:     path,
				Errors:   errs,
				Warnings: warns,
				CacheHit: m.CacheHit,
			})
		}
		if !quiet {
			fmt.Print(ui.RenderModuleList(statuses, terminalWidth()))
			fmt.Print(ui.RenderSummary(len(paths), totalErrors, totalWarnings))
		}
	case "json":
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			IncludeFixes:     true,
		}
		output := make(map[string]diagfmt.DiagnosticsOutput, len(paths))
		for _, path := range paths {
			output[path] = diagfmt.BuildDiagnosticsOutput(result.Modules[path].Bag, result.Files, jsonOpts)
		}
		if err := writeJSON(os.Stdout, output); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", checkFormat)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func countBySeverity(bag *diag.Bag) (errs, warns int) {
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	return errs, warns
}
