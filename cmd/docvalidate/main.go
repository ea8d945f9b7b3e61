// Command docvalidate checks YAML and JSON files against an optional JSON
// Schema.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/docvalidate"
	"github.com/reoring/docvalidate/internal/ctxlog"
	"github.com/reoring/docvalidate/internal/i18n"
)

const usage = `docvalidate - YAML/JSON document validator

Usage:
  docvalidate [options] <file|dir>...

Directories are walked for .json, .yml and .yaml files.

Options:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// fileConfig is the YAML config file layout. Pointers distinguish unset
// toggles from explicit false.
type fileConfig struct {
	Schema              string `yaml:"schema"`
	SchemaDir           string `yaml:"schemaDir"`
	AllowEmptyFile      *bool  `yaml:"allowEmptyFile"`
	DetectDuplicateKeys *bool  `yaml:"detectDuplicateKeys"`
	AllowJSONComments   *bool  `yaml:"allowJsonComments"`
	AllowTrailingComma  *bool  `yaml:"allowTrailingComma"`
	Draft               string `yaml:"draft"`
	Driver              string `yaml:"driver"`
	MaxDepth            int    `yaml:"maxDepth"`
}

type cliConfig struct {
	configPath   string
	schemaPath   string
	schemaDir    string
	allowEmpty   bool
	noDupCheck   bool
	allowComment bool
	allowComma   bool
	draft        string
	driver       string
	maxDepth     int
	output       string
	lang         string
	flat         bool
	verbose      bool
}

// report is the JSON output shape for one file.
type report struct {
	File     string            `json:"file"`
	Valid    bool              `json:"valid"`
	Messages []string          `json:"messages,omitempty"`
	Issues   []issue           `json:"issues,omitempty"`
	Items    []docvalidate.FlatItem `json:"items,omitempty"`
}

type issue struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Keyword string `json:"keyword,omitempty"`
	Title   string `json:"title"`
}

func run(args []string, stdout, stderr io.Writer) int {
	var cfg cliConfig
	fsf := flag.NewFlagSet("docvalidate", flag.ContinueOnError)
	fsf.SetOutput(stderr)
	fsf.Usage = func() {
		fmt.Fprint(stderr, usage)
		fsf.PrintDefaults()
	}
	fsf.StringVar(&cfg.configPath, "config", "", "YAML config file")
	fsf.StringVar(&cfg.schemaPath, "schema", "", "JSON Schema file (.json, .yml or .yaml)")
	fsf.StringVar(&cfg.schemaDir, "schema-dir", "", "directory serving classpath: references (default: the schema's directory)")
	fsf.BoolVar(&cfg.allowEmpty, "allow-empty", false, "accept empty files")
	fsf.BoolVar(&cfg.noDupCheck, "no-dup-check", false, "do not reject duplicate keys")
	fsf.BoolVar(&cfg.allowComment, "allow-comments", false, "accept comments in JSON files")
	fsf.BoolVar(&cfg.allowComma, "allow-trailing-comma", false, "accept trailing commas in JSON files")
	fsf.StringVar(&cfg.draft, "draft", "", "default JSON Schema draft (4, 6, 7, 2019-09, 2020-12)")
	fsf.StringVar(&cfg.driver, "driver", "", "JSON driver (go-json, encoding/json)")
	fsf.IntVar(&cfg.maxDepth, "max-depth", 0, "maximum nesting depth (0 = unlimited)")
	fsf.StringVar(&cfg.output, "output", "text", "output format (text, json)")
	fsf.StringVar(&cfg.lang, "lang", "en", "language of issue labels (en, ja)")
	fsf.BoolVar(&cfg.flat, "flat", false, "print flattened items")
	fsf.BoolVar(&cfg.verbose, "v", false, "enable debug logs")
	if err := fsf.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fsf.NArg() == 0 {
		fsf.Usage()
		return 2
	}
	if cfg.output != "text" && cfg.output != "json" {
		fmt.Fprintf(stderr, "unknown output format %q\n", cfg.output)
		return 2
	}
	if !slices.Contains(i18n.Languages, cfg.lang) {
		fmt.Fprintf(stderr, "unknown language %q (available: %s)\n", cfg.lang, strings.Join(i18n.Languages, ", "))
		return 2
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	set := map[string]bool{}
	fsf.Visit(func(f *flag.Flag) { set[f.Name] = true })

	opts, err := buildOptions(cfg, set)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return 2
	}
	opts.Logger = logger

	files, err := collectFiles(fsf.Args())
	if err != nil {
		logger.Error("cannot list input files", "error", err)
		return 2
	}

	// A validator that cannot be built fails every input with the same cause.
	var validate func(f string) *docvalidate.Result
	v, buildErr := docvalidate.New(docvalidate.WithOptions(opts))
	if buildErr != nil {
		logger.Error("cannot build validator", "error", buildErr)
		validate = func(f string) *docvalidate.Result { return docvalidate.FailedResult(f, buildErr) }
	} else {
		validate = func(f string) *docvalidate.Result { return v.ValidateFile(ctx, f) }
	}

	tr := i18n.New(cfg.lang)
	var reports []report
	failed := 0
	for _, f := range files {
		res := validate(f)
		if res.HasError() {
			failed++
		}
		reports = append(reports, toReport(res, tr, cfg.flat))
	}

	if cfg.output == "json" {
		out, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			logger.Error("cannot encode report", "error", err)
			return 2
		}
		fmt.Fprintln(stdout, string(out))
	} else {
		for _, r := range reports {
			writeText(stdout, r)
		}
	}
	logger.Debug("done", "files", len(files), "failed", failed)
	if buildErr != nil {
		return 2
	}
	if failed > 0 {
		return 1
	}
	return 0
}

// buildOptions layers the config file and then explicitly set flags over
// the defaults.
func buildOptions(cfg cliConfig, set map[string]bool) (docvalidate.Options, error) {
	o := docvalidate.DefaultOptions()
	var fc fileConfig
	if cfg.configPath != "" {
		data, err := os.ReadFile(cfg.configPath)
		if err != nil {
			return o, err
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return o, fmt.Errorf("config %s: %w", cfg.configPath, err)
		}
		base := filepath.Dir(cfg.configPath)
		if fc.Schema != "" && !filepath.IsAbs(fc.Schema) {
			fc.Schema = filepath.Join(base, fc.Schema)
		}
		if fc.SchemaDir != "" && !filepath.IsAbs(fc.SchemaDir) {
			fc.SchemaDir = filepath.Join(base, fc.SchemaDir)
		}
	}

	schemaPath := pick(set["schema"], cfg.schemaPath, fc.Schema)
	schemaDir := pick(set["schema-dir"], cfg.schemaDir, fc.SchemaDir)
	o.AllowEmptyFile = pickBool(set["allow-empty"], cfg.allowEmpty, fc.AllowEmptyFile, o.AllowEmptyFile)
	o.DetectDuplicateKeys = pickBool(set["no-dup-check"], !cfg.noDupCheck, fc.DetectDuplicateKeys, o.DetectDuplicateKeys)
	o.AllowComments = pickBool(set["allow-comments"], cfg.allowComment, fc.AllowJSONComments, o.AllowComments)
	o.AllowTrailingComma = pickBool(set["allow-trailing-comma"], cfg.allowComma, fc.AllowTrailingComma, o.AllowTrailingComma)
	if d := pick(set["draft"], cfg.draft, fc.Draft); d != "" {
		o.Draft = d
	}
	drv, err := docvalidate.ParseJSONDriver(pick(set["driver"], cfg.driver, fc.Driver))
	if err != nil {
		return o, err
	}
	o.JSONDriver = drv
	o.MaxDepth = fc.MaxDepth
	if set["max-depth"] {
		o.MaxDepth = cfg.maxDepth
	}

	if schemaPath != "" {
		data, err := os.ReadFile(schemaPath)
		if err != nil {
			return o, err
		}
		o.SchemaName = filepath.Base(schemaPath)
		o.Schema = data
		if schemaDir == "" {
			schemaDir = filepath.Dir(schemaPath)
		}
	}
	if schemaDir != "" {
		o.SchemaFS = os.DirFS(schemaDir)
	}
	return o, nil
}

func pick(flagSet bool, flagVal, fileVal string) string {
	if flagSet {
		return flagVal
	}
	return fileVal
}

func pickBool(flagSet, flagVal bool, fileVal *bool, def bool) bool {
	switch {
	case flagSet:
		return flagVal
	case fileVal != nil:
		return *fileVal
	default:
		return def
	}
}

func collectFiles(args []string) ([]string, error) {
	var out []string
	for _, a := range args {
		st, err := os.Stat(a)
		if err != nil {
			// Reported per file by the validator.
			out = append(out, a)
			continue
		}
		if !st.IsDir() {
			out = append(out, a)
			continue
		}
		err = filepath.WalkDir(a, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(p)) {
			case ".json", ".yml", ".yaml":
				out = append(out, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func toReport(res *docvalidate.Result, tr i18n.Translator, flat bool) report {
	r := report{File: res.Name, Valid: !res.HasError(), Messages: res.Messages}
	for _, it := range res.Issues {
		r.Issues = append(r.Issues, issue{Path: it.Path, Code: it.Code, Message: it.Message, Keyword: it.Keyword, Title: tr.Message(it.Code)})
	}
	if flat {
		r.Items = res.FlatOrder
	}
	return r
}

func writeText(w io.Writer, r report) {
	status := "OK"
	if !r.Valid {
		status = "FAIL"
	}
	fmt.Fprintf(w, "%s %s\n", status, r.File)
	for i, m := range r.Messages {
		if i < len(r.Issues) {
			fmt.Fprintf(w, "  [%s] %s\n", r.Issues[i].Title, m)
			continue
		}
		fmt.Fprintf(w, "  %s\n", m)
	}
	if len(r.Items) == 0 {
		return
	}
	for _, it := range r.Items {
		fmt.Fprintf(w, "  %s = %s\n", it.Path, it.Value)
	}
}
