package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/snipdoc/snipdoc/internal/config"
	"github.com/snipdoc/snipdoc/internal/goanalyzer"
	"github.com/snipdoc/snipdoc/internal/include"
	"github.com/snipdoc/snipdoc/internal/render"
	"github.com/snipdoc/snipdoc/internal/simplelogger"
)

// stringOptions maps extract's string-valued flags to directive option keys.
// Flag names deliberately mirror the directive vocabulary.
var stringOptions = []string{
	"dedent",
	"encoding",
	"lines",
	"pyobject",
	"lineno-start",
	"start-after",
	"start-at",
	"end-before",
	"end-at",
	"diff",
	"diff-context",
	"prepend",
	"append",
	"emphasize-lines",
	"tab-width",
	"language",
	"caption",
}

func newExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Extract a region of a source file as a documentation block",
		Long: `Extract selects, trims, and annotates a block of lines from FILE.

At most one coarse selector (--lines or --pyobject) narrows the file, then
optional anchors (--start-after/--start-at, --end-before/--end-at) trim the
region by substring match. --diff replaces the file content with a unified
diff against a reference file. The block is printed raw by default; --render
adds syntax highlighting, line numbers, and emphasis markers.`,
		Args: cobra.ExactArgs(1),
		RunE: runExtract,
	}

	f := cmd.Flags()
	f.String("dedent", "", "strip N leading characters from every line")
	f.String("encoding", "", "text encoding of the included file (default utf-8)")
	f.String("lines", "", `explicit line selection, e.g. "1,3-5,9-"`)
	f.String("pyobject", "", `named code object to include, e.g. "Point.Scale"`)
	f.Bool("lines-match-source", false, "number lines as in the source file")
	f.Bool("linenos", false, "number lines starting at 1")
	f.String("lineno-start", "", "number lines starting at N")
	f.String("start-after", "", "drop lines up to and including the first match")
	f.String("start-at", "", "drop lines before the first match (match kept)")
	f.String("end-before", "", "stop at the first match (match dropped)")
	f.String("end-at", "", "stop at the first match (match kept)")
	f.String("diff", "", "include a unified diff against this reference file")
	f.String("diff-context", "", "context lines per diff hunk")
	f.String("prepend", "", "insert a literal line before the block")
	f.String("append", "", "append a literal line after the block")
	f.String("emphasize-lines", "", "lines of the final block to emphasize")
	f.String("tab-width", "", "expand tabs to N columns")
	f.String("language", "", "language tag for the block")
	f.String("caption", "", "caption for the block (empty value uses FILE)")
	f.Bool("render", false, "render with highlighting and line numbers")
	f.String("theme", "", "chroma style for --render")
	f.String("color", "", "colorize output: auto, on, or off")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, cfgPath, err := config.Load()
	if err != nil {
		return err
	}
	if cfgPath != "" {
		simplelogger.Log("extract: config loaded from %s", cfgPath)
	}

	raw, err := directiveOptions(cmd, cfg)
	if err != nil {
		return err
	}
	directive, err := include.ParseDirective(args[0], raw)
	if err != nil {
		return err
	}
	simplelogger.Log("extract: %s options=%v", args[0], raw)

	extractor := &include.Extractor{Resolver: goanalyzer.New()}
	block, diag := extractor.Extract(directive.Options, include.Source{})
	if diag != nil {
		return reportDiagnostic(cmd, diag)
	}

	var caption string
	if directive.Caption != nil {
		caption = *directive.Caption
		if caption == "" {
			caption = directive.Options.Path
		}
		if _, diag := include.Wrap(block, caption, nil, include.Source{}); diag != nil {
			return reportDiagnostic(cmd, diag)
		}
	}

	out := cmd.OutOrStdout()
	useColor := colorEnabled(cmd, cfg, out)

	if caption != "" {
		if useColor {
			color.New(color.Bold).Fprintln(out, caption)
		} else {
			fmt.Fprintln(out, caption)
		}
	}

	if renderFlag, _ := cmd.Flags().GetBool("render"); renderFlag {
		theme := cfg.Theme
		if cmd.Flags().Changed("theme") {
			theme, _ = cmd.Flags().GetString("theme")
		}
		return render.Render(out, block, render.Options{Theme: theme, Color: useColor})
	}

	_, err = io.WriteString(out, block.Text)
	return err
}

// directiveOptions collects the changed extract flags into a raw directive
// option map, layering config defaults underneath.
func directiveOptions(cmd *cobra.Command, cfg config.Config) (map[string]string, error) {
	f := cmd.Flags()
	raw := make(map[string]string)
	for _, name := range stringOptions {
		if f.Changed(name) {
			value, err := f.GetString(name)
			if err != nil {
				return nil, err
			}
			raw[name] = value
		}
	}
	if matchSource, _ := f.GetBool("lines-match-source"); matchSource {
		raw["lines-match-source"] = ""
	}
	if linenos, _ := f.GetBool("linenos"); linenos {
		raw["linenos"] = ""
	}

	if _, ok := raw["encoding"]; !ok && cfg.Encoding != "" {
		raw["encoding"] = cfg.Encoding
	}
	if _, ok := raw["tab-width"]; !ok && cfg.TabWidth > 0 {
		raw["tab-width"] = strconv.Itoa(cfg.TabWidth)
	}
	if _, ok := raw["diff-context"]; !ok && cfg.DiffContext > 0 {
		raw["diff-context"] = strconv.Itoa(cfg.DiffContext)
	}
	return raw, nil
}

// colorEnabled resolves the color mode: the --color flag wins over config;
// "auto" means "only when the output stream is a terminal".
func colorEnabled(cmd *cobra.Command, cfg config.Config, out io.Writer) bool {
	mode := cfg.Color
	if cmd.Flags().Changed("color") {
		mode, _ = cmd.Flags().GetString("color")
	}
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(out)
	}
}
