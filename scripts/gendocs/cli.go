package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/leapstack-labs/ratchet/internal/cli"
	"github.com/leapstack-labs/ratchet/internal/cli/commands"
	"github.com/leapstack-labs/ratchet/internal/cli/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// exitCodes documents what a non-zero status means for each command.
var exitCodes = map[string][][]string{
	"check": {
		{"0", "Every rule is within budget"},
		{"1", "At least one budget is exceeded, or the scan failed"},
	},
	"merge-driver": {
		{"0", "Merged result written to <ours>"},
		{"1", "An input could not be read or parsed; <ours> is unchanged and git reports a conflict"},
	},
}

var defaultExitCodes = [][]string{
	{"0", "Success"},
	{"1", "Error (details on stderr)"},
}

// generateCLIDocs writes index.md plus one page per visible command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	cmds := visibleCommands(root)

	pages := map[string]*MarkdownWriter{"index": renderCLIIndex(root, cmds)}
	for _, c := range cmds {
		pages[c.Name()] = renderCommandPage(c)
	}
	for name, w := range pages {
		if err := os.WriteFile(filepath.Join(outDir, name+".md"), w.Bytes(), 0600); err != nil {
			return fmt.Errorf("failed to write %s.md: %w", name, err)
		}
		log.Printf("  Generated %s.md", name)
	}
	return nil
}

func visibleCommands(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, c := range root.Commands() {
		if c.Hidden || c.Name() == "help" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func renderCLIIndex(root *cobra.Command, cmds []*cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for ratchet")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(root.Long)
	w.CodeBlock("bash", "go install github.com/leapstack-labs/ratchet/cmd/ratchet@latest")

	w.Header(2, "Commands")
	rows := make([][]string, 0, len(cmds))
	for _, c := range cmds {
		rows = append(rows, []string{
			fmt.Sprintf("[%s](%s.md)", InlineCode(c.Name()), c.Name()),
			cleanDescription(c.Short),
		})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	writeFlagsTable(w, root.PersistentFlags())

	w.Header(2, "Configuration")
	w.Paragraph(fmt.Sprintf("Settings are read from %s in the project root, then from the environment, then from flags; later sources win.",
		InlineCode(config.DefaultConfigFile)))
	w.Table([]string{"Key", "Environment", "Type"}, configRows(reflect.TypeOf(config.Config{}), ""))
	w.CodeBlock("yaml", config.Template)
	return w
}

// configRows lists every koanf key of t with its RATCHET_ variable. Nested
// structs produce dotted keys, which the environment spells with "__".
func configRows(t reflect.Type, prefix string) [][]string {
	var rows [][]string
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get("koanf")
		if tag == "" || tag == "-" {
			continue
		}
		key := prefix + tag
		if f.Type.Kind() == reflect.Struct {
			rows = append(rows, configRows(f.Type, key+".")...)
			continue
		}
		env := "RATCHET_" + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
		typ := f.Type.Kind().String()
		if f.Type.Kind() == reflect.Slice {
			typ = "list (comma-separated in the environment)"
		}
		rows = append(rows, []string{InlineCode(key), InlineCode(env), typ})
	}
	return rows
}

func renderCommandPage(c *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter(c.Name(), c.Short)
	w.GeneratedMarker()

	w.Header(1, c.Name())
	if c.Long != "" {
		w.Paragraph(c.Long)
	} else {
		w.Paragraph(c.Short)
	}

	w.Header(2, "Usage")
	w.CodeBlock("bash", c.UseLine())

	if c.HasAvailableLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, c.LocalNonPersistentFlags())
	}

	w.Header(2, "Exit Codes")
	codes, ok := exitCodes[c.Name()]
	if !ok {
		codes = defaultExitCodes
	}
	formatted := make([][]string, 0, len(codes))
	for _, row := range codes {
		formatted = append(formatted, []string{InlineCode(row[0]), row[1]})
	}
	w.Table([]string{"Code", "Meaning"}, formatted)

	if c.Name() == "merge-driver" {
		w.Header(2, "Git Setup")
		w.CodeBlock("text", mergeDriverSetup())
	}

	if c.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(c.Example))
	}
	return w
}

// mergeDriverSetup captures the text printed by merge-driver --install-help.
func mergeDriverSetup() string {
	var buf bytes.Buffer
	cmd := commands.NewMergeDriverCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--install-help"})
	if err := cmd.Execute(); err != nil {
		return err.Error()
	}
	return buf.String()
}

func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := "--" + f.Name
		if f.Shorthand != "" {
			name = "-" + f.Shorthand + ", " + name
		}
		def := ""
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
			def = InlineCode(f.DefValue)
		}
		rows = append(rows, []string{InlineCode(name), def, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Flag", "Default", "Description"}, rows)
}

// dedent strips the indentation shared by all non-blank lines.
func dedent(s string) string {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	indent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	for i, l := range lines {
		if len(l) >= indent && indent > 0 {
			lines[i] = l[indent:]
		} else {
			lines[i] = strings.TrimSpace(l)
		}
	}
	return strings.Join(lines, "\n")
}
