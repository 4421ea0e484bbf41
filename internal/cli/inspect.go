package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm/rhtml"
	"github.com/pthm/rhtml/lib/dom"
	"github.com/pthm/rhtml/lib/loop"
)

// InspectReport lists what a markup fragment asks of the runtime.
type InspectReport struct {
	Tags     []string        `json:"tags" yaml:"tags"`
	Bindings []BindingReport `json:"bindings" yaml:"bindings"`
}

// BindingReport is one protocol marker found in the markup.
type BindingReport struct {
	Tag   string `json:"tag" yaml:"tag"`
	Kind  string `json:"kind" yaml:"kind"`
	Attr  string `json:"attr" yaml:"attr"`
	Name  string `json:"name" yaml:"name"`
	Value any    `json:"value" yaml:"value"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "List custom tags and bindings in markup",
		Long: `Parse markup and report every custom element tag and every
:prop and @event binding with its decoded value. Reads stdin when no file
is given or the file is "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			markup, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			report, err := Inspect(markup)
			if err != nil {
				return WrapExitError(ExitCommandError, "parse markup", err)
			}
			return f.Print(report, func(w io.Writer) error {
				return writeInspectText(w, report)
			})
		},
	}
}

// Inspect parses markup and collects its tags and bindings.
func Inspect(markup string) (*InspectReport, error) {
	doc := dom.NewDocument(loop.New())
	nodes, err := doc.ParseFragment(markup)
	if err != nil {
		return nil, err
	}

	report := &InspectReport{Tags: []string{}, Bindings: []BindingReport{}}
	seen := make(map[string]bool)
	for _, n := range nodes {
		for _, tag := range dom.CollectTags(n, dom.DescendAll) {
			if !seen[tag] {
				seen[tag] = true
				report.Tags = append(report.Tags, tag)
			}
		}
		elements := append([]*dom.Node{n}, dom.QueryAll(n, func(*dom.Node) bool { return true })...)
		for _, el := range elements {
			if el.Type != dom.ElementNode {
				continue
			}
			for _, b := range rhtml.Bindings(el) {
				report.Bindings = append(report.Bindings, BindingReport{
					Tag:   el.Tag,
					Kind:  bindingKind(b.Kind),
					Attr:  b.Attr,
					Name:  b.Name,
					Value: b.Value,
				})
			}
		}
	}
	return report, nil
}

func bindingKind(k rhtml.BindingKind) string {
	if k == rhtml.ActionBinding {
		return "action"
	}
	return "prop"
}

func writeInspectText(w io.Writer, r *InspectReport) error {
	fmt.Fprintf(w, "tags: %d\n", len(r.Tags))
	for _, tag := range r.Tags {
		fmt.Fprintf(w, "  %s\n", tag)
	}
	fmt.Fprintf(w, "bindings: %d\n", len(r.Bindings))
	for _, b := range r.Bindings {
		if _, err := fmt.Fprintf(w, "  <%s> %s %s = %v\n", b.Tag, b.Kind, b.Attr, b.Value); err != nil {
			return err
		}
	}
	return nil
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", WrapExitError(ExitCommandError, "read stdin", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", WrapExitError(ExitCommandError, "read input", err)
	}
	return string(data), nil
}
