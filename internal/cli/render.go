package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pthm/rhtml"
	"github.com/pthm/rhtml/lib/dom"
	"github.com/pthm/rhtml/lib/encoding"
	"github.com/pthm/rhtml/lib/loop"
)

// ComponentSource is a component defined from a template file.
type ComponentSource struct {
	Name     string
	Props    []string
	Template string
}

// RenderResult is the outcome of rendering a page.
type RenderResult struct {
	HTML      string   `json:"html" yaml:"html"`
	Instances int      `json:"instances" yaml:"instances"`
	Undefined []string `json:"undefined,omitempty" yaml:"undefined,omitempty"`
	Errors    []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	var componentFlags []string

	cmd := &cobra.Command{
		Use:   "render [page]",
		Short: "Render a page with template-file components",
		Long: `Render page markup, upgrading every custom element defined with
--component, and print the result with declarative shadow roots.

Components are given as name[:prop,prop...]=path. The file is a Go
text/template executed with .Props, .ID and .Slots, and the helpers
encode, bind and on:

  rhtml render page.html -c user-card:name,role=card.tmpl`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			page, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			sources := make([]ComponentSource, 0, len(componentFlags))
			for _, value := range componentFlags {
				src, err := loadComponent(value)
				if err != nil {
					return err
				}
				sources = append(sources, src)
			}

			result, err := Render(cmd.Context(), page, sources, f.Logger())
			if err != nil {
				return err
			}
			if err := f.Print(result, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, result.HTML)
				return err
			}); err != nil {
				return err
			}
			if len(result.Undefined) > 0 || len(result.Errors) > 0 {
				return NewExitError(ExitFailure,
					fmt.Sprintf("render incomplete: %d undefined tag(s), %d error(s)", len(result.Undefined), len(result.Errors)))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&componentFlags, "component", "c", nil, "component as name[:props]=path (repeatable)")
	return cmd
}

// loadComponent reads a name[:props]=path flag value.
func loadComponent(value string) (ComponentSource, error) {
	head, path, ok := strings.Cut(value, "=")
	if !ok || head == "" || path == "" {
		return ComponentSource{}, NewExitError(ExitCommandError,
			fmt.Sprintf("invalid component %q: want name[:props]=path", value))
	}
	name, props, _ := strings.Cut(head, ":")
	data, err := os.ReadFile(path)
	if err != nil {
		return ComponentSource{}, WrapExitError(ExitCommandError, "read component "+name, err)
	}

	src := ComponentSource{Name: name, Template: string(data)}
	if props != "" {
		src.Props = strings.Split(props, ",")
	}
	return src, nil
}

// Render mounts page in a fresh document with the given components and
// returns the serialized body once the loop is idle.
func Render(ctx context.Context, page string, sources []ComponentSource, log *zap.Logger) (*RenderResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	l := loop.New()
	doc := dom.NewDocument(l)
	reg := rhtml.NewRegistry(l, doc, rhtml.WithLogger(log), rhtml.WithContext(ctx))

	result := &RenderResult{}
	reg.OnError = func(c *rhtml.Instance, err error) {
		c.Logger().Warn("render failed", zap.Error(err))
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", c.Name(), err))
	}

	for _, src := range sources {
		def, err := templateDefinition(src)
		if err != nil {
			return nil, err
		}
		if _, err := reg.Define(def); err != nil {
			return nil, WrapExitError(ExitCommandError, "define "+src.Name, err)
		}
	}

	nodes, err := doc.ParseFragment(page)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "parse page", err)
	}
	for _, n := range nodes {
		doc.Body().AppendChild(n)
	}
	l.RunUntilIdle()

	for _, tag := range dom.CollectTags(doc.Body(), dom.DescendAll) {
		if _, ok := reg.Lookup(tag); !ok {
			result.Undefined = append(result.Undefined, tag)
		}
	}
	slices.Sort(result.Undefined)
	if len(result.Undefined) > 0 {
		log.Warn("undefined tags left as plain elements", zap.Strings("tags", result.Undefined))
	}

	result.HTML = dom.InnerHTML(doc.Body())
	result.Instances = reg.Len()
	return result, nil
}

var templateFuncs = template.FuncMap{
	"encode": encoding.Encode,
	"bind":   rhtml.BindAttr,
	"on":     rhtml.OnAttr,
}

// templateDefinition builds a definition whose template executes src.
func templateDefinition(src ComponentSource) (rhtml.Definition, error) {
	tmpl, err := template.New(src.Name).Funcs(templateFuncs).Option("missingkey=zero").Parse(src.Template)
	if err != nil {
		return rhtml.Definition{}, WrapExitError(ExitCommandError, "parse component "+src.Name, err)
	}

	return rhtml.Definition{
		Name:  src.Name,
		Props: src.Props,
		Template: func(_ context.Context, c *rhtml.Instance) (string, error) {
			var sb strings.Builder
			err := tmpl.Execute(&sb, map[string]any{
				"Props": c.Props(),
				"ID":    c.ID(),
				"Slots": c.Slots(),
			})
			return sb.String(), err
		},
	}, nil
}
