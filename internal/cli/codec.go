package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pthm/rhtml/lib/encoding"
)

// CodecResult is the structured output of encode and decode.
type CodecResult struct {
	Input string `json:"input" yaml:"input"`
	Value any    `json:"value" yaml:"value"`
	Attr  string `json:"attr" yaml:"attr"`
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	var asString bool
	var prop string

	cmd := &cobra.Command{
		Use:   "encode <value>",
		Short: "Encode a value as a prop attribute",
		Long: `Encode a value into the urienc attribute form.

The argument is read as JSON when it parses as JSON, otherwise as a plain
string. Use --string to force the plain string form.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			value := any(args[0])
			if !asString {
				var decoded any
				if err := json.Unmarshal([]byte(args[0]), &decoded); err == nil {
					value = decoded
				}
			}

			attr := encoding.Encode(value)
			if attr == "" && value != nil {
				return NewExitError(ExitCommandError, "value cannot be encoded")
			}
			if prop != "" {
				attr = encoding.PropAttr(prop) + `="` + attr + `"`
			}

			return f.Print(CodecResult{Input: args[0], Value: value, Attr: attr}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, attr)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&asString, "string", false, "treat the argument as a plain string")
	cmd.Flags().StringVarP(&prop, "prop", "p", "", "emit a complete :prop=\"...\" attribute for this prop")
	return cmd
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <attr-value>",
		Short: "Decode a prop attribute value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			value := encoding.Parse(args[0])

			return f.Print(CodecResult{Input: args[0], Value: value, Attr: args[0]}, func(w io.Writer) error {
				data, err := json.Marshal(value)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(w, string(data))
				return err
			})
		},
	}
}
