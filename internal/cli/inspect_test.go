package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inspectMarkup = `<todo-list :items="urienc%5B1%2C2%5D"><todo-item @saved="onSaved" :title="Milk"></todo-item></todo-list>`

func TestInspect(t *testing.T) {
	report, err := Inspect(inspectMarkup)
	require.NoError(t, err)

	assert.Equal(t, []string{"todo-list", "todo-item"}, report.Tags)
	require.Len(t, report.Bindings, 3)
	assert.Equal(t, []any{float64(1), float64(2)}, report.Bindings[0].Value)
	assert.Equal(t, "action", report.Bindings[1].Kind)
	assert.Equal(t, "Milk", report.Bindings[2].Value)
}

func TestInspectCommand_Golden(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(inspectMarkup))
	cmd.SetArgs([]string{"--format", "json", "inspect"})
	require.NoError(t, cmd.Execute())

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "inspect", out.Bytes())
}

func TestInspectCommand_Text(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(`<p :n="3"></p>`))
	cmd.SetArgs([]string{"inspect", "-"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "tags: 0\nbindings: 1\n  <p> prop :n = 3\n", out.String())
}

func TestInspectCommand_MissingFile(t *testing.T) {
	_, err := execute(t, "inspect", "/nonexistent/page.html")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
