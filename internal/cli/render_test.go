package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRender(t *testing.T) {
	sources := []ComponentSource{
		{Name: "user-card", Props: []string{"name"}, Template: `<p>{{.Props.name}}</p>`},
		{Name: "user-list", Props: []string{"items"}, Template: `{{range .Props.items}}<user-card {{bind "name" .}}></user-card>{{end}}`},
	}

	result, err := Render(context.Background(),
		`<user-list :items="urienc%5B%22a%22%2C%22b%22%5D"></user-list>`, sources, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Instances)
	assert.Empty(t, result.Undefined)
	assert.Empty(t, result.Errors)
	assert.Contains(t, result.HTML, `<template shadowrootmode="open">`)
	assert.Contains(t, result.HTML, "<p>a</p>")
	assert.Contains(t, result.HTML, "<p>b</p>")
	assert.NotContains(t, result.HTML, ":items")
}

func TestRender_ReportsProblems(t *testing.T) {
	sources := []ComponentSource{
		{Name: "bad-card", Template: `{{template "nope"}}`},
	}

	result, err := Render(context.Background(), `<bad-card></bad-card><missing-el></missing-el>`, sources, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{"missing-el"}, result.Undefined)
	require.Len(t, result.Errors, 1)
	assert.True(t, strings.HasPrefix(result.Errors[0], "bad-card: "))
}

func TestRender_InvalidComponent(t *testing.T) {
	_, err := Render(context.Background(), ``, []ComponentSource{{Name: "nohyphen"}}, zap.NewNop())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = Render(context.Background(), ``, []ComponentSource{{Name: "x-y", Template: "{{"}}, zap.NewNop())
	require.Error(t, err)
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	card := writeFile(t, dir, "card.tmpl", `<b>{{.Props.title}}</b>`)
	page := writeFile(t, dir, "page.html", `<info-card :title="Hello"></info-card>`)

	out, err := execute(t, "render", page, "-c", "info-card:title="+card)
	require.NoError(t, err)
	assert.Contains(t, out, "<b>Hello</b>")

	_, err = execute(t, "render", page)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestLoadComponent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "c.tmpl", "<i></i>")

	src, err := loadComponent("my-el:a,b=" + path)
	require.NoError(t, err)
	assert.Equal(t, ComponentSource{Name: "my-el", Props: []string{"a", "b"}, Template: "<i></i>"}, src)

	_, err = loadComponent("my-el")
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = loadComponent("my-el=" + filepath.Join(dir, "missing"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
