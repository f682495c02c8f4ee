package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"mixin-resolver/internal/declare"
	"mixin-resolver/internal/manifest"
)

const libraryManifest = "../../examples/library/mixins.yaml"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--env-file="))

	err := root.Execute()

	return out.String(), err
}

func TestResolve_YAML(t *testing.T) {
	out, err := execute(t, "resolve", "-m", libraryManifest, "-f", "yaml")
	require.NoError(t, err)

	var views []contextView
	require.NoError(t, yaml.Unmarshal([]byte(out), &views))

	byTarget := make(map[string]contextView)
	for _, v := range views {
		byTarget[v.Target] = v
	}

	mixins := func(target string) []string {
		var out []string
		for _, m := range byTarget[target].Mixins {
			out = append(out, m.Mixin)
		}

		return out
	}

	assert.Equal(t, []string{"example.com/library.Loans"}, mixins("example.com/library.Item"))
	assert.Equal(t, []string{"example.com/library.Loans", "example.com/library.Search"}, mixins("example.com/library.Book"))
	assert.Equal(t, []string{"example.com/library.Archive", "example.com/library.Search"},
		mixins("example.com/library.Index[example.com/library.Book]"))
	assert.NotContains(t, byTarget, "example.com/library.Magazine")

	loans := byTarget["example.com/library.Item"].Mixins[0]
	assert.Equal(t, declare.Public, loans.Visibility)
	assert.Equal(t, declare.Extending, loans.Kind)
	assert.Contains(t, loans.Origin, "extends[0]")
}

func TestResolve_SelectedTypes(t *testing.T) {
	out, err := execute(t, "resolve", "-m", libraryManifest, "Book", "Magazine")
	require.NoError(t, err)

	assert.Contains(t, out, "example.com/library.Book\n  example.com/library.Loans [extending, public]")
	assert.Contains(t, out, "after example.com/library.Loans")
	assert.Contains(t, out, "example.com/library.Magazine\n  (no mixins)")

	_, err = execute(t, "resolve", "-m", libraryManifest, "Bok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean example.com/library.Book")
}

func TestExplain(t *testing.T) {
	out, err := execute(t, "explain", "-m", libraryManifest, "Magazine")
	require.NoError(t, err)

	assert.Contains(t, out, "extends example.com/library.Item")
	assert.Contains(t, out, "ignores: example.com/library.Loans")
	assert.Contains(t, out, "resolved:\n  (none)")
}

func TestComplete(t *testing.T) {
	out, err := execute(t, "complete", "-m", libraryManifest, "Catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "example.com/library.Catalog is completed by example.com/library.Book")

	_, err = execute(t, "complete", "-m", libraryManifest, "Lendable")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a complete interface")
}

func TestCheck(t *testing.T) {
	out, err := execute(t, "check", "-m", libraryManifest)
	require.NoError(t, err)
	assert.Contains(t, out, "target(s) configured")

	broken := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte(`
package: example.com/broken
types:
  - name: Item
extends:
  - mixin: Missing
    target: Item
`), 0o644))

	out, err = execute(t, "check", "-m", broken)
	require.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out, "[unknown_type]")
}

func TestExport(t *testing.T) {
	out, err := execute(t, "export", "-m", libraryManifest)
	require.NoError(t, err)

	m, err := manifest.Parse([]byte(out))
	require.NoError(t, err)
	assert.Len(t, m.Extends, 2)
	assert.Len(t, m.Mix, 1)
	assert.Len(t, m.CompleteInterfaces, 1)
}

func TestSettingsErrors(t *testing.T) {
	_, err := execute(t, "resolve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no packages or manifests")

	_, err = execute(t, "resolve", "-m", libraryManifest, "-f", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestResolve_PackagesAndManifest(t *testing.T) {
	const shop = "mixin-resolver/examples/shop"

	out, err := execute(t, "resolve", "-f", "yaml",
		"-p", shop, "-m", "../../examples/shop/mixins.yaml",
		"Order", "Invoice", "Line")
	require.NoError(t, err)

	var views []contextView
	require.NoError(t, yaml.Unmarshal([]byte(out), &views))
	require.Len(t, views, 3)

	mixins := func(v contextView) []string {
		var out []string
		for _, m := range v.Mixins {
			out = append(out, m.Mixin)
		}

		return out
	}

	assert.Equal(t, shop+".Order", views[0].Target)
	assert.ElementsMatch(t, []string{shop + ".Auditing", shop + ".Pricing[" + shop + ".Order]", shop + ".Timestamps"}, mixins(views[0]))

	assert.Equal(t, shop+".Invoice", views[1].Target)
	assert.ElementsMatch(t, []string{shop + ".Auditing", shop + ".Pricing[" + shop + ".Invoice]", shop + ".Timestamps"}, mixins(views[1]))

	assert.Equal(t, []string{shop + ".Tracing"}, mixins(views[2]))
	assert.Equal(t, declare.Used, views[2].Mixins[0].Kind)
}
