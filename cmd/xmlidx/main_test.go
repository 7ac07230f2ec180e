package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/xmlidx"
	main "github.com/fwojciec/xmlidx/cmd/xmlidx"
	"github.com/fwojciec/xmlidx/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := main.NewMain().Run(context.Background(), args, stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func TestMain_Run_BuildThenGet(t *testing.T) {
	t.Parallel()

	data := t.TempDir()
	writeFile(t, data, "a.xml", `<reflection><apis><api id="T:A"><name>A</name></api></apis></reflection>`)
	writeFile(t, data, "sub/b.xml", `<reflection><apis><api id="T:B"><name>B</name></api></apis></reflection>`)
	store := filepath.Join(t.TempDir(), "reflection")

	// Build a system store covering the data directory.
	stdout, _, err := run(t, "build", store, "--base", data, "--value", "/reflection/apis/api", "--recurse")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Indexed 2 elements in 2 files")
	assert.True(t, sqlite.NewEngine().Exists(store))
	_, err = os.Stat(store + ".tmp")
	assert.True(t, os.IsNotExist(err))

	// Resolve through a configuration that points at the store.
	config := writeFile(t, t.TempDir(), "indexes.xml", `<indexes>
  <index name="reflection" value="/reflection/apis/api" key="@id">
    <data base="`+data+`" files="*.xml" recurse="true" system="true" database="`+store+`"/>
  </index>
</indexes>`)

	stdout, _, err = run(t, "--config", config, "get", "reflection", "T:B")
	require.NoError(t, err)
	assert.Contains(t, stdout, "<name>B</name>")

	stdout, _, err = run(t, "--config", config, "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "reflection  0 elements in 0 files")
	assert.Contains(t, stdout, "system store")
	assert.Contains(t, stdout, "(2 records)")

	// The system store survives the runs.
	assert.True(t, sqlite.NewEngine().Exists(store))
}

func TestMain_Run_GetFromYAMLConfig(t *testing.T) {
	t.Parallel()

	data := t.TempDir()
	writeFile(t, data, "comments.xml", `<doc><members><member name="M:Foo"><summary>Foo.</summary></member></members></doc>`)
	config := writeFile(t, t.TempDir(), "indexes.yaml", `
indexes:
  - name: comments
    key: "@name"
    value: /doc/members/member
    data:
      - base: `+data+`
        files: "*.xml"
`)

	stdout, _, err := run(t, "-c", config, "get", "Comments", "M:Foo")
	require.NoError(t, err)
	assert.Contains(t, stdout, "<summary>Foo.</summary>")

	_, _, err = run(t, "-c", config, "get", "comments", "M:Bar")
	assert.Equal(t, xmlidx.ENOTFOUND, xmlidx.ErrorCode(err))
}

func TestMain_Run_GetRequiresConfig(t *testing.T) {
	if os.Getenv("XMLIDX_CONFIG") != "" {
		t.Skip("XMLIDX_CONFIG is set")
	}

	_, _, err := run(t, "get", "reflection", "K")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no configuration file")
}

func TestMain_Run_BuildRejectsBadRule(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "store")

	_, stderr, err := run(t, "build", out, "--base", t.TempDir(), "--value", "/a[")

	assert.Equal(t, xmlidx.EINVALID, xmlidx.ErrorCode(err))
	assert.Contains(t, stderr, "error:")
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}
