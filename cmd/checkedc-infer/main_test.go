package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/checkedc-infer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOptions_FlagsOverrideDefaults(t *testing.T) {
	opts, err := loadOptions("", true, true)
	require.NoError(t, err)
	assert.True(t, opts.AllTypes)
	assert.True(t, opts.WarnRootCause)
}

func TestLoadOptions_ConfigFileThenFlagsLayerOnTop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("all_types: false\n"), 0o644))

	opts, err := loadOptions(path, true, false)
	require.NoError(t, err)
	assert.True(t, opts.AllTypes, "the --all_types flag must win over a false value in the config file")
}

func TestLoadOptions_MissingConfigFileErrors(t *testing.T) {
	_, err := loadOptions(filepath.Join(t.TempDir(), "nope.yaml"), false, false)
	assert.Error(t, err)
}

func TestRun_AbsorbsSolvesAndPrintsOneDeclLine(t *testing.T) {
	tu := `{"file":"a.c","decls":[{"kind":"var","name":"x","loc":{"file":"a.c","line":1,"column":5},"type":{}}]}` + "\n"

	var out, errOut bytes.Buffer
	err := run(config.Default(), strings.NewReader(tu), &out, &errOut)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "x")
	assert.Contains(t, out.String(), "changed=")
	assert.Contains(t, out.String(), "solved in")
}

func TestRun_EmptyInputStillPrintsStats(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run(config.Default(), strings.NewReader(""), &out, &errOut)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "constraints built in")
}

func TestRun_MalformedLineErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run(config.Default(), strings.NewReader("not json\n"), &out, &errOut)
	assert.Error(t, err)
}
