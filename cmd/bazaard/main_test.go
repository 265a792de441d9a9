package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/bazaar/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	home, err := ioutil.TempDir("", "bazaard")
	require.NoError(t, err)
	defer os.RemoveAll(home)
	require.NoError(t, os.Mkdir(filepath.Join(home, "config"), 0755))
	toml := "log-level = \"debug\"\nbind = \"unix://bazaar.sock\"\n"
	require.NoError(t, ioutil.WriteFile(filepath.Join(home, "config", "bazaar.toml"), []byte(toml), 0600))

	cases := map[string]struct {
		args     []string
		env      map[string]string
		want     Config
		wantRest []string
	}{
		"configuration file": {
			args:     []string{"--home", home, "start"},
			want:     Config{Home: home, LogLevel: "debug", Bind: "unix://bazaar.sock"},
			wantRest: []string{"start"},
		},
		"environment overrides file": {
			args:     []string{"--home", home, "start", "--debug"},
			env:      map[string]string{"BAZAAR_LOG_LEVEL": "error", "BAZAAR_METRICS": ":9100"},
			want:     Config{Home: home, LogLevel: "error", Bind: "unix://bazaar.sock", Metrics: ":9100"},
			wantRest: []string{"start", "--debug"},
		},
		"flags override environment": {
			args:     []string{"--home", home, "--log-level", "info", "--debug", "version"},
			env:      map[string]string{"BAZAAR_LOG_LEVEL": "error"},
			want:     Config{Home: home, LogLevel: "info", Bind: "unix://bazaar.sock", Debug: true},
			wantRest: []string{"version"},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			for k, v := range tc.env {
				require.NoError(t, os.Setenv(k, v))
				defer os.Unsetenv(k)
			}
			conf, rest, err := loadConfig(tc.args)
			require.NoError(t, err)
			assert.Equal(t, tc.want, conf)
			assert.Equal(t, tc.wantRest, rest)
		})
	}
}

func TestLoadConfigUnknownFlag(t *testing.T) {
	_, _, err := loadConfig([]string{"--min-fee", "1", "start"})
	assert.True(t, errors.ErrInput.Is(err))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(Config{LogLevel: "error"}, &buf)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Error("shown", "auction", 1)
	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.True(t, strings.Contains(out, "shown"))
	assert.True(t, strings.Contains(out, "module=bazaar"))

	_, err = newLogger(Config{LogLevel: "loud"}, &buf)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestNewLoggerRotatedFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "bazaard-log")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "bazaar.log")
	logger, err := newLogger(Config{LogLevel: "info", LogFile: path}, os.Stdout)
	require.NoError(t, err)
	logger.Info("auction created", "id", 1)

	raw, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), "auction created"))
}

func TestRun(t *testing.T) {
	home, err := ioutil.TempDir("", "bazaard-run")
	require.NoError(t, err)
	defer os.RemoveAll(home)

	assert.NoError(t, run([]string{"--home", home, "version"}))
	assert.Error(t, run([]string{"--home", home}))
	assert.Error(t, run([]string{"--home", home, "explode"}))
	assert.Error(t, run([]string{"--home", home, "validate"}))
}
