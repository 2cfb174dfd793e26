package trace

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceSetFiles(t *testing.T) {
	dir, err := ioutil.TempDir("", "lgprobe-trace")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	parsed, err := NewParser(true, nil).Parse(googleTrace, "192.0.2.10", "google.com")
	require.NoError(t, err)
	set := Set{"google.com": Logs{4: parsed}}

	path := filepath.Join(dir, "nested", "traces.json")
	require.NoError(t, SaveTraceSet(path, set))

	raw, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"destIp": "8.8.8.8"`)
	assert.Contains(t, string(raw), `"hopIndex": 2`)

	loaded, err := LoadTraceSet(path)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(set, loaded))
	assert.Equal(t, []string{"google.com"}, loaded.Hosts())
}

func TestLoadRawProbes(t *testing.T) {
	dir, err := ioutil.TempDir("", "lgprobe-trace")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "probes.json")
	doc := `{"google.com": {"0": "traceroute to 8.8.8.8 (8.8.8.8)", "12": "<pre></pre>"}}`
	require.NoError(t, ioutil.WriteFile(path, []byte(doc), 0644))

	probes, err := LoadRawProbes(path)
	require.NoError(t, err)
	require.Contains(t, probes, "google.com")
	assert.Len(t, probes["google.com"], 2)
	assert.Equal(t, "<pre></pre>", probes["google.com"][12])

	_, err = LoadRawProbes(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	require.NoError(t, ioutil.WriteFile(path, []byte("not json"), 0644))
	_, err = LoadTraceSet(path)
	assert.Error(t, err)
}

func TestLoadTraceSetDropsEmptyLogs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "traces.json")
	doc := `{"google.com": {
		"0": {"targetHost": "google.com", "destIp": "8.8.8.8", "successful": true,
			"hops": {"8.8.8.8": {"ip": "8.8.8.8", "hopIndex": 2, "rttMs": 5.4}}},
		"1": {"targetHost": "google.com", "successful": false, "hops": {}},
		"2": {"targetHost": "google.com", "successful": false},
		"3": null
	}}`
	require.NoError(t, ioutil.WriteFile(path, []byte(doc), 0644))

	set, err := LoadTraceSet(path)
	require.NoError(t, err)
	require.Contains(t, set, "google.com")
	assert.Len(t, set["google.com"], 1)
	require.Contains(t, set["google.com"], 0)
	assert.Equal(t, 2, set["google.com"][0].Hops["8.8.8.8"].HopIndex)
}
