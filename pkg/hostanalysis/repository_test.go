package hostanalysis

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/activecm/lgprobe/pkg/trace"
	"github.com/activecm/lgprobe/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportFileName(t *testing.T) {
	testCases := []struct {
		host     string
		expected string
	}{
		{"example.com", "example.com.json"},
		{"../etc/passwd", ".._etc_passwd.json"},
		{"..", "_...json"},
		{"", "_.json"},
	}
	for _, test := range testCases {
		assert.Equal(t, test.expected, reportFileName(test.host), test.host)
	}
}

func TestFileRepository(t *testing.T) {
	dir, err := ioutil.TempDir("", "lgprobe-reports")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	repo := NewFileRepository(filepath.Join(dir, "nested"))
	require.NoError(t, repo.Prepare())

	report := testAnalyzer(t).AnalyzeHost("example.com", testLogs())
	require.NoError(t, repo.Save(report))
	require.NoError(t, repo.Close())

	loaded, err := LoadReport(repo.Path("example.com"))
	require.NoError(t, err)
	assert.Equal(t, report.RunID, loaded.RunID)
	assert.Equal(t, report.SuccessfulSites, loaded.SuccessfulSites)
	assert.Equal(t, report.AnycastCandidates, loaded.AnycastCandidates)
	assert.Equal(t, report.PerVPAnalysis, loaded.PerVPAnalysis)

	raw, err := ioutil.ReadFile(repo.Path("example.com"))
	require.NoError(t, err)
	for _, field := range []string{`"anycastCandidates"`, `"successfulSites"`, `"numUniqueLocations"`, `"perVpAnalysis"`, `"vpRtts"`} {
		assert.Contains(t, string(raw), field)
	}

	_, err = LoadReport(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

type memoryRepository struct {
	reports  chan *Report
	prepared bool
	closed   bool
}

func (m *memoryRepository) Prepare() error {
	m.prepared = true
	return nil
}

func (m *memoryRepository) Save(report *Report) error {
	m.reports <- report
	return nil
}

func (m *memoryRepository) Close() error {
	m.closed = true
	close(m.reports)
	return nil
}

func TestRunner(t *testing.T) {
	set := trace.Set{
		"example.com": testLogs(),
		"unknown.org": testLogs(),
		"www.example.com": trace.Logs{
			0: testLog("9.9.9.9", true, hop("195.66.224.1", 1, 1), hop("9.9.9.9", 2, 2)),
		},
	}

	testCases := []struct {
		name     string
		progress bool
	}{
		{"quiet", false},
		{"progress bar", true},
	}

	for _, test := range testCases {
		repo := &memoryRepository{reports: make(chan *Report, len(set))}

		runner := NewRunner(testAnalyzer(t), repo, 2, resources.InitTestResources(t, nil).Log)
		runner.Progress = test.progress
		summary, err := runner.Run(set)
		require.NoError(t, err, test.name)

		assert.True(t, repo.prepared, test.name)
		assert.True(t, repo.closed, test.name)
		assert.Equal(t, Summary{Hosts: 3, Skipped: 1, Located: 2}, summary, test.name)

		hosts := make(map[string]bool)
		for report := range repo.reports {
			hosts[report.Host] = report.Skipped
		}
		assert.Equal(t, map[string]bool{"example.com": false, "unknown.org": true, "www.example.com": false}, hosts, test.name)
	}
}

func TestRunnerFiles(t *testing.T) {
	dir, err := ioutil.TempDir("", "lgprobe-run")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	res := resources.InitTestResources(t, nil)
	repo := NewFileRepository(dir)
	summary, err := NewRunner(testAnalyzer(t), repo, 0, res.Log).Run(trace.Set{"example.com": testLogs()})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Hosts)
	assert.FileExists(t, repo.Path("example.com"))
}

func TestDefaultThreads(t *testing.T) {
	assert.True(t, DefaultThreads() >= 1)
}
