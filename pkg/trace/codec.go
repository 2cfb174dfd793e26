package trace

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//LoadRawProbes reads a {host: {vpIndex: response}} document
func LoadRawProbes(path string) (RawProbes, error) {
	var probes RawProbes
	if err := readJSON(path, &probes); err != nil {
		return nil, err
	}
	return probes, nil
}

//LoadTraceSet reads a {host: {vpIndex: Log}} document. Logs without hops
//are dropped.
func LoadTraceSet(path string) (Set, error) {
	var set Set
	if err := readJSON(path, &set); err != nil {
		return nil, err
	}
	for _, logs := range set {
		for idx, trace := range logs {
			if trace == nil || trace.IsEmpty() {
				delete(logs, idx)
			}
		}
	}
	return set, nil
}

//SaveTraceSet writes set as indented JSON, creating parent directories
func SaveTraceSet(path string, set Set) error {
	raw, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not encode trace set")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "could not create directory for %s", path)
	}
	return errors.Wrapf(ioutil.WriteFile(path, raw, 0644), "could not write trace set %s", path)
}

func readJSON(path string, out interface{}) error {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "could not read %s", path)
	}
	return errors.Wrapf(json.Unmarshal(raw, out), "could not decode %s", path)
}

func sortedIndices(raw map[int]string) []int {
	indices := make([]int, 0, len(raw))
	for idx := range raw {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}
