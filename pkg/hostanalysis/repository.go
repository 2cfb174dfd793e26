package hostanalysis

import (
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//Repository stores host reports. Save may be called from several
//goroutines between Prepare and Close.
type Repository interface {
	Prepare() error
	Save(report *Report) error
	Close() error
}

//FileRepository writes one <host>.json report per host into a directory
type FileRepository struct {
	dir string
}

//NewFileRepository creates a FileRepository rooted at dir
func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{dir: dir}
}

//Prepare creates the output directory
func (f *FileRepository) Prepare() error {
	return os.MkdirAll(f.dir, 0755)
}

//Save writes the report, replacing an earlier report for the same host
func (f *FileRepository) Save(report *Report) error {
	out, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return errors.Wrapf(err, "encoding report for %s", report.Host)
	}
	return os.WriteFile(f.Path(report.Host), out, 0644)
}

//Close is a no-op
func (f *FileRepository) Close() error {
	return nil
}

//Path is the file a host's report is written to
func (f *FileRepository) Path(host string) string {
	return filepath.Join(f.dir, reportFileName(host))
}

//reportFileName keeps host names from escaping the output directory
func reportFileName(host string) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, host)
	if name == "" || name == "." || name == ".." {
		name = "_" + name
	}
	return name + ".json"
}

//LoadReport reads a report written by FileRepository
func LoadReport(path string) (*Report, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	report := new(Report)
	if err := json.Unmarshal(raw, report); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return report, nil
}
