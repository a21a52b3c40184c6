package source

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/sheetdash/internal/dataset"
	"github.com/KaramelBytes/sheetdash/internal/parser"
	"github.com/spf13/afero"
)

// Extensions accepted by the file adapter.
var Extensions = []string{".xlsx", ".xls", ".csv"}

// FileSource reads user-selected spreadsheet and CSV files.
type FileSource struct {
	Fs afero.Fs
	// AllowJSON additionally accepts .json files.
	AllowJSON bool
	Logger    *slog.Logger
}

// NewFileSource returns a FileSource over fs, or the OS filesystem when fs is nil.
func NewFileSource(fs afero.Fs) *FileSource {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileSource{Fs: fs, Logger: slog.Default()}
}

// CheckExtension validates name against the accepted extensions, ignoring case.
func (s *FileSource) CheckExtension(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range s.extensions() {
		if ext == allowed {
			return nil
		}
	}
	return &dataset.UnsupportedExtensionError{Name: filepath.Base(name), Allowed: s.extensions()}
}

func (s *FileSource) extensions() []string {
	if s.AllowJSON {
		return append(append([]string{}, Extensions...), ".json")
	}
	return Extensions
}

// Load returns the raw bytes of the named file. The extension is checked
// before the file is opened.
func (s *FileSource) Load(name string) ([]byte, error) {
	if err := s.CheckExtension(name); err != nil {
		return nil, err
	}
	f, err := s.Fs.Open(name)
	if err != nil {
		return nil, &dataset.IOReadError{Path: name, Err: err}
	}
	defer f.Close()
	return s.read(name, f)
}

// ReadFrom is Load for content that arrives as a stream, such as an upload.
func (s *FileSource) ReadFrom(name string, r io.Reader) ([]byte, error) {
	if err := s.CheckExtension(name); err != nil {
		return nil, err
	}
	return s.read(name, r)
}

func (s *FileSource) read(name string, r io.Reader) ([]byte, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, &dataset.IOReadError{Path: name, Err: err}
	}
	s.logger().Debug("file read", slog.String("name", name), slog.Int("bytes", len(b)))
	return b, nil
}

// LoadRecords reads and decodes the named file.
func (s *FileSource) LoadRecords(name string) ([]dataset.Record, error) {
	b, err := s.Load(name)
	if err != nil {
		return nil, err
	}
	return decodeFile(name, b)
}

// ReadRecords reads and decodes streamed file content.
func (s *FileSource) ReadRecords(name string, r io.Reader) ([]dataset.Record, error) {
	b, err := s.ReadFrom(name, r)
	if err != nil {
		return nil, err
	}
	return decodeFile(name, b)
}

func decodeFile(name string, b []byte) ([]dataset.Record, error) {
	return parser.Decode(b, parser.Hint{Kind: dataset.SourceFile, Name: filepath.Base(name)})
}

func (s *FileSource) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
