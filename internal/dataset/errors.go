package dataset

import (
	"fmt"
)

// UnsupportedExtensionError indicates a file name outside the accepted extensions.
type UnsupportedExtensionError struct {
	Name    string
	Allowed []string
}

func (e *UnsupportedExtensionError) Error() string {
	return fmt.Sprintf("unsupported file type %q: expected one of %v", e.Name, e.Allowed)
}

// InvalidInputError indicates a caller-supplied value failed a precondition.
type InvalidInputError struct {
	Field string
	Msg   string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Msg
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// IOReadError wraps a failure reading local content.
type IOReadError struct {
	Path string
	Err  error
}

func (e *IOReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *IOReadError) Unwrap() error { return e.Err }

// NetworkError covers every remote failure: DNS, refused connections,
// timeouts and non-2xx responses.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError indicates a payload that is not valid JSON, CSV or workbook content.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EmptyDatasetError indicates zero records after decoding or before normalizing.
type EmptyDatasetError struct {
	Source string
}

func (e *EmptyDatasetError) Error() string {
	if e.Source == "" {
		return "no records found"
	}
	return fmt.Sprintf("no records found in %s", e.Source)
}
