package upload

import (
	"fmt"
	"mime"
	"net/http"
	"path"
	"slices"
	"strings"
)

// DefaultMediaType is the only type accepted out of the box.
const DefaultMediaType = "audio/wav"

// WAV spellings seen from browsers and sniffing, folded into DefaultMediaType.
var wavAliases = []string{"audio/wave", "audio/x-wav", "audio/vnd.wave", "audio/x-pn-wav"}

// File is one selected audio file.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the byte length of the file.
func (f File) Size() int {
	return len(f.Data)
}

// Filter is the client-side media type check applied before any network call.
type Filter struct {
	accept []string
}

// NewFilter creates a Filter accepting the given media types (normalized).
// An empty list accepts DefaultMediaType.
func NewFilter(accept []string) Filter {
	f := Filter{}
	for _, a := range accept {
		if mt := NormalizeMediaType(a); mt != "" && !slices.Contains(f.accept, mt) {
			f.accept = append(f.accept, mt)
		}
	}
	if len(f.accept) == 0 {
		f.accept = []string{DefaultMediaType}
	}
	return f
}

// Accept returns the accepted media types as an HTML accept attribute value.
func (f Filter) Accept() string {
	return strings.Join(f.accept, ",")
}

// Check validates file and returns it with a cleaned name and normalized media type.
// A missing or generic type is sniffed from the content.
func (f Filter) Check(file File) (File, error) {
	name := strings.TrimSpace(file.Name)
	if name != "" {
		name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	}
	if name == "" || name == "." || name == "/" {
		return File{}, fmt.Errorf("%w: file name required", ErrInvalidFile)
	}
	if len(file.Data) == 0 {
		return File{}, fmt.Errorf("%w: %s is empty", ErrInvalidFile, name)
	}

	ct := NormalizeMediaType(file.ContentType)
	if ct == "" || ct == "application/octet-stream" {
		ct = NormalizeMediaType(http.DetectContentType(file.Data))
	}

	if !slices.Contains(f.accept, ct) {
		return File{}, fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, ct, name)
	}

	return File{Name: name, ContentType: ct, Data: file.Data}, nil
}

// NormalizeMediaType lowercases mt, drops parameters and folds WAV aliases.
func NormalizeMediaType(mt string) string {
	mt = strings.TrimSpace(mt)
	if mt == "" {
		return ""
	}
	parsed, _, err := mime.ParseMediaType(mt)
	if err != nil {
		return strings.ToLower(mt)
	}
	if slices.Contains(wavAliases, parsed) {
		return DefaultMediaType
	}
	return parsed
}
