package formatfile

import (
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/robotalks/streams.go/pkg/streams/chunk"
	"github.com/robotalks/streams.go/pkg/streams/ring"
	"github.com/robotalks/streams.go/pkg/streams/scan"
)

// Default capacities.
const (
	DefaultBufferSize = 256
	DefaultChunksSize = 256
)

// Document is the YAML document.
type Document struct {
	Buffer  int          `yaml:"buffer"`
	Chunks  int          `yaml:"chunks"`
	Formats []FormatSpec `yaml:"formats"`
}

// FormatSpec declares one format.
type FormatSpec struct {
	Name  string        `yaml:"name"`
	Match []ElementSpec `yaml:"match"`
}

// ElementSpec declares one element. Exactly one field must be set.
type ElementSpec struct {
	Token  *string     `yaml:"token,omitempty"`
	Hex    string      `yaml:"hex,omitempty"`
	Scalar *ScalarSpec `yaml:"scalar,omitempty"`
	Chunk  *ChunkSpec  `yaml:"chunk,omitempty"`
}

// ScalarSpec declares a named fixed-width field.
type ScalarSpec struct {
	Name  string `yaml:"name"`
	Width int    `yaml:"width"`
}

// ChunkSpec declares a length-prefixed payload.
type ChunkSpec struct {
	Terminator []ElementSpec `yaml:"terminator"`
}

// ElementError reports an invalid element.
type ElementError struct {
	Format  string
	Element int
	Reason  string
}

// Error implements error.
func (e *ElementError) Error() string {
	return fmt.Sprintf("format %q element %d: %s", e.Format, e.Element, e.Reason)
}

// Record receives the fields of a match.
type Record struct {
	// Format is the name of the matched format.
	Format string
	// Branch is the index of the matched format.
	Branch int
	// Fields names the scalar fields of the matched format in declaration
	// order.
	Fields []string
	// Values holds scalar fields of all formats by name. The slices are
	// reused across matches.
	Values map[string][]byte
	// Chunks holds chunk payloads of all formats.
	Chunks *chunk.Store
}

// Set is a compiled Document.
type Set struct {
	Doc Document

	names   []string
	formats []scan.Format[Record]
	fields  [][]string
	widths  map[string]int
}

// Load reads a Document from a file.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse compiles a Document.
func Parse(data []byte) (*Set, error) {
	s := &Set{widths: make(map[string]int)}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &s.Doc); err != nil {
		return nil, err
	}
	if len(s.Doc.Formats) == 0 {
		return nil, fmt.Errorf("no formats")
	}
	if s.Doc.Buffer <= 0 {
		s.Doc.Buffer = DefaultBufferSize
	}
	if s.Doc.Chunks <= 0 {
		s.Doc.Chunks = DefaultChunksSize
	}
	for n, spec := range s.Doc.Formats {
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("format%d", n)
		}
		if len(spec.Match) == 0 {
			return nil, &ElementError{Format: name, Element: -1, Reason: "no elements"}
		}
		fields := []string{}
		f, err := s.compile(name, scan.NewFormat[Record](), spec.Match, true, &fields)
		if err != nil {
			return nil, err
		}
		s.names = append(s.names, name)
		s.fields = append(s.fields, fields)
		s.formats = append(s.formats, f)
	}
	return s, nil
}

func (s *Set) compile(name string, f scan.Format[Record], elems []ElementSpec, allowChunk bool, fields *[]string) (scan.Format[Record], error) {
	for n, e := range elems {
		set := 0
		if e.Token != nil {
			set++
			if *e.Token == "" {
				return f, &ElementError{Format: name, Element: n, Reason: "empty token"}
			}
			f = f.Token(*e.Token)
		}
		if e.Hex != "" {
			set++
			b, err := hex.DecodeString(e.Hex)
			if err != nil {
				return f, &ElementError{Format: name, Element: n, Reason: err.Error()}
			}
			f = f.TokenBytes(b...)
		}
		if e.Scalar != nil {
			set++
			sc := *e.Scalar
			if sc.Name == "" || sc.Width <= 0 || sc.Width > scan.MaxScalarWidth {
				return f, &ElementError{Format: name, Element: n, Reason: "scalar needs a name and a valid width"}
			}
			if w, ok := s.widths[sc.Name]; ok && w != sc.Width {
				return f, &ElementError{Format: name, Element: n, Reason: fmt.Sprintf("scalar %q redeclared with width %d", sc.Name, sc.Width)}
			}
			s.widths[sc.Name] = sc.Width
			*fields = append(*fields, sc.Name)
			f = f.Bytes(sc.Width, func(r *Record) []byte { return r.Values[sc.Name] })
		}
		if e.Chunk != nil {
			set++
			if !allowChunk {
				return f, &ElementError{Format: name, Element: n, Reason: "chunk in terminator"}
			}
			if len(e.Chunk.Terminator) == 0 {
				return f, &ElementError{Format: name, Element: n, Reason: "chunk without terminator"}
			}
			term, err := s.compile(name, scan.NewFormat[Record](), e.Chunk.Terminator, false, fields)
			if err != nil {
				return f, err
			}
			f = f.Chunk(func(r *Record) *chunk.Store { return r.Chunks }, term)
		}
		if set != 1 {
			return f, &ElementError{Format: name, Element: n, Reason: "exactly one of token, hex, scalar, chunk expected"}
		}
	}
	return f, nil
}

// Fields returns the scalar field names of a format.
func (s *Set) Fields(format int) []string {
	return s.fields[format]
}

// Names returns the format names in declaration order.
func (s *Set) Names() []string {
	return s.names
}

// NewBuffer creates a receive buffer with the declared capacity.
func (s *Set) NewBuffer() *ring.Buffer {
	return ring.New(s.Doc.Buffer)
}

// NewRecord creates a Record with room for every declared field.
func (s *Set) NewRecord() *Record {
	r := &Record{
		Branch: -1,
		Values: make(map[string][]byte, len(s.widths)),
		Chunks: chunk.NewSize(s.Doc.Chunks),
	}
	for name, width := range s.widths {
		r.Values[name] = make([]byte, width)
	}
	return r
}

// Branches creates scan branches calling handler on every match. The
// handler receives nil when scanning without a target.
func (s *Set) Branches(handler func(*Record)) []scan.Branch[Record] {
	branches := make([]scan.Branch[Record], len(s.formats))
	for n, f := range s.formats {
		n, name := n, s.names[n]
		branches[n] = scan.On(f, func(r *Record) {
			if r != nil {
				r.Format, r.Branch, r.Fields = name, n, s.fields[n]
			}
			if handler != nil {
				handler(r)
			}
		})
	}
	return branches
}

// NewScanner creates a Scanner over all formats.
func (s *Set) NewScanner(handler func(*Record)) (*scan.Scanner[Record], error) {
	return scan.New(s.Branches(handler)...)
}
