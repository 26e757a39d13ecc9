package sitemap

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gotraverse/traverse/routes"
)

// maxWalkDepth bounds the static walk the same way site validation does.
const maxWalkDepth = 32

// Entry kinds.
const (
	KindPage     = "page"     // terminal handler under a fixed name
	KindIndex    = "index"    // selected when no segments remain
	KindDefault  = "default"  // catches unmatched segments
	KindResource = "resource" // dynamic sub-resource handler
)

// Config configures document building and serving.
type Config struct {
	// Title names the document. Optional.
	Title string
}

// Document is the serializable description of a resource tree.
type Document struct {
	Title   string  `json:"title,omitempty" yaml:"title,omitempty"`
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Entry describes one reachable handler.
type Entry struct {
	// Path is the static path to the handler. Index entries use the
	// node's own path; default entries append "*".
	Path string `json:"path" yaml:"path"`

	// Kind is one of the Kind constants.
	Kind string `json:"kind" yaml:"kind"`

	// Method is set for verbs of a method-dispatched node.
	Method string `json:"method,omitempty" yaml:"method,omitempty"`

	// Dynamic marks entries whose descent cannot be walked statically:
	// the handler produces the next resource at request time.
	Dynamic bool `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`

	// Params are the handler's declared parameters, injected ones
	// excluded.
	Params []ParamDoc `json:"params,omitempty" yaml:"params,omitempty"`
}

// ParamDoc describes one declared handler parameter.
type ParamDoc struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
	KeywordOnly bool   `json:"keyword_only,omitempty" yaml:"keyword_only,omitempty"`
	Variadic    bool   `json:"variadic,omitempty" yaml:"variadic,omitempty"`
}

// Build walks the statically reachable nodes under root and assembles the
// document. A broken node description fails the build with the node's
// registration error.
func Build(root routes.Resource, cfg Config) (*Document, error) {
	doc := &Document{Title: cfg.Title}
	if err := walk(root, "", doc, make(map[*routes.Node]bool), 0); err != nil {
		return nil, err
	}
	return doc, nil
}

func walk(r routes.Resource, path string, doc *Document, seen map[*routes.Node]bool, depth int) error {
	if depth > maxWalkDepth {
		return nil
	}
	node, err := r.Node()
	if err != nil {
		return fmt.Errorf("sitemap: %q: %w", orRoot(path), err)
	}
	if seen[node] {
		return nil
	}
	seen[node] = true

	if idx := node.IndexPage(); idx != nil {
		doc.Entries = append(doc.Entries, Entry{
			Path:   orRoot(path),
			Kind:   KindIndex,
			Params: paramDocs(idx.Params()),
		})
	}

	for _, m := range node.Members() {
		memberPath := path + "/" + m.Name
		switch {
		case m.Child != nil:
			if err := walk(m.Child, memberPath, doc, seen, depth+1); err != nil {
				return err
			}
		case m.Sub:
			doc.Entries = append(doc.Entries, Entry{
				Path:    memberPath,
				Kind:    KindResource,
				Dynamic: true,
				Params:  paramDocs(m.Page.Params()),
			})
		default:
			entry := Entry{
				Path:   memberPath,
				Kind:   KindPage,
				Params: paramDocs(m.Page.Params()),
			}
			if node.MethodDispatch() {
				entry.Path = orRoot(path)
				entry.Method = m.Name
			}
			doc.Entries = append(doc.Entries, entry)
		}
	}

	if def := node.DefaultPage(); def != nil {
		doc.Entries = append(doc.Entries, Entry{
			Path:    path + "/*",
			Kind:    KindDefault,
			Dynamic: true,
			Params:  paramDocs(def.Params()),
		})
	}
	return nil
}

func orRoot(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func paramDocs(params []routes.Param) []ParamDoc {
	var out []ParamDoc
	for _, p := range params {
		if p.IsInjected() {
			continue
		}
		out = append(out, ParamDoc{
			Name:        p.Name(),
			Type:        p.Type(),
			Required:    p.Required(),
			KeywordOnly: p.IsKeywordOnly(),
			Variadic:    p.IsVariadic(),
		})
	}
	return out
}

// JSON returns the document serialized as indented JSON.
func (d *Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// YAML returns the document serialized as YAML.
func (d *Document) YAML() ([]byte, error) {
	return yaml.Marshal(d)
}
