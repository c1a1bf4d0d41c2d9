// Package tiaxml reads data block documents exported by the PLC engineering
// tool and locates the declaration sections the alarm extractor walks.
package tiaxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultNamespace is the interface namespace assumed when a document's
// Sections element does not declare one.
const DefaultNamespace = "http://www.siemens.com/automation/Openness/SW/Interface/v5"

// StaticSectionName is the interface section holding the block's static members.
const StaticSectionName = "Static"

// Element is a generic node of the exported document tree.
type Element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []Element  `xml:",any"`
	Text     string     `xml:",chardata"`
}

// Attr returns the value of the unqualified attribute with the given name.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Name returns the element's Name attribute, or "" if it has none.
func (e *Element) Name() string {
	v, _ := e.Attr("Name")
	return v
}

// ChildrenNamed returns the direct children matching ns and local, in document order.
func (e *Element) ChildrenNamed(ns, local string) []*Element {
	var out []*Element
	for i := range e.Children {
		c := &e.Children[i]
		if c.XMLName.Space == ns && c.XMLName.Local == local {
			out = append(out, c)
		}
	}
	return out
}

// Path follows a chain of child element names in namespace ns and returns
// every element reached, flattened in document order.
func (e *Element) Path(ns string, locals ...string) []*Element {
	current := []*Element{e}
	for _, local := range locals {
		var next []*Element
		for _, el := range current {
			next = append(next, el.ChildrenNamed(ns, local)...)
		}
		current = next
	}
	return current
}

// Descendants returns every element below e with the given local name,
// in any namespace, in document order.
func (e *Element) Descendants(local string) []*Element {
	var out []*Element
	for i := range e.Children {
		c := &e.Children[i]
		if c.XMLName.Local == local {
			out = append(out, c)
		}
		out = append(out, c.Descendants(local)...)
	}
	return out
}

// Document is one parsed data block export.
type Document struct {
	Root *Element
}

// Load opens and parses the document at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a document. A leading UTF-8 byte order mark is dropped and
// documents declaring another encoding are converted to UTF-8.
func Parse(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))
	decoder.CharsetReader = charset.NewReaderLabel

	root := &Element{}
	if err := decoder.Decode(root); err != nil {
		return nil, fmt.Errorf("decoding xml: %w", err)
	}
	return &Document{Root: root}, nil
}

// Namespace returns the namespace declared on the first Sections element,
// or DefaultNamespace when there is none.
func (d *Document) Namespace() string {
	return d.NamespaceOr(DefaultNamespace)
}

// NamespaceOr is like Namespace but substitutes fallback for an undeclared namespace.
func (d *Document) NamespaceOr(fallback string) string {
	if d == nil || d.Root == nil {
		return fallback
	}

	var sections *Element
	if d.Root.XMLName.Local == "Sections" {
		sections = d.Root
	} else if found := d.Root.Descendants("Sections"); len(found) > 0 {
		sections = found[0]
	}
	if sections == nil {
		return fallback
	}

	if ns, ok := sections.Attr("xmlns"); ok && ns != "" {
		return ns
	}
	return fallback
}

// StaticSection returns the Section named "Static" inside the document's
// Interface, resolving Sections and Section in namespace ns.
// The bool is false when the document has no static section.
func (d *Document) StaticSection(ns string) (*Element, bool) {
	if d == nil || d.Root == nil {
		return nil, false
	}

	interfaces := d.Root.Descendants("Interface")
	if d.Root.XMLName.Local == "Interface" {
		interfaces = append([]*Element{d.Root}, interfaces...)
	}

	for _, iface := range interfaces {
		for _, section := range iface.Path(ns, "Sections", "Section") {
			if section.Name() == StaticSectionName {
				return section, true
			}
		}
	}
	return nil, false
}
