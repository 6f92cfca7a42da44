package format

import (
	"context"
	"encoding/xml"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

// newXMLDecoder returns a decoder that understands any charset declared in
// the XML prolog, not only UTF-8.
func newXMLDecoder(r io.Reader) *xml.Decoder {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "xml: unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}
	return decoder
}

// sniffRoot returns the local name of the root element of the XML source.
func sniffRoot(ctx context.Context, src Source) (string, error) {
	rc, err := src.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close() //nolint:errcheck

	decoder := newXMLDecoder(rc)
	for {
		if ctx.Err() != nil {
			return "", eris.Wrap(ctx.Err(), "xml: context cancelled")
		}
		tok, err := decoder.Token()
		if err == io.EOF {
			return "", unrecognized("xml: %s: no root element", src.FileName)
		}
		if err != nil {
			return "", malformed("xml: %s: read token: %v", src.FileName, err)
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se.Name.Local, nil
		}
	}
}

// StreamXML decodes every element with the given local name and sends it to
// a channel. Both channels are closed when processing completes.
func StreamXML[T any](ctx context.Context, r io.Reader, elementName string) (<-chan T, <-chan error) {
	outCh := make(chan T, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(outCh)
		defer close(errCh)

		decoder := newXMLDecoder(r)
		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "xml: context cancelled")
				return
			}

			tok, err := decoder.Token()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- malformed("xml: read token: %v", err)
				return
			}

			se, ok := tok.(xml.StartElement)
			if !ok || se.Name.Local != elementName {
				continue
			}

			var item T
			if err := decoder.DecodeElement(&item, &se); err != nil {
				errCh <- malformed("xml: decode %s: %v", elementName, err)
				return
			}

			select {
			case outCh <- item:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "xml: context cancelled")
				return
			}
		}
	}()

	return outCh, errCh
}

// node is a generic XML element used where a document is searched by path
// rather than decoded into a fixed shape.
type node struct {
	XMLName  xml.Name
	Text     string `xml:",chardata"`
	Children []node `xml:",any"`
}

// decodeTree reads the whole document into a node tree.
func decodeTree(r io.Reader) (*node, error) {
	var root node
	if err := newXMLDecoder(r).Decode(&root); err != nil {
		return nil, malformed("xml: decode document: %v", err)
	}
	return &root, nil
}

// child returns the first direct child with the given local name.
func (n *node) child(local string) *node {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == local {
			return &n.Children[i]
		}
	}
	return nil
}

// descendants returns every element below n with the given local name, in
// document order.
func (n *node) descendants(local string) []*node {
	var out []*node
	var walk func(*node)
	walk = func(cur *node) {
		for i := range cur.Children {
			c := &cur.Children[i]
			if c.XMLName.Local == local {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// find returns the first element matching the path below n. The first step
// matches at any depth, later steps match direct children.
func (n *node) find(path ...string) *node {
	if len(path) == 0 {
		return nil
	}
	for _, start := range n.descendants(path[0]) {
		cur := start
		for _, step := range path[1:] {
			if cur = cur.child(step); cur == nil {
				break
			}
		}
		if cur != nil {
			return cur
		}
	}
	return nil
}

// value returns the trimmed text of n, or of its first descendant carrying
// text when n only wraps other elements.
func (n *node) value() string {
	if n == nil {
		return ""
	}
	if v := strings.TrimSpace(n.Text); v != "" {
		return v
	}
	for i := range n.Children {
		if v := n.Children[i].value(); v != "" {
			return v
		}
	}
	return ""
}
