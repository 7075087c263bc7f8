package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Path addresses a node inside a document: a chain of record field names,
// sequence positions and bracketed map keys, rendered as "a.b[2].c" or
// "m[k].x".
type Path struct {
	Field *string
	Pos   *int
	Key   *string
	Next  *Path
}

func (p *Path) String() string {
	buf := &strings.Builder{}
	for x := p; x != nil; x = x.Next {
		switch {
		case x.Field != nil:
			if buf.Len() != 0 {
				buf.WriteByte('.')
			}
			buf.WriteString(*x.Field)
		case x.Pos != nil:
			fmt.Fprintf(buf, "[%d]", *x.Pos)
		case x.Key != nil:
			buf.WriteString("[" + *x.Key + "]")
		}
	}
	return buf.String()
}

func (p *Path) WithField(name string) *Path {
	return p.with(&Path{Field: &name})
}

func (p *Path) WithPos(i int) *Path {
	return p.with(&Path{Pos: &i})
}

func (p *Path) WithKey(k string) *Path {
	return p.with(&Path{Key: &k})
}

// with returns a copy of p with tail appended. p is left unchanged so that
// sibling paths can share a prefix.
func (p *Path) with(tail *Path) *Path {
	if p == nil {
		return tail
	}
	res := *p
	res.Next = p.Next.with(tail)
	return &res
}

// ParsePath parses the rendering produced by Path.String. A leading "$" is
// accepted and ignored.
func ParsePath(p string) (*Path, error) {
	p = strings.TrimPrefix(p, "$")
	p = strings.TrimPrefix(p, ".")
	if p == "" {
		return nil, nil
	}
	var res *Path
	for len(p) != 0 {
		switch p[0] {
		case '[':
			i := strings.IndexByte(p, ']')
			if i == -1 {
				return nil, fmt.Errorf("expected '[' <index> ']' in %q", p)
			}
			inner := p[1:i]
			if n, err := strconv.Atoi(inner); err == nil {
				res = res.WithPos(n)
			} else {
				res = res.WithKey(inner)
			}
			p = p[i+1:]
		case '.':
			p = p[1:]
			if p == "" || p[0] == '.' || p[0] == '[' {
				return nil, fmt.Errorf("expected field name after '.'")
			}
		default:
			i := strings.IndexAny(p, ".[")
			if i == -1 {
				i = len(p)
			}
			res = res.WithField(p[:i])
			p = p[i:]
		}
	}
	return res, nil
}

// GetPath returns the node addressed by yPath, or nil when some step is
// absent.
func (y *Node) GetPath(yPath string) (*Node, error) {
	yp, err := ParsePath(yPath)
	if err != nil {
		return nil, err
	}
	res := y
	for x := yp; x != nil; x = x.Next {
		if res.Type == TaggedType {
			res = res.Elem()
		}
		switch {
		case x.Pos != nil:
			if res.Type != SeqType {
				return nil, fmt.Errorf("%s: expected seq, got %s", x, res.Type)
			}
			i := *x.Pos
			if i < 0 || i >= len(res.Values) {
				return nil, nil
			}
			res = res.Values[i]
		case x.Field != nil, x.Key != nil:
			if !res.Type.IsMap() {
				return nil, fmt.Errorf("%s: expected map, got %s", x, res.Type)
			}
			name := x.Field
			if name == nil {
				name = x.Key
			}
			v := Get(res, Keyword(*name))
			if v == nil {
				v = Get(res, FromString(*name))
			}
			if v == nil {
				return nil, nil
			}
			res = v
		}
	}
	return res, nil
}
