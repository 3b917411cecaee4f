package namespace

import (
	"context"
	"os"
	"regexp"
)

var (
	idAttr   = regexp.MustCompile(`(\sid\s*=\s*)("[^"]*"|'[^']*')`)
	urlRef   = regexp.MustCompile(`url\(\s*(['"]?)#([^'")\s]+)(['"]?)\s*\)`)
	hrefAttr = regexp.MustCompile(`(\s(?:xlink:)?href\s*=\s*)(["'])#([^"']*)(["'])`)
)

// Builtin namespaces documents in-process. Only id attributes and
// references are rewritten; the rest of the markup is left byte for byte.
type Builtin struct{}

// Namespace rewrites the file at path.
func (Builtin) Namespace(ctx context.Context, path, prefix string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, PrefixIDs(data, prefix), 0644)
}

// PrefixIDs returns a copy of data with every id and id reference prefixed.
// Ids that already start with prefix are prefixed again, so distinct ids
// stay distinct.
func PrefixIDs(data []byte, prefix string) []byte {
	p := func(id string) string {
		if id == "" {
			return id
		}
		return prefix + id
	}

	out := idAttr.ReplaceAllFunc(data, func(m []byte) []byte {
		sub := idAttr.FindSubmatch(m)
		quoted := sub[2]
		q := quoted[0]
		id := string(quoted[1 : len(quoted)-1])
		return []byte(string(sub[1]) + string(q) + p(id) + string(q))
	})
	out = urlRef.ReplaceAllFunc(out, func(m []byte) []byte {
		sub := urlRef.FindSubmatch(m)
		return []byte("url(" + string(sub[1]) + "#" + p(string(sub[2])) + string(sub[3]) + ")")
	})
	out = hrefAttr.ReplaceAllFunc(out, func(m []byte) []byte {
		sub := hrefAttr.FindSubmatch(m)
		return []byte(string(sub[1]) + string(sub[2]) + "#" + p(string(sub[3])) + string(sub[4]))
	})
	return out
}

// IDs returns the id attribute values declared in data, in document order.
func IDs(data []byte) []string {
	var ids []string
	for _, sub := range idAttr.FindAllSubmatch(data, -1) {
		quoted := sub[2]
		ids = append(ids, string(quoted[1:len(quoted)-1]))
	}
	return ids
}
