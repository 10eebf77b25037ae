package cache

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// keySeparator splits the entity type from the rest of a key.
	keySeparator = "::"

	// queryNamespace marks keys that cache parameterized query results, as
	// opposed to identity keys. EvictByTypePrefix targets this namespace.
	queryNamespace = "query"

	// NullValueToken stands in for absent parameter values so that a query
	// issued with {author: nil} and one issued without an author still
	// canonicalize to the same key.
	NullValueToken = "null"
)

// IdentityKey builds the cache key for a single entity addressed by id or
// unique name: "Build::42", "Build::Castle", "Task::<uuid>".
func IdentityKey(entityType, id string) string {
	return entityType + keySeparator + id
}

// QueryKey builds a canonical, order-independent key for a parameterized
// read: "Build::query::author=alice&color=null&theme=medieval". Parameter
// names are sorted lexicographically, nil values render as NullValueToken,
// and list values render with their elements' string forms sorted, so
// neither map iteration order nor caller-supplied list order can produce
// distinct keys for the same logical query.
func QueryKey(entityType string, params map[string]any) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(queryPrefix(entityType))
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(renderValue(params[name]))
	}
	return b.String()
}

// queryPrefix returns the namespace prefix shared by every query key of the
// given entity type.
func queryPrefix(entityType string) string {
	return entityType + keySeparator + queryNamespace + keySeparator
}

// renderValue produces the canonical string form of one parameter value.
func renderValue(value any) string {
	switch v := value.(type) {
	case nil:
		return NullValueToken
	case string:
		if v == "" {
			return NullValueToken
		}
		return v
	case []string:
		return renderList(v)
	case []any:
		parts := make([]string, len(v))
		for i, elem := range v {
			parts[i] = renderValue(elem)
		}
		return renderList(parts)
	default:
		return fmt.Sprint(v)
	}
}

// renderList sorts the elements' string forms and joins them, so [Red,Blue]
// and [Blue,Red] share one representation.
func renderList(elems []string) string {
	sorted := make([]string, len(elems))
	copy(sorted, elems)
	sort.Strings(sorted)
	return "[" + strings.Join(sorted, ",") + "]"
}
