package item

import (
	"fmt"
	"strconv"
)

// Cache namespaces. Aggregate namespaces are invalidated as a whole.
const (
	NamespaceItem   = "itemCache"
	NamespaceAll    = "itemAllCache"
	NamespaceSearch = "itemSearchCache"

	// AllItemsKey is the single key used under NamespaceAll.
	AllItemsKey = "readAll"
)

// Namespaces lists every namespace owned by items.
func Namespaces() []string {
	return []string{NamespaceItem, NamespaceAll, NamespaceSearch}
}

// AggregateNamespaces lists the namespaces whose entries depend on the whole collection.
func AggregateNamespaces() []string {
	return []string{NamespaceAll, NamespaceSearch}
}

// ItemKey is the key of a single item under NamespaceItem.
func ItemKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// SearchKey composes the exact, order-sensitive key of one search page.
// The query is quoted so it can never collide with the numeric suffix.
func SearchKey(query string, page, size int) string {
	return fmt.Sprintf("%q:%d:%d", query, page, size)
}
