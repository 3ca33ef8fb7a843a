package kdtransport

import (
	"fmt"
	"sort"
	"sync"

	"geniuart/errcode"
)

var (
	mu     sync.RWMutex
	tables = map[string]Table{}
)

// Register publishes a driver table under a static name. Drivers call it from
// init; a duplicate name or an incomplete table is a programming error.
func Register(name string, t Table) {
	if !t.Complete() {
		panic(fmt.Sprintf("transport table %q is incomplete", name))
	}
	mu.Lock()
	defer mu.Unlock()
	if _, exists := tables[name]; exists {
		panic(fmt.Sprintf("transport already registered for name %q", name))
	}
	tables[name] = t
}

func Lookup(name string) (Table, bool) {
	mu.RLock()
	defer mu.RUnlock()
	t, ok := tables[name]
	return t, ok
}

// MustLookup returns the table for name or an UnknownTransport error.
func MustLookup(name string) (Table, error) {
	t, ok := Lookup(name)
	if !ok {
		return Table{}, &errcode.E{C: errcode.UnknownTransport, Op: "lookup", Msg: name}
	}
	return t, nil
}

// Names lists registered transports in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(tables))
	for n := range tables {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
