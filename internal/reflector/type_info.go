// Package reflector derives stable names for Go types. Memoization wrappers
// use these names as cache key namespaces, so two wrappers producing
// different result types never share keys.
package reflector

import (
	"reflect"
	"sync"
)

var (
	muCache sync.RWMutex
	cache   = make(map[reflect.Type]TypeInfo)
)

type TypeInfo struct {
	Name string
	Type reflect.Type
}

func TypeInfoOf(x any) TypeInfo {
	return TypeInfoForType(reflect.TypeOf(x))
}

func TypeInfoFor[T any]() TypeInfo {
	return TypeInfoForType(reflect.TypeOf((*T)(nil)).Elem())
}

// TypeInfoForType names t, unwrapping one level of pointer indirection so T
// and *T share a name. Named types yield "pkgpath.Name" (builtins just
// "Name"); unnamed types like []string fall back to their type literal.
func TypeInfoForType(t reflect.Type) TypeInfo {
	// check cache
	muCache.RLock()
	ti, ok := cache[t]
	muCache.RUnlock()
	if ok {
		return ti
	}

	if t == nil {
		return TypeInfo{}
	}

	orig := t
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	ti = TypeInfo{Name: nameOf(t), Type: t}

	muCache.Lock()
	cache[orig] = ti
	muCache.Unlock()
	return ti
}

func nameOf(t reflect.Type) string {
	name := t.Name()
	if name == "" {
		// unnamed composite type ([]string, map[string]int, ...)
		return t.String()
	}
	if pkg := t.PkgPath(); pkg != "" {
		return pkg + "." + name
	}
	return name
}
