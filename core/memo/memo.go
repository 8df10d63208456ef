package memo

import (
	"context"
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/codewandler/cachr-go/core/cache"
	"github.com/codewandler/cachr-go/core/sf"
	"github.com/codewandler/cachr-go/internal/codec"
	"github.com/codewandler/cachr-go/internal/keyhash"
	"github.com/codewandler/cachr-go/internal/reflector"
)

var enc = codec.JSONCodec{}

// types implementing these control their own JSON encoding; field visibility
// says nothing about them.
var (
	marshalerType     = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// result is what a memoized function stores in the cache. The error field
// stays nil unless error caching is enabled.
type result[R any] struct {
	val R
	err error
}

// memoizer routes calls for one memoized function through its cache and its
// single-flight group.
type memoizer[R any] struct {
	c      cache.Cache
	opts   memoOpts
	flight sf.Singleflight[result[R]]
}

func newMemoizer[R any](c cache.Cache, opts ...Option) *memoizer[R] {
	return &memoizer[R]{
		c:    c,
		opts: newMemoOpts(reflector.TypeInfoFor[R]().Name, opts...),
	}
}

func (m *memoizer[R]) key(digest string) string {
	return m.opts.namespace + "/" + digest
}

// lookup reads a stored result for key. Entries of a foreign type (another
// wrapper sharing the namespace) read as absent and get overwritten.
func (m *memoizer[R]) lookup(key string) (result[R], bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return result[R]{}, false
	}
	res, ok := v.(result[R])
	return res, ok
}

// call returns the cached result for key or computes it, deduplicating
// concurrent computations of the same key.
func (m *memoizer[R]) call(key string, compute func() (R, error)) (R, error) {
	if res, ok := m.lookup(key); ok {
		return res.val, res.err
	}

	res, err := m.flight.Do(key, func() (result[R], error) {
		// a concurrent caller may have stored the result while this one was
		// waiting for the flight
		if res, ok := m.lookup(key); ok {
			return res, nil
		}

		val, err := compute()
		if err != nil && !m.opts.cacheErrors {
			return result[R]{}, err
		}

		res := result[R]{val: val, err: err}
		m.c.Set(key, res)
		return res, nil
	})
	if err != nil {
		var zero R
		return zero, err
	}
	return res.val, res.err
}

// Memoize wraps fn so results are cached in c under keys derived from the
// argument. Concurrent calls with the same argument run fn once and share
// the outcome; errors are returned but not cached unless WithErrCaching is
// set.
//
// Keys come from the argument's JSON encoding (string arguments hash their
// raw bytes), so the encoding must be value-faithful; argument types with no
// JSON-visible fields fail with ErrKeyEncoding. See the package
// documentation on keys.
func Memoize[A comparable, R any](c cache.Cache, fn func(A) (R, error), opts ...Option) func(A) (R, error) {
	m := newMemoizer[R](c, opts...)
	argKey := keyFor[A]()

	return func(a A) (R, error) {
		digest, err := argKey(a)
		if err != nil {
			var zero R
			return zero, err
		}
		return m.call(m.key(digest), func() (R, error) {
			return fn(a)
		})
	}
}

// MemoizeCtx is Memoize for context-taking functions. The context rides
// along into fn and is not part of the cache key; note that when concurrent
// calls collapse into one flight, fn observes the first caller's context.
// The argument keys exactly as in Memoize.
func MemoizeCtx[A comparable, R any](c cache.Cache, fn func(context.Context, A) (R, error), opts ...Option) func(context.Context, A) (R, error) {
	m := newMemoizer[R](c, opts...)
	argKey := keyFor[A]()

	return func(ctx context.Context, a A) (R, error) {
		digest, err := argKey(a)
		if err != nil {
			var zero R
			return zero, err
		}
		return m.call(m.key(digest), func() (R, error) {
			return fn(ctx, a)
		})
	}
}

// MemoizeN is Memoize for variadic functions. Every argument must be
// JSON-encodable with a value-faithful encoding; calls with arguments that
// cannot be encoded, or whose type has no JSON-visible fields, fail with
// ErrKeyEncoding.
func MemoizeN[R any](c cache.Cache, fn func(args ...any) (R, error), opts ...Option) func(args ...any) (R, error) {
	m := newMemoizer[R](c, opts...)

	return func(args ...any) (R, error) {
		parts := make([][]byte, len(args))
		for i, arg := range args {
			if t := reflect.TypeOf(arg); t != nil && opaqueJSON(t) {
				var zero R
				return zero, fmt.Errorf("%w: argument %d: %s has no JSON-visible fields", ErrKeyEncoding, i, t)
			}
			b, err := enc.Marshal(arg)
			if err != nil {
				var zero R
				return zero, fmt.Errorf("%w: argument %d: %v", ErrKeyEncoding, i, err)
			}
			parts[i] = b
		}
		return m.call(m.key(keyhash.DigestParts(parts...)), func() (R, error) {
			return fn(args...)
		})
	}
}

// keyFor resolves the argument-to-digest function for A once, at wrap time.
// String-kinded arguments hash their raw bytes; everything else goes through
// the JSON encoding. Types whose encoding keeps no fields would collapse
// every value onto one key and are rejected up front.
func keyFor[A comparable]() func(A) (string, error) {
	t := reflect.TypeOf((*A)(nil)).Elem()
	if t.Kind() == reflect.String {
		return func(a A) (string, error) {
			return keyhash.DigestString(reflect.ValueOf(a).String()), nil
		}
	}
	if opaqueJSON(t) {
		err := fmt.Errorf("%w: %s has no JSON-visible fields", ErrKeyEncoding, t)
		return func(A) (string, error) { return "", err }
	}
	return func(a A) (string, error) {
		b, err := enc.Marshal(a)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrKeyEncoding, err)
		}
		return keyhash.Digest(b), nil
	}
}

// opaqueJSON reports whether every value of t marshals to the same empty
// JSON object: a struct (or pointer to one) with fields, none of them
// visible to encoding/json, and no marshaler of its own. Types like
// time.Time that encode themselves despite unexported fields pass.
func opaqueJSON(t reflect.Type) bool {
	if t.Implements(marshalerType) || t.Implements(textMarshalerType) {
		return false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct && t.NumField() > 0 && !hasVisibleField(t)
}

// hasVisibleField mirrors encoding/json's field selection: exported fields
// count unless tagged "-", and unexported embedded structs may still promote
// exported fields.
func hasVisibleField(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Tag.Get("json") == "-" {
			continue
		}
		if f.IsExported() {
			return true
		}
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if f.Anonymous && ft.Kind() == reflect.Struct && hasVisibleField(ft) {
			return true
		}
	}
	return false
}
