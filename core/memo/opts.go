package memo

type (
	valueOption[T any] struct{ v T }

	// NamespaceOption overrides the key namespace.
	NamespaceOption valueOption[string]
	// ErrCachingOption controls whether failed computations are cached.
	ErrCachingOption valueOption[bool]

	// Option configures a memoized function.
	Option interface {
		applyToMemo(*memoOpts)
	}

	memoOpts struct {
		namespace   string
		cacheErrors bool
	}
)

func (o NamespaceOption) applyToMemo(opts *memoOpts)  { opts.namespace = o.v }
func (o ErrCachingOption) applyToMemo(opts *memoOpts) { opts.cacheErrors = o.v }

// WithNamespace sets the key namespace. Wrappers with the same namespace on
// the same cache share entries; the default namespace is derived from the
// result type, so two memoized functions returning the same type on a shared
// cache need distinct namespaces to stay apart.
func WithNamespace(ns string) NamespaceOption { return NamespaceOption{v: ns} }

// WithErrCaching enables caching of failed computations: the error is stored
// under the key and returned on later calls instead of re-running the
// function. Disabled by default, so errors are transparent and every call
// retries until one succeeds.
func WithErrCaching(enabled bool) ErrCachingOption { return ErrCachingOption{v: enabled} }

func newMemoOpts(defaultNS string, opts ...Option) memoOpts {
	options := memoOpts{
		namespace: defaultNS,
	}
	for _, opt := range opts {
		opt.applyToMemo(&options)
	}
	return options
}
