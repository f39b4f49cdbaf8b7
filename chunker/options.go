package chunker

type Option func(*Options)

type Options struct {
	Size       int
	Overlap    int
	Separators []string
}

func WithSize(size int) Option {
	return func(o *Options) {
		o.Size = size
	}
}

func WithOverlap(overlap int) Option {
	return func(o *Options) {
		o.Overlap = overlap
	}
}

func WithSeparators(separators ...string) Option {
	return func(o *Options) {
		o.Separators = separators
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Size:    1000,
		Overlap: 200,
		// paragraph, line, sentence, word; no character fallback so an
		// unsplittable span survives as one oversized chunk
		Separators: []string{"\n\n", "\n", ". ", " "},
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
