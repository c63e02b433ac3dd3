package tag

// Options default 标签的处理选项
type Options struct {
	tagName   string
	maxDepth  int
	separator string
	parser    ValueParser
}

type Option func(*Options)

// WithTagName 设置标签名，默认 "default"
func WithTagName(name string) Option {
	return func(o *Options) {
		o.tagName = name
	}
}

// WithMaxDepth 设置嵌套结构体的最大深度，默认 32
func WithMaxDepth(depth int) Option {
	return func(o *Options) {
		o.maxDepth = depth
	}
}

// WithSeparator 设置切片和 map 默认值的分隔符，默认 ","
func WithSeparator(sep string) Option {
	return func(o *Options) {
		o.separator = sep
	}
}

// WithParser 替换默认的值解析器
func WithParser(parser ValueParser) Option {
	return func(o *Options) {
		o.parser = parser
	}
}

func newOptions(opts []Option) *Options {
	options := &Options{
		tagName:   "default",
		maxDepth:  32,
		separator: ",",
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.separator == "" {
		options.separator = ","
	}
	if options.parser == nil {
		options.parser = &defaultParser{separator: options.separator}
	}
	return options
}
