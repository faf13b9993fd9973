package xconf

// Options 定义 Config 的加载选项。
type Options struct {
	// Delim 配置键路径的分隔符，默认为 "."。
	Delim string

	// Tag Unmarshal 时使用的结构体标签名，默认为 "koanf"。
	Tag string
}

// Option 定义配置加载选项函数类型。
type Option func(*Options)

// defaultOptions 返回默认加载选项。
func defaultOptions() *Options {
	return &Options{
		Delim: ".",
		Tag:   "koanf",
	}
}

// WithDelim 设置配置键路径分隔符。
// 默认为 "."，例如 "status.cache_ttl"。
func WithDelim(delim string) Option {
	return func(o *Options) {
		o.Delim = delim
	}
}

// WithTag 设置 Unmarshal 使用的结构体标签名。
// Settings 等内置配置结构按默认的 "koanf" 标签映射字段。
func WithTag(tag string) Option {
	return func(o *Options) {
		o.Tag = tag
	}
}
