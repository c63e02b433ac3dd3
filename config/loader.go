package config

// Loader 配置源
type Loader interface {
	// Load 将配置解码到 target（结构体指针），包括默认值填充和校验
	Load(target any) error

	// Watch 在配置源变化时调用 callback，不阻塞
	Watch(callback func()) error
}
