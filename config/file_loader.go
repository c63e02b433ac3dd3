package config

import (
	"path"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/kochabx/apiclient/core/tag"
	"github.com/kochabx/apiclient/core/validator"
	"github.com/kochabx/apiclient/errors"
)

// FileLoader loads configuration from file
type FileLoader struct {
	viper    *viper.Viper
	validate validator.Validator
	name     string
	paths    []string
}

// FileLoaderOption configures a FileLoader
type FileLoaderOption func(*FileLoader)

// WithEnvPrefix only lets environment variables starting with PREFIX_ override the file
func WithEnvPrefix(prefix string) FileLoaderOption {
	return func(l *FileLoader) {
		l.viper.SetEnvPrefix(prefix)
	}
}

// NewFileLoader creates a new file loader.
// Keys can be overridden through environment variables, with "." replaced by "_".
func NewFileLoader(name string, paths []string, v *viper.Viper, validate validator.Validator, opts ...FileLoaderOption) *FileLoader {
	// Determine config type from file extension
	extension := path.Ext(name)
	configType := strings.TrimPrefix(extension, ".")

	for _, configPath := range paths {
		v.AddConfigPath(configPath)
	}

	v.SetConfigName(name)
	v.SetConfigType(configType)

	l := &FileLoader{
		viper:    v,
		paths:    paths,
		name:     name,
		validate: validate,
	}
	for _, opt := range opts {
		opt(l)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return l
}

// Load implements Loader interface
func (l *FileLoader) Load(target any) error {
	// Defaults go in first so keys missing from the file keep them
	if err := tag.ApplyDefaults(target); err != nil {
		return errors.Wrap(err, errors.UnknownCode, "apply defaults")
	}

	if err := l.viper.ReadInConfig(); err != nil {
		return errors.Wrap(err, errors.NotFoundCode, "config file %s not found", l.name)
	}

	if err := l.viper.Unmarshal(target); err != nil {
		return errors.Wrap(err, errors.UnknownCode, "parse config %s", l.name)
	}

	if l.validate != nil {
		if err := l.validate.Struct(target); err != nil {
			return errors.Wrap(err, errors.InvalidArgument, "validate config %s", l.name)
		}
	}

	return nil
}

// Watch implements Loader interface
func (l *FileLoader) Watch(callback func()) error {
	l.viper.OnConfigChange(func(e fsnotify.Event) {
		if callback != nil && e.Has(fsnotify.Write|fsnotify.Create) {
			callback()
		}
	})

	l.viper.WatchConfig()
	return nil
}
