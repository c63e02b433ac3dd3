package writer

import (
	"io"
	"path/filepath"

	"github.com/kochabx/apiclient/errors"
)

// RotateConfig 文件输出配置
type RotateConfig struct {
	Mode     RotateMode
	Dir      string
	Filename string
	Ext      string
	Time     TimeRotateConfig
	Size     SizeRotateConfig
}

// File 创建带轮转的文件 writer，调用方负责 Close
func File(c RotateConfig) (io.WriteCloser, error) {
	switch c.Mode {
	case RotateModeTime:
		return timeRotateWriter(c)
	case RotateModeSize:
		return sizeRotateWriter(c)
	default:
		return nil, errors.BadRequest("unsupported rotate mode %q", c.Mode)
	}
}

// path 返回 <Dir>/<Filename>[.<suffix>].<Ext>
func (c RotateConfig) path(suffix string) string {
	name := c.Filename
	if suffix != "" {
		name += "." + suffix
	}
	return filepath.Join(c.Dir, name+"."+c.Ext)
}
