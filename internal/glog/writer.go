package glog

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

func newWriter(filename string, cfg FileConfig) io.Writer {
	if cfg.MaxSize == 0 {
		cfg.MaxSize = 200
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 30
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 14
	}
	return &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		LocalTime:  cfg.LocalTime,
		Compress:   cfg.Compress,
	}
}
