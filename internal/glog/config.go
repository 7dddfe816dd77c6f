package glog

import "go.uber.org/zap/zapcore"

// Config controls the module-wide logger every ambient package (and any
// embedding application) shares.
type Config struct {
	Path         string     `json:"path" yaml:"path"`
	Level        string     `json:"level" yaml:"level"`
	PrintConsole bool       `json:"printConsole" yaml:"printConsole"`
	File         FileConfig `json:"file" yaml:"file"`
}

// FileConfig maps directly onto lumberjack.Logger's rotation knobs.
type FileConfig struct {
	MaxSize    int  `json:"maxSize" yaml:"maxSize"`
	MaxBackups int  `json:"maxBackups" yaml:"maxBackups"`
	MaxAge     int  `json:"maxAge" yaml:"maxAge"`
	Compress   bool `json:"compress" yaml:"compress"`
	LocalTime  bool `json:"localTime" yaml:"localTime"`
}

func DefaultConfig() *Config {
	return &Config{
		Path:         "./logs/actorkit.log",
		Level:        "info",
		PrintConsole: true,
		File: FileConfig{
			MaxSize:    200,
			MaxBackups: 30,
			MaxAge:     14,
			Compress:   false,
			LocalTime:  true,
		},
	}
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "dpanic":
		return zapcore.DPanicLevel
	case "panic":
		return zapcore.PanicLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
