package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/flowcell/actorkit/internal/glog"
	"github.com/flowcell/actorkit/pkg/mailbox"
)

// Config is the top-level configuration for a process embedding this
// module's mailbox subsystem: logging plus a set of named mailbox
// types. Loading a Config does not register the types with a factory.
type Config struct {
	Glog    glog.Config   `json:"glog" yaml:"glog"`
	Mailbox MailboxConfig `json:"mailbox" yaml:"mailbox"`
	Types   []MailboxType `json:"types" yaml:"types"`
}

// MailboxConfig holds process-wide mailbox defaults. Nothing in this
// module reads DefaultThroughput; it is carried for the embedding
// application.
type MailboxConfig struct {
	DefaultThroughput int `json:"defaultThroughput" yaml:"defaultThroughput"`
}

// MailboxType is one named entry destined for Factory.Register.
type MailboxType struct {
	Name            string `json:"name" yaml:"name"`
	Kind            string `json:"kind" yaml:"kind"`
	Capacity        int    `json:"capacity" yaml:"capacity"`
	PushTimeoutTime string `json:"pushTimeoutTime" yaml:"pushTimeoutTime"`
}

// Load reads and parses a YAML configuration file. Real actor-system
// configs ship push-timeout as a duration string (e.g. "5s"); callers
// parse MailboxType.PushTimeoutTime with time.ParseDuration before
// handing it to mailbox.Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config file")
	}
	return cfg, nil
}

// Default returns a single-fifo-mailbox configuration suitable for
// getting a process off the ground before any real config file exists.
func Default() *Config {
	return &Config{
		Glog: *glog.DefaultConfig(),
		Mailbox: MailboxConfig{
			DefaultThroughput: 10,
		},
		Types: []MailboxType{
			{Name: "default", Kind: mailbox.KindFIFO},
		},
	}
}
