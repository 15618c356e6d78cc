package config

// Settings for the editor, from chrdig.ini. Everything lives in the default section:
//
//	dir = /home/me/saves/Main
//	platform = auto
//	checksum = true
//	quiet_ms = 2000
//	backup = true

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"

	"chrdig/types"
)

const DEFAULT_FILENAME = "chrdig.ini"

type Config struct {
	Dir string
	// Force this platform instead of detecting it.
	Platform       types.Platform
	Force_platform bool
	Checksum       bool
	Quiet          time.Duration
	Backup         bool
}

func Default() *Config {
	return &Config{
		Checksum: true,
		Quiet:    2 * time.Second,
		Backup:   true,
	}
}

// Load reads filename. A missing file is not an error: you get the defaults.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return cfg, nil
	}
	f, err := ini.Load(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "config %v", filename)
	}

	// Classic read of values, default section can be represented as empty string
	sec := f.Section("")
	cfg.Dir = sec.Key("dir").String()

	switch p := sec.Key("platform").MustString("auto"); p {
	case "", "auto":
	default:
		cfg.Platform, err = types.Parse_platform(p)
		if err != nil {
			return nil, errors.Wrapf(err, "config %v", filename)
		}
		cfg.Force_platform = true
	}

	cfg.Checksum = sec.Key("checksum").MustBool(cfg.Checksum)
	cfg.Backup = sec.Key("backup").MustBool(cfg.Backup)
	quiet := sec.Key("quiet_ms").MustInt(int(cfg.Quiet / time.Millisecond))
	if quiet < 0 {
		return nil, errors.Errorf("config %v: quiet_ms must not be negative", filename)
	}
	cfg.Quiet = time.Duration(quiet) * time.Millisecond

	return cfg, nil
}

// Save writes the settings back in the same format.
func (c *Config) Save(filename string) error {
	f := ini.Empty()
	sec := f.Section("")
	sec.Key("dir").SetValue(c.Dir)
	platform := "auto"
	if c.Force_platform {
		platform = c.Platform.String()
	}
	sec.Key("platform").SetValue(platform)
	sec.Key("checksum").SetValue(strconv.FormatBool(c.Checksum))
	sec.Key("quiet_ms").SetValue(strconv.Itoa(int(c.Quiet / time.Millisecond)))
	sec.Key("backup").SetValue(strconv.FormatBool(c.Backup))
	return errors.Wrapf(f.SaveTo(filename), "config %v", filename)
}

