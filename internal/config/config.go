package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"DigitalWhiteboard/internal/session"
)

const (
	appDirName     = ".whiteboard"
	defaultTitle   = "Interactive Digital Whiteboard"
	defaultWindowW = 1000
	defaultWindowH = 700
	defaultCanvasW = 800
	defaultCanvasH = 600
)

type Config struct {
	Session SessionConfig `toml:"session"`
	Window  WindowConfig  `toml:"window"`
	Canvas  CanvasConfig  `toml:"canvas"`
	Media   MediaConfig   `toml:"media"`
	Logging LoggingConfig `toml:"logging"`
}

type SessionConfig struct {
	// Path is restored on startup and is the default save target.
	Path          string `toml:"path"`
	Autoload      bool   `toml:"autoload"`
	RecordAnchors bool   `toml:"record_anchors"`
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type CanvasConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type MediaConfig struct {
	FFplay string `toml:"ffplay"`
	FFmpeg string `toml:"ffmpeg"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

func Default() Config {
	return Config{
		Session: SessionConfig{
			Path:          session.DefaultFile,
			Autoload:      true,
			RecordAnchors: false,
		},
		Window: WindowConfig{
			Title:  defaultTitle,
			Width:  defaultWindowW,
			Height: defaultWindowH,
		},
		Canvas: CanvasConfig{
			Width:  defaultCanvasW,
			Height: defaultCanvasH,
		},
		Media: MediaConfig{
			FFplay: "ffplay",
			FFmpeg: "ffmpeg",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DataDir returns the per-user directory holding config.toml.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, appDirName), nil
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config at path over the defaults. An empty path means the
// default location. A missing or blank file yields the defaults.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		p, err := Path()
		if err != nil {
			return Config{}, err
		}
		path = p
	}
	cfg := Default()
	if err := readTOML(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readTOML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}

// SessionPath is the startup session file, or "" when autoload is off.
func (c Config) SessionPath() string {
	if !c.Session.Autoload {
		return ""
	}
	p := strings.TrimSpace(c.Session.Path)
	if p == "" {
		return session.DefaultFile
	}
	return p
}

func (c Config) Title() string {
	if t := strings.TrimSpace(c.Window.Title); t != "" {
		return t
	}
	return defaultTitle
}

func (c Config) WindowSize() (w, h int) {
	return positiveOr(c.Window.Width, defaultWindowW), positiveOr(c.Window.Height, defaultWindowH)
}

func (c Config) CanvasSize() (w, h int) {
	return positiveOr(c.Canvas.Width, defaultCanvasW), positiveOr(c.Canvas.Height, defaultCanvasH)
}

func (c Config) FFplay() string {
	return strOr(c.Media.FFplay, "ffplay")
}

func (c Config) FFmpeg() string {
	return strOr(c.Media.FFmpeg, "ffmpeg")
}

func (c Config) LogLevel() string {
	return strOr(c.Logging.Level, "info")
}

func positiveOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func strOr(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}
