package config

import (
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nateberkopec/toastdemo/internal/toast"
)

// Config holds the demo's tunables.
type Config struct {
	LogLevel       string        `mapstructure:"log_level"`
	LogFile        string        `mapstructure:"log_file"`
	MaxVisible     int           `mapstructure:"max_visible"`
	DesktopNotify  bool          `mapstructure:"desktop_notify"`
	Mouse          bool          `mapstructure:"mouse"`
	StatusTimeout  time.Duration `mapstructure:"status_timeout"`
	LoadingResolve time.Duration `mapstructure:"loading_resolve"`
	Lifetimes      Lifetimes     `mapstructure:"lifetimes"`
}

// Lifetimes sets the default lifetime per toast category. Zero or negative
// keeps toasts of that category until they are dismissed.
type Lifetimes struct {
	Success time.Duration `mapstructure:"success"`
	Error   time.Duration `mapstructure:"error"`
	Warning time.Duration `mapstructure:"warning"`
	Info    time.Duration `mapstructure:"info"`
	Loading time.Duration `mapstructure:"loading"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		LogLevel:       "info",
		MaxVisible:     5,
		Mouse:          true,
		StatusTimeout:  10 * time.Second,
		LoadingResolve: 2 * time.Second,
		Lifetimes: Lifetimes{
			Success: 3 * time.Second,
			Error:   5 * time.Second,
			Warning: 4 * time.Second,
			Info:    3 * time.Second,
			Loading: 0,
		},
	}
}

// Toast converts the configured lifetimes for the registry.
func (l Lifetimes) Toast() toast.Lifetimes {
	return toast.Lifetimes{
		toast.CategorySuccess: l.Success,
		toast.CategoryError:   l.Error,
		toast.CategoryWarning: l.Warning,
		toast.CategoryInfo:    l.Info,
		toast.CategoryLoading: l.Loading,
	}
}

type lifetimesView struct {
	Success string `yaml:"success"`
	Error   string `yaml:"error"`
	Warning string `yaml:"warning"`
	Info    string `yaml:"info"`
	Loading string `yaml:"loading"`
}

type configView struct {
	LogLevel       string        `yaml:"log_level"`
	LogFile        string        `yaml:"log_file,omitempty"`
	MaxVisible     int           `yaml:"max_visible"`
	DesktopNotify  bool          `yaml:"desktop_notify"`
	Mouse          bool          `yaml:"mouse"`
	StatusTimeout  string        `yaml:"status_timeout"`
	LoadingResolve string        `yaml:"loading_resolve"`
	Lifetimes      lifetimesView `yaml:"lifetimes"`
}

// YAML renders the configuration in the same shape the config file uses,
// with durations written as strings like "3s".
func (c Config) YAML() ([]byte, error) {
	view := configView{
		LogLevel:       c.LogLevel,
		LogFile:        c.LogFile,
		MaxVisible:     c.MaxVisible,
		DesktopNotify:  c.DesktopNotify,
		Mouse:          c.Mouse,
		StatusTimeout:  c.StatusTimeout.String(),
		LoadingResolve: c.LoadingResolve.String(),
		Lifetimes: lifetimesView{
			Success: c.Lifetimes.Success.String(),
			Error:   c.Lifetimes.Error.String(),
			Warning: c.Lifetimes.Warning.String(),
			Info:    c.Lifetimes.Info.String(),
			Loading: c.Lifetimes.Loading.String(),
		},
	}
	return yaml.Marshal(view)
}
