// Package config loads Noel's runtime configuration with viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory (without extension).
const FileName = "noel"

// Config is the full set of tunables.
type Config struct {
	LogLevel  string          `mapstructure:"logLevel"`
	Server    ServerConfig    `mapstructure:"server"`
	Camera    CameraConfig    `mapstructure:"camera"`
	Detector  DetectorConfig  `mapstructure:"detector"`
	Gesture   GestureConfig   `mapstructure:"gesture"`
	Control   ControlConfig   `mapstructure:"control"`
	Countdown CountdownConfig `mapstructure:"countdown"`
	Animation AnimationConfig `mapstructure:"animation"`
	Scene     SceneConfig     `mapstructure:"scene"`
	Store     StoreConfig     `mapstructure:"store"`
	Tray      TrayConfig      `mapstructure:"tray"`
	Init      InitConfig      `mapstructure:"init"`
}

// ServerConfig holds HTTP/WebSocket settings.
type ServerConfig struct {
	Addr         string `mapstructure:"addr"`
	StaticDir    string `mapstructure:"staticDir"`
	BroadcastFPS int    `mapstructure:"broadcastFPS"`
}

// CameraConfig holds video capture settings.
type CameraConfig struct {
	DeviceID int `mapstructure:"deviceID"`
	FPS      int `mapstructure:"fps"`
	Width    int `mapstructure:"width"`
	Height   int `mapstructure:"height"`
}

// DetectorConfig holds landmark model settings.
type DetectorConfig struct {
	MaxHands        int     `mapstructure:"maxHands"`
	MinConfidence   float64 `mapstructure:"minConfidence"`
	MinTrackingConf float64 `mapstructure:"minTrackingConf"`
}

// GestureConfig holds classifier thresholds in normalized image space.
type GestureConfig struct {
	ExtendRatio   float64 `mapstructure:"extendRatio"`
	ThumbExtend   float64 `mapstructure:"thumbExtend"`
	PinchDistance float64 `mapstructure:"pinchDistance"`
}

// ControlConfig holds debouncer hold counts and steering gain.
type ControlConfig struct {
	PinchHold     int     `mapstructure:"pinchHold"`
	CaptureHold   int     `mapstructure:"captureHold"`
	RotationGain  float64 `mapstructure:"rotationGain"`
	IdleRotation  float64 `mapstructure:"idleRotation"`
	CommandBuffer int     `mapstructure:"commandBuffer"`
}

// CountdownConfig holds the capture countdown settings.
type CountdownConfig struct {
	Steps           int           `mapstructure:"steps"`
	Interval        time.Duration `mapstructure:"interval"`
	PreviewDuration time.Duration `mapstructure:"previewDuration"`
	CancelOnReset   bool          `mapstructure:"cancelOnReset"`
	FlashDuration   time.Duration `mapstructure:"flashDuration"`
}

// AnimationConfig holds the stepper rates.
type AnimationConfig struct {
	FPS           int     `mapstructure:"fps"`
	LerpRate      float64 `mapstructure:"lerpRate"`
	OverrideRate  float64 `mapstructure:"overrideRate"`
	OverrideScale float64 `mapstructure:"overrideScale"`
}

// SceneConfig holds scene population settings.
type SceneConfig struct {
	Seed          uint64  `mapstructure:"seed"`
	Ornaments     int     `mapstructure:"ornaments"`
	Lights        int     `mapstructure:"lights"`
	SmallStars    int     `mapstructure:"smallStars"`
	Dust          int     `mapstructure:"dust"`
	TreeHeight    float64 `mapstructure:"treeHeight"`
	BaseRadius    float64 `mapstructure:"baseRadius"`
	ScatterRadius float64 `mapstructure:"scatterRadius"`
	PhotoOffset   float64 `mapstructure:"photoOffset"`
}

// StoreConfig holds the session photo store settings.
type StoreConfig struct {
	DSN string `mapstructure:"dsn"`
}

// TrayConfig holds tray settings.
type TrayConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// InitConfig holds vision initialization settings.
type InitConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.staticDir", "")
	v.SetDefault("server.broadcastFPS", 30)

	v.SetDefault("camera.deviceID", 0)
	v.SetDefault("camera.fps", 30)
	v.SetDefault("camera.width", 640)
	v.SetDefault("camera.height", 480)

	v.SetDefault("detector.maxHands", 1)
	v.SetDefault("detector.minConfidence", 0.7)
	v.SetDefault("detector.minTrackingConf", 0.6)

	v.SetDefault("gesture.extendRatio", 1.2)
	v.SetDefault("gesture.thumbExtend", 0.05)
	v.SetDefault("gesture.pinchDistance", 0.04)

	v.SetDefault("control.pinchHold", 12)
	v.SetDefault("control.captureHold", 25)
	v.SetDefault("control.rotationGain", 0.035)
	v.SetDefault("control.idleRotation", 0.002)
	v.SetDefault("control.commandBuffer", 64)

	v.SetDefault("countdown.steps", 3)
	v.SetDefault("countdown.interval", "1s")
	v.SetDefault("countdown.previewDuration", "3s")
	v.SetDefault("countdown.cancelOnReset", true)
	v.SetDefault("countdown.flashDuration", "200ms")

	v.SetDefault("animation.fps", 60)
	v.SetDefault("animation.lerpRate", 0.035)
	v.SetDefault("animation.overrideRate", 0.15)
	v.SetDefault("animation.overrideScale", 3.0)

	v.SetDefault("scene.seed", 0)
	v.SetDefault("scene.ornaments", 765)
	v.SetDefault("scene.lights", 225)
	v.SetDefault("scene.smallStars", 162)
	v.SetDefault("scene.dust", 5400)
	v.SetDefault("scene.treeHeight", 55.0)
	v.SetDefault("scene.baseRadius", 22.0)
	v.SetDefault("scene.scatterRadius", 75.0)
	v.SetDefault("scene.photoOffset", 2.0)

	v.SetDefault("store.dsn", "file:noel?mode=memory")

	v.SetDefault("tray.enabled", true)

	v.SetDefault("init.timeout", "8s")
}

// Flags returns the command-line flags that override config keys.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("noel", pflag.ContinueOnError)
	fs.String("config", "", "directory containing noel.yaml")
	fs.String("addr", "", "HTTP listen address")
	fs.Int("camera", 0, "camera device id")
	fs.String("log-level", "", "log level (trace, debug, info, warn, error)")
	fs.Bool("no-tray", false, "run without the system tray")
	return fs
}

// Load reads configuration from dir (may be empty), NOEL_* environment
// variables and the given flags (may be nil). A missing config file is not
// an error.
func Load(dir string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("NOEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if dir == "" {
			if f := flags.Lookup("config"); f != nil {
				dir = f.Value.String()
			}
		}
		bindFlag(v, flags, "server.addr", "addr")
		bindFlag(v, flags, "camera.deviceID", "camera")
		bindFlag(v, flags, "logLevel", "log-level")
		if f := flags.Lookup("no-tray"); f != nil && f.Changed {
			v.Set("tray.enabled", false)
		}
	}

	if dir != "" {
		v.SetConfigName(FileName)
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// bindFlag binds a flag only when it was set, so unset flags never mask
// file or environment values.
func bindFlag(v *viper.Viper, flags *pflag.FlagSet, key, name string) {
	f := flags.Lookup(name)
	if f == nil || !f.Changed {
		return
	}
	_ = v.BindPFlag(key, f)
}

// Validate rejects values that would stall or destabilize the loops.
func (c *Config) Validate() error {
	switch {
	case c.Animation.FPS <= 0:
		return fmt.Errorf("animation.fps must be positive, got %d", c.Animation.FPS)
	case c.Camera.FPS <= 0:
		return fmt.Errorf("camera.fps must be positive, got %d", c.Camera.FPS)
	case c.Animation.LerpRate <= 0 || c.Animation.LerpRate > 1:
		return fmt.Errorf("animation.lerpRate must be in (0,1], got %g", c.Animation.LerpRate)
	case c.Animation.OverrideRate <= 0 || c.Animation.OverrideRate > 1:
		return fmt.Errorf("animation.overrideRate must be in (0,1], got %g", c.Animation.OverrideRate)
	case c.Countdown.Steps <= 0:
		return fmt.Errorf("countdown.steps must be positive, got %d", c.Countdown.Steps)
	case c.Countdown.Interval <= 0:
		return fmt.Errorf("countdown.interval must be positive, got %s", c.Countdown.Interval)
	case c.Init.Timeout <= 0:
		return fmt.Errorf("init.timeout must be positive, got %s", c.Init.Timeout)
	}
	return nil
}
