// Package config loads the configuration of the hxtag binaries: the gallery
// server, logging and the tags it shows.
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pthm/hxtag"
	"github.com/spf13/viper"
)

// ErrInvalid is returned when a loaded configuration fails validation.
var ErrInvalid = errors.New("config: invalid")

// Config holds application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Tags   []TagConfig  `mapstructure:"tags" validate:"dive"`
}

// ServerConfig holds the gallery server settings.
type ServerConfig struct {
	Addr      string `mapstructure:"addr" validate:"required,hostname_port"`
	Key       string `mapstructure:"key" validate:"omitempty,min=16"`
	Sensitive bool   `mapstructure:"sensitive"`
	Prefix    string `mapstructure:"prefix" validate:"required,startswith=/,endswith=/"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Human bool   `mapstructure:"human"`
}

// TagConfig describes one tag of the gallery.
type TagConfig struct {
	Label     string `mapstructure:"label" validate:"required"`
	Kind      string `mapstructure:"kind" validate:"omitempty,tag_kind"`
	Variant   string `mapstructure:"variant" validate:"omitempty,tag_variant"`
	Color     string `mapstructure:"color" validate:"required_if=Kind custom,omitempty,iscolor"`
	Closeable *bool  `mapstructure:"closeable"`
	Disabled  bool   `mapstructure:"disabled"`
	Clickable bool   `mapstructure:"clickable"`
	Title     string `mapstructure:"title"`
}

// Props converts the entry into tag props. Handlers are left to the caller.
func (tc TagConfig) Props() (hxtag.Props, error) {
	kind, err := hxtag.ParseKind(tc.Kind)
	if err != nil {
		return hxtag.Props{}, err
	}
	variant, err := hxtag.ParseVariant(tc.Variant)
	if err != nil {
		return hxtag.Props{}, err
	}
	return hxtag.Props{
		Children:  tc.Label,
		Closeable: tc.Closeable,
		Color:     tc.Color,
		Disabled:  tc.Disabled,
		Kind:      kind,
		Variant:   variant,
		Title:     tc.Title,
	}, nil
}

// DefaultTags is the gallery shown when the configuration lists no tags.
func DefaultTags() []TagConfig {
	return []TagConfig{
		{Label: "golang", Kind: string(hxtag.KindPrimary), Clickable: true},
		{Label: "templ", Kind: string(hxtag.KindAccent), Variant: string(hxtag.VariantSolid)},
		{Label: "htmx", Kind: string(hxtag.KindPositive), Variant: string(hxtag.VariantOutlined), Clickable: true},
		{Label: "read only", Kind: string(hxtag.KindNeutral), Closeable: hxtag.Bool(false)},
		{Label: "archived", Kind: string(hxtag.KindWarning), Disabled: true},
		{Label: "brand", Kind: string(hxtag.KindCustom), Color: "#6c2bd9", Clickable: true},
	}
}

// Load reads configuration from path (yaml or toml, by extension) and the
// environment. Env var overrides use prefix HXTAG_, e.g. HXTAG_SERVER_ADDR.
// An empty path looks for hxtag.{yaml,toml} in the working directory and
// falls back to defaults when none exists.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.key", "")
	v.SetDefault("server.sensitive", false)
	v.SetDefault("server.prefix", hxtag.DefaultPrefix)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.human", true)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("hxtag")
	}

	v.SetEnvPrefix("HXTAG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.Tags) == 0 {
		c.Tags = DefaultTags()
	}
	if err := Validate(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("tag_kind", func(fl validator.FieldLevel) bool {
			_, err := hxtag.ParseKind(fl.Field().String())
			return err == nil
		})

		_ = v.RegisterValidation("tag_variant", func(fl validator.FieldLevel) bool {
			_, err := hxtag.ParseVariant(fl.Field().String())
			return err == nil
		})

		validateInst = v
	})
	return validateInst
}

// Validate performs schema validation on the configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: configuration is nil", ErrInvalid)
	}
	if err := validatorInstance().Struct(cfg); err != nil {
		return convertValidationError(err)
	}
	return nil
}

func convertValidationError(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	ve := ves[0]
	field := fieldName(ve)
	switch ve.Tag() {
	case "tag_kind":
		_, perr := hxtag.ParseKind(ve.Value().(string))
		return fmt.Errorf("%w: %s: %v", ErrInvalid, field, perr)
	case "tag_variant":
		_, perr := hxtag.ParseVariant(ve.Value().(string))
		return fmt.Errorf("%w: %s: %v", ErrInvalid, field, perr)
	}
	return fmt.Errorf("%w: %s failed validation for tag '%s'", ErrInvalid, field, ve.Tag())
}

// fieldName turns "Config.Tags[0].Kind" into "tags[0].kind".
func fieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}
	return strings.Join(parts, ".")
}
