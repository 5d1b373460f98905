package sanitizer

// Config is the environment-driven sanitizer configuration.
type Config struct {
	// Encoder selects the string encoder: html, xss, strict or ugc.
	Encoder string `env:"SANITIZER_ENCODER" envDefault:"html"`

	// MaxDepth bounds traversal depth per request payload.
	MaxDepth int `env:"SANITIZER_MAX_DEPTH" envDefault:"512"`

	// TagKey is the struct tag used for field overrides.
	TagKey string `env:"SANITIZER_TAG_KEY" envDefault:"sanitize"`
}

// NewFromConfig creates a Sanitizer from cfg. Zero values fall back to defaults.
// Additional options are applied after the config-derived ones.
func NewFromConfig(cfg Config, opts ...Option) (*Sanitizer, error) {
	enc, err := EncoderByName(cfg.Encoder)
	if err != nil {
		return nil, err
	}

	configOpts := make([]Option, 0, 3+len(opts))
	configOpts = append(configOpts, WithEncoder(enc), WithTagKey(cfg.TagKey))
	if cfg.MaxDepth > 0 {
		configOpts = append(configOpts, WithMaxDepth(cfg.MaxDepth))
	}
	configOpts = append(configOpts, opts...)

	return New(configOpts...), nil
}
