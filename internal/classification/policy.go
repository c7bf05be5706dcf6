package classification

// Weights are the per-signal contributions used when scoring categories.
type Weights struct {
	Required     int `mapstructure:"required"`
	Pattern      int `mapstructure:"pattern"`
	Spec         int `mapstructure:"spec"`
	Excluded     int `mapstructure:"excluded"` // subtracted per hit
	PriceInRange int `mapstructure:"price_in_range"`
}

// Policy holds the tunable acceptance knobs. The defaults were fitted to one
// PCPartPicker export; recalibrate them when adding a new source.
type Policy struct {
	Weights Weights `mapstructure:"weights"`

	// DetectThreshold is the score the winning category must exceed.
	DetectThreshold int `mapstructure:"detect_threshold"`

	// Acceptance paths for Validate. Any enabled path that holds accepts.
	AcceptRequiredWithPattern bool `mapstructure:"accept_required_with_pattern"`
	AcceptPatternWithBrand    bool `mapstructure:"accept_pattern_with_brand"`
	AcceptRequiredWithSpec    bool `mapstructure:"accept_required_with_spec"`
	AcceptRequiredAlone       bool `mapstructure:"accept_required_alone"`
}

// DefaultPolicy returns the policy the built-in rules were tuned against.
func DefaultPolicy() Policy {
	return Policy{
		Weights: Weights{
			Required:     3,
			Pattern:      5,
			Spec:         2,
			Excluded:     10,
			PriceInRange: 1,
		},
		DetectThreshold:           2,
		AcceptRequiredWithPattern: true,
		AcceptPatternWithBrand:    true,
		AcceptRequiredWithSpec:    true,
		AcceptRequiredAlone:       true,
	}
}
