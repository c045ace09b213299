package introduction

import (
	"github.com/mitchellh/mapstructure"

	"github.com/glimte/weave-go/contracts"
	"github.com/glimte/weave-go/pointcut"
)

// GuardConfig declares which introduced operations a guard rejects. Patterns
// use the same glob syntax as pointcut.NameMatch. A method is rejected when
// it matches a deny pattern and no allow pattern.
type GuardConfig struct {
	// Deny lists method name patterns the guard rejects.
	Deny []string `mapstructure:"deny"`
	// Allow lists method name patterns exempt from Deny.
	Allow []string `mapstructure:"allow"`
}

// DefaultGuardConfig denies mutating operations by the Set prefix
// convention.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{Deny: []string{"Set*"}}
}

// DecodeGuardConfig decodes a guard configuration from a raw descriptor map,
// as handed over by an external configuration layer.
func DecodeGuardConfig(raw map[string]any) (GuardConfig, error) {
	var cfg GuardConfig
	if err := mapstructure.Decode(raw, &cfg); err != nil {
		return GuardConfig{}, &contracts.ConfigError{Op: "guard", Reason: "invalid guard configuration", Err: err}
	}
	return cfg, nil
}

// Compile turns the configuration into a predicate over introduced methods.
func (c GuardConfig) Compile() func(m *contracts.Method) bool {
	return func(m *contracts.Method) bool {
		if !pointcut.MatchesName(m.Name, c.Deny...) {
			return false
		}
		return !pointcut.MatchesName(m.Name, c.Allow...)
	}
}
