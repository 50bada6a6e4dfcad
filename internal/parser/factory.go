package parser

import (
	"fmt"

	"lexmerge/internal/config"
	"lexmerge/internal/domain"
	"lexmerge/internal/port"
)

// ProviderFactory is a function that creates a DocumentParser from a provider config.
type ProviderFactory func(cfg *config.ParserProviderConfig) (port.DocumentParser, error)

// registry of parser provider factories, populated by init() in each provider package
// or explicitly via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a parser provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewParser creates a DocumentParser from a provider config using the registered factory.
func NewParser(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown parser provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// Build composes the configured providers according to cfg.Mode:
//
//	single   - the primary provider only
//	fallback - primary, secondary, tertiary tried in order
//	merge    - primary and secondary in parallel, gaps filled from secondary
func Build(cfg *config.ParserConfig) (port.DocumentParser, error) {
	primaryCfg := cfg.PrimaryConfig()
	primary, err := NewParser(primaryCfg)
	if err != nil {
		return nil, fmt.Errorf("primary parser: %w", err)
	}

	switch domain.ParserMode(cfg.Mode) {
	case "", domain.ParserModeSingle:
		return primary, nil

	case domain.ParserModeFallback:
		parsers := []port.DocumentParser{primary}
		names := []string{primaryCfg.Provider}
		for _, extra := range []*config.ParserProviderConfig{cfg.SecondaryConfig(), cfg.TertiaryConfig()} {
			if extra == nil {
				continue
			}
			p, err := NewParser(extra)
			if err != nil {
				return nil, fmt.Errorf("fallback parser %s: %w", extra.Provider, err)
			}
			parsers = append(parsers, p)
			names = append(names, extra.Provider)
		}
		if len(parsers) == 1 {
			return primary, nil
		}
		return NewFallbackParser(parsers, names), nil

	case domain.ParserModeMerge:
		secondaryCfg := cfg.SecondaryConfig()
		if secondaryCfg == nil {
			return nil, fmt.Errorf("parser mode %q requires a secondary provider", cfg.Mode)
		}
		secondary, err := NewParser(secondaryCfg)
		if err != nil {
			return nil, fmt.Errorf("secondary parser: %w", err)
		}
		return NewMergeParser(primary, secondary), nil

	default:
		return nil, fmt.Errorf("unknown parser mode: %s", cfg.Mode)
	}
}
