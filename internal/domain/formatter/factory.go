package formatter

import (
	"lightbridge/internal/domain/model"
)

type Factory struct {
	strategies map[model.Variant]Strategy
}

func NewFactory() *Factory {
	return &Factory{
		strategies: map[model.Variant]Strategy{
			model.VariantColor:   &ColorStrategy{},
			model.VariantWhite:   &WhiteStrategy{},
			model.VariantRemote:  &RemoteStrategy{},
			model.VariantGeneric: &GenericStrategy{},
		},
	}
}

func (f *Factory) GetStrategy(variant model.Variant) Strategy {
	if s, ok := f.strategies[variant]; ok {
		return s
	}
	return f.strategies[model.VariantGeneric]
}
