package internal

import (
	"github.com/kcmvp/archunit"
	"testing"
)

func TestArchitecture(t *testing.T) {
	domain := archunit.Packages("domain", []string{".../internal/domain/..."})
	adapters := archunit.Packages("adapters", []string{".../internal/adapters/..."})
	config := archunit.Packages("config", []string{".../internal/config"})

	if err := domain.ShouldNotReferLayers(adapters); err != nil {
		t.Errorf("Architecture violation: Domain depends on Adapters: %v", err)
	}
	if err := domain.ShouldNotReferLayers(config); err != nil {
		t.Errorf("Architecture violation: Domain depends on process config: %v", err)
	}
}

func TestFormatterPackage(t *testing.T) {
	formatter := archunit.Packages("formatter", []string{".../internal/domain/formatter"})
	if len(formatter.Packages()) == 0 {
		t.Error("No formatter package found in domain")
	}
}
