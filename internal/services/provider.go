package services

import (
	"github.com/KirkDiggler/shinobi-codex/internal/catalog"
	"github.com/KirkDiggler/shinobi-codex/internal/repositories/selections"
	selectionService "github.com/KirkDiggler/shinobi-codex/internal/services/selection"
)

// Provider holds all service instances
type Provider struct {
	SelectionService selectionService.Service
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	Catalog             *catalog.Catalog      // Optional, defaults to the embedded seed
	SelectionRepository selections.Repository // Optional, defaults to in-memory
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	cat := cfg.Catalog
	if cat == nil {
		cat = catalog.MustDefault()
	}

	repo := cfg.SelectionRepository
	if repo == nil {
		repo = selections.NewInMemoryRepository(nil)
	}

	return &Provider{
		SelectionService: selectionService.NewService(&selectionService.ServiceConfig{
			Catalog:    cat,
			Repository: repo,
		}),
	}
}
