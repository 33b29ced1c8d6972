package service

import (
	"fmt"

	"github.com/fleetops/tracking-backend-go/internal/models"
	"github.com/fleetops/tracking-backend-go/internal/repository"
)

// AssetService handles business logic for tracked assets
type AssetService struct {
	assetRepo *repository.AssetRepository
}

// NewAssetService creates a new asset service
func NewAssetService(assetRepo *repository.AssetRepository) *AssetService {
	return &AssetService{assetRepo: assetRepo}
}

// GetAssets retrieves assets with filtering
func (s *AssetService) GetAssets(filter models.AssetFilter) ([]models.TrackedAsset, error) {
	assets, err := s.assetRepo.GetAssets(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get assets: %w", err)
	}
	return assets, nil
}

// GetAssetByID retrieves a single asset
func (s *AssetService) GetAssetByID(id string) (*models.TrackedAsset, error) {
	asset, err := s.assetRepo.GetAssetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	if asset == nil {
		return nil, fmt.Errorf("asset not found")
	}
	return asset, nil
}
