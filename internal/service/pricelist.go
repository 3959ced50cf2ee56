package service

import (
	"context"

	"github.com/Ontinet-com/contract/internal/api/dto"
	ierr "github.com/Ontinet-com/contract/internal/errors"
)

type PricelistService interface {
	CreatePricelist(ctx context.Context, req dto.CreatePricelistRequest) (*dto.PricelistResponse, error)
	GetPricelist(ctx context.Context, id string) (*dto.PricelistResponse, error)
}

type pricelistService struct {
	ServiceParams
}

func NewPricelistService(params ServiceParams) PricelistService {
	return &pricelistService{ServiceParams: params}
}

func (s *pricelistService) CreatePricelist(ctx context.Context, req dto.CreatePricelistRequest) (*dto.PricelistResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	pl := req.ToPricelist(ctx)
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		return s.PricelistRepo.Create(ctx, pl)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created pricelist", "pricelist_id", pl.ID, "items", len(pl.Items))
	return &dto.PricelistResponse{Pricelist: pl}, nil
}

func (s *pricelistService) GetPricelist(ctx context.Context, id string) (*dto.PricelistResponse, error) {
	if id == "" {
		return nil, ierr.NewError("pricelist ID is required").
			WithHint("Please provide a valid pricelist ID").
			Mark(ierr.ErrValidation)
	}

	pl, err := getPricelistCached(ctx, s.ServiceParams, id)
	if err != nil {
		return nil, err
	}
	return &dto.PricelistResponse{Pricelist: pl}, nil
}
