package service

import (
	"context"

	"github.com/Ontinet-com/contract/internal/api/dto"
	ierr "github.com/Ontinet-com/contract/internal/errors"
	"github.com/Ontinet-com/contract/internal/types"
)

type OrderService interface {
	GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error)
	ListOrders(ctx context.Context, filter *types.OrderFilter) (*dto.ListOrdersResponse, error)
	// ConfirmOrder moves a draft order to confirmed. It joins the caller's
	// transaction when there is one.
	ConfirmOrder(ctx context.Context, id string) (*dto.OrderResponse, error)
}

type orderService struct {
	ServiceParams
}

func NewOrderService(params ServiceParams) OrderService {
	return &orderService{ServiceParams: params}
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	if id == "" {
		return nil, ierr.NewError("order ID is required").
			WithHint("Please provide a valid order ID").
			Mark(ierr.ErrValidation)
	}

	o, err := s.OrderRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewOrderResponse(o), nil
}

func (s *orderService) ListOrders(ctx context.Context, filter *types.OrderFilter) (*dto.ListOrdersResponse, error) {
	if filter == nil {
		filter = types.NewOrderFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation)
	}

	orders, err := s.OrderRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.OrderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.OrderResponse, len(orders))
	for i, o := range orders {
		items[i] = dto.NewOrderResponse(o)
	}

	resp := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

func (s *orderService) ConfirmOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	var resp *dto.OrderResponse
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		o, err := s.OrderRepo.Get(ctx, id)
		if err != nil {
			return err
		}

		if o.IsConfirmed() {
			return ierr.NewError("order already confirmed").
				WithHint("The order is already confirmed").
				WithReportableDetails(map[string]any{
					"order_id": o.ID,
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		now := s.Clock.Now().UTC()
		o.State = types.OrderStateConfirmed
		o.ConfirmedAt = &now
		o.Touch(ctx)

		if err := s.OrderRepo.Update(ctx, o); err != nil {
			return err
		}
		resp = dto.NewOrderResponse(o)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("confirmed order", "order_id", id)
	return resp, nil
}
