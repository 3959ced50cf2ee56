package service

import (
	"context"
	"time"

	"github.com/Ontinet-com/contract/internal/api/dto"
	"github.com/Ontinet-com/contract/internal/clock"
	"github.com/Ontinet-com/contract/internal/domain/contract"
	"github.com/Ontinet-com/contract/internal/domain/order"
	ierr "github.com/Ontinet-com/contract/internal/errors"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/lib/pq"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
)

// GenerationService turns due contract lines into orders and moves their cursors
type GenerationService interface {
	// GenerateOrder generates the order due today for the contract. It returns
	// nil without error when no line is due. An empty kind means the kind the
	// contract is set up to generate.
	GenerateOrder(ctx context.Context, contractID string, kind types.OrderKind) (*dto.OrderResponse, error)

	// GenerateNextOrder generates the next cycle whatever today is, using the
	// contract's earliest line cursor as the reference date.
	GenerateNextOrder(ctx context.Context, contractID string) (*dto.OrderResponse, error)

	// CountGenerated counts the orders generated from any line of the contract
	CountGenerated(ctx context.Context, contractID string) (int, error)
	ListGeneratedOrders(ctx context.Context, contractID string, filter *types.OrderFilter) (*dto.ListOrdersResponse, error)

	// CronGenerateAll generates for every contract of kind with a line due by
	// asOf. Each contract commits or rolls back on its own; failures are
	// reported in the response and its Err.
	CronGenerateAll(ctx context.Context, asOf time.Time, kind types.OrderKind) (*dto.GenerateOrdersBatchResponse, error)
}

type generationService struct {
	ServiceParams
	prices PriceResolver
	orders OrderService
}

func NewGenerationService(params ServiceParams) GenerationService {
	return &generationService{
		ServiceParams: params,
		prices:        NewPriceResolver(params),
		orders:        NewOrderService(params),
	}
}

func (s *generationService) GenerateOrder(ctx context.Context, contractID string, kind types.OrderKind) (*dto.OrderResponse, error) {
	if kind != "" {
		if err := kind.Validate(); err != nil {
			return nil, err
		}
	}
	today := clock.Today(s.Clock)
	return s.generate(ctx, contractID, func(c *contract.Contract) (time.Time, types.OrderKind) {
		return today, lo.Ternary(kind == "", c.GenerationType.OrderKind(), kind)
	})
}

func (s *generationService) GenerateNextOrder(ctx context.Context, contractID string) (*dto.OrderResponse, error) {
	return s.generate(ctx, contractID, func(c *contract.Contract) (time.Time, types.OrderKind) {
		asOf := clock.Today(s.Clock)
		if next := c.RecurringNextDate(); next != nil {
			asOf = *next
		}
		return asOf, c.GenerationType.OrderKind()
	})
}

// generate runs one contract in its own transaction. ref picks the reference
// date and kind once the contract is loaded.
func (s *generationService) generate(ctx context.Context, contractID string, ref func(*contract.Contract) (time.Time, types.OrderKind)) (*dto.OrderResponse, error) {
	if contractID == "" {
		return nil, ierr.NewError("contract ID is required").
			WithHint("Please provide a valid contract ID").
			Mark(ierr.ErrValidation)
	}

	var resp *dto.OrderResponse
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.ContractRepo.GetWithLines(ctx, contractID)
		if err != nil {
			return err
		}
		asOf, kind := ref(c)
		resp, err = s.generateAndConfirm(ctx, c, asOf, kind)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// generateAndConfirm must run inside a transaction
func (s *generationService) generateAndConfirm(ctx context.Context, c *contract.Contract, asOf time.Time, kind types.OrderKind) (*dto.OrderResponse, error) {
	o, err := s.generateOrder(ctx, c, asOf, kind)
	if err != nil || o == nil {
		return nil, err
	}
	if c.AutoConfirm {
		return s.orders.ConfirmOrder(ctx, o.ID)
	}
	return dto.NewOrderResponse(o), nil
}

// generateOrder builds the order for the lines of c due by asOf, stores it and
// advances those lines. It returns nil when nothing is due. The caller's
// transaction makes the order and the cursor moves one unit of work.
func (s *generationService) generateOrder(ctx context.Context, c *contract.Contract, asOf time.Time, kind types.OrderKind) (*order.Order, error) {
	if err := c.CheckGeneration(kind); err != nil {
		return nil, err
	}

	due := c.DueLines(asOf)
	if len(due) == 0 {
		s.Logger.Debugw("no contract lines due",
			"contract_id", c.ID,
			"as_of", types.FormatDate(asOf),
		)
		return nil, nil
	}

	o := &order.Order{
		ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ORDER),
		Name:              types.GenerateShortIDWithPrefix(kind.ShortIDPrefix()),
		Kind:              kind,
		State:             types.OrderStateDraft,
		PartnerID:         c.PartnerID,
		PricelistID:       c.PricelistID,
		UserID:            c.UserID,
		AnalyticAccountID: c.GroupID,
		Origin:            c.Name,
		ContractID:        c.ID,
		DateOrder:         types.ToDate(asOf),
		BaseModel:         types.GetDefaultBaseModel(ctx),
	}

	advanced := make([]*contract.ContractLine, 0, len(due))
	for _, line := range due {
		if err := line.Validate(); err != nil {
			return nil, err
		}

		orderLine, err := s.buildOrderLine(ctx, c, o, line, kind)
		if err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, orderLine)

		next, err := line.Advance(s.Config.Contract.RenewalPolicy)
		if err != nil {
			return nil, err
		}
		next.Touch(ctx)
		advanced = append(advanced, next)
	}

	if err := s.OrderRepo.Create(ctx, o); err != nil {
		return nil, err
	}
	for _, line := range advanced {
		if err := s.ContractLineRepo.Update(ctx, line); err != nil {
			return nil, err
		}
	}

	s.Logger.Infow("generated order from contract",
		"contract_id", c.ID,
		"order_id", o.ID,
		"kind", kind,
		"lines", len(o.Lines),
		"as_of", types.FormatDate(asOf),
	)
	return o, nil
}

func (s *generationService) buildOrderLine(ctx context.Context, c *contract.Contract, o *order.Order, line *contract.ContractLine, kind types.OrderKind) (*order.OrderLine, error) {
	period, err := line.NextPeriod(s.Config.Contract.RenewalPolicy)
	if err != nil {
		return nil, err
	}

	price, err := s.prices.Resolve(ctx, PriceRequest{
		Line:        line,
		Kind:        kind,
		PricelistID: c.PricelistID,
	})
	if err != nil {
		return nil, err
	}

	name := line.Name
	if name == "" {
		name = price.Product.Description(c.ContractType)
	}

	return &order.OrderLine{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ORDER_LINE),
		OrderID:        o.ID,
		ContractLineID: line.ID,
		ProductID:      line.ProductID,
		Name:           contract.ResolveName(name, period),
		Quantity:       line.Quantity,
		UomID:          lo.Ternary(line.UomID == "", price.Product.UomID, line.UomID),
		PriceUnit:      price.PriceUnit,
		Discount:       line.Discount,
		TaxIDs:         pq.StringArray(price.TaxIDs),
		PeriodStart:    period.Start,
		PeriodEnd:      period.End,
		Sequence:       line.Sequence,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}, nil
}

func (s *generationService) CountGenerated(ctx context.Context, contractID string) (int, error) {
	c, err := s.ContractRepo.GetWithLines(ctx, contractID)
	if err != nil {
		return 0, err
	}
	if len(c.Lines) == 0 {
		return 0, nil
	}

	filter := types.NewNoLimitOrderFilter()
	filter.ContractLineIDs = c.LineIDs()
	return s.OrderRepo.Count(ctx, filter)
}

func (s *generationService) ListGeneratedOrders(ctx context.Context, contractID string, filter *types.OrderFilter) (*dto.ListOrdersResponse, error) {
	c, err := s.ContractRepo.GetWithLines(ctx, contractID)
	if err != nil {
		return nil, err
	}

	if filter == nil {
		filter = types.NewOrderFilter()
	}
	if len(c.Lines) == 0 {
		resp := types.NewListResponse([]*dto.OrderResponse{}, 0, filter.GetLimit(), filter.GetOffset())
		return &resp, nil
	}
	filter.ContractLineIDs = c.LineIDs()

	return s.orders.ListOrders(ctx, filter)
}

func (s *generationService) CronGenerateAll(ctx context.Context, asOf time.Time, kind types.OrderKind) (*dto.GenerateOrdersBatchResponse, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	asOf = types.ToDate(asOf)

	filter := types.NewNoLimitContractFilter()
	filter.Order = lo.ToPtr(types.OrderAsc)
	filter.GenerationType = types.GenerationType(kind)
	filter.GenerationTypeSet = true
	filter.DueBefore = &asOf

	contracts, err := s.ContractRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("starting contract order generation",
		"kind", kind,
		"as_of", types.FormatDate(asOf),
		"contracts", len(contracts),
	)

	items := make([]*dto.GenerateOrdersBatchItem, len(contracts))
	p := pool.New().WithMaxGoroutines(max(s.Config.Contract.BatchConcurrency, 1))
	for i, c := range contracts {
		p.Go(func() {
			items[i] = s.generateBatchItem(ctx, c.ID, asOf, kind)
		})
	}
	p.Wait()

	resp := dto.NewGenerateOrdersBatchResponse(kind, asOf, items)
	if err := resp.Err(); err != nil {
		s.Logger.Errorw("contract order generation finished with failures",
			"kind", kind,
			"as_of", resp.AsOf,
			"failed_contract_ids", resp.FailedContractIDs,
		)
		if s.Sentry != nil {
			s.Sentry.CaptureBatchFailure("contract_generation_"+string(kind), err, resp.FailedContractIDs)
		}
	}

	s.Logger.Infow("finished contract order generation",
		"kind", kind,
		"as_of", resp.AsOf,
		"generated", resp.Generated,
		"skipped", resp.Skipped,
		"failed", resp.Failed,
	)
	return resp, nil
}

// generateBatchItem processes one contract of a batch. The contract is read
// again inside the transaction so a concurrent run sees committed cursors.
func (s *generationService) generateBatchItem(ctx context.Context, contractID string, asOf time.Time, kind types.OrderKind) *dto.GenerateOrdersBatchItem {
	item := &dto.GenerateOrdersBatchItem{ContractID: contractID}

	var generated *dto.OrderResponse
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.ContractRepo.GetWithLines(ctx, contractID)
		if err != nil {
			return err
		}
		generated, err = s.generateAndConfirm(ctx, c, asOf, kind)
		return err
	})

	switch {
	case err != nil:
		s.Logger.Errorw("failed to generate order for contract",
			"contract_id", contractID,
			"kind", kind,
			"error", err,
		)
		item.Status = dto.GenerationStatusFailed
		item.Error = err.Error()
		if hint := ierr.GetHint(err); hint != "" {
			item.Error = hint
		}
	case generated == nil:
		item.Status = dto.GenerationStatusSkipped
	default:
		item.Status = dto.GenerationStatusGenerated
		item.OrderID = generated.ID
	}
	return item
}
