package service

import (
	"context"

	"github.com/Ontinet-com/contract/internal/api/dto"
	"github.com/Ontinet-com/contract/internal/domain/contract"
	"github.com/Ontinet-com/contract/internal/domain/product"
	ierr "github.com/Ontinet-com/contract/internal/errors"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/samber/lo"
)

// ContractService manages contracts and their lines
type ContractService interface {
	CreateContract(ctx context.Context, req dto.CreateContractRequest) (*dto.ContractResponse, error)
	GetContract(ctx context.Context, id string) (*dto.ContractResponse, error)
	ListContracts(ctx context.Context, filter *types.ContractFilter) (*dto.ListContractsResponse, error)
	UpdateContract(ctx context.Context, id string, req dto.UpdateContractRequest) (*dto.ContractResponse, error)
	DeleteContract(ctx context.Context, id string) error

	// CountContracts counts the contracts matching filter, e.g. per partner
	CountContracts(ctx context.Context, filter *types.ContractFilter) (*dto.CountResponse, error)

	AddLine(ctx context.Context, contractID string, req dto.CreateContractLineRequest) (*dto.ContractLineResponse, error)
	UpdateLine(ctx context.Context, contractID, lineID string, req dto.UpdateContractLineRequest) (*dto.ContractLineResponse, error)
	DeleteLine(ctx context.Context, contractID, lineID string) error

	// RecomputeDerivedFields previews the fields a line takes from a product
	// without storing anything.
	RecomputeDerivedFields(ctx context.Context, contractID, lineID string, req dto.OnChangeProductRequest) (*dto.LinePatchResponse, error)

	// ApplyTemplate copies the template contract type and appends its lines
	ApplyTemplate(ctx context.Context, contractID string, req dto.ApplyTemplateRequest) (*dto.ContractResponse, error)
	DuplicateContract(ctx context.Context, id string, req dto.DuplicateContractRequest) (*dto.ContractResponse, error)
}

type contractService struct {
	ServiceParams
}

func NewContractService(params ServiceParams) ContractService {
	return &contractService{ServiceParams: params}
}

// explicitFields are the derived line fields the caller set and which a
// product change must not overwrite.
type explicitFields struct {
	name  bool
	uom   bool
	price bool
}

func (s *contractService) CreateContract(ctx context.Context, req dto.CreateContractRequest) (*dto.ContractResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := req.ToContract(ctx)
	if err != nil {
		return nil, err
	}

	for i, line := range c.Lines {
		explicit := explicitFields{
			name:  req.Lines[i].Name != "",
			uom:   req.Lines[i].UomID != "",
			price: req.Lines[i].HasPriceUnit(),
		}
		prepared, err := s.prepareLine(ctx, c, line, "", explicit, req.Lines[i].DateEnd != nil)
		if err != nil {
			return nil, err
		}
		c.Lines[i] = prepared
	}

	if req.ContractTemplateID != "" {
		t, err := s.TemplateRepo.Get(ctx, req.ContractTemplateID)
		if err != nil {
			return nil, err
		}
		dateStart, err := req.GetDateStart(s.Clock.Now())
		if err != nil {
			return nil, err
		}
		if req.ContractType == "" {
			c.ContractType = t.ContractType
		}
		for _, line := range t.NewContractLines(c.ID, dateStart) {
			if err := prepareTemplateLine(ctx, line); err != nil {
				return nil, err
			}
			c.Lines = append(c.Lines, line)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.ContractRepo.Create(ctx, c); err != nil {
			return err
		}
		if len(c.Lines) == 0 {
			return nil
		}
		return s.ContractLineRepo.CreateMany(ctx, c.Lines)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created contract",
		"contract_id", c.ID,
		"partner_id", c.PartnerID,
		"generation_type", c.GenerationType,
		"lines", len(c.Lines),
	)
	return dto.NewContractResponse(c), nil
}

func (s *contractService) GetContract(ctx context.Context, id string) (*dto.ContractResponse, error) {
	if id == "" {
		return nil, ierr.NewError("contract ID is required").
			WithHint("Please provide a valid contract ID").
			Mark(ierr.ErrValidation)
	}

	c, err := s.ContractRepo.GetWithLines(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewContractResponse(c), nil
}

func (s *contractService) ListContracts(ctx context.Context, filter *types.ContractFilter) (*dto.ListContractsResponse, error) {
	if filter == nil {
		filter = types.NewContractFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation)
	}
	filter.WithLines = true

	contracts, err := s.ContractRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.ContractRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ContractResponse, len(contracts))
	for i, c := range contracts {
		items[i] = dto.NewContractResponse(c)
	}

	resp := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

func (s *contractService) CountContracts(ctx context.Context, filter *types.ContractFilter) (*dto.CountResponse, error) {
	if filter == nil {
		filter = types.NewNoLimitContractFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation)
	}

	count, err := s.ContractRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.CountResponse{Count: count}, nil
}

func (s *contractService) UpdateContract(ctx context.Context, id string, req dto.UpdateContractRequest) (*dto.ContractResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.ContractRepo.GetWithLines(ctx, id)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.Touch(ctx)

	if err := s.ContractRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.Logger.Infow("updated contract", "contract_id", c.ID)
	return dto.NewContractResponse(c), nil
}

func (s *contractService) DeleteContract(ctx context.Context, id string) error {
	return s.DB.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.ContractRepo.GetWithLines(ctx, id)
		if err != nil {
			return err
		}
		for _, line := range c.Lines {
			if err := s.ContractLineRepo.Delete(ctx, line.ID); err != nil {
				return err
			}
		}
		if err := s.ContractRepo.Delete(ctx, id); err != nil {
			return err
		}
		s.Logger.Infow("deleted contract", "contract_id", id, "lines", len(c.Lines))
		return nil
	})
}

func (s *contractService) AddLine(ctx context.Context, contractID string, req dto.CreateContractLineRequest) (*dto.ContractLineResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.ContractRepo.Get(ctx, contractID)
	if err != nil {
		return nil, err
	}

	line, err := req.ToContractLine(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	explicit := explicitFields{
		name:  req.Name != "",
		uom:   req.UomID != "",
		price: req.HasPriceUnit(),
	}
	line, err = s.prepareLine(ctx, c, line, "", explicit, req.DateEnd != nil)
	if err != nil {
		return nil, err
	}

	if err := s.ContractLineRepo.Create(ctx, line); err != nil {
		return nil, err
	}

	s.Logger.Infow("added contract line", "contract_id", c.ID, "contract_line_id", line.ID)
	return dto.NewContractLineResponse(line), nil
}

func (s *contractService) UpdateLine(ctx context.Context, contractID, lineID string, req dto.UpdateContractLineRequest) (*dto.ContractLineResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, line, err := s.getLine(ctx, contractID, lineID)
	if err != nil {
		return nil, err
	}

	updated, err := req.ApplyTo(line)
	if err != nil {
		return nil, err
	}

	if req.ProductChanged(line) {
		// the unit category is only known when the line still uses its product's unit
		var uomCategory string
		if current, err := getProductCached(ctx, s.ServiceParams, line.ProductID); err == nil && current.UomID == line.UomID {
			uomCategory = current.UomCategoryID
		}
		explicit := explicitFields{
			name:  req.Name != nil,
			uom:   req.UomID != nil,
			price: req.PriceUnit != nil,
		}
		if updated, err = s.deriveFromProduct(ctx, c, updated, uomCategory, explicit); err != nil {
			return nil, err
		}
	}

	renewChanged := req.IsAutoRenew != nil || req.AutoRenewInterval != nil || req.AutoRenewRuleType != nil || req.DateStart != nil
	if renewChanged && !req.SetsDateEnd() {
		patch, err := contract.OnChangeAutoRenew(updated)
		if err != nil {
			return nil, err
		}
		updated = patch.Apply(updated)
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}
	updated.Touch(ctx)

	if err := s.ContractLineRepo.Update(ctx, updated); err != nil {
		return nil, err
	}

	s.Logger.Infow("updated contract line", "contract_id", c.ID, "contract_line_id", updated.ID)
	return dto.NewContractLineResponse(updated), nil
}

func (s *contractService) DeleteLine(ctx context.Context, contractID, lineID string) error {
	if _, _, err := s.getLine(ctx, contractID, lineID); err != nil {
		return err
	}
	if err := s.ContractLineRepo.Delete(ctx, lineID); err != nil {
		return err
	}
	s.Logger.Infow("deleted contract line", "contract_id", contractID, "contract_line_id", lineID)
	return nil
}

func (s *contractService) RecomputeDerivedFields(ctx context.Context, contractID, lineID string, req dto.OnChangeProductRequest) (*dto.LinePatchResponse, error) {
	c, line, err := s.getLine(ctx, contractID, lineID)
	if err != nil {
		return nil, err
	}

	productID := lo.Ternary(req.ProductID == "", line.ProductID, req.ProductID)
	p, err := getProductCached(ctx, s.ServiceParams, productID)
	if err != nil {
		return nil, err
	}

	var uomCategory string
	if productID == line.ProductID {
		uomCategory = p.UomCategoryID
	} else if current, err := getProductCached(ctx, s.ServiceParams, line.ProductID); err == nil && current.UomID == line.UomID {
		uomCategory = current.UomCategoryID
	}

	patch := contract.RecomputeDerivedFields(line, p, c.ContractType, uomCategory)
	preview := patch.Apply(line)
	preview.ProductID = p.ID

	return &dto.LinePatchResponse{
		LinePatch: patch,
		Line:      dto.NewContractLineResponse(preview),
	}, nil
}

func (s *contractService) ApplyTemplate(ctx context.Context, contractID string, req dto.ApplyTemplateRequest) (*dto.ContractResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	dateStart, err := req.GetDateStart(s.Clock.Now())
	if err != nil {
		return nil, err
	}

	var c *contract.Contract
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		var err error
		c, err = s.ContractRepo.GetWithLines(ctx, contractID)
		if err != nil {
			return err
		}
		t, err := s.TemplateRepo.Get(ctx, req.TemplateID)
		if err != nil {
			return err
		}

		lines := t.NewContractLines(c.ID, dateStart)
		for _, line := range lines {
			if err := prepareTemplateLine(ctx, line); err != nil {
				return err
			}
		}

		c.ContractType = t.ContractType
		c.ContractTemplateID = t.ID
		c.Touch(ctx)
		if err := s.ContractRepo.Update(ctx, c); err != nil {
			return err
		}
		if len(lines) > 0 {
			if err := s.ContractLineRepo.CreateMany(ctx, lines); err != nil {
				return err
			}
		}
		c.Lines = append(c.Lines, lines...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("applied contract template",
		"contract_id", c.ID,
		"template_id", req.TemplateID,
		"lines", len(c.Lines),
	)
	return dto.NewContractResponse(c), nil
}

func (s *contractService) DuplicateContract(ctx context.Context, id string, req dto.DuplicateContractRequest) (*dto.ContractResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	src, err := s.ContractRepo.GetWithLines(ctx, id)
	if err != nil {
		return nil, err
	}

	dup := src.Duplicate(req.DuplicateOverrides)
	dup.BaseModel = types.GetDefaultBaseModel(ctx)
	for _, line := range dup.Lines {
		line.BaseModel = types.GetDefaultBaseModel(ctx)
	}
	if err := dup.Validate(); err != nil {
		return nil, err
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.ContractRepo.Create(ctx, dup); err != nil {
			return err
		}
		if len(dup.Lines) == 0 {
			return nil
		}
		return s.ContractLineRepo.CreateMany(ctx, dup.Lines)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("duplicated contract", "source_contract_id", src.ID, "contract_id", dup.ID)
	return dto.NewContractResponse(dup), nil
}

func (s *contractService) getLine(ctx context.Context, contractID, lineID string) (*contract.Contract, *contract.ContractLine, error) {
	c, err := s.ContractRepo.Get(ctx, contractID)
	if err != nil {
		return nil, nil, err
	}
	line, err := s.ContractLineRepo.Get(ctx, lineID)
	if err != nil {
		return nil, nil, err
	}
	if line.ContractID != c.ID {
		return nil, nil, ierr.NewError("contract line not found").
			WithHintf("Contract line %s does not belong to contract %s", lineID, contractID).
			WithReportableDetails(map[string]any{
				"contract_id":      contractID,
				"contract_line_id": lineID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return c, line, nil
}

// prepareLine fills what a new line takes from its product, sets the first
// auto-renew term and the cursor, then validates the result.
func (s *contractService) prepareLine(ctx context.Context, c *contract.Contract, line *contract.ContractLine, uomCategory string, explicit explicitFields, hasDateEnd bool) (*contract.ContractLine, error) {
	line, err := s.deriveFromProduct(ctx, c, line, uomCategory, explicit)
	if err != nil {
		return nil, err
	}
	if err := line.ApplyDefaults(); err != nil {
		return nil, err
	}
	if !hasDateEnd {
		patch, err := contract.OnChangeAutoRenew(line)
		if err != nil {
			return nil, err
		}
		line = patch.Apply(line)
	}
	if err := line.Validate(); err != nil {
		return nil, err
	}
	return line, nil
}

func (s *contractService) deriveFromProduct(ctx context.Context, c *contract.Contract, line *contract.ContractLine, uomCategory string, explicit explicitFields) (*contract.ContractLine, error) {
	p, err := getProductCached(ctx, s.ServiceParams, line.ProductID)
	if err != nil {
		return nil, err
	}
	return applyProductPatch(line, p, c.ContractType, uomCategory, explicit), nil
}

func applyProductPatch(line *contract.ContractLine, p *product.Product, contractType types.ContractType, uomCategory string, explicit explicitFields) *contract.ContractLine {
	patch := contract.RecomputeDerivedFields(line, p, contractType, uomCategory)
	if explicit.name {
		patch.Name = nil
	}
	if explicit.uom {
		patch.UomID = nil
	}
	if explicit.price {
		patch.PriceUnit = nil
	}
	return patch.Apply(line)
}
