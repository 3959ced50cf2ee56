package service

import (
	"context"
	"time"

	"github.com/Ontinet-com/contract/internal/api/dto"
	"github.com/Ontinet-com/contract/internal/domain/contract"
	ierr "github.com/Ontinet-com/contract/internal/errors"
	"github.com/Ontinet-com/contract/internal/types"
)

type ContractTemplateService interface {
	CreateTemplate(ctx context.Context, req dto.CreateContractTemplateRequest) (*dto.ContractTemplateResponse, error)
	GetTemplate(ctx context.Context, id string) (*dto.ContractTemplateResponse, error)
	ListTemplates(ctx context.Context, filter *types.ContractTemplateFilter) (*dto.ListContractTemplatesResponse, error)

	// BuildFromTemplate returns an unsaved contract with fresh copies of the
	// template lines starting on dateStart.
	BuildFromTemplate(ctx context.Context, templateID string, dateStart time.Time) (*contract.Contract, error)
}

type contractTemplateService struct {
	ServiceParams
}

func NewContractTemplateService(params ServiceParams) ContractTemplateService {
	return &contractTemplateService{ServiceParams: params}
}

func (s *contractTemplateService) CreateTemplate(ctx context.Context, req dto.CreateContractTemplateRequest) (*dto.ContractTemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t := req.ToContractTemplate(ctx)
	if err := t.Validate(); err != nil {
		return nil, err
	}

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		return s.TemplateRepo.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created contract template", "template_id", t.ID, "lines", len(t.Lines))
	return &dto.ContractTemplateResponse{ContractTemplate: t}, nil
}

func (s *contractTemplateService) GetTemplate(ctx context.Context, id string) (*dto.ContractTemplateResponse, error) {
	if id == "" {
		return nil, ierr.NewError("template ID is required").
			WithHint("Please provide a valid contract template ID").
			Mark(ierr.ErrValidation)
	}

	t, err := s.TemplateRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ContractTemplateResponse{ContractTemplate: t}, nil
}

func (s *contractTemplateService) ListTemplates(ctx context.Context, filter *types.ContractTemplateFilter) (*dto.ListContractTemplatesResponse, error) {
	if filter == nil {
		filter = types.NewContractTemplateFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation)
	}

	templates, err := s.TemplateRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.TemplateRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ContractTemplateResponse, len(templates))
	for i, t := range templates {
		items[i] = &dto.ContractTemplateResponse{ContractTemplate: t}
	}

	resp := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

func (s *contractTemplateService) BuildFromTemplate(ctx context.Context, templateID string, dateStart time.Time) (*contract.Contract, error) {
	t, err := s.TemplateRepo.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}

	c := t.BuildContract(dateStart)
	c.BaseModel = types.GetDefaultBaseModel(ctx)
	for _, line := range c.Lines {
		if err := prepareTemplateLine(ctx, line); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// prepareTemplateLine stamps a line copied from a template and runs the
// defaults a new line gets. Auto-renew lines get their first term end.
func prepareTemplateLine(ctx context.Context, line *contract.ContractLine) error {
	line.BaseModel = types.GetDefaultBaseModel(ctx)
	if err := line.ApplyDefaults(); err != nil {
		return err
	}
	patch, err := contract.OnChangeAutoRenew(line)
	if err != nil {
		return err
	}
	*line = *patch.Apply(line)
	return line.Validate()
}
