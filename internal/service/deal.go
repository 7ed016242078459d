package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/meridianscan/sales-api/internal/auth"
	"github.com/meridianscan/sales-api/internal/domain"
	"github.com/meridianscan/sales-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DealService struct {
	dealRepo *repository.DealRepository
	logger   *zap.Logger
}

func NewDealService(dealRepo *repository.DealRepository, logger *zap.Logger) *DealService {
	return &DealService{dealRepo: dealRepo, logger: logger}
}

func (s *DealService) Create(ctx context.Context, req *domain.CreateDealRequest) (*domain.DealDTO, error) {
	status := req.Status
	if status == "" {
		status = domain.DealStatusLead
	}
	if !status.IsValid() {
		return nil, ErrInvalidInput
	}

	ownerName := req.OwnerName
	if userCtx, ok := auth.FromContext(ctx); ok {
		if ownerName == "" && req.OwnerID == userCtx.UserID.String() {
			ownerName = userCtx.DisplayName
		}
	}

	deal := &domain.Deal{
		Title:        req.Title,
		CustomerName: req.CustomerName,
		Status:       status,
		OwnerID:      req.OwnerID,
		OwnerName:    ownerName,
		Tags:         req.Tags,
		Notes:        req.Notes,
	}

	if err := s.dealRepo.Create(ctx, deal); err != nil {
		return nil, err
	}

	s.logger.Info("deal created",
		zap.String("deal_id", deal.ID.String()),
		zap.String("title", deal.Title),
	)

	return domain.NewDealDTO(deal), nil
}

func (s *DealService) GetByID(ctx context.Context, id uuid.UUID) (*domain.DealDTO, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}
	return domain.NewDealDTO(deal), nil
}

func (s *DealService) Update(ctx context.Context, id uuid.UUID, req *domain.CreateDealRequest) (*domain.DealDTO, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}

	if req.Status != "" && !req.Status.IsValid() {
		return nil, ErrInvalidInput
	}

	deal.Title = req.Title
	deal.CustomerName = req.CustomerName
	if req.Status != "" {
		deal.Status = req.Status
	}
	deal.OwnerID = req.OwnerID
	if req.OwnerName != "" {
		deal.OwnerName = req.OwnerName
	}
	deal.Tags = req.Tags
	deal.Notes = req.Notes

	if err := s.dealRepo.Update(ctx, deal); err != nil {
		return nil, err
	}

	return domain.NewDealDTO(deal), nil
}

func (s *DealService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.dealRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDealNotFound
		}
		return err
	}
	return s.dealRepo.Delete(ctx, id)
}

func (s *DealService) List(ctx context.Context, page, pageSize int, status *domain.DealStatus, ownerID *string) (*domain.PaginatedResponse, error) {
	deals, total, err := s.dealRepo.List(ctx, page, pageSize, status, ownerID)
	if err != nil {
		return nil, err
	}

	dtos := make([]*domain.DealDTO, 0, len(deals))
	for i := range deals {
		dtos = append(dtos, domain.NewDealDTO(&deals[i]))
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}
