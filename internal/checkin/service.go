package checkin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/guideway/guideway-backend/internal/attachments"
	"github.com/guideway/guideway-backend/internal/orders"
	"github.com/guideway/guideway-backend/pkg/db/models"
	"github.com/guideway/guideway-backend/pkg/enums"
	pkgerrors "github.com/guideway/guideway-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Input carries one start or end check-in from the assigned guide.
type Input struct {
	OrderID      uuid.UUID
	GuideID      uuid.UUID
	Type         enums.CheckInType
	AttachmentID uuid.UUID
	Lat          float64
	Lng          float64
}

// Service records service start/end proof and drives the matching order
// transitions.
type Service interface {
	CheckIn(ctx context.Context, input Input) (*models.CheckInRecord, error)
}

type service struct {
	repo        Repository
	orderRepo   orders.Repository
	attachments attachments.Repository
	tx          txRunner
	now         func() time.Time
}

// NewService builds a check-in service with the required dependencies.
func NewService(repo Repository, orderRepo orders.Repository, attachmentRepo attachments.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("checkin repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if attachmentRepo == nil {
		return nil, fmt.Errorf("attachments repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:        repo,
		orderRepo:   orderRepo,
		attachments: attachmentRepo,
		tx:          tx,
		now:         time.Now,
	}, nil
}

func (s *service) CheckIn(ctx context.Context, input Input) (*models.CheckInRecord, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.GuideID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown check-in type %q", input.Type))
	}
	if input.AttachmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "attachment id required")
	}

	attachment, err := s.attachments.Find(ctx, input.AttachmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "attachment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load attachment")
	}
	if attachment.Usage != enums.AttachmentUsageCheckIn {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "attachment is not a check-in photo")
	}

	record := &models.CheckInRecord{
		OrderID:      input.OrderID,
		GuideID:      input.GuideID,
		Type:         input.Type,
		AttachmentID: input.AttachmentID,
		Lat:          input.Lat,
		Lng:          input.Lng,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.Find(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.GuideID == nil || *order.GuideID != input.GuideID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the assigned guide can check in")
		}

		updates, err := s.transitionFor(input.Type, order)
		if err != nil {
			return err
		}
		if err := orderRepo.Update(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}

		if _, err := s.repo.WithTx(tx).CreateRecord(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record check-in")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// transitionFor maps the check-in type to its one legal order edge.
// ActualEndTime is stamped exactly once, at the end check-in; nothing else in
// the engine ever writes it.
func (s *service) transitionFor(kind enums.CheckInType, order *models.Order) (map[string]any, error) {
	switch kind {
	case enums.CheckInTypeStart:
		if order.Status != enums.OrderStatusWaitingService {
			return nil, orders.ErrStaleStatus("start check-in", enums.OrderStatusWaitingService, order.Status)
		}
		return map[string]any{"status": enums.OrderStatusInService}, nil
	case enums.CheckInTypeEnd:
		if order.Status != enums.OrderStatusInService {
			return nil, orders.ErrStaleStatus("end check-in", enums.OrderStatusInService, order.Status)
		}
		return map[string]any{
			"status":          enums.OrderStatusServiceEnded,
			"actual_end_time": s.now().UTC(),
		}, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown check-in type %q", kind))
	}
}
