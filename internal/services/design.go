package services

import (
	"context"
	"strings"

	"github.com/diewo77/orderdesk/internal/models"
	"github.com/diewo77/orderdesk/internal/repository"
	"github.com/diewo77/orderdesk/validation"
	"github.com/sirupsen/logrus"
)

// DesignStatusInput is a status update from the design desk.
type DesignStatusInput struct {
	Status models.DesignTaskStatus `json:"status"`
	Notes  string                  `json:"notes"`
	Reason string                  `json:"reason"`
}

// DesignService runs the design desk. Completing a task advances its
// order to ready through the order service.
type DesignService struct {
	orders *OrderService
}

func NewDesignService(orders *OrderService) *DesignService {
	return &DesignService{orders: orders}
}

// List returns all design tasks, or only those in status when it is set.
func (s *DesignService) List(ctx context.Context, status models.DesignTaskStatus) ([]models.DesignTask, error) {
	if status != "" && !status.IsValid() {
		return nil, fieldError("status", "invalid_value")
	}
	snap, err := s.orders.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.DesignTask{}
	for _, t := range snap.DesignTasks {
		if status == "" || t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

// AssignDesigner sets the task's designer. An unassigned task moves to in_progress.
func (s *DesignService) AssignDesigner(ctx context.Context, taskID, designer string) (*models.DesignTask, error) {
	designer = strings.TrimSpace(designer)
	var updated models.DesignTask
	err := s.orders.repo.Update(ctx, func(snap *repository.Snapshot) error {
		t := snap.DesignTask(taskID)
		if t == nil {
			return notFound("design task", taskID)
		}
		if t.IsCompleted() {
			return &IllegalTransitionError{From: string(t.Status), To: string(models.DesignTaskInProgress)}
		}
		if designer == "" {
			return fieldError("designer", "required")
		}
		t.AssignedDesigner = &designer
		if t.Status == models.DesignTaskNotAssigned {
			t.Status = models.DesignTaskInProgress
		}
		updated = *t
		return nil
	})
	if err != nil {
		s.orders.reject("AssignDesigner", err, logrus.Fields{"task": taskID})
		return nil, err
	}
	s.orders.log.WithFields(logrus.Fields{"task": taskID, "designer": designer}).Info("designer assigned")
	return &updated, nil
}

// UpdateStatus changes a task's status. Setting completed advances the
// parent order to ready; the task is only written if that succeeds.
func (s *DesignService) UpdateStatus(ctx context.Context, taskID string, in DesignStatusInput, role string) (*models.DesignTask, *Transition, error) {
	var (
		updated models.DesignTask
		tr      *Transition
	)
	err := s.orders.repo.Update(ctx, func(snap *repository.Snapshot) error {
		t := snap.DesignTask(taskID)
		if t == nil {
			return notFound("design task", taskID)
		}
		if !in.Status.IsValid() {
			return fieldError("status", "invalid_value")
		}
		if t.IsCompleted() || in.Status == models.DesignTaskNotAssigned {
			return &IllegalTransitionError{From: string(t.Status), To: string(in.Status)}
		}
		v := validation.Violations{}
		if in.Status == models.DesignTaskPartiallyCompleted {
			validation.Required("reason", in.Reason, v)
		}
		if err := invalid(v); err != nil {
			return err
		}

		if in.Status == models.DesignTaskCompleted {
			var err error
			tr, err = s.orders.advance(ctx, snap, t.OrderID, models.OrderStatusReady, role)
			if err != nil {
				return err
			}
			// advance re-derives and may have grown the slice.
			t = snap.DesignTask(taskID)
		}

		t.Status = in.Status
		if notes := strings.TrimSpace(in.Notes); notes != "" {
			t.CompletionNotes = notes
		}
		if in.Status == models.DesignTaskPartiallyCompleted {
			t.PartialReason = strings.TrimSpace(in.Reason)
		}
		updated = *t
		return nil
	})
	if err != nil {
		s.orders.reject("DesignService.UpdateStatus", err, logrus.Fields{"task": taskID, "status": in.Status, "role": role})
		return nil, nil, err
	}
	if tr != nil {
		s.orders.committed(tr, role)
	}
	s.orders.log.WithFields(logrus.Fields{"task": taskID, "status": in.Status}).Info("design task updated")
	return &updated, tr, nil
}
