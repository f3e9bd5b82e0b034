package assignment

import (
	"context"

	"github.com/guicardoso0404/sigeas/core"
	"github.com/guicardoso0404/sigeas/core/classroom"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("assignment")
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, a Assignment, exec ...core.DBExecutor) (Assignment, error)
		// QueryAssignments lists every assignment when classID is 0.
		QueryAssignments(ctx context.Context, classID int, exec ...core.DBExecutor) ([]Assignment, error)
		GetAssignment(ctx context.Context, id int, exec ...core.DBExecutor) (Assignment, error)
		UpdateAssignment(ctx context.Context, a Assignment, exec ...core.DBExecutor) (Assignment, error)
		DeleteAssignment(ctx context.Context, id int, exec ...core.DBExecutor) error
	}

	ClassGetter interface {
		GetByID(ctx context.Context, id int) (classroom.ClassRoom, error)
	}

	Service interface {
		Create(ctx context.Context, na NewAssignment) (Assignment, error)
		Query(ctx context.Context, classID int) ([]Assignment, error)
		GetByID(ctx context.Context, id int) (Assignment, error)
		Update(ctx context.Context, a Assignment, ua UpdateAssignment) (Assignment, error)
		Delete(ctx context.Context, id int) error
	}

	service struct {
		repo    Repository
		classes ClassGetter
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, classes ClassGetter) Service {
	return &service{repo: repo, classes: classes}
}

func (svc *service) Create(ctx context.Context, na NewAssignment) (Assignment, error) {
	if _, err := svc.classes.GetByID(ctx, na.ClassID); err != nil {
		return Assignment{}, err
	}
	return svc.repo.CreateAssignment(ctx, Assignment{
		ClassID:          na.ClassID,
		Title:            na.Title,
		DistributionDate: na.DistributionDate,
		MaxPoints:        na.MaxPoints,
	})
}

func (svc *service) Query(ctx context.Context, classID int) ([]Assignment, error) {
	if classID > 0 {
		if _, err := svc.classes.GetByID(ctx, classID); err != nil {
			return nil, err
		}
	}
	return svc.repo.QueryAssignments(ctx, classID)
}

func (svc *service) GetByID(ctx context.Context, id int) (Assignment, error) {
	if id <= 0 {
		return Assignment{}, ErrNotFound
	}
	return svc.repo.GetAssignment(ctx, id)
}

func (svc *service) Update(ctx context.Context, a Assignment, ua UpdateAssignment) (Assignment, error) {
	a.Title = ua.Title
	a.DistributionDate = ua.DistributionDate
	a.MaxPoints = ua.MaxPoints
	return svc.repo.UpdateAssignment(ctx, a)
}

func (svc *service) Delete(ctx context.Context, id int) error {
	if _, err := svc.GetByID(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteAssignment(ctx, id)
}
