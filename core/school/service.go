package school

import (
	"context"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-setup/core"
	"github.com/trezcool/masomo-setup/core/setup"
	"github.com/trezcool/masomo-setup/core/user"
)

var (
	// errors
	ErrNotFound     = errors.New("not found")
	ErrCampusExists = errors.New("a campus with this name already exists")
)

type (
	// Repository stores the school entities. Every method is scoped to a tenant.
	Repository interface {
		// CreateCampus returns ErrCampusExists when the tenant already has a campus named c.Name.
		CreateCampus(ctx context.Context, c Campus) (Campus, error)
		GetCampus(ctx context.Context, tenantID, id string) (Campus, error)
		// LatestCampus returns the most recently created campus, or ErrNotFound.
		LatestCampus(ctx context.Context, tenantID string) (Campus, error)
		CreateClass(ctx context.Context, c Class) (Class, error)
		GetClass(ctx context.Context, tenantID, id string) (Class, error)
		LatestClass(ctx context.Context, tenantID string) (Class, error)
		CreateArm(ctx context.Context, a Arm) (Arm, error)
		CountArms(ctx context.Context, tenantID string) (int, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		logger  core.Logger
	}
)

func NewService(repo Repository, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, logger: logger}
}

// Status reports whether the tenant setup is complete: it is once an arm exists.
func (svc *Service) Status(ctx context.Context, tenantID string) (bool, error) {
	n, err := svc.repo.CountArms(ctx, tenantID)
	if err != nil {
		return false, errors.Wrap(err, "counting arms")
	}
	return n > 0, nil
}

// Progress derives the current setup stage from the entities the tenant created.
func (svc *Service) Progress(ctx context.Context, tenantID string) (setup.ProgressReport, error) {
	var report setup.ProgressReport

	complete, err := svc.Status(ctx, tenantID)
	if err != nil {
		return report, err
	}
	if complete {
		report.CurrentStage = setup.StageComplete
		return report, nil
	}

	class, err := svc.repo.LatestClass(ctx, tenantID)
	switch errors.Cause(err) {
	case nil:
		campus, err := svc.repo.GetCampus(ctx, tenantID, class.CampusID)
		if err != nil {
			return report, errors.Wrap(err, "getting class campus")
		}
		report.CurrentStage = setup.StageArm
		report.CampusID, report.CampusName = campus.ID, campus.Name
		report.ClassID, report.ClassName = class.ID, class.Name
		return report, nil
	case ErrNotFound:
	default:
		return report, errors.Wrap(err, "getting latest class")
	}

	campus, err := svc.repo.LatestCampus(ctx, tenantID)
	switch errors.Cause(err) {
	case nil:
		report.CurrentStage = setup.StageClass
		report.CampusID, report.CampusName = campus.ID, campus.Name
	case ErrNotFound:
		report.CurrentStage = setup.StageCampus
	default:
		return report, errors.Wrap(err, "getting latest campus")
	}
	return report, nil
}

// CreateCampus stores a validated campus form.
func (svc *Service) CreateCampus(ctx context.Context, tenantID string, nc setup.NewCampus) (setup.CreatedEntity, error) {
	campus, err := svc.repo.CreateCampus(ctx, Campus{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		Name:        nc.Name,
		Address:     nc.Address,
		City:        nc.City,
		State:       nc.State,
		Country:     nc.Country,
		PhoneNumber: nc.PhoneNumber,
		Capacity:    nc.Capacity,
		Description: nc.Description,
		Email:       nc.Email,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		if errors.Cause(err) == ErrCampusExists {
			return setup.CreatedEntity{}, core.NewValidationError(ErrCampusExists, core.FieldError{Field: "name", Error: ErrCampusExists.Error()})
		}
		return setup.CreatedEntity{}, errors.Wrap(err, "creating campus")
	}
	return setup.CreatedEntity{EntityID: campus.ID, EntityName: campus.Name}, nil
}

// CreateClass stores a validated class form in one of the tenant's campuses.
func (svc *Service) CreateClass(ctx context.Context, tenantID string, nc setup.NewClass) (setup.CreatedEntity, error) {
	if _, err := svc.repo.GetCampus(ctx, tenantID, nc.CampusID); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return setup.CreatedEntity{}, core.NewValidationError(core.ErrInvalidInput, core.FieldError{Field: "campusId", Error: "campus not found"})
		}
		return setup.CreatedEntity{}, errors.Wrap(err, "getting campus")
	}
	class, err := svc.repo.CreateClass(ctx, Class{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		CampusID:    nc.CampusID,
		Name:        nc.Name,
		Description: nc.Description,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return setup.CreatedEntity{}, errors.Wrap(err, "creating class")
	}
	return setup.CreatedEntity{EntityID: class.ID, EntityName: class.Name}, nil
}

// CreateArm stores a validated arm form. The first arm completes the setup:
// the admin is then sent the setup_complete email. Once the arm is stored, a mail
// failure is logged and the arm is still returned.
func (svc *Service) CreateArm(ctx context.Context, admin user.User, na setup.NewArm) (setup.CreatedEntity, error) {
	class, err := svc.repo.GetClass(ctx, admin.TenantID, na.ClassID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return setup.CreatedEntity{}, core.NewValidationError(core.ErrInvalidInput, core.FieldError{Field: "classId", Error: "class not found"})
		}
		return setup.CreatedEntity{}, errors.Wrap(err, "getting class")
	}
	wasComplete, err := svc.Status(ctx, admin.TenantID)
	if err != nil {
		return setup.CreatedEntity{}, err
	}

	arm, err := svc.repo.CreateArm(ctx, Arm{
		ID:          uuid.NewString(),
		TenantID:    admin.TenantID,
		ClassID:     class.ID,
		Name:        na.ArmName,
		Description: na.ArmDescription,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return setup.CreatedEntity{}, errors.Wrap(err, "creating arm")
	}

	if !wasComplete {
		if err := svc.sendCompletionMail(ctx, admin, class, arm); err != nil {
			svc.logger.Error("sending setup completion mail", err, admin, setup.StageComplete)
		}
	}
	return setup.CreatedEntity{EntityID: arm.ID, EntityName: arm.Name}, nil
}

func (svc *Service) sendCompletionMail(ctx context.Context, admin user.User, class Class, arm Arm) error {
	if admin.Email == "" {
		return nil
	}
	campus, err := svc.repo.GetCampus(ctx, admin.TenantID, class.CampusID)
	if err != nil {
		return errors.Wrap(err, "getting class campus")
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: admin.Name, Address: admin.Email}},
		Subject:      "Your school is ready",
		TemplateName: "setup_complete",
		TemplateData: completionData{
			Name:       admin.Name,
			CampusName: campus.Name,
			ClassName:  class.Name,
			ArmName:    arm.Name,
		},
	})
	return nil
}
