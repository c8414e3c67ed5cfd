package setup

import "context"

type (
	// ProgressReport is the backend's view of the tenant setup.
	ProgressReport struct {
		CurrentStage Stage  `json:"currentStage"`
		CampusID     string `json:"campusId,omitempty"`
		CampusName   string `json:"campusName,omitempty"`
		ClassID      string `json:"classId,omitempty"`
		ClassName    string `json:"className,omitempty"`
	}

	// CreatedEntity is returned by every create endpoint.
	CreatedEntity struct {
		EntityID   string `json:"entityId"`
		EntityName string `json:"entityName"`
	}

	// Remote is the REST backend as seen by the wizard.
	Remote interface {
		// SetupStatus reports whether the tenant setup is already complete.
		SetupStatus(ctx context.Context) (bool, error)
		SetupProgress(ctx context.Context) (ProgressReport, error)
		CreateCampus(ctx context.Context, nc NewCampus) (CreatedEntity, error)
		CreateClass(ctx context.Context, nc NewClass) (CreatedEntity, error)
		CreateArm(ctx context.Context, na NewArm) (CreatedEntity, error)
	}
)
