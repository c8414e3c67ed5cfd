package setup

import "github.com/pkg/errors"

// Progress is the wizard's resolved stage and the entities created so far.
// Empty strings mean absent.
type Progress struct {
	Stage      Stage  `json:"stage"`
	CampusID   string `json:"campusId,omitempty"`
	CampusName string `json:"campusName,omitempty"`
	ClassID    string `json:"classId,omitempty"`
	ClassName  string `json:"className,omitempty"`
}

// Patch is a partial Progress context; empty fields are left untouched when applied.
type Patch struct {
	CampusID   string
	CampusName string
	ClassID    string
	ClassName  string
}

func (p Progress) apply(patch Patch) Progress {
	if patch.CampusID != "" {
		p.CampusID = patch.CampusID
	}
	if patch.CampusName != "" {
		p.CampusName = patch.CampusName
	}
	if patch.ClassID != "" {
		p.ClassID = patch.ClassID
	}
	if patch.ClassName != "" {
		p.ClassName = patch.ClassName
	}
	return p
}

// Check verifies the progress invariants:
// a class implies a campus, Class implies a campus and Arm implies both.
func (p Progress) Check() error {
	if !p.Stage.Valid() {
		return errors.Wrapf(ErrInvalidStage, "ordinal %d", int(p.Stage))
	}
	if p.ClassID != "" && p.CampusID == "" {
		return errors.Wrap(ErrInconsistentProgress, "class without campus")
	}
	switch p.Stage {
	case StageClass:
		if p.CampusID == "" {
			return errors.Wrap(ErrInconsistentProgress, "class stage without campus")
		}
	case StageArm:
		if p.CampusID == "" || p.ClassID == "" {
			return errors.Wrap(ErrInconsistentProgress, "arm stage without campus and class")
		}
	}
	return nil
}
