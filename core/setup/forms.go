package setup

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-setup/core"
)

// NewCampus contains information needed to create the tenant's first campus.
type NewCampus struct {
	Name        string `json:"name" validate:"required,notblank,min=2,max=100"`
	Address     string `json:"address" validate:"required,max=255"`
	City        string `json:"city" validate:"required,max=100"`
	State       string `json:"state" validate:"required,max=100"`
	Country     string `json:"country" validate:"required,max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone"`
	Capacity    int    `json:"capacity" validate:"required,min=1,max=100000"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
}

// Validate cleans nc and returns nil or a *core.ValidationError listing every invalid field.
func (nc *NewCampus) Validate(validate *validator.Validate, translator ut.Translator) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Address = core.CleanString(nc.Address)
	nc.City = core.CleanString(nc.City)
	nc.State = core.CleanString(nc.State)
	nc.Country = core.CleanString(nc.Country)
	nc.PhoneNumber = core.CleanString(nc.PhoneNumber)
	nc.Description = core.CleanString(nc.Description)
	nc.Email = core.CleanString(nc.Email, true /* lower */)
	return core.ValidateStruct(validate, translator, nc)
}

// NewClass contains information needed to create a class in a campus.
type NewClass struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	CampusID    string `json:"campusId" validate:"required"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
}

func (nc *NewClass) Validate(validate *validator.Validate, translator ut.Translator) error {
	nc.Name = core.CleanString(nc.Name)
	nc.CampusID = core.CleanString(nc.CampusID)
	nc.Description = core.CleanString(nc.Description)
	return core.ValidateStruct(validate, translator, nc)
}

// NewArm contains information needed to create an arm (section) of a class.
// Name is accepted as an alias of ArmName.
type NewArm struct {
	ArmName        string `json:"armName" validate:"required,notblank,max=50"`
	Name           string `json:"name,omitempty" validate:"-"`
	ArmDescription string `json:"armDescription,omitempty" validate:"omitempty,max=500"`
	ClassID        string `json:"classId" validate:"required"`
}

func (na *NewArm) Validate(validate *validator.Validate, translator ut.Translator) error {
	na.ArmName = core.CleanString(na.ArmName)
	if na.ArmName == "" {
		na.ArmName = core.CleanString(na.Name)
	}
	na.Name = ""
	na.ArmDescription = core.CleanString(na.ArmDescription)
	na.ClassID = core.CleanString(na.ClassID)
	return core.ValidateStruct(validate, translator, na)
}
