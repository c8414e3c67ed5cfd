package digcontainer

import (
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/masomo-setup/core"
	"github.com/trezcool/masomo-setup/core/user"
)

// Only the part of the graph that does not need a database is resolved.
func TestNew(t *testing.T) {
	c := New(&core.Config{Env: "TEST", TestMode: true, Debug: true})

	err := c.Invoke(func(
		conf *core.Config,
		logger core.Logger,
		mailSvc core.EmailService,
		validate *validator.Validate,
		translator ut.Translator,
		shutdown Shutdown,
	) {
		assert.True(t, conf.TestMode)
		assert.NotNil(t, logger)
		assert.NotNil(t, mailSvc)
		assert.Equal(t, 1, cap(shutdown))

		err := core.ValidateStruct(validate, translator, &user.LoginCredentials{})
		vErr, ok := err.(*core.ValidationError)
		if assert.True(t, ok, "err = %v", err) {
			assert.Equal(t, "this field is required", vErr.FieldMap()["username"])
		}
	})
	assert.NoError(t, err)
}
