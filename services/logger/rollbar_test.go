package logsvc

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/masomo-setup/core"
	"github.com/trezcool/masomo-setup/core/setup"
	"github.com/trezcool/masomo-setup/core/user"
)

func TestRollbarLogger_prepare(t *testing.T) {
	logger := NewRollbarLogger(log.New(new(bytes.Buffer), "", 0), &core.Config{Env: "TEST", TestMode: true})
	err := errors.New("boom")

	tests := []struct {
		name string
		args []interface{}
		want []interface{}
	}{
		{
			name: "plain error",
			args: []interface{}{err},
			want: []interface{}{"failed", err},
		},
		{
			name: "only the first user is reported",
			args: []interface{}{err, user.User{ID: "u1", TenantID: "t1", Username: "admin"}, user.User{ID: "u2", TenantID: "t2"}},
			want: []interface{}{"failed", err, map[string]interface{}{"tenant_id": "t1"}},
		},
		{
			name: "setup progress",
			args: []interface{}{err, setup.Progress{Stage: setup.StageArm, CampusID: "c1", ClassID: "k1", ClassName: "Grade 1"}},
			want: []interface{}{"failed", err, map[string]interface{}{"setup_stage": "Arm", "campus_id": "c1", "class_id": "k1"}},
		},
		{
			name: "extras are merged",
			args: []interface{}{setup.StageClass, map[string]interface{}{"key": "setupProgress"}, user.User{ID: "u1", TenantID: "t1"}},
			want: []interface{}{"failed", map[string]interface{}{"setup_stage": "Class", "key": "setupProgress", "tenant_id": "t1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.prepare("failed", tt.args))
		})
	}
}

func TestRollbarLogger_levels(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := NewRollbarLogger(log.New(buf, "", 0), &core.Config{Env: "PROD"})
	logger.Enable(false)

	logger.Debug("hidden")
	logger.Info("shown")
	logger.Warn("failed", errors.New("boom"), user.User{ID: "u1", Email: "jane@school.test"})
	assert.Equal(t, "shown\nfailed\nboom\n", buf.String())

	buf.Reset()
	debug := NewRollbarLogger(log.New(buf, "", 0), &core.Config{Env: "TEST", Debug: true})
	debug.Enable(false)
	debug.Debug("step failed", setup.StageCampus)
	assert.Equal(t, "step failed\nCampus\n", buf.String())
}
