package setup

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Stage is one of the ordered phases of the setup wizard.
type Stage int

const (
	StageCampus Stage = iota
	StageClass
	StageArm
	StageComplete
)

var stageNames = map[Stage]string{
	StageCampus:   "Campus",
	StageClass:    "Class",
	StageArm:      "Arm",
	StageComplete: "Complete",
}

func (s Stage) Valid() bool {
	return s >= StageCampus && s <= StageComplete
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Next returns the stage following s. Complete is its own successor.
func (s Stage) Next() Stage {
	if s >= StageComplete {
		return StageComplete
	}
	return s + 1
}

// Prev returns the stage a Back action leads to, and false when s has none.
func (s Stage) Prev() (Stage, bool) {
	switch s {
	case StageClass:
		return StageCampus, true
	case StageArm:
		return StageClass, true
	default:
		return s, false
	}
}

// StageFromOrdinal converts an ordinal received from the backend.
func StageFromOrdinal(n int) (Stage, error) {
	s := Stage(n)
	if !s.Valid() {
		return StageCampus, errors.Wrapf(ErrInvalidStage, "ordinal %d", n)
	}
	return s, nil
}

// StageToWire encodes s the way it is persisted in the progress store.
func StageToWire(s Stage) string {
	return strconv.Itoa(int(s))
}

// WireToStage decodes a persisted stage; anything but "0".."3" is rejected.
func WireToStage(v string) (Stage, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return StageCampus, errors.Wrapf(ErrInvalidStage, "%q", v)
	}
	return StageFromOrdinal(n)
}

func (s Stage) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.Wrapf(ErrInvalidStage, "ordinal %d", int(s))
	}
	return json.Marshal(int(s))
}

func (s *Stage) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrapf(ErrInvalidStage, "%s", data)
	}
	stage, err := StageFromOrdinal(n)
	if err != nil {
		return err
	}
	*s = stage
	return nil
}
