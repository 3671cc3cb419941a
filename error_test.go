package vigie

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodeAndReason(t *testing.T) {
	err := ReportExists("R-2026-001")
	assert.Equal(t, ECONFLICT, ErrorCode(err))
	assert.Equal(t, ReasonReportExists, ErrorReason(err))
	assert.True(t, IsErrorCode(err, ECONFLICT))
	assert.True(t, IsErrorReason(err, ReasonReportExists))
	assert.Contains(t, ErrorMessage(err), "R-2026-001")
}

func TestReplaceIncompleteWrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := ReplaceIncomplete("R-2026-001", cause)

	assert.Equal(t, EUNPROCESSABLE, ErrorCode(err))
	assert.Equal(t, ReasonReplaceIncomplete, ErrorReason(err))
	assert.ErrorIs(t, err, cause)
}

func TestErrorCodeDefaults(t *testing.T) {
	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, EINTERNAL, ErrorCode(errors.New("boom")))
	assert.Equal(t, "", ErrorReason(errors.New("boom")))
}

func TestInvalidReason(t *testing.T) {
	err := InvalidReason(ReasonEmptyMachines, "Payload has no machines")
	assert.Equal(t, EINVALID, ErrorCode(err))
	assert.Equal(t, ReasonEmptyMachines, ErrorReason(err))
}
