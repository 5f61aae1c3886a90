package validation

import (
	"testing"

	"project-tracker/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateWorkstream(t *testing.T) {
	v := NewValidator()

	for _, raw := range []string{"1", "3", "5"} {
		ws, errs := v.ValidateWorkstream(raw)
		assert.Empty(t, errs, raw)
		assert.NotZero(t, ws)
	}

	cases := map[string]string{
		"empty":        "",
		"not a number": "abc",
		"zero":         "0",
		"too high":     "6",
		"negative":     "-1",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, errs := v.ValidateWorkstream(raw)
			assert.NotEmpty(t, errs)
		})
	}
}

func TestValidateSessionID(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateSessionID(util.NewULID()))
	assert.NotEmpty(t, v.ValidateSessionID(""))
	assert.NotEmpty(t, v.ValidateSessionID("short"))
	assert.NotEmpty(t, v.ValidateSessionID("not-a-ulid-but-26-chars-xx"))
}

func TestValidateSubmitRequest(t *testing.T) {
	v := NewValidator()

	errs := v.ValidateSubmitRequest("b5c2a6d8-1e50-4ab9-98f1-3a7c2d1e0f44", map[string]interface{}{"status": "On track"})
	assert.Empty(t, errs)

	errs = v.ValidateSubmitRequest("", nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "project_id", errs[0].Field)

	errs = v.ValidateSubmitRequest("not-a-uuid", nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "project_id", errs[0].Field)

	big := make(map[string]interface{})
	for i := 0; i < MaxAnswersPerRequest+1; i++ {
		big[util.NewULID()] = i
	}
	errs = v.ValidateSubmitRequest("b5c2a6d8-1e50-4ab9-98f1-3a7c2d1e0f44", big)
	assert.NotEmpty(t, errs)
}

func TestValidateSaveAnswersRequest(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateSaveAnswersRequest(map[string]interface{}{"status": "Delayed"}))
	assert.NotEmpty(t, v.ValidateSaveAnswersRequest(nil))
	assert.NotEmpty(t, v.ValidateSaveAnswersRequest(map[string]interface{}{"  ": "x"}))
}

func TestValidateLoginRequest(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateLoginRequest("analyst@example.org", "pw"))
	assert.NotEmpty(t, v.ValidateLoginRequest("", "pw"))
	assert.NotEmpty(t, v.ValidateLoginRequest("not-an-email", "pw"))
	assert.NotEmpty(t, v.ValidateLoginRequest("analyst@example.org", ""))
}
