package validation

import (
	"strings"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"

	apperrors "project-registry/pkg/errors"
)

func TestRules(t *testing.T) {
	v := New()

	assert.NoError(t, v.Var("PRJ", "code_prefix"))
	assert.NoError(t, v.Var("CRM2", "code_prefix"))
	assert.ErrorIs(t, v.Var("PR-J", "code_prefix"), apperrors.ErrInvalidInput)
	assert.ErrorIs(t, v.Var(strings.Repeat("A", 17), "code_prefix"), apperrors.ErrInvalidInput)

	assert.NoError(t, v.Var("p1", "project_id"))
	assert.ErrorIs(t, v.Var("p:1", "project_id"), apperrors.ErrInvalidInput)
	assert.ErrorIs(t, v.Var("  ", "project_id"), apperrors.ErrInvalidInput)
	assert.ErrorIs(t, v.Var("p\xff", "project_id"), apperrors.ErrInvalidInput)
	assert.NoError(t, v.Var("проект-1", "project_id"))

	assert.NoError(t, v.Var("spec v2.pdf", "file_name"))
	assert.NoError(t, v.Var("смета.xlsx", "file_name"))
	for _, bad := range []string{"", ".", "..", "a/b.pdf", `a\b.pdf`, "a\xffb.pdf", "\xc3"} {
		assert.ErrorIs(t, v.Var(bad, "file_name"), apperrors.ErrInvalidInput, bad)
	}
}

type nullHolder struct {
	Comment null.String `validate:"omitempty,max=3"`
}

func TestNullTypes(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(nullHolder{}))
	assert.NoError(t, v.Validate(nullHolder{Comment: null.StringFrom("abc")}))
	assert.ErrorIs(t, v.Validate(nullHolder{Comment: null.StringFrom("abcd")}), apperrors.ErrInvalidInput)
}
