package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("db is down")

	tests := []struct {
		err  error
		name string
		want Kind
	}{
		{name: "nil", err: nil, want: KindUnknown},
		{name: "plain error", err: cause, want: KindUnknown},
		{name: "forbidden", err: forbidden(nil), want: KindAuthorization},
		{name: "wrapped validation", err: fmt.Errorf("ctx: %w", validationError(errors.New("bad"))), want: KindValidation},
		{name: "persistence", err: persistenceError("op", cause), want: KindPersistence},
		{name: "dependency", err: dependencyError(cause), want: KindDependency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestPersistenceErrorHidesCause(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed: secret_table")
	err := persistenceError("create", cause)

	assert.Equal(t, "internal server error", PublicMessage(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal server error", PublicMessage(cause))
}

func TestDependencyErrorMessage(t *testing.T) {
	assert.Equal(t, "could not get a reply", PublicMessage(dependencyError(errors.New("timeout"))))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "authorization", KindAuthorization.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
