package sentinel

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert individual: %w", &UniqueViolation{Field: "phone"})

	assert.True(t, errors.Is(err, ErrAlreadyUsed))
	assert.False(t, errors.Is(err, ErrNotFound))

	field, ok := ViolatedField(err)
	assert.True(t, ok)
	assert.Equal(t, "phone", field)

	_, ok = ViolatedField(ErrAlreadyUsed)
	assert.False(t, ok)
}
