package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	id "consultly/pkg/domain"
)

func TestAccessors(t *testing.T) {
	t.Run("zero values on empty context", func(t *testing.T) {
		ctx := context.Background()
		assert.True(t, PrincipalID(ctx).IsNil())
		assert.Empty(t, PrincipalKind(ctx))
		assert.Nil(t, Roles(ctx))
		assert.Empty(t, RequestID(ctx))
		assert.WithinDuration(t, time.Now(), Now(ctx), time.Second)
	})

	t.Run("principal round trip", func(t *testing.T) {
		pid := id.NewPrincipalID()
		ctx := WithPrincipal(context.Background(), pid, "organization", []string{"organization", "admin"})
		assert.Equal(t, pid, PrincipalID(ctx))
		assert.Equal(t, "organization", PrincipalKind(ctx))
		assert.True(t, HasRole(ctx, "admin"))
		assert.False(t, HasRole(ctx, "consultant"))
	})

	t.Run("fixed time wins", func(t *testing.T) {
		fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		assert.Equal(t, fixed, Now(WithTime(context.Background(), fixed)))
	})
}
