package access_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xraph/stakeledger/access"
	"github.com/xraph/stakeledger/id"
)

func TestAdmins(t *testing.T) {
	ctx := context.Background()
	admin, other := id.NewAccountID(), id.NewAccountID()

	set := access.NewAdmins(admin, id.Nil)
	assert.True(t, set.IsAdmin(ctx, admin))
	assert.False(t, set.IsAdmin(ctx, other))
	assert.False(t, set.IsAdmin(ctx, id.Nil))

	set.Grant(other)
	assert.True(t, set.IsAdmin(ctx, other))

	set.Revoke(admin)
	assert.False(t, set.IsAdmin(ctx, admin))
}

func TestDenyAll(t *testing.T) {
	assert.False(t, access.DenyAll.IsAdmin(context.Background(), id.NewAccountID()))
}
