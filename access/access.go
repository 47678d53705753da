// Package access provides the admin check consulted before privileged
// ledger operations.
package access

import (
	"context"
	"sync"

	"github.com/xraph/stakeledger/id"
)

// Controller decides whether caller may run admin-only operations.
type Controller interface {
	IsAdmin(ctx context.Context, caller id.AccountID) bool
}

// ControllerFunc is an adapter to use a plain function as a Controller.
type ControllerFunc func(ctx context.Context, caller id.AccountID) bool

// IsAdmin implements Controller.
func (f ControllerFunc) IsAdmin(ctx context.Context, caller id.AccountID) bool {
	return f(ctx, caller)
}

// DenyAll is a Controller that rejects every caller. It is the ledger's
// default until a real controller is configured.
var DenyAll Controller = ControllerFunc(func(context.Context, id.AccountID) bool { return false })

// Admins is a mutable set of admin accounts.
type Admins struct {
	mu     sync.RWMutex
	admins map[string]struct{}
}

// NewAdmins creates an admin set holding the given accounts.
func NewAdmins(accounts ...id.AccountID) *Admins {
	a := &Admins{admins: make(map[string]struct{}, len(accounts))}
	for _, acct := range accounts {
		a.Grant(acct)
	}
	return a
}

// IsAdmin implements Controller. The Nil account is never an admin.
func (a *Admins) IsAdmin(_ context.Context, caller id.AccountID) bool {
	if caller.IsNil() {
		return false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.admins[caller.String()]
	return ok
}

// Grant adds acct to the set.
func (a *Admins) Grant(acct id.AccountID) {
	if acct.IsNil() {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.admins[acct.String()] = struct{}{}
}

// Revoke removes acct from the set.
func (a *Admins) Revoke(acct id.AccountID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.admins, acct.String())
}
