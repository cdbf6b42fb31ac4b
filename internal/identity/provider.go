// Package identity supplies the owner id used for remote path derivation
// and record scoping. Sign-in itself happens elsewhere; this package only
// reads the identity the auth layer already established.
package identity

import "context"

// Provider returns the current owner's id.
type Provider interface {
	OwnerID(ctx context.Context) (string, error)
}

// Static is a Provider with a fixed owner id, handy for tests and tools.
type Static struct {
	ID string
}

func (s Static) OwnerID(ctx context.Context) (string, error) {
	return s.ID, nil
}
