//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package authval

import (
	"github.com/markkurossi/mpcfabric/algebra"
	"github.com/markkurossi/mpcfabric/fabric"
	"github.com/markkurossi/mpcfabric/mpcval"
	"github.com/markkurossi/mpcfabric/network"
)

// AuthenticatedScalar is a secret-shared scalar carrying a MAC share
// against the fabric's global key share (spec.md §4.4, §3's
// "AuthenticatedScalar: (value: MpcScalar, mac_share: MpcScalar,
// key_share: Scalar)").
type AuthenticatedScalar struct {
	f          *fabric.Fabric
	value      mpcval.MpcScalar
	macShare   mpcval.MpcScalar
	keyShare   algebra.Scalar
	visibility mpcval.Visibility
}

// Value exposes the underlying (unauthenticated) share handle, for
// callers that need to drop down to plain MPC arithmetic.
func (a AuthenticatedScalar) Value() mpcval.MpcScalar { return a.value }

// Visibility reports whether a is Public, Shared, or Private.
func (a AuthenticatedScalar) Visibility() mpcval.Visibility { return a.visibility }

// ShareScalar shares value (meaningful only when f.PartyID() ==
// sender) and derives the MAC share as a genuine Beaver-multiplied
// share of δ·value: a local product of shares (key_share_i ·
// value_share_i) only sums to δ·value when one factor is public on
// both sides, which a freshly split secret is not, so δ is itself
// wrapped as a Shared handle and multiplied through mpcval's Beaver
// protocol (spec.md §4.4's Sharing rule).
func ShareScalar(f *fabric.Fabric, value algebra.Scalar, sender network.PartyID) (AuthenticatedScalar, error) {
	return ShareScalars(f, []algebra.Scalar{value}, sender)
}

// ShareScalars is ShareScalar's batched form.
func ShareScalars(f *fabric.Fabric, values []algebra.Scalar, sender network.PartyID) (AuthenticatedScalar, error) {
	v, err := mpcval.ShareScalars(f, values, sender)
	if err != nil {
		return AuthenticatedScalar{}, err
	}
	mac, err := macOf(f, f.KeyShare(), v, len(values))
	if err != nil {
		return AuthenticatedScalar{}, err
	}
	return AuthenticatedScalar{f: f, value: v, macShare: mac, keyShare: f.KeyShare(), visibility: mpcval.Shared}, nil
}

// Add returns a + b: value shares and MAC shares each add linearly.
func (a AuthenticatedScalar) Add(b AuthenticatedScalar) (AuthenticatedScalar, error) {
	v, err := a.value.Add(b.value)
	if err != nil {
		return AuthenticatedScalar{}, err
	}
	mac, err := a.macShare.Add(b.macShare)
	if err != nil {
		return AuthenticatedScalar{}, err
	}
	return AuthenticatedScalar{f: a.f, value: v, macShare: mac, keyShare: a.keyShare, visibility: mpcval.Shared}, nil
}

// Sub returns a - b.
func (a AuthenticatedScalar) Sub(b AuthenticatedScalar) (AuthenticatedScalar, error) {
	v, err := a.value.Sub(b.value)
	if err != nil {
		return AuthenticatedScalar{}, err
	}
	mac, err := a.macShare.Sub(b.macShare)
	if err != nil {
		return AuthenticatedScalar{}, err
	}
	return AuthenticatedScalar{f: a.f, value: v, macShare: mac, keyShare: a.keyShare, visibility: mpcval.Shared}, nil
}

// Neg returns -a.
func (a AuthenticatedScalar) Neg() (AuthenticatedScalar, error) {
	v, err := a.value.Neg()
	if err != nil {
		return AuthenticatedScalar{}, err
	}
	mac, err := a.macShare.Neg()
	if err != nil {
		return AuthenticatedScalar{}, err
	}
	return AuthenticatedScalar{f: a.f, value: v, macShare: mac, keyShare: a.keyShare, visibility: a.visibility}, nil
}

// MulPublic scales a by the public constant c. Scaling both the value
// share and the MAC share by the same constant keeps the MAC valid:
// Σ c·mac_share_i = c·δ·x = δ·(c·x).
func (a AuthenticatedScalar) MulPublic(c algebra.Scalar) (AuthenticatedScalar, error) {
	v, err := a.value.MulPublic(c)
	if err != nil {
		return AuthenticatedScalar{}, err
	}
	mac, err := a.macShare.MulPublic(c)
	if err != nil {
		return AuthenticatedScalar{}, err
	}
	return AuthenticatedScalar{f: a.f, value: v, macShare: mac, keyShare: a.keyShare, visibility: a.visibility}, nil
}

// TamperValueShare injects c into the caller's own value share only,
// leaving the MAC share untouched — breaking the MAC invariant on
// purpose. Every party must call this (passing algebra.ZeroScalar()
// to no-op) to keep graph allocation in lockstep; only a non-zero c
// actually corrupts anything. Exported for demonstrating and testing
// the layer's tamper-detection property (spec.md §8's "MAC
// detection"), not part of normal arithmetic.
func (a AuthenticatedScalar) TamperValueShare(c algebra.Scalar) (AuthenticatedScalar, error) {
	litID, err := a.f.Allocate(&fabric.LiteralGate{Value: fabric.Scalars(c)})
	if err != nil {
		return AuthenticatedScalar{}, err
	}
	own := mpcval.WrapScalar(a.f, litID, a.value.Visibility())
	v, err := a.value.Add(own)
	if err != nil {
		return AuthenticatedScalar{}, err
	}
	return AuthenticatedScalar{f: a.f, value: v, macShare: a.macShare, keyShare: a.keyShare, visibility: a.visibility}, nil
}

// AddPublicConstant returns a + c. The value's additive constant is
// mixed into party 0's value share only (mpcval's convention, avoiding
// double-counting a value both parties hold identically). The MAC's
// matching term is different: since Σ key_share_i = δ, every party
// must add its own key_share_i·c to its own MAC share for the two
// to stay in step (spec.md §4.4's Linear combinations rule).
func (a AuthenticatedScalar) AddPublicConstant(c algebra.Scalar) (AuthenticatedScalar, error) {
	v, err := a.value.AddPublicConstant(c)
	if err != nil {
		return AuthenticatedScalar{}, err
	}
	ownTerm, err := mpcval.PublicScalar(a.f, a.keyShare.Mul(c))
	if err != nil {
		return AuthenticatedScalar{}, err
	}
	mac, err := a.macShare.Add(ownTerm)
	if err != nil {
		return AuthenticatedScalar{}, err
	}
	return AuthenticatedScalar{f: a.f, value: v, macShare: mac, keyShare: a.keyShare, visibility: a.visibility}, nil
}
