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

// AuthenticatedPoint is the group-point analog of AuthenticatedScalar
// (spec.md §3's "AuthenticatedScalar / AuthenticatedPoint: a triple of
// handles"): a secret-shared curve point carrying a MAC share against
// the fabric's global key share.
type AuthenticatedPoint struct {
	f          *fabric.Fabric
	value      mpcval.MpcPoint
	macShare   mpcval.MpcPoint
	keyShare   algebra.Scalar
	visibility mpcval.Visibility
}

// Value exposes the underlying (unauthenticated) share handle.
func (a AuthenticatedPoint) Value() mpcval.MpcPoint { return a.value }

// Visibility reports whether a is Public, Shared, or Private.
func (a AuthenticatedPoint) Visibility() mpcval.Visibility { return a.visibility }

// SharePoint shares value (meaningful only when f.PartyID() ==
// sender) and derives the MAC share via a scalar-point Beaver
// multiplication of δ against the point share, the same construction
// ShareScalar uses for scalars (see macOfPoint).
func SharePoint(f *fabric.Fabric, value algebra.Point, sender network.PartyID) (AuthenticatedPoint, error) {
	return SharePoints(f, []algebra.Point{value}, sender)
}

// SharePoints is SharePoint's batched form.
func SharePoints(f *fabric.Fabric, values []algebra.Point, sender network.PartyID) (AuthenticatedPoint, error) {
	v, err := mpcval.SharePoints(f, values, sender)
	if err != nil {
		return AuthenticatedPoint{}, err
	}
	mac, err := macOfPoint(f, f.KeyShare(), v, len(values))
	if err != nil {
		return AuthenticatedPoint{}, err
	}
	return AuthenticatedPoint{f: f, value: v, macShare: mac, keyShare: f.KeyShare(), visibility: mpcval.Shared}, nil
}

// Add returns a + b: value shares and MAC shares each add linearly.
func (a AuthenticatedPoint) Add(b AuthenticatedPoint) (AuthenticatedPoint, error) {
	v, err := a.value.Add(b.value)
	if err != nil {
		return AuthenticatedPoint{}, err
	}
	mac, err := a.macShare.Add(b.macShare)
	if err != nil {
		return AuthenticatedPoint{}, err
	}
	return AuthenticatedPoint{f: a.f, value: v, macShare: mac, keyShare: a.keyShare, visibility: mpcval.Shared}, nil
}

// Sub returns a - b.
func (a AuthenticatedPoint) Sub(b AuthenticatedPoint) (AuthenticatedPoint, error) {
	v, err := a.value.Sub(b.value)
	if err != nil {
		return AuthenticatedPoint{}, err
	}
	mac, err := a.macShare.Sub(b.macShare)
	if err != nil {
		return AuthenticatedPoint{}, err
	}
	return AuthenticatedPoint{f: a.f, value: v, macShare: mac, keyShare: a.keyShare, visibility: mpcval.Shared}, nil
}

// Neg returns -a.
func (a AuthenticatedPoint) Neg() (AuthenticatedPoint, error) {
	v, err := a.value.Neg()
	if err != nil {
		return AuthenticatedPoint{}, err
	}
	mac, err := a.macShare.Neg()
	if err != nil {
		return AuthenticatedPoint{}, err
	}
	return AuthenticatedPoint{f: a.f, value: v, macShare: mac, keyShare: a.keyShare, visibility: a.visibility}, nil
}

// MulPublic scales a by the public scalar constant c. Scaling both
// the value share and the MAC share by c keeps the MAC valid:
// Σ c·mac_share_i = c·δ·x = δ·(c·x).
func (a AuthenticatedPoint) MulPublic(c algebra.Scalar) (AuthenticatedPoint, error) {
	v, err := a.value.MulPublic(c)
	if err != nil {
		return AuthenticatedPoint{}, err
	}
	mac, err := a.macShare.MulPublic(c)
	if err != nil {
		return AuthenticatedPoint{}, err
	}
	return AuthenticatedPoint{f: a.f, value: v, macShare: mac, keyShare: a.keyShare, visibility: a.visibility}, nil
}
