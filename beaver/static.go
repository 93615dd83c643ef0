//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package beaver

import (
	"github.com/markkurossi/mpcfabric/algebra"
	"github.com/markkurossi/mpcfabric/network"
)

// StaticSource is a deterministic, party-indexed Source for tests.
// It is grounded directly on the Rust reference implementation's
// integration-test mock (original_source/integration/helpers.rs,
// PartyIDBeaverSource): the fixed triple is a=2, b=3, c=6, split as
// [a] = (1, 1), [b] = (3, 0), [c] = (2, 4); shared bits and values
// are simply the party's own id reduced to a field element.
type StaticSource struct {
	party network.PartyID
}

// NewStaticSource creates a StaticSource for the given party.
func NewStaticSource(party network.PartyID) *StaticSource {
	return &StaticSource{party: party}
}

// NextTriplet implements Source.
func (s *StaticSource) NextTriplet() (Triplet, error) {
	if s.party == network.PARTY0 {
		return Triplet{
			A: algebra.ScalarFromUint64(1),
			B: algebra.ScalarFromUint64(3),
			C: algebra.ScalarFromUint64(2),
		}, nil
	}
	return Triplet{
		A: algebra.ScalarFromUint64(1),
		B: algebra.ScalarFromUint64(0),
		C: algebra.ScalarFromUint64(4),
	}, nil
}

// NextScalarPointTriplet implements Source.
func (s *StaticSource) NextScalarPointTriplet() (ScalarPointTriplet, error) {
	t, err := s.NextTriplet()
	if err != nil {
		return ScalarPointTriplet{}, err
	}
	return DeriveScalarPointTriplet(t), nil
}

// NextSharedBit implements Source.
func (s *StaticSource) NextSharedBit() (algebra.Scalar, error) {
	return algebra.ScalarFromUint64(uint64(s.party)), nil
}

// NextSharedInversePair implements Source: r = 1 + 1 = 2, and party 0
// holds all of r^-1.
func (s *StaticSource) NextSharedInversePair() (algebra.Scalar, algebra.Scalar, error) {
	if s.party == network.PARTY0 {
		return algebra.OneScalar(), algebra.ScalarFromUint64(2).Inverse(), nil
	}
	return algebra.OneScalar(), algebra.ZeroScalar(), nil
}

// NextSharedValue implements Source.
func (s *StaticSource) NextSharedValue() (algebra.Scalar, error) {
	return algebra.ScalarFromUint64(uint64(s.party)), nil
}
