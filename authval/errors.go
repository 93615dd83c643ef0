//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package authval implements the authenticated value layer (spec.md
// §4.4): SPDZ-style MAC-carrying scalars and points, built on top of
// mpcval's plain secret-shared values. Every AuthenticatedScalar
// carries its value share, a share of value*δ (δ the global MAC key,
// itself additively shared between the two parties), and this
// party's share of δ.
package authval

import "errors"

// ErrAuthenticationFailure is returned by Open/OpenBatch when the
// revealed MAC check share does not sum to zero, or when a peer's
// revealed share does not match its earlier commitment (spec.md §4.4,
// §7).
var ErrAuthenticationFailure = errors.New("authval: MAC authentication failed")
