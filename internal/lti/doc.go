// Package lti implements single-input single-output linear time-invariant
// systems in two equivalent forms.
//
// TransferFunction holds H(s) = N(s)/D(s) with polynomial coefficients in
// descending powers of s and computes step responses analytically by
// partial-fraction expansion. StateSpace holds the matrices (A, B, C, D) and
// simulates arbitrary sampled inputs with an exact first-order-hold
// discretisation.
//
// Both forms are built on gonum/mat: poles are eigenvalues of the companion
// matrix and the discretisation uses the matrix exponential.
package lti
