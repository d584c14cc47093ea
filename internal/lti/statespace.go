package lti

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/dampsim/internal/dynamo"
)

// StateSpace is the SISO realisation x' = A·x + B·u, y = C·x + D·u.
type StateSpace struct {
	A *mat.Dense
	B *mat.Dense
	C *mat.Dense
	D *mat.Dense
}

// Response is the sampled output of a state-space simulation together with
// the internal state at every sample.
type Response struct {
	Times   []float64
	Outputs []float64
	States  [][]float64
}

// Component returns state component i at every sample.
func (r *Response) Component(i int) []float64 {
	out := make([]float64, len(r.States))
	for k, s := range r.States {
		out[k] = s[i]
	}
	return out
}

// NewStateSpace checks that the matrices describe a single-input
// single-output system: A n×n, B n×1, C 1×n and D 1×1.
func NewStateSpace(a, b, c, d *mat.Dense) (*StateSpace, error) {
	if a == nil || b == nil || c == nil || d == nil {
		return nil, fmt.Errorf("%w: nil state-space matrix", dynamo.ErrDimensionMismatch)
	}
	n, na := a.Dims()
	if n != na || n == 0 {
		return nil, fmt.Errorf("%w: A is %dx%d", dynamo.ErrDimensionMismatch, n, na)
	}
	if r, k := b.Dims(); r != n || k != 1 {
		return nil, fmt.Errorf("%w: B is %dx%d, want %dx1", dynamo.ErrDimensionMismatch, r, k, n)
	}
	if r, k := c.Dims(); r != 1 || k != n {
		return nil, fmt.Errorf("%w: C is %dx%d, want 1x%d", dynamo.ErrDimensionMismatch, r, k, n)
	}
	if r, k := d.Dims(); r != 1 || k != 1 {
		return nil, fmt.Errorf("%w: D is %dx%d, want 1x1", dynamo.ErrDimensionMismatch, r, k)
	}
	for name, m := range map[string]*mat.Dense{"A": a, "B": b, "C": c, "D": d} {
		if !finiteCoefficients(m.RawMatrix().Data) {
			return nil, fmt.Errorf("%w: non-finite entry in %s", dynamo.ErrInvalidParameter, name)
		}
	}
	return &StateSpace{A: a, B: b, C: c, D: d}, nil
}

// Order is the state dimension.
func (ss *StateSpace) Order() int {
	n, _ := ss.A.Dims()
	return n
}

// Poles returns the eigenvalues of A.
func (ss *StateSpace) Poles() ([]complex128, error) { return eigenvalues(ss.A) }

// Simulate drives the system with the input sequence u sampled on grid,
// starting from x0 (zero when nil). The input is interpolated linearly between
// samples and the discretisation is exact for such inputs: with
//
//	M = [[A·dt, B·dt, 0], [0, 0, 1], [0, 0, 0]],  E = exp(M)
//
// the update is x[k+1] = Φ·x[k] + (Γ1-Γ2)·u[k] + Γ2·u[k+1], where Φ, Γ1 and
// Γ2 are the first n rows of E in the state, u and du column blocks.
func (ss *StateSpace) Simulate(u []float64, grid dynamo.TimeGrid, x0 []float64) (*Response, error) {
	n := ss.Order()
	if grid.Len() < 2 {
		return nil, fmt.Errorf("%w: grid has %d samples", dynamo.ErrInvalidGrid, grid.Len())
	}
	if len(u) != grid.Len() {
		return nil, fmt.Errorf("%w: %d input samples for %d grid points", dynamo.ErrDimensionMismatch, len(u), grid.Len())
	}
	if x0 == nil {
		x0 = make([]float64, n)
	}
	if len(x0) != n {
		return nil, fmt.Errorf("%w: initial state has %d components, system has %d", dynamo.ErrDimensionMismatch, len(x0), n)
	}

	phi, g0, g1 := ss.discretize(grid.Spacing())

	resp := &Response{
		Times:   grid.Times(),
		Outputs: make([]float64, grid.Len()),
		States:  make([][]float64, grid.Len()),
	}

	x := mat.NewVecDense(n, append([]float64(nil), x0...))
	next := mat.NewVecDense(n, nil)
	for k := 0; k < grid.Len(); k++ {
		if k > 0 {
			next.MulVec(phi, x)
			next.AddScaledVec(next, u[k-1], g0)
			next.AddScaledVec(next, u[k], g1)
			x.CopyVec(next)
		}

		state := make([]float64, n)
		for i := range state {
			state[i] = x.AtVec(i)
		}
		if !dynamo.State(state).IsValid() {
			return resp, &dynamo.SimulationError{Step: k, Time: grid.At(k), State: state, Wrapped: dynamo.ErrInvalidState}
		}
		resp.States[k] = state
		resp.Outputs[k] = mat.Dot(ss.C.RowView(0), x) + ss.D.At(0, 0)*u[k]
	}
	return resp, nil
}

// discretize returns Φ, Γ1-Γ2 and Γ2 for step dt.
func (ss *StateSpace) discretize(dt float64) (phi *mat.Dense, g0, g1 *mat.VecDense) {
	n := ss.Order()
	m := mat.NewDense(n+2, n+2, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.Set(i, j, ss.A.At(i, j)*dt)
		}
		m.Set(i, n, ss.B.At(i, 0)*dt)
	}
	m.Set(n, n+1, 1)

	var e mat.Dense
	e.Exp(m)

	phi = mat.NewDense(n, n, nil)
	phi.Copy(e.Slice(0, n, 0, n))

	g0 = mat.NewVecDense(n, nil)
	g1 = mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		g1.SetVec(i, e.At(i, n+1))
		g0.SetVec(i, e.At(i, n)-e.At(i, n+1))
	}
	return phi, g0, g1
}
