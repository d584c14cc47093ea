package physics

import (
	"github.com/san-kum/dampsim/internal/dynamo"
	"github.com/san-kum/dampsim/internal/excitation"
)

// Driven closes a model over its excitation so it can be integrated as an
// autonomous system. The control argument of Derive is ignored.
type Driven struct {
	Model Model
	Drive excitation.Signal
}

func NewDriven(m Model, drive excitation.Signal) *Driven {
	return &Driven{Model: m, Drive: drive}
}

func (d *Driven) StateDim() int   { return d.Model.StateDim() }
func (d *Driven) ControlDim() int { return 0 }

func (d *Driven) Derive(x dynamo.State, _ dynamo.Control, t float64) dynamo.State {
	return d.Model.Derive(x, excitation.Control(d.Drive, t), t)
}

// InitialState is the model's state just after the drive switches on.
func (d *Driven) InitialState() dynamo.State {
	return d.Model.InitialState(d.Drive.Value(0))
}
