package simulation

import (
	"errors"
	"math"
	"testing"

	"circuit/element"
	"circuit/maths"
	"circuit/types"

	. "github.com/smartystreets/goconvey/convey"
)

// wired 创建节点已分配的元件
func wired(id types.ElementID, t types.ElementType, value float64, nodes ...types.NodeID) *element.Element {
	e := element.New(id, t, value, types.Point{}, 0, 0)
	copy(e.Nodes, nodes)
	for i, n := range nodes {
		e.Connected[i] = n != types.UnconnectedNodeID
	}
	return e
}

// run 连续执行n步，返回最后一步结果
func run(s *Stepper, elements []*element.Element, n int) (*Result, error) {
	var res *Result
	for k := range n {
		var err error
		if res, err = s.Step(elements, float64(k)*types.TimeStep); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func TestSourceResistor(t *testing.T) {
	Convey("Given a 5V source across a 1k resistor", t, func() {
		vs := wired(0, types.TypeVoltageSource, 5, 1, 0)
		r := wired(1, types.TypeResistor, 1000, 1, 0)
		g := wired(2, types.TypeGround, 0, 0)
		elements := []*element.Element{vs, r, g}
		s := NewStepper(nil, nil)

		Convey("When one step is taken", func() {
			res, err := s.Step(elements, 0)
			So(err, ShouldBeNil)

			Convey("The node sits at 5V and 5mA flows", func() {
				So(res.NodesNum, ShouldEqual, 1)
				So(res.VoltageSourcesNum, ShouldEqual, 1)
				So(res.Voltages[1], ShouldAlmostEqual, 5, 1e-9)
				So(r.Voltage, ShouldAlmostEqual, 5, 1e-9)
				So(r.Current, ShouldAlmostEqual, 5e-3, 1e-9)
				So(vs.Current, ShouldAlmostEqual, -5e-3, 1e-7)
				So(vs.PrevVoltage, ShouldEqual, 5)
				So(g.Voltage, ShouldEqual, 0)
				So(g.Current, ShouldEqual, 0)
			})

			Convey("Every element records one sample", func() {
				for _, e := range elements {
					So(e.History.Len(), ShouldEqual, 1)
				}
				So(s.Steps(), ShouldEqual, 1)
			})
		})
	})
}

func TestRCCharge(t *testing.T) {
	Convey("Given an RC circuit of 1k and 10uF driven by 5V", t, func() {
		c := wired(2, types.TypeCapacitor, 10e-6, 2, 0)
		elements := []*element.Element{
			wired(0, types.TypeVoltageSource, 5, 1, 0),
			wired(1, types.TypeResistor, 1000, 1, 2),
			c,
			wired(3, types.TypeGround, 0, 0),
		}

		Convey("After 50 steps the capacitor is within 1% of the exponential charge curve", func() {
			_, err := run(NewStepper(nil, nil), elements, 50)
			So(err, ShouldBeNil)
			want := 5 * (1 - math.Exp(-50*types.TimeStep/(1000*10e-6)))
			So(math.Abs(c.Voltage-want)/want, ShouldBeLessThan, 0.01)
			So(c.PrevVoltage, ShouldEqual, c.Voltage)
			So(c.History.Len(), ShouldEqual, 50)
		})

		Convey("The capacitor voltage rises monotonically", func() {
			_, err := run(NewStepper(nil, nil), elements, 20)
			So(err, ShouldBeNil)
			samples := c.History.Samples()
			for i := 1; i < len(samples); i++ {
				So(samples[i].Voltage, ShouldBeGreaterThan, samples[i-1].Voltage)
				So(samples[i].Time, ShouldBeGreaterThan, samples[i-1].Time)
			}
		})
	})
}

func TestCompanionHold(t *testing.T) {
	Convey("An isolated charged capacitor holds its voltage", t, func() {
		c := wired(0, types.TypeCapacitor, 1e-6, 1, 0)
		c.PrevVoltage = 3
		_, err := run(NewStepper(nil, nil), []*element.Element{c, wired(1, types.TypeGround, 0, 0)}, 5)
		So(err, ShouldBeNil)
		So(c.Voltage, ShouldAlmostEqual, 3, 1e-4)
		So(math.Abs(c.Current), ShouldBeLessThan, 1e-8)
	})

	Convey("An inductor with zero applied voltage holds its current", t, func() {
		l := wired(0, types.TypeInductor, 1e-3, 1, 0)
		l.PrevCurrent = 2
		vs := wired(1, types.TypeVoltageSource, 0, 1, 0)
		_, err := run(NewStepper(nil, nil), []*element.Element{l, vs, wired(2, types.TypeGround, 0, 0)}, 5)
		So(err, ShouldBeNil)
		So(l.Voltage, ShouldAlmostEqual, 0, 1e-12)
		So(l.Current, ShouldAlmostEqual, 2, 1e-12)
		So(vs.Current, ShouldAlmostEqual, -2, 1e-6)
	})
}

func TestDisconnectedElement(t *testing.T) {
	Convey("Given a resistor with one dangling terminal", t, func() {
		dangling := wired(2, types.TypeResistor, 10, 1, -1)
		held := wired(3, types.TypeCapacitor, 1, -1, -1)
		held.PrevVoltage = 7
		elements := []*element.Element{
			wired(0, types.TypeVoltageSource, 5, 1, 0),
			wired(1, types.TypeResistor, 100, 1, 0),
			dangling,
			held,
			wired(4, types.TypeGround, 0, 0),
		}
		_, err := NewStepper(nil, nil).Step(elements, 0)
		So(err, ShouldBeNil)

		Convey("It reports zero voltage and current", func() {
			So(dangling.Voltage, ShouldEqual, 0)
			So(dangling.Current, ShouldEqual, 0)
			So(dangling.History.Len(), ShouldEqual, 1)
		})

		Convey("Its companion state is kept", func() {
			So(held.Voltage, ShouldEqual, 0)
			So(held.PrevVoltage, ShouldEqual, 7)
		})
	})
}

func TestFloatingNodes(t *testing.T) {
	Convey("A charged capacitor between two ungrounded nodes decays through the minimum conductance", t, func() {
		c := wired(0, types.TypeCapacitor, 1e-12, 1, 2)
		c.PrevVoltage = 1
		s := NewStepper(nil, nil)
		for k := 1; k <= 6; k++ {
			res, err := s.Step([]*element.Element{c}, float64(k)*types.TimeStep)
			So(err, ShouldBeNil)
			So(res.NodesNum, ShouldEqual, 2)
			So(c.Voltage, ShouldAlmostEqual, math.Pow(2.0/3, float64(k)), 1e-9)
		}
	})
}

func TestZeroUnknowns(t *testing.T) {
	Convey("A circuit with nothing but ground steps to an all-zero solution", t, func() {
		g := wired(0, types.TypeGround, 0, -1)
		r := wired(1, types.TypeResistor, 1, -1, -1)
		res, err := NewStepper(nil, nil).Step([]*element.Element{g, r}, 0)
		So(err, ShouldBeNil)
		So(res.NodesNum, ShouldEqual, 0)
		So(res.Voltages, ShouldResemble, []float64{0})
		So(res.Unknowns, ShouldBeEmpty)
		So(r.History.Len(), ShouldEqual, 1)
	})
}

func TestStepFailure(t *testing.T) {
	Convey("Given a source shorted onto a single node", t, func() {
		c := wired(2, types.TypeCapacitor, 1e-6, 1, 0)
		c.PrevVoltage = 2
		elements := []*element.Element{
			wired(0, types.TypeVoltageSource, 5, 1, 1),
			wired(1, types.TypeResistor, 100, 1, 0),
			c,
			wired(3, types.TypeGround, 0, 0),
		}
		s := NewStepper(nil, nil)
		_, err := s.Step(elements, 0.5)

		Convey("The solver reports a singular system wrapped in a StepError", func() {
			So(errors.Is(err, maths.ErrSingular), ShouldBeTrue)
			var stepErr *StepError
			So(errors.As(err, &stepErr), ShouldBeTrue)
			So(stepErr.Step, ShouldEqual, 1)
			So(stepErr.Time, ShouldEqual, 0.5)
		})

		Convey("No element state changes", func() {
			So(c.PrevVoltage, ShouldEqual, 2)
			So(c.Voltage, ShouldEqual, 0)
			for _, e := range elements {
				So(e.History.Len(), ShouldEqual, 0)
			}
			So(s.Steps(), ShouldEqual, 0)
		})
	})

	Convey("A resistor with a non-finite value yields an invalid solution", t, func() {
		elements := []*element.Element{
			wired(0, types.TypeVoltageSource, 5, 1, 0),
			wired(1, types.TypeResistor, math.NaN(), 1, 0),
			wired(2, types.TypeGround, 0, 0),
		}
		_, err := NewStepper(nil, nil).Step(elements, 0)
		So(errors.Is(err, ErrInvalidSolution), ShouldBeTrue)
		So(elements[1].History.Len(), ShouldEqual, 0)
	})

	Convey("A zero ohm resistor across a source carries the clamped current", t, func() {
		r := wired(1, types.TypeResistor, 0, 1, 0)
		elements := []*element.Element{
			wired(0, types.TypeVoltageSource, 5, 1, 0),
			r,
			wired(2, types.TypeGround, 0, 0),
		}
		_, err := NewStepper(nil, nil).Step(elements, 0)
		So(err, ShouldBeNil)
		So(r.Voltage, ShouldAlmostEqual, 5, 1e-6)
		So(r.Current, ShouldAlmostEqual, 5/types.MinImpedance, 1e3)
		So(r.History.Len(), ShouldEqual, 1)
	})
}

func TestAssemble(t *testing.T) {
	Convey("Voltage sources are numbered in element order and half connected ones are skipped", t, func() {
		elements := []*element.Element{
			wired(0, types.TypeVoltageSource, 1, 2, 0),
			wired(1, types.TypeVoltageSource, 2, 1, -1),
			wired(2, types.TypeVoltageSource, 3, 1, 2),
			wired(3, types.TypeResistor, 1, 3, 0),
		}
		nodes, vs := GetNum(elements)
		So(nodes, ShouldEqual, 3)
		So(vs, ShouldEqual, 2)

		m, ids := Assemble(elements, nodes, vs)
		So(ids, ShouldResemble, []types.VoltageID{0, -1, 1, -1})
		So(m.Size(), ShouldEqual, 5)
		So(m.Z.AtVec(3), ShouldEqual, 1)
		So(m.Z.AtVec(4), ShouldEqual, 3)
		So(m.A.At(2, 2), ShouldAlmostEqual, 1+types.GMin)
	})
}
