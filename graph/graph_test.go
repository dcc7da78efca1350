package graph

import (
	"math/rand"
	"testing"

	"circuit/element"
	"circuit/types"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newElement(id types.ElementID, t types.ElementType, x, y float64) *element.Element {
	return element.New(id, t, 1, types.Pt(x, y), 0, 1)
}

// sourceLoop 电压源经两条连线接电阻，负极接地
func sourceLoop() ([]types.Wire, []*element.Element) {
	elements := []*element.Element{
		newElement(0, types.TypeVoltageSource, 0, 0),
		newElement(1, types.TypeResistor, 0, 2),
		newElement(2, types.TypeGround, 1, 3),
	}
	wires := []types.Wire{
		{ID: 0, A: types.Pt(0, 0), B: types.Pt(0, 2)},
		{ID: 1, A: types.Pt(1, 0), B: types.Pt(1, 2)},
		{ID: 2, A: types.Pt(1, 2), B: types.Pt(1, 3)},
	}
	return wires, elements
}

func TestResolveSourceLoop(t *testing.T) {
	wires, elements := sourceLoop()
	g := Resolve(wires, elements)

	assert.Equal(t, 1, g.NumNodes)
	assert.Equal(t, 1, g.NumVoltageSources)
	assert.Equal(t, types.PinList{1, 0}, elements[0].Nodes)
	assert.Equal(t, types.PinList{1, 0}, elements[1].Nodes)
	assert.Equal(t, types.PinList{0}, elements[2].Nodes)
	assert.Equal(t, []bool{true, true}, elements[0].Connected)
	assert.ElementsMatch(t, []Member{{0, 0}, {1, 0}}, g.Members(1))
	assert.ElementsMatch(t, []Member{{0, 1}, {1, 1}, {2, 0}}, g.Members(0))
}

func TestResolveIdempotent(t *testing.T) {
	wires, elements := sourceLoop()
	first := Resolve(wires, elements)
	nodes := [][]types.NodeID{}
	for _, e := range elements {
		nodes = append(nodes, append([]types.NodeID(nil), e.Nodes...))
	}
	second := Resolve(wires, elements)
	for i, e := range elements {
		assert.Equal(t, types.PinList(nodes[i]), e.Nodes)
	}
	assert.Equal(t, first.Classes(), second.Classes())
	assert.Equal(t, first.NumNodes, second.NumNodes)
}

func TestResolveDangling(t *testing.T) {
	elements := []*element.Element{newElement(0, types.TypeResistor, 5, 5)}
	g := Resolve(nil, elements)

	assert.Equal(t, 0, g.NumNodes)
	assert.Equal(t, types.PinList{-1, -1}, elements[0].Nodes)
	assert.Equal(t, []bool{false, false}, elements[0].Connected)
	assert.Len(t, g.Classes(), 2)
}

func TestResolveWireOnlyClassHasNoNode(t *testing.T) {
	elements := []*element.Element{
		newElement(0, types.TypeResistor, 0, 0),
		newElement(1, types.TypeResistor, 1, 0),
	}
	wires := []types.Wire{{A: types.Pt(10, 10), B: types.Pt(12, 10)}}
	g := Resolve(wires, elements)

	// 两个电阻在(1,0)处相接，连线不触及任何引脚
	assert.Equal(t, 1, g.NumNodes)
	assert.Equal(t, types.PinList{-1, 1}, elements[0].Nodes)
	assert.Equal(t, types.PinList{1, -1}, elements[1].Nodes)
}

func TestResolveCoincidenceTolerance(t *testing.T) {
	elements := []*element.Element{
		newElement(0, types.TypeResistor, 0, 0),
		newElement(1, types.TypeResistor, 1.0005, 0),
		newElement(2, types.TypeResistor, 2.003, 0),
	}
	Resolve(nil, elements)

	assert.True(t, elements[0].Connected[1])
	assert.True(t, elements[1].Connected[0])
	assert.Equal(t, elements[0].Nodes[1], elements[1].Nodes[0])
	assert.False(t, elements[1].Connected[1])
	assert.False(t, elements[2].Connected[0])
}

func TestResolveHalfConnectedSource(t *testing.T) {
	elements := []*element.Element{
		newElement(0, types.TypeVoltageSource, 0, 0),
		newElement(1, types.TypeGround, 0, 0),
	}
	g := Resolve(nil, elements)

	assert.Equal(t, 0, g.NumVoltageSources)
	assert.Equal(t, types.PinList{0, -1}, elements[0].Nodes)
	assert.True(t, elements[0].IsDisconnected())
}

func TestResolveLoneGround(t *testing.T) {
	elements := []*element.Element{newElement(0, types.TypeGround, 0, 0)}
	g := Resolve(nil, elements)

	assert.Equal(t, 0, g.NumNodes)
	assert.Equal(t, types.PinList{-1}, elements[0].Nodes)
}

func TestDisjointSet(t *testing.T) {
	ds := NewDisjointSet(6)
	require.Equal(t, 6, ds.Len())
	ds.Union(0, 1)
	ds.Union(2, 3)
	ds.Union(1, 3)
	assert.True(t, ds.Same(0, 2))
	assert.False(t, ds.Same(0, 4))
	assert.Equal(t, 4, ds.Size(3))
	assert.Equal(t, 1, ds.Size(5))
	assert.Equal(t, ds.Find(0), ds.Union(0, 3))
}

// randomSchematic 在小网格上随机摆放元件与连线，保证出现重合端点
func randomSchematic(seed int64) ([]types.Wire, []*element.Element) {
	rng := rand.New(rand.NewSource(seed))
	kinds := []types.ElementType{
		types.TypeResistor, types.TypeCapacitor, types.TypeInductor,
		types.TypeVoltageSource, types.TypeGround,
	}
	elements := make([]*element.Element, 1+rng.Intn(8))
	for i := range elements {
		e := newElement(i, kinds[rng.Intn(len(kinds))], float64(rng.Intn(4)), float64(rng.Intn(4)))
		e.Rotation = rng.Intn(4)
		elements[i] = e
	}
	wires := make([]types.Wire, rng.Intn(8))
	for i := range wires {
		wires[i] = types.Wire{
			ID: i,
			A:  types.Pt(float64(rng.Intn(5)), float64(rng.Intn(5))),
			B:  types.Pt(float64(rng.Intn(5)), float64(rng.Intn(5))),
		}
	}
	return wires, elements
}

// groundedPins 接地节点上的引脚集合
func groundedPins(elements []*element.Element) map[Member]bool {
	out := map[Member]bool{}
	for _, e := range elements {
		for pin, n := range e.Nodes {
			if n == types.GndNodeID {
				out[Member{e.ID, pin}] = true
			}
		}
	}
	return out
}

func TestResolvePermutationInvariant(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("connectivity classes ignore input order", prop.ForAll(
		func(seed, shuffle int64) bool {
			wires, elements := randomSchematic(seed)
			want := Resolve(wires, elements)
			wantGround := groundedPins(elements)

			rng := rand.New(rand.NewSource(shuffle))
			rng.Shuffle(len(wires), func(i, j int) { wires[i], wires[j] = wires[j], wires[i] })
			rng.Shuffle(len(elements), func(i, j int) { elements[i], elements[j] = elements[j], elements[i] })
			got := Resolve(wires, elements)

			if got.NumNodes != want.NumNodes || got.NumVoltageSources != want.NumVoltageSources {
				return false
			}
			return assert.ObjectsAreEqual(want.Classes(), got.Classes()) &&
				assert.ObjectsAreEqual(wantGround, groundedPins(elements))
		},
		gen.Int64(),
		gen.Int64(),
	))

	properties.TestingRun(t)
}
