package route

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/rhartert/tradeways/network"
)

// A -ab-> B -bc-> C, with a river back from C to A.
func exampleGraph() *network.Graph {
	g, err := network.Build(
		[]network.Hub{
			{ID: "A", Position: orb.Point{0, 0}},
			{ID: "B", Position: orb.Point{10, 0}},
			{ID: "C", Position: orb.Point{20, 0}},
		},
		[]network.Edge{
			{ID: "ab", HubA: "A", HubB: "B", Type: network.Road, CostAB: 10, CostBA: 10},
			{ID: "bc", HubA: "B", HubB: "C", Type: network.Road, CostAB: 10, CostBA: 12},
			{ID: "ca", HubA: "C", HubB: "A", Type: network.River, CostAB: 15, CostBA: 30},
		},
	)
	if err != nil {
		panic(err)
	}
	return g
}

func ExampleNew() {
	g := exampleGraph()

	r, err := New(g, "A", []network.Leg{
		{Edge: 0, Dir: network.Forward},
		{Edge: 1, Dir: network.Forward},
	})

	fmt.Println(r, err)
	fmt.Println(r.Cost())

	// Output:
	// A -[ab]-> B -[bc]-> C <nil>
	// 20
}

func ExampleNew_disconnected() {
	g := exampleGraph()

	_, err := New(g, "A", []network.Leg{
		{Edge: 1, Dir: network.Forward}, // departs from B
	})

	fmt.Println(err)

	// Output:
	// route: leg 0 (edge "bc") does not depart from hub "A"
}

func ExampleRoute_Hubs() {
	g := exampleGraph()
	r, _ := New(g, "B", []network.Leg{
		{Edge: 1, Dir: network.Forward},
		{Edge: 2, Dir: network.Forward},
	})

	fmt.Println(r.Hubs())
	fmt.Println(r.Start(), r.End())

	// Output:
	// [B C A]
	// B A
}

func ExampleRoute_Reverse() {
	g := exampleGraph()
	r, _ := New(g, "A", []network.Leg{
		{Edge: 0, Dir: network.Forward},
		{Edge: 1, Dir: network.Forward},
	})

	rev := r.Reverse()

	fmt.Println(rev)
	fmt.Println(rev.Hubs())
	fmt.Println(rev.Cost())
	fmt.Println(rev.Reverse())

	// Output:
	// C -[bc]-> B -[ab]-> A
	// [C B A]
	// 22
	// A -[ab]-> B -[bc]-> C
}

func ExampleRoute_SameEdges() {
	g := exampleGraph()
	r1, _ := New(g, "A", []network.Leg{
		{Edge: 0, Dir: network.Forward},
		{Edge: 1, Dir: network.Forward},
	})
	r2, _ := New(g, "A", []network.Leg{
		{Edge: 2, Dir: network.Backward},
	})

	fmt.Println(r1.SameEdges(r1.Reverse()))
	fmt.Println(r1.SameEdges(r2))

	// Output:
	// true
	// false
}
