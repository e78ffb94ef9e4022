package theory

// Edge is one weighted move of the Markov chain.
type Edge struct {
	Degree int
	Weight float64
}

// Matrix maps a source degree to its outgoing edges. Edges are kept in
// declaration order, which is also the order weighted selection walks them.
type Matrix struct {
	Name string
	Rows map[int][]Edge
}

func (m Matrix) Edges(degree int) []Edge {
	return m.Rows[degree]
}

func row(edges ...Edge) []Edge {
	return edges
}

var builtinMatrices = []Matrix{
	{
		Name: "Classical",
		Rows: map[int][]Edge{
			1: row(Edge{4, 0.3}, Edge{5, 0.3}, Edge{6, 0.2}, Edge{2, 0.2}),
			2: row(Edge{5, 0.6}, Edge{7, 0.2}, Edge{4, 0.2}),
			3: row(Edge{6, 0.5}, Edge{4, 0.3}, Edge{2, 0.2}),
			4: row(Edge{5, 0.5}, Edge{1, 0.2}, Edge{2, 0.2}, Edge{7, 0.1}),
			5: row(Edge{1, 0.6}, Edge{6, 0.3}, Edge{4, 0.1}),
			6: row(Edge{2, 0.4}, Edge{4, 0.4}, Edge{5, 0.2}),
			7: row(Edge{1, 0.7}, Edge{3, 0.2}, Edge{5, 0.1}),
			8: row(Edge{1, 0.5}, Edge{5, 0.5}),
		},
	},
	{
		Name: "Minimal Cycle",
		Rows: map[int][]Edge{
			1: row(Edge{7, 0.4}, Edge{4, 0.4}, Edge{6, 0.2}),
			4: row(Edge{1, 0.5}, Edge{5, 0.5}),
			5: row(Edge{1, 1.0}),
			6: row(Edge{4, 0.6}, Edge{5, 0.4}),
			7: row(Edge{1, 0.7}, Edge{6, 0.3}),
		},
	},
	{
		Name: "Circle of Fifths",
		Rows: map[int][]Edge{
			1: row(Edge{4, 1.0}),
			4: row(Edge{7, 1.0}),
			7: row(Edge{3, 1.0}),
			3: row(Edge{6, 1.0}),
			6: row(Edge{2, 1.0}),
			2: row(Edge{5, 1.0}),
			5: row(Edge{1, 1.0}),
		},
	},
	{
		Name: "Pop",
		Rows: map[int][]Edge{
			1: row(Edge{5, 0.35}, Edge{6, 0.3}, Edge{4, 0.35}),
			2: row(Edge{5, 0.7}, Edge{4, 0.3}),
			3: row(Edge{6, 0.6}, Edge{4, 0.4}),
			4: row(Edge{1, 0.5}, Edge{5, 0.4}, Edge{2, 0.1}),
			5: row(Edge{6, 0.5}, Edge{4, 0.3}, Edge{1, 0.2}),
			6: row(Edge{4, 0.6}, Edge{5, 0.2}, Edge{3, 0.2}),
			7: row(Edge{1, 1.0}),
		},
	},
	{
		Name: "Modal Drift",
		Rows: map[int][]Edge{
			1: row(Edge{2, 0.3}, Edge{7, 0.3}, Edge{4, 0.2}, Edge{5, 0.2}),
			2: row(Edge{1, 0.4}, Edge{3, 0.3}, Edge{5, 0.3}),
			3: row(Edge{2, 0.3}, Edge{4, 0.4}, Edge{6, 0.3}),
			4: row(Edge{1, 0.3}, Edge{5, 0.3}, Edge{3, 0.2}, Edge{7, 0.2}),
			5: row(Edge{4, 0.4}, Edge{6, 0.3}, Edge{1, 0.3}),
			6: row(Edge{5, 0.4}, Edge{7, 0.3}, Edge{2, 0.3}),
			7: row(Edge{1, 0.5}, Edge{6, 0.3}, Edge{4, 0.2}),
			8: row(Edge{7, 0.5}, Edge{1, 0.5}),
		},
	},
}
