package anycast

//disjointSet is a union-find forest over positions 0..n-1. The root of every
//set is its smallest position.
type disjointSet struct {
	parent []int
}

func newDisjointSet(n int) *disjointSet {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &disjointSet{parent: parent}
}

func (d *disjointSet) find(x int) int {
	for d.parent[x] != x {
		d.parent[x] = d.parent[d.parent[x]]
		x = d.parent[x]
	}
	return x
}

func (d *disjointSet) union(a, b int) {
	ra, rb := d.find(a), d.find(b)
	switch {
	case ra == rb:
		return
	case ra < rb:
		d.parent[rb] = ra
	default:
		d.parent[ra] = rb
	}
}

//groups returns the sets ordered by smallest position, members ascending
func (d *disjointSet) groups() [][]int {
	var out [][]int
	slot := make(map[int]int)
	for i := range d.parent {
		root := d.find(i)
		pos, ok := slot[root]
		if !ok {
			pos = len(out)
			slot[root] = pos
			out = append(out, nil)
		}
		out[pos] = append(out[pos], i)
	}
	return out
}
