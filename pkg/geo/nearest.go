package geo

import "sort"

//Ranked pairs a site's position in a site list with its distance from a
//reference point
type Ranked struct {
	Index    int
	Site     Point
	Distance float64
}

//Nearest returns the index of the site closest to p. The first of several
//equidistant sites wins. ok is false when sites is empty.
func Nearest(p Point, sites []Point) (index int, ok bool) {
	minDist := 0.0
	index = -1
	for i, site := range sites {
		dist := Distance(p, site)
		if index < 0 || dist < minDist {
			index = i
			minDist = dist
		}
	}
	return index, index >= 0
}

//ClosestN ranks the sites accepted by keep by distance from p and returns at
//most n of them. A nil keep accepts every site.
func ClosestN(p Point, sites []Point, n int, keep func(Point) bool) []Ranked {
	var ranked []Ranked
	for i, site := range sites {
		if keep != nil && !keep(site) {
			continue
		}
		ranked = append(ranked, Ranked{Index: i, Site: site, Distance: Distance(p, site)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Distance < ranked[j].Distance
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
