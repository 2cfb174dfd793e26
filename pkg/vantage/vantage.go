package vantage

import (
	"io/ioutil"

	"github.com/activecm/lgprobe/pkg/geo"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//VantagePoint is a looking glass able to run traceroutes from its own network
type VantagePoint struct {
	Index           int        `json:"index"`
	Location        *geo.Point `json:"location,omitempty"`
	IPAddr          string     `json:"ipAddr,omitempty"`
	URL             string     `json:"url"`
	CommandTemplate string     `json:"commandTemplate,omitempty"`
}

//Registry is a read-only snapshot of known vantage points. A vantage point's
//index is its position in the registry file.
type Registry struct {
	points []VantagePoint
}

//NewRegistry builds a Registry, renumbering points by position
func NewRegistry(points []VantagePoint) *Registry {
	r := &Registry{points: make([]VantagePoint, len(points))}
	for i, vp := range points {
		vp.Index = i
		if vp.Location != nil {
			loc := *vp.Location
			vp.Location = &loc
		}
		r.points[i] = vp
	}
	return r
}

//Load reads a JSON array of vantage points
func Load(path string) (*Registry, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read vantage point registry %s", path)
	}
	var points []VantagePoint
	if err := json.Unmarshal(raw, &points); err != nil {
		return nil, errors.Wrapf(err, "could not decode vantage point registry %s", path)
	}
	return NewRegistry(points), nil
}

//Len returns the number of vantage points
func (r *Registry) Len() int {
	return len(r.points)
}

//Get returns a copy of the vantage point at index
func (r *Registry) Get(index int) (VantagePoint, bool) {
	if index < 0 || index >= len(r.points) {
		return VantagePoint{}, false
	}
	return r.points[index], true
}

//Location returns the declared location of the vantage point at index
func (r *Registry) Location(index int) (geo.Point, bool) {
	vp, ok := r.Get(index)
	if !ok || vp.Location == nil {
		return geo.Point{}, false
	}
	return *vp.Location, true
}

//SourceIP returns the vantage point's own address, if known
func (r *Registry) SourceIP(index int) (string, bool) {
	vp, ok := r.Get(index)
	if !ok || vp.IPAddr == "" {
		return "", false
	}
	return vp.IPAddr, true
}
