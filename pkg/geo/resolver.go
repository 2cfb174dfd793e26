package geo

//IPLocator maps an IP address to a location
type IPLocator interface {
	LocateIP(ip string) (Point, bool)
}

//HintLocator maps free text such as a router hostname to a location
type HintLocator interface {
	LocateHint(hint string) (Point, bool)
}

//Resolver is the geolocation collaborator handed to the site geolocator
type Resolver interface {
	GeolocateIP(ip string) (Point, bool)
	GeolocateHint(hint string) (Point, bool)
}

type chain struct {
	hints HintLocator
	ips   []IPLocator
}

//NewResolver builds a Resolver that answers hints with the given matcher and
//IPs with the first locator that knows the address. A nil hint matcher makes
//every hint lookup fail.
func NewResolver(hints HintLocator, ips ...IPLocator) Resolver {
	return &chain{hints: hints, ips: ips}
}

func (c *chain) GeolocateIP(ip string) (Point, bool) {
	for _, locator := range c.ips {
		if p, ok := locator.LocateIP(ip); ok {
			return p, true
		}
	}
	return Point{}, false
}

func (c *chain) GeolocateHint(hint string) (Point, bool) {
	if c.hints == nil || hint == "" {
		return Point{}, false
	}
	return c.hints.LocateHint(hint)
}
