package hostname

import (
	"net/netip"
	"sort"

	"github.com/activecm/lgprobe/pkg/data"
	"github.com/activecm/lgprobe/pkg/trace"
	"github.com/activecm/lgprobe/util"
)

type (
	//Inventory maps a routable hop IP to the hostnames it answered with and
	//the vantage points that saw each hostname
	Inventory map[string]map[string]data.IntSet

	//Redirection maps a destination IP to the hostnames reported for it.
	//Several names on one destination point at DNS redirection.
	Redirection map[string]data.StringSet

	//Sighting is the document form of one hostname seen on an IP
	Sighting struct {
		Hostname      string `json:"hostname" bson:"hostname"`
		VantagePoints []int  `json:"vpIndices" bson:"vp_indices"`
	}

	//Entry is the document form of one Inventory IP
	Entry struct {
		IP        string     `json:"ip" bson:"ip"`
		Sightings []Sighting `json:"sightings" bson:"sightings"`
	}

	//RedirectEntry is the document form of one Redirection destination
	RedirectEntry struct {
		DestIP    string   `json:"destIp" bson:"dest_ip"`
		Hostnames []string `json:"hostnames" bson:"hostnames"`
	}
)

//Analyze collects hostnames from a host's purified logs. Bogon addresses
//are left out of the inventory.
func Analyze(logs trace.Logs) (Inventory, Redirection) {
	inventory := make(Inventory)
	redirection := make(Redirection)

	for _, idx := range logs.Indices() {
		log := logs[idx]
		for ip, hop := range log.Hops {
			if hop.Hostname == "" || util.IsBogon(ip) {
				continue
			}
			if inventory[ip] == nil {
				inventory[ip] = make(map[string]data.IntSet)
			}
			if inventory[ip][hop.Hostname] == nil {
				inventory[ip][hop.Hostname] = make(data.IntSet)
			}
			inventory[ip][hop.Hostname].Insert(idx)
		}

		if dest, ok := log.DestHop(); ok && dest.Hostname != "" {
			if redirection[log.DestIP] == nil {
				redirection[log.DestIP] = make(data.StringSet)
			}
			redirection[log.DestIP].Insert(dest.Hostname)
		}
	}
	return inventory, redirection
}

//Entries flattens the inventory into IP order
func (inv Inventory) Entries() []Entry {
	entries := make([]Entry, 0, len(inv))
	for ip, names := range inv {
		entry := Entry{IP: ip}
		for name, vps := range names {
			entry.Sightings = append(entry.Sightings, Sighting{Hostname: name, VantagePoints: vps.SortedItems()})
		}
		sort.Slice(entry.Sightings, func(i, j int) bool {
			return entry.Sightings[i].Hostname < entry.Sightings[j].Hostname
		})
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return ipLess(entries[i].IP, entries[j].IP) })
	return entries
}

//Entries flattens the redirections into destination order
func (r Redirection) Entries() []RedirectEntry {
	entries := make([]RedirectEntry, 0, len(r))
	for dest, names := range r {
		entries = append(entries, RedirectEntry{DestIP: dest, Hostnames: names.SortedItems()})
	}
	sort.Slice(entries, func(i, j int) bool { return ipLess(entries[i].DestIP, entries[j].DestIP) })
	return entries
}

//Redirected returns the destinations answering under more than one name
func (r Redirection) Redirected() []string {
	var dests []string
	for dest, names := range r {
		if len(names) > 1 {
			dests = append(dests, dest)
		}
	}
	sort.Slice(dests, func(i, j int) bool { return ipLess(dests[i], dests[j]) })
	return dests
}

//ipLess orders addresses numerically. Unparseable strings sort after
//addresses, among themselves by text.
func ipLess(a, b string) bool {
	addrA, errA := netip.ParseAddr(a)
	addrB, errB := netip.ParseAddr(b)
	switch {
	case errA == nil && errB == nil:
		return addrA.Less(addrB)
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
