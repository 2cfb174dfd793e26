package replica

import (
	"io/ioutil"
	"sort"
	"strings"

	"github.com/activecm/lgprobe/pkg/geo"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	//ErrNoProvider means a host has no known CDN provider
	ErrNoProvider = errors.New("no CDN provider registered for host")

	//ErrNoReplicaSites means a provider has no known replica sites
	ErrNoReplicaSites = errors.New("no replica sites registered for provider")
)

//DefaultCustomerToCDN maps well known target hosts to the CDN serving them
var DefaultCustomerToCDN = map[string]string{
	"bing.com":       "Microsoft",
	"xbox.com":       "Microsoft",
	"yammer.com":     "Microsoft",
	"google.com":     "Google",
	"mozilla.org":    "Google",
	"cloudflare.com": "Cloudflare",
	"w3.org":         "Cloudflare",
	"claude.ai":      "Cloudflare",
	"akamai.com":     "Akamai",
	"nbcsports.com":  "Akamai",
}

//Catalog lists replica sites by CDN provider
type Catalog map[string][]geo.Point

//LoadCatalog reads a {provider: [site, ...]} JSON document
func LoadCatalog(path string) (Catalog, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read replica catalog %s", path)
	}
	var catalog Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return nil, errors.Wrapf(err, "could not decode replica catalog %s", path)
	}
	return catalog, nil
}

//Providers returns the provider names in ascending order
func (c Catalog) Providers() []string {
	providers := make([]string, 0, len(c))
	for provider := range c {
		providers = append(providers, provider)
	}
	sort.Strings(providers)
	return providers
}

//ProviderFor finds the CDN serving host. Subdomains inherit the provider of
//their closest registered parent.
func ProviderFor(host string, mapping map[string]string) (string, bool) {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	for host != "" {
		if provider, ok := mapping[host]; ok {
			return provider, true
		}
		dot := strings.Index(host, ".")
		if dot < 0 {
			break
		}
		host = host[dot+1:]
	}
	return "", false
}

//SitesFor returns the provider and replica sites for host
func (c Catalog) SitesFor(host string, mapping map[string]string) (string, []geo.Point, error) {
	provider, ok := ProviderFor(host, mapping)
	if !ok {
		return "", nil, errors.Wrapf(ErrNoProvider, "host %s", host)
	}
	sites := c[provider]
	if len(sites) == 0 {
		return provider, nil, errors.Wrapf(ErrNoReplicaSites, "provider %s", provider)
	}
	return provider, sites, nil
}
