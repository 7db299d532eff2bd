package locations

import "github.com/ppps/weatherdesk/internal/models"

// All lists the cities the weather panel covers, in page order.
// Coordinates feed the Dark Sky lookups; SiteID is the DataPoint
// forecast site for the same place.
var All = []models.Location{
	{Name: "Portsmouth", SiteID: "353595", Latitude: 50.8198, Longitude: -1.0880},
	{Name: "Southampton", SiteID: "353620", Latitude: 50.9097, Longitude: -1.4044},
	{Name: "Chichester", SiteID: "353105", Latitude: 50.8367, Longitude: -0.7792},
	{Name: "Winchester", SiteID: "353660", Latitude: 51.0632, Longitude: -1.3080},
	{Name: "Brighton", SiteID: "353070", Latitude: 50.8225, Longitude: -0.1372},
	{Name: "Bournemouth", SiteID: "310069", Latitude: 50.7192, Longitude: -1.8808},
}

// ByName returns the named location and whether it is known.
func ByName(name string) (models.Location, bool) {
	for _, loc := range All {
		if loc.Name == name {
			return loc, true
		}
	}
	return models.Location{}, false
}
