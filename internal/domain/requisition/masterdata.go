package requisition

import "context"

// Location is a store or warehouse a request is raised for
type Location struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// SubLocation is a section of a Location
type SubLocation struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	LocationCode string `json:"location_code"`
}

// CostCenter is an accounting bucket a request is charged to
type CostCenter struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// MasterDataGateway lists the header picker options for a client
type MasterDataGateway interface {
	ListLocations(ctx context.Context, clientID string) ([]Location, error)
	ListSubLocations(ctx context.Context, clientID string) ([]SubLocation, error)
	ListCostCenters(ctx context.Context, clientID string) ([]CostCenter, error)
}

// SubLocationsOf returns the sub-locations belonging to location.
// An empty location returns every sub-location.
func SubLocationsOf(all []SubLocation, location string) []SubLocation {
	if location == "" {
		return all
	}
	out := make([]SubLocation, 0, len(all))
	for _, s := range all {
		if s.LocationCode == location {
			out = append(out, s)
		}
	}
	return out
}
