package model

// ClusterMap records the pillar/satellite structure derived from all
// page classifications collected during a run. It is rebuilt from
// scratch each run and never persisted.
type ClusterMap struct {
	// Pillars holds the URLs chosen as pillar pages, in selection order.
	Pillars []string `json:"pillars"`

	// Satellites maps each pillar URL to the satellite URLs assigned to it.
	Satellites map[string][]string `json:"satellites"`

	// ClusterIndex is an inverted index from topic label to the URLs that
	// carry that label. Labels are deduplicated case-insensitively.
	ClusterIndex map[string][]string `json:"cluster_index"`
}

// NewClusterMap returns an empty, initialized ClusterMap.
func NewClusterMap() ClusterMap {
	return ClusterMap{
		Satellites:   make(map[string][]string),
		ClusterIndex: make(map[string][]string),
	}
}

// IsPillar reports whether the URL was selected as a pillar.
func (m *ClusterMap) IsPillar(url string) bool {
	for _, p := range m.Pillars {
		if p == url {
			return true
		}
	}
	return false
}
