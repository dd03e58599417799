package cluster

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/YanFonsecaz/SiteAI/internal/model"
)

// maxPillars bounds how many URLs are promoted to pillar status.
const maxPillars = 2

// Entry pairs a URL with its classification. Entries without an
// analysis contribute nothing and are skipped.
type Entry struct {
	URL      string
	Analysis *model.ContentAnalysis
}

var titleCaser = cases.Title(language.English)

// Build derives the cluster map: the top URLs by topic-cluster count
// become pillars (ties resolved by input order), every other URL is
// assigned to the pillar sharing the most topic labels with it (ties
// to the earlier pillar), and an inverted topic index is built over
// all labels, deduplicated case-insensitively.
//
// This is a greedy single pass, not an optimal clustering. It trades
// precision for reproducibility: the output is fully determined by the
// input order.
func Build(entries []Entry) model.ClusterMap {
	m := model.NewClusterMap()

	analyzed := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Analysis != nil {
			analyzed = append(analyzed, e)
		}
	}
	if len(analyzed) == 0 {
		return m
	}

	// Stable sort keeps input order among equal counts.
	ranked := make([]Entry, len(analyzed))
	copy(ranked, analyzed)
	sort.SliceStable(ranked, func(i, j int) bool {
		return len(ranked[i].Analysis.Clusters) > len(ranked[j].Analysis.Clusters)
	})

	n := maxPillars
	if len(ranked) < n {
		n = len(ranked)
	}
	clustersByURL := make(map[string][]string, len(analyzed))
	for _, e := range analyzed {
		clustersByURL[e.URL] = lowered(e.Analysis.Clusters)
	}
	for _, e := range ranked[:n] {
		m.Pillars = append(m.Pillars, e.URL)
		m.Satellites[e.URL] = []string{}
	}

	for _, e := range analyzed {
		if m.IsPillar(e.URL) {
			continue
		}
		best := m.Pillars[0]
		bestScore := -1
		for _, p := range m.Pillars {
			if s := intersectionSize(clustersByURL[p], clustersByURL[e.URL]); s > bestScore {
				bestScore = s
				best = p
			}
		}
		m.Satellites[best] = append(m.Satellites[best], e.URL)
	}

	// Unique labels sorted so index construction order is stable.
	seen := make(map[string]bool)
	var labels []string
	for _, e := range analyzed {
		for _, label := range clustersByURL[e.URL] {
			if !seen[label] {
				seen[label] = true
				labels = append(labels, label)
			}
		}
	}
	sort.Strings(labels)

	for _, label := range labels {
		display := titleCaser.String(label)
		for _, e := range analyzed {
			if contains(clustersByURL[e.URL], label) {
				m.ClusterIndex[display] = append(m.ClusterIndex[display], e.URL)
			}
		}
	}

	return m
}

func lowered(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = strings.ToLower(strings.TrimSpace(l))
	}
	return out
}

func intersectionSize(a, b []string) int {
	set := make(map[string]bool, len(b))
	for _, x := range b {
		set[x] = true
	}
	n := 0
	for _, x := range a {
		if set[x] {
			n++
			delete(set, x)
		}
	}
	return n
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
