// Package opportunity holds list-view helpers for tracked job opportunities.
package opportunity

import (
	"strings"

	"github.com/dgallion1/towxml/internal/backend"
	"github.com/sahilm/fuzzy"
)

// AllStatuses is the filter value that disables status filtering.
const AllStatuses = "全部"

// Statuses lists the pipeline stages an opportunity moves through.
var Statuses = []string{"待投递", "已投递", "面试中", "已发Offer", "已结束"}

var statusIcons = map[string]string{
	"待投递":     "✏️",
	"已投递":     "✈️",
	"面试中":     "🗓️",
	"已发Offer": "✅",
	"已结束":     "❌",
}

const (
	defaultProgressIcon = "📢"
	createdIcon         = "🕒"
	nbsp                = "\u00a0"
)

// Filter keeps opportunities in the given status, then ranks the rest
// against query by fuzzy match on position and company name. An empty
// status or AllStatuses keeps every status; an empty query keeps input
// order.
func Filter(opps []backend.Opportunity, status, query string) []backend.Opportunity {
	filtered := make([]backend.Opportunity, 0, len(opps))
	for _, o := range opps {
		if status == "" || status == AllStatuses || o.Status == status {
			filtered = append(filtered, o)
		}
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return filtered
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), searchSource(filtered))
	out := make([]backend.Opportunity, 0, len(matches))
	for _, m := range matches {
		out = append(out, filtered[m.Index])
	}
	return out
}

// searchSource exposes position and company name as fuzzy.Source.
type searchSource []backend.Opportunity

func (s searchSource) String(i int) string {
	return strings.ToLower(s[i].PositionName + " " + s[i].CompanyName)
}

func (s searchSource) Len() int { return len(s) }

// DisplayProgress is the one-line status shown under an opportunity in the
// list: the latest progress note with a status icon, or the creation date
// when there is no note yet.
func DisplayProgress(o backend.Opportunity) string {
	if o.LatestProgress != "" {
		icon, ok := statusIcons[o.Status]
		if !ok {
			icon = defaultProgressIcon
		}
		return icon + " " + nbsp + " " + o.LatestProgress
	}
	created := o.CreatedAt
	if len(created) > 10 {
		created = created[:10]
	}
	return createdIcon + " " + nbsp + " " + created
}
