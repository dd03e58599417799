// Package classify extracts strategic page metadata (theme, search
// intent, funnel stage, topic clusters, entities) with one structured
// model call per page. Results feed cluster building and target
// descriptions; failures degrade the run rather than abort it.
package classify
