// Package assets bundles the default question catalogs and traffic rules.
package assets

import "embed"

const (
	QuestionsDir = "data/questions"
	RulesFile    = "data/rules/traffic_rules.json"
)

//go:embed data
var FS embed.FS
