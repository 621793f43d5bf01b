package catalog

import (
	"sort"
	"strings"
	"time"
)

// Placeholder tokens recognized in template bodies. Matching is literal and
// case-sensitive.
const (
	TokenAppOrGameName   = "APP_OR_GAME_NAME"
	TokenAppName         = "APP_NAME"
	TokenServiceName     = "SERVICE_NAME"
	TokenModuleName      = "MODULE_NAME"
	TokenModuleID        = "MODULE_ID"
	TokenOwnerName       = "OWNER_NAME"
	TokenDate            = "YYYY-MM-DD"
	TokenIntegrationName = "INTEGRATION_NAME"
	TokenIntegrationID   = "INTEGRATION_ID"
	TokenPipelineName    = "PIPELINE_NAME"
	TokenPipelineID      = "PIPELINE_ID"
	TokenTestSuiteName   = "TEST_SUITE_NAME"
	TokenTestSuiteID     = "TEST_SUITE_ID"
	TokenMonitoringName  = "MONITORING_NAME"
	TokenMonitoringID    = "MONITORING_ID"
	TokenMigrationName   = "MIGRATION_NAME"
	TokenMigrationID     = "MIGRATION_ID"
)

// DateLayout is the format substituted for TokenDate.
const DateLayout = "2006-01-02"

// DefaultOwner is the owner used when none is configured.
const DefaultOwner = "Team"

// Values maps placeholder tokens to their replacements.
type Values map[string]string

// DefaultValues returns the project-level substitutions: the project name for
// every application and module name token, the owner and the date.
func DefaultValues(project, owner string, now time.Time) Values {
	if owner == "" {
		owner = DefaultOwner
	}
	return Values{
		TokenAppOrGameName: project,
		TokenAppName:       project,
		TokenServiceName:   project,
		TokenModuleName:    project,
		TokenOwnerName:     owner,
		TokenDate:          now.Format(DateLayout),
	}
}

// Substitute replaces every token in vals with its value in a single pass.
// Tokens are tried longest first, so a token that is a prefix of another never
// shadows it and the result does not depend on map iteration order.
func Substitute(text string, vals Values) string {
	if len(vals) == 0 || text == "" {
		return text
	}
	tokens := make([]string, 0, len(vals))
	for tok := range vals {
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) > len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})
	pairs := make([]string, 0, 2*len(tokens))
	for _, tok := range tokens {
		pairs = append(pairs, tok, vals[tok])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
