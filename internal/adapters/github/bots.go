package github

import (
	"regexp"
	"strings"
)

// knownBots are account names that are bots even without a bot-like suffix.
var knownBots = []string{
	"dependabot",
	"renovate",
	"github-actions",
	"semantic-release",
	"codecov",
	"sonarcloud",
	"snyk-bot",
	"imgbot",
	"deepsource-autofix",
	"stale",
	"allcontributors",
	"prettier",
	"vercel",
	"mergify",
	"probot",
	"goreleaserbot",
	"greenkeeper",
	"lgtm-com",
	"circleci",
	"travis-ci",
	"gitter-badger",
	"whitesource-bolt-for-github",
	"dependabot-preview",
	"semantic-release-bot",
}

var botPatterns = []*regexp.Regexp{
	regexp.MustCompile(`bot$`),
	regexp.MustCompile(`\[bot\]$`),
	regexp.MustCompile(`app$`),
	regexp.MustCompile(`-bot$`),
	regexp.MustCompile(`bot-`),
}

// IsBotActor reports whether an actor name looks like an automation
// account, by known bot names and common naming patterns.
func IsBotActor(actor string) bool {
	if actor == "" {
		return false
	}
	actor = strings.ToLower(actor)

	for _, name := range knownBots {
		if strings.Contains(actor, name) {
			return true
		}
	}
	for _, p := range botPatterns {
		if p.MatchString(actor) {
			return true
		}
	}
	return false
}
