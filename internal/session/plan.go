package session

import "strings"

// Domain is the structured extract for one lifestyle domain. When the
// session carries no information for a domain, Baseline holds an explicit
// incomplete-information statement and both lists are empty — absence is
// always spelled out, never a missing field.
type Domain struct {
	Baseline       string   `json:"baseline"`
	SmartGoals     []string `json:"smart_goals"`
	TrackingKPIs   []string `json:"tracking_kpis"`
	EvidenceQuotes []string `json:"evidence_quotes,omitempty"`
}

// Plan is a lifestyle plan extracted from one session. All six domains are
// mandatory; a plan is only ever constructed whole, by schema validation of
// model output or by decoding a previously persisted plan record.
type Plan struct {
	HealthyEating     Domain `json:"healthy_eating"`
	PhysicalActivity  Domain `json:"physical_activity"`
	Substances        Domain `json:"substances"`
	StressManagement  Domain `json:"stress_management"`
	Sleep             Domain `json:"sleep"`
	SocialConnections Domain `json:"social_connections"`
}

// DomainOrder is the canonical declaration order of the six domains, used
// for rendering and anywhere else a stable order matters.
var DomainOrder = []string{
	"healthy_eating",
	"physical_activity",
	"substances",
	"stress_management",
	"sleep",
	"social_connections",
}

// DomainByName returns the named domain extract from the plan.
func (p *Plan) DomainByName(name string) Domain {
	switch name {
	case "healthy_eating":
		return p.HealthyEating
	case "physical_activity":
		return p.PhysicalActivity
	case "substances":
		return p.Substances
	case "stress_management":
		return p.StressManagement
	case "sleep":
		return p.Sleep
	case "social_connections":
		return p.SocialConnections
	}
	return Domain{}
}

// DomainTitle renders a domain name as a human-readable heading
// ("healthy_eating" → "Healthy Eating").
func DomainTitle(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
