package extract

import "strings"

// promptTemplate is the fixed extraction instruction. The transcript and
// notes are substituted into the placeholders; everything else is constant
// so that extraction behavior is reproducible across sessions.
const promptTemplate = `
You are a health coaching documentation assistant.

You will receive:
1) A transcript of a non-clinical health coaching session between a coach and a client.
2) Optional notes about the client.

Your job is to produce a structured lifestyle plan with the following domains:
- healthy_eating
- physical_activity
- substances
- stress_management
- sleep
- social_connections

For each domain, extract:
- "baseline": 1-3 sentences summarising the client's current situation.
- "smart_goals": a list of 1-3 SMART goals, phrased concretely and, where possible, in the client's tone.
- "tracking_kpis": a list of 2-5 measurable indicators (e.g. steps per day, alcohol units per week, bedtime consistency).

Use only information present or strongly implied in the transcript and notes. Do NOT invent or hallucinate.
If there is not enough information for a domain:
- set "baseline" to a short statement that information is incomplete,
- set "smart_goals": [],
- set "tracking_kpis": [].

Return ONLY valid JSON with this structure:

{
  "healthy_eating": {
    "baseline": "...",
    "smart_goals": ["..."],
    "tracking_kpis": ["..."]
  },
  "physical_activity": { ... },
  "substances": { ... },
  "stress_management": { ... },
  "sleep": { ... },
  "social_connections": { ... }
}

----

TRANSCRIPT:
<<TRANSCRIPT_TEXT>>

NOTES:
<<NOTES_TEXT>>
`

// buildPrompt substitutes the transcript text and notes into the template.
func buildPrompt(transcriptText, notes string) string {
	prompt := strings.ReplaceAll(promptTemplate, "<<TRANSCRIPT_TEXT>>", transcriptText)
	return strings.ReplaceAll(prompt, "<<NOTES_TEXT>>", notes)
}
