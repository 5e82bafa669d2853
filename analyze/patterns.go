package analyze

import "regexp"

// PatternSet holds the compiled pattern families of every sub-extraction.
// A pattern with a capture group contributes its first group, otherwise
// its whole match. A PatternSet is never mutated after construction and is
// shared by concurrent analyses.
type PatternSet struct {
	PartyTitle  *regexp.Regexp
	PartyRoles  *regexp.Regexp
	Applicants  *regexp.Regexp
	Respondents *regexp.Regexp
	Judges      []*regexp.Regexp
	Advocates   []*regexp.Regexp
	LegalIssues []*regexp.Regexp
	Principles  []*regexp.Regexp
	Precedents  []*regexp.Regexp
	Summary     []*regexp.Regexp
	Decision    []*regexp.Regexp
}

// DefaultPatterns is compiled once at startup.
var DefaultPatterns = &PatternSet{
	PartyTitle:  regexp.MustCompile(`(?m)^([A-Z][^\n]{1,120}?)\s+(?:vs\.?|versus|v\.?)\s+([A-Z][^\n]{1,120}?)$`),
	PartyRoles:  regexp.MustCompile(`(?i)\b(Plaintiff|Petitioner|Applicant|Claimant|Complainant)\s+(?:vs\.?|versus|v\.?)\s+(Defendant|Respondent|Accused)\b`),
	Applicants:  regexp.MustCompile(`(?i)\b(?:Applicant|Petitioner|Claimant)\s*:\s*([^,\n]+)`),
	Respondents: regexp.MustCompile(`(?i)\b(?:Respondent|Defendant|Accused)\s*:\s*([^,\n]+)`),
	Judges: mustCompile(
		`(?i)\b(?:Before|Presided by|Delivered by|Coram)\s*:\s*([^.\n]+)`,
		`\b(?i:Chief Justice|Justice|Judge)\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*`,
		`(?i)\bDelivered by\s+([^:.\n][^.\n]*)`,
		`(?i)\bPresided over by\s+([^.\n]+)`,
	),
	Advocates: mustCompile(
		`(?i)\b(?:Counsel|Advocates?|Appearing|For)\s*:\s*([^.\n]+)`,
		`(?i)\bFor the (?:plaintiff|defendant|appellant|respondent|applicant|petitioner)s?\s*:\s*([^,\n]+)`,
		`\b([A-Z][a-z]+\s+[A-Z][a-z]+(?:\s+&\s+[A-Z][a-z]+\s+[A-Z][a-z]+)*)\s+(?i:for the|appearing|counsel)\b`,
	),
	LegalIssues: mustCompile(
		`(?i)\b(?:Issues?|Questions?|Determining|Whether or not|Whether)\s+([^:.\n][^.\n]*)`,
		`(?i)\b(?:The question is|The issue is|Whether)\s*:\s*([^.\n]+)`,
		`(?i)\b\d+\.\s*([^.\n]*?\b(?:issue|question|whether)\b[^.\n]*)`,
	),
	Principles: mustCompile(
		`(?i)\b(?:Ratio decidendi|Reasoning|Principle|Held that)\s+([^:.\n][^.\n]*)`,
		`(?i)\b(?:The principle is|The law provides|It is established that)\s*:?\s*([^.\n]+)`,
		`(?i)\b(?:Legal principle|Rule of law|Established principle)\s*:\s*([^.\n]+)`,
	),
	Precedents: mustCompile(
		`(?i)\b(?:Followed|Applied|Cited|Referred to|As held in)\s+([^.\n]+)`,
		`\b\d{4}\s+(?:KLR|EA|eKLR)\b`,
		`\b[A-Z][A-Za-z]*\s+(?:vs\.?|v\.?)\s+[A-Z][A-Za-z]*\s+\d{4}\b`,
		`\b(?:KESC|KECA|KEHC|KEELRC|KEELC|KEMC|KEKC)\s+\d+\b`,
	),
	Summary: mustCompile(
		`(?i)\b(?:Summary|Synopsis|Overview|Brief facts?)\s*:\s*([^.\n]+\.?)`,
		`(?i)\b(?:The facts of the case|Facts of the matter|Background)\s*:\s*([^.\n]+\.?)`,
		`(?i)\b((?:This is an appeal|This matter concerns|The issue arises)[^.\n]*\.?)`,
	),
	Decision: mustCompile(
		`(?i)\b(?:Held|Decision|Ruling|Orders?|Judgment|Disposition)\s*:\s*([^.\n]+\.?)`,
		`(?i)\b(?:It is hereby ordered|The court orders|We therefore hold)\s*:?\s*(?:that\s+)?([^.\n]+\.?)`,
		`(?i)\b(?:Accordingly|In conclusion|Therefore)\s*[,:]?\s*([^.\n]+\.?)`,
	),
}

func mustCompile(exprs ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		res[i] = regexp.MustCompile(e)
	}
	return res
}
