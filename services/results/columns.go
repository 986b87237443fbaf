package results

import (
	"regexp"
	"slices"
	"strings"

	"github.com/qasralsahl/Eligibility-App/services/verify"

	"github.com/antzucaro/matchr"
)

// The member-detail columns of a verification row, in storage order.
// Portal popups label these fields inconsistently between networks, so
// incoming keys are matched by normalized text first and by similarity
// second instead of by exact string.
var memberColumns = []string{
	"TPA_Member_ID",
	"Emirates_ID_Member",
	"DHA_Member_ID",
	"DOB",
	"Gender",
	"Sub_Group",
	"Category",
	"Policy_Number",
	"Client_Number",
	"Policy_Authority",
}

const columnSimilarityThreshold = 0.9

var nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]+`)

func normalizeColumn(name string) string {
	name = strings.ToLower(name)
	return nonAlnumRegex.ReplaceAllString(name, "")
}

// flattenMemberPolicy assigns portal member-policy labels to canonical
// columns. A column is filled at most once; keys that match nothing
// above the threshold are returned in extra verbatim.
func flattenMemberPolicy(details verify.MemberPolicyDetail) (columns, extra map[string]string) {
	columns = make(map[string]string, len(memberColumns))
	extra = make(map[string]string)

	canonicalByNorm := make(map[string]string, len(memberColumns))
	for _, c := range memberColumns {
		canonicalByNorm[normalizeColumn(c)] = c
	}

	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	taken := make(map[string]struct{}, len(memberColumns))

	var unmatched []string
	for _, k := range keys {
		canonical, ok := canonicalByNorm[normalizeColumn(k)]
		if ok {
			if _, dup := taken[canonical]; !dup {
				columns[canonical] = details[k]
				taken[canonical] = struct{}{}
				continue
			}
		}
		unmatched = append(unmatched, k)
	}

	for _, k := range unmatched {
		norm := normalizeColumn(k)

		var best string
		var bestScore float64
		for _, canonical := range memberColumns {
			if _, dup := taken[canonical]; dup {
				continue
			}
			score := matchr.JaroWinkler(norm, normalizeColumn(canonical), false)
			if score > bestScore {
				bestScore = score
				best = canonical
			}
		}

		if best != "" && bestScore >= columnSimilarityThreshold {
			columns[best] = details[k]
			taken[best] = struct{}{}
			continue
		}
		extra[k] = details[k]
	}

	return columns, extra
}
