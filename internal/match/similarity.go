package match

import (
	"sort"
	"strings"
)

// Scorer compara dois títulos normalizados numa escala de 0 a 100.
type Scorer func(a, b string) float64

// TokenSetRatio compara os conjuntos de tokens de a e b. Ordem e repetição
// de palavras não mudam o resultado; se um conjunto contém o outro, o
// score é 100. Strings vazias valem 0.
func TokenSetRatio(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var sect, diffAB, diffBA []string
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			sect = append(sect, tok)
		} else {
			diffAB = append(diffAB, tok)
		}
	}
	for tok := range tb {
		if _, ok := ta[tok]; !ok {
			diffBA = append(diffBA, tok)
		}
	}
	sort.Strings(sect)
	sort.Strings(diffAB)
	sort.Strings(diffBA)

	if len(sect) > 0 && (len(diffAB) == 0 || len(diffBA) == 0) {
		return 100
	}

	sectStr := []rune(strings.Join(sect, " "))
	ab := []rune(strings.Join(diffAB, " "))
	ba := []rune(strings.Join(diffBA, " "))

	sectLen := len(sectStr)
	sep := 0
	if sectLen > 0 {
		sep = 1
	}
	sectABLen := sectLen + sep + len(ab)
	sectBALen := sectLen + sep + len(ba)

	// "sect ab" x "sect ba": o prefixo comum não altera a distância
	result := normalizedSimilarity(indelDistance(ab, ba), sectABLen+sectBALen)
	if sectLen > 0 {
		result = max(result, normalizedSimilarity(sep+len(ab), sectLen+sectABLen))
		result = max(result, normalizedSimilarity(sep+len(ba), sectLen+sectBALen))
	}
	return result
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}

func normalizedSimilarity(dist, lenSum int) float64 {
	if lenSum == 0 {
		return 100
	}
	return 100 * (1 - float64(dist)/float64(lenSum))
}

// indelDistance conta inserções e remoções (sem substituição).
func indelDistance(a, b []rune) int {
	return len(a) + len(b) - 2*lcsLength(a, b)
}

func lcsLength(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for _, ca := range a {
		cur[0] = 0
		for j, cb := range b {
			if ca == cb {
				cur[j+1] = prev[j] + 1
			} else {
				cur[j+1] = max(prev[j+1], cur[j])
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
