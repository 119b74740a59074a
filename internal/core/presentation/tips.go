package presentation

import (
	"regexp"
	"sort"
	"strings"
)

// Tip 動作關鍵字的說明
type Tip struct {
	Keyword  string `json:"keyword"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	VideoURL string `json:"video_url,omitempty"`
}

// TipTable 固定的關鍵字→說明對照表
type TipTable struct {
	tips    map[string]Tip
	pattern *regexp.Regexp
}

// NewTipTable 建立對照表，關鍵字不分大小寫、以整個字比對
func NewTipTable(tips []Tip) *TipTable {
	t := &TipTable{tips: make(map[string]Tip, len(tips))}

	keywords := make([]string, 0, len(tips))
	for _, tip := range tips {
		key := strings.ToLower(strings.TrimSpace(tip.Keyword))
		if key == "" {
			continue
		}
		tip.Keyword = key
		t.tips[key] = tip
		keywords = append(keywords, regexp.QuoteMeta(key))
	}

	// 較長的關鍵字優先
	sort.Slice(keywords, func(i, j int) bool {
		if len(keywords[i]) != len(keywords[j]) {
			return len(keywords[i]) > len(keywords[j])
		}
		return keywords[i] < keywords[j]
	})

	if len(keywords) > 0 {
		t.pattern = regexp.MustCompile(`(?i)\b(` + strings.Join(keywords, "|") + `)\b`)
	}
	return t
}

// Lookup 依關鍵字取得說明
func (t *TipTable) Lookup(keyword string) (Tip, bool) {
	tip, ok := t.tips[strings.ToLower(strings.TrimSpace(keyword))]
	return tip, ok
}

// Keywords 回傳排序後的關鍵字
func (t *TipTable) Keywords() []string {
	keys := make([]string, 0, len(t.tips))
	for k := range t.tips {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultTips 調酒動作說明
func DefaultTips() *TipTable {
	return NewTipTable([]Tip{
		{
			Keyword:  "pour",
			Text:     "Pour ingredients smoothly and steadily into a measuring cup or directly into the glass. For precision, use a jigger or measured pourers.",
			VideoURL: "https://youtube.com/embed/2MGKv3auWZA?si=1YnUCh3Gt6_zT0xlJjyjXw",
		},
		{
			Keyword:  "strain",
			Text:     "Use a Hawthorne strainer or fine mesh strainer to remove ice and any solid ingredients. Hold the strainer firmly against the shaker or mixing glass and pour smoothly into the serving glass.",
			VideoURL: "https://www.youtube.com/embed/NctwYmQSNHU?si=Nr8trbASySPd_EIe",
		},
		{
			Keyword: "top off",
			Text:    "Gently add ice to fill the glass. For clear cocktails, use large, clear ice cubes. For frothy drinks, crushed ice works well. Always handle ice with a clean scoop or tongs.",
		},
		{
			Keyword:  "shake",
			Text:     "Place ingredients in a shaker with ice. Seal tightly and shake vigorously for 10-15 seconds or until the outside of the shaker frosts. This aerates the drink and ensures thorough mixing and chilling.",
			VideoURL: "https://www.youtube.com/embed/VRhQKnvli14?si=aIeY0o4tzzDtPTef",
		},
		{
			Keyword: "muddle",
			Text:    "Place ingredients in the bottom of a glass or shaker. Use a muddler to gently press and twist, releasing flavors without over-crushing. For herbs, a light touch is best; for fruits, apply more pressure.",
		},
		{
			Keyword:  "garnish",
			Text:     "Add a finishing touch to enhance appearance and aroma. For citrus slices, notch and perch on the glass rim. For herbs, lightly slap between palms to release oils before adding. Always use fresh, high-quality garnishes.",
			VideoURL: "https://www.youtube.com/embed/BB0JM8LTuoo?si=qTFYdVcef96DRxiB",
		},
		{
			Keyword: "fill",
			Text:    "Add ice to the glass, leaving about 1/2 inch of space at the top. For long drinks, fill to the brim. Use appropriate ice: cubes for most cocktails, crushed for juleps or swizzles.",
		},
		{
			Keyword: "serve",
			Text:    "Present the drink immediately after preparation. If serving with ice, ensure the glass is chilled to maintain temperature. For hot cocktails, pre-warm the glass with hot water.",
		},
	})
}
