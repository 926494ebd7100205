// Package cards holds card-name utilities shared by the analyzers:
// Japanese→English base-name translation and the CardRush title patterns
// for card number and card type.
package cards

import (
	"regexp"
	"strings"
)

var (
	// namePattern matches a CardRush item title carrying one of the rarity
	// markers, e.g. "リザードン【SAR】{201/165}".
	namePattern = regexp.MustCompile(`([^【\n]*【(?:AR|CHR|SAR|SR|ex|V|VMAX|VSTAR|GX)】[^】\n]*)`)

	numberPattern = regexp.MustCompile(`【.*?】\{(\d+/\d+)\}`)
	typePattern   = regexp.MustCompile(`【(.*?)】`)
)

// translations maps common Japanese Pokémon names to English. Names not in
// the table pass through unchanged.
var translations = map[string]string{
	"ジャノビー":  "Servine",
	"ヤナップ":   "Pansage",
	"ヤナッキー":  "Simisage",
	"チュリネ":   "Petilil",
	"ドレディア":  "Lilligant",
	"マラカッチ":  "Maractus",
	"カブルモ":   "Karrablast",
	"サザンドラ":  "Hydreigon",
	"リザードン":  "Charizard",
	"ピカチュウ":  "Pikachu",
	"イーブイ":   "Eevee",
	"リーフィア":  "Leafeon",
	"ミュウツー":  "Mewtwo",
	"ルギア":    "Lugia",
	"ポカブ":    "Tepig",
	"ミジュマル":  "Oshawott",
	"ツタージャ":  "Snivy",
	"ビクティニ":  "Victini",
}

// MatchName extracts the card-name substring from an item node's text, or
// "" when the text holds no recognizable card title.
func MatchName(text string) string {
	return strings.TrimSpace(namePattern.FindString(text))
}

// EnglishName returns the English base name for a CardRush card title. The
// base name is everything before the first 【 marker.
func EnglishName(cardName string) string {
	base := cardName
	if i := strings.Index(cardName, "【"); i >= 0 {
		base = cardName[:i]
	}
	base = strings.TrimSpace(base)
	if en, ok := translations[base]; ok {
		return en
	}
	return base
}

// Number extracts the card number ("201/165") from a card title, or "".
func Number(cardName string) string {
	m := numberPattern.FindStringSubmatch(cardName)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// Type extracts the card type marker ("SAR", "AR", ...) from a card title,
// or "".
func Type(cardName string) string {
	m := typePattern.FindStringSubmatch(cardName)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
