package cards

import "testing"

func TestMatchName(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"リザードン【SAR】{201/165}", "リザードン【SAR】{201/165}"},
		{"在庫状況 ピカチュウ【AR】{160/159} 美品", "在庫状況 ピカチュウ【AR】{160/159} 美品"},
		{"ダメージカウンター", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := MatchName(tt.text); got != tt.want {
			t.Errorf("MatchName(%q) = %q; want %q", tt.text, got, tt.want)
		}
	}
}

func TestEnglishName(t *testing.T) {
	tests := []struct {
		card string
		want string
	}{
		{"リザードン【SAR】{201/165}", "Charizard"},
		{"ピカチュウ【AR】{160/159}", "Pikachu"},
		{"イーブイ【CHR】{101/100}", "Eevee"},
		// Untranslated names pass through unchanged.
		{"ホゲータ【AR】{075/073}", "ホゲータ"},
		{"Charizard ex", "Charizard ex"},
	}

	for _, tt := range tests {
		if got := EnglishName(tt.card); got != tt.want {
			t.Errorf("EnglishName(%q) = %q; want %q", tt.card, got, tt.want)
		}
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		card string
		want string
	}{
		{"リザードン【SAR】{201/165}", "201/165"},
		{"ピカチュウ【AR】{160/159}", "160/159"},
		{"リザードン【SAR】", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Number(tt.card); got != tt.want {
			t.Errorf("Number(%q) = %q; want %q", tt.card, got, tt.want)
		}
	}
}

func TestType(t *testing.T) {
	tests := []struct {
		card string
		want string
	}{
		{"リザードン【SAR】{201/165}", "SAR"},
		{"チュリネ【CHR】{073/071}", "CHR"},
		{"no markers here", ""},
	}

	for _, tt := range tests {
		if got := Type(tt.card); got != tt.want {
			t.Errorf("Type(%q) = %q; want %q", tt.card, got, tt.want)
		}
	}
}
