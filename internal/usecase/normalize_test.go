package usecase

import "testing"

func TestCleanName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases and trims", "  Golden Phoenix  ", "golden phoenix"},
		{"strips english venue suffix", "Joes Diner Restaurant", "joes diner"},
		{"strips apostrophes", "Joe's Diner", "joes"},
		{"strips chinese venue suffix", "南京大排档餐厅", "南京大排档"},
		{"strips size prefix", "老王家菜馆", "王家菜馆"},
		{"strips the prefix", "The Grand Bistro", "grand"},
		{"collapses whitespace", "river   side    cafe", "river side"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanName(tt.input); got != tt.want {
				t.Errorf("CleanName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSignature(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"short bucket", "joes", "joe_short"},
		{"medium bucket", "joes diner", "joe_medium"},
		{"long bucket", "golden phoenix", "gol_long"},
		{"cjk prefix counts runes", "南京大排档", "南京大_short"},
		{"below prefix length is its own signature", "ab", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Signature(tt.input); got != tt.want {
				t.Errorf("Signature(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSimilar(t *testing.T) {
	const threshold = 0.7

	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical names", "golden phoenix", "golden phoenix", true},
		{"containment", "joes", "joes diner", true},
		{"high word overlap", "nanjing famous dumpling house", "nanjing famous dumpling", true},
		{"low word overlap", "venue alpha plaza", "venue bravo plaza", false},
		{"unrelated", "golden phoenix", "river tavern", false},
		{"empty never matches", "", "golden phoenix", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similar(tt.a, tt.b, threshold); got != tt.want {
				t.Errorf("Similar(%q, %q, %v) = %v, want %v", tt.a, tt.b, threshold, got, tt.want)
			}
		})
	}
}

func TestSimilarCrossSourceSpelling(t *testing.T) {
	// Names of the same venue cleaned from different sources should match.
	a := CleanName("Joe's Diner")
	b := CleanName("Joes Diner Restaurant")
	if !Similar(a, b, 0.7) {
		t.Errorf("Similar(%q, %q) = false, want true", a, b)
	}
}
