package iconprompt

import "github.com/lumenlearn/lumen/internal/textnorm"

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if textnorm.ContainsPhrase(text, p) {
			return true
		}
	}
	return false
}
