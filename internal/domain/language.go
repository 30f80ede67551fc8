package domain

// IsJapanese reports whether any rune of the text falls in the Japanese
// Unicode ranges: Hiragana, Katakana, CJK Unified Ideographs, or CJK
// Compatibility. A single character suffices.
func IsJapanese(text string) bool {
	for _, r := range text {
		switch {
		case r >= 0x3040 && r <= 0x309F: // Hiragana
			return true
		case r >= 0x30A0 && r <= 0x30FF: // Katakana
			return true
		case r >= 0x4E00 && r <= 0x9FFF: // CJK Unified Ideographs
			return true
		case r >= 0x3300 && r <= 0x33FF: // CJK Compatibility
			return true
		case r >= 0xF900 && r <= 0xFAFF: // CJK Compatibility Ideographs
			return true
		}
	}
	return false
}
