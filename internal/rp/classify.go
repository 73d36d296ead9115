package rp

import "regexp"

// Shortcut patterns that reclassify a message as out-of-character:
// (( message )), { message }, and // message. The capture group is the
// content with the wrapper stripped.
var oocShortcuts = []*regexp.Regexp{
	regexp.MustCompile(`^\({2,}\s*(.*?[^\s])\s*\)*$`),
	regexp.MustCompile(`^\{+\s*(.*?[^\s])\s*\}*$`),
	regexp.MustCompile(`^//\s*(.*[^\s])\s*$`),
}

// ClassifyShortcut applies the ooc send shortcuts to raw content. Messages
// already in the ooc voice pass through unchanged; otherwise a matching
// wrapper switches the voice to ooc and unwraps the content.
func ClassifyShortcut(voice, content string) (string, string) {
	if voice == "ooc" {
		return voice, content
	}
	for _, re := range oocShortcuts {
		if m := re.FindStringSubmatch(content); m != nil {
			return "ooc", m[1]
		}
	}
	return voice, content
}
