package rp

import "testing"

func TestClassifyShortcut(t *testing.T) {
	cases := []struct {
		name        string
		voice       string
		content     string
		wantVoice   string
		wantContent string
	}{
		{"plain narrator", "narrator", "The sun rises.", "narrator", "The sun rises."},
		{"plain chara", "chara", "Hello!", "chara", "Hello!"},
		{"double parens", "narrator", "(( brb five minutes ))", "ooc", "brb five minutes"},
		{"triple parens", "chara", "(((typo in my last)))", "ooc", "typo in my last"},
		{"single paren is not a shortcut", "narrator", "(aside) he waved", "narrator", "(aside) he waved"},
		{"braces", "narrator", "{ gotta go }", "ooc", "gotta go"},
		{"double braces", "chara", "{{who's driving?}}", "ooc", "who's driving?"},
		{"slashes", "chara", "// back now", "ooc", "back now"},
		{"slashes no space", "narrator", "//ok", "ooc", "ok"},
		{"already ooc passes through", "ooc", "(( keep the parens ))", "ooc", "(( keep the parens ))"},
		{"unclosed parens still match", "narrator", "(( hmm", "ooc", "hmm"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			voice, content := ClassifyShortcut(tc.voice, tc.content)
			if voice != tc.wantVoice || content != tc.wantContent {
				t.Fatalf("ClassifyShortcut(%q, %q) = (%q, %q), want (%q, %q)",
					tc.voice, tc.content, voice, content, tc.wantVoice, tc.wantContent)
			}
		})
	}
}
