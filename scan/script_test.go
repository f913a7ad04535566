package scan

import "testing"

func TestDefaultScript(t *testing.T) {
	s := DefaultScript()
	tests := []struct {
		text string
		want bool
	}{
		{"你好", true},
		{"price: 价格", true},
		{"hello", false},
		{"", false},
		{"こんにちは", false},
		{"龥", true},
		{"龦", false},
		{"一", true},
		{"䷿", false},
	}
	for _, tc := range tests {
		if got := s.Match(tc.text); got != tc.want {
			t.Fatalf("DefaultScript().Match(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
	if s.String() != "CJK" {
		t.Fatalf("String() = %q, want CJK", s.String())
	}
}

func TestParseScript(t *testing.T) {
	tests := []struct {
		spec    string
		text    string
		want    bool
		wantErr bool
	}{
		{spec: "", text: "中", want: true},
		{spec: "cjk", text: "中", want: true},
		{spec: "Hiragana", text: "こんにちは", want: true},
		{spec: "Hiragana", text: "中", want: false},
		{spec: "CJK, Hiragana", text: "こ", want: true},
		{spec: "U+3040-U+309F", text: "こ", want: true},
		{spec: "U+0041", text: "A", want: true},
		{spec: "U+0041", text: "B", want: false},
		{spec: "U+20000-U+2A6DF", text: "\U00020001", want: true},
		{spec: "U+F900-U+2FA1F", text: "豈", want: true},
		{spec: "U+F900-U+2FA1F", text: "\U0002F800", want: true},
		{spec: "Klingon", wantErr: true},
		{spec: "U+9FA5-U+4E00", wantErr: true},
		{spec: "U+ZZZZ", wantErr: true},
		{spec: " , ", wantErr: true},
	}

	for _, tc := range tests {
		s, err := ParseScript(tc.spec)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseScript(%q) succeeded, want error", tc.spec)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseScript(%q): %v", tc.spec, err)
		}
		if got := s.Match(tc.text); got != tc.want {
			t.Fatalf("ParseScript(%q).Match(%q) = %v, want %v", tc.spec, tc.text, got, tc.want)
		}
	}
}

func TestNewScriptMergesRanges(t *testing.T) {
	s := NewScript(Range{Lo: 'a', Hi: 'c'}, Range{Lo: 'x', Hi: 'z'})
	if !s.Match("b") || !s.Match("y") {
		t.Fatal("merged script should match both ranges")
	}
	if s.Match("m") {
		t.Fatal("merged script should not match gap")
	}
}
