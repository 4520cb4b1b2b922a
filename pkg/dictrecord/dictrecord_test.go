package dictrecord

import "testing"

func TestClassify(t *testing.T) {
	testCases := []struct {
		name      string
		line      string
		wantKeep  bool
		wantLabel string
	}{
		{
			name:      "PositiveWeight",
			line:      "ni hao\t你好\tc=1 d=0.5 t=100",
			wantKeep:  true,
			wantLabel: "你好",
		},
		{
			name:      "NegativeWeight",
			line:      "wu xiao\t无效\tc=-1 d=0.1 t=50",
			wantKeep:  false,
			wantLabel: "无效",
		},
		{
			name:      "ZeroWeight",
			line:      "ling\t零\tc=0 d=0.1 t=50",
			wantKeep:  false,
			wantLabel: "零",
		},
		{
			name:      "FractionalWeight",
			line:      "pian\t偏\tc=0.125 d=0.1 t=50",
			wantKeep:  true,
			wantLabel: "偏",
		},
		{
			name:      "NoWeightToken",
			line:      "ni hao\t你好\td=0.5 t=100",
			wantKeep:  true,
			wantLabel: "你好",
		},
		{
			name:      "MalformedWeight",
			line:      "ni hao\t你好\tc=abc d=0.5",
			wantKeep:  true,
			wantLabel: "你好",
		},
		{
			name:      "EmptyWeight",
			line:      "ni hao\t你好\tc= d=0.5",
			wantKeep:  true,
			wantLabel: "你好",
		},
		{
			// The scan is rightmost: a literal "c=" inside the entry text must
			// not shadow the real weight token at the end of the line.
			name:      "LiteralTokenInLabel",
			line:      "abc\tc=fake\tc=-2 d=0.5",
			wantKeep:  false,
			wantLabel: "c=fake",
		},
		{
			// Rightmost token wins even when an earlier one would parse.
			name:      "TwoParsableTokens",
			line:      "x\ty\tc=5 c=-5",
			wantKeep:  false,
			wantLabel: "y",
		},
		{
			name:      "WeightAtEndOfLine",
			line:      "x\ty\td=1 c=-3",
			wantKeep:  false,
			wantLabel: "y",
		},
		{
			name:      "NoTabs",
			line:      "just some text",
			wantKeep:  true,
			wantLabel: "just some text",
		},
		{
			name:      "OneTab",
			line:      "key\tphrase c=-1",
			wantKeep:  false,
			wantLabel: "phrase c=-1",
		},
		{
			name:      "ScientificNotation",
			line:      "x\ty\tc=1e-3",
			wantKeep:  true,
			wantLabel: "y",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.line)
			if got.Keep != tc.wantKeep {
				t.Errorf("Classify(%q).Keep = %v, want %v", tc.line, got.Keep, tc.wantKeep)
			}
			if got.Label != tc.wantLabel {
				t.Errorf("Classify(%q).Label = %q, want %q", tc.line, got.Label, tc.wantLabel)
			}
		})
	}
}

func TestWeightFailOpen(t *testing.T) {
	// Lines without a readable weight always come back positive.
	for _, line := range []string{"", "no token here", "c=", "c=NaN-ish junk\t"} {
		if w := Weight(line); w <= 0 {
			t.Errorf("Weight(%q) = %v, want > 0 (fail open)", line, w)
		}
	}
}
