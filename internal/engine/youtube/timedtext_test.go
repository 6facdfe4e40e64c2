package youtube

import (
	"errors"
	"testing"
)

func TestParseTimedTextLegacyDialect(t *testing.T) {
	body := []byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.5" dur="2.1">hello &amp; welcome</text>
  <text start="2.6" dur="1.9"><font color="red">second</font> line</text>
  <text start="4.5" dur="1.0">   </text>
  <text start="5.5" dur="2.0">it&#39;s fine</text>
</transcript>`)

	segs, err := ParseTimedText(body)
	if err != nil {
		t.Fatalf("ParseTimedText() error = %v", err)
	}
	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3 (blank dropped)", len(segs))
	}
	if segs[0].Start != 0.5 || segs[0].Duration != 2.1 {
		t.Errorf("seg0 timing = (%v, %v)", segs[0].Start, segs[0].Duration)
	}
	// innerxml keeps entities raw; CleanCaption decodes them.
	if segs[0].Text != "hello & welcome" {
		t.Errorf("seg0 text = %q", segs[0].Text)
	}
	if segs[1].Text != "second line" {
		t.Errorf("seg1 tags not stripped: %q", segs[1].Text)
	}
	if segs[2].Text != "it's fine" {
		t.Errorf("seg2 text = %q", segs[2].Text)
	}
}

func TestParseTimedTextSrv3Dialect(t *testing.T) {
	body := []byte(`<timedtext format="3">
  <body>
    <p t="1200" d="3400">first paragraph</p>
    <p t="4600" d="2000">second
paragraph</p>
  </body>
</timedtext>`)

	segs, err := ParseTimedText(body)
	if err != nil {
		t.Fatalf("ParseTimedText() error = %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if segs[0].Start != 1.2 || segs[0].Duration != 3.4 {
		t.Errorf("millisecond conversion: (%v, %v), want (1.2, 3.4)", segs[0].Start, segs[0].Duration)
	}
	if segs[1].Text != "second paragraph" {
		t.Errorf("newline not collapsed: %q", segs[1].Text)
	}
}

func TestParseTimedTextErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty transcript element", "<transcript></transcript>"},
		{"all segments blank", `<transcript><text start="0" dur="1">  </text></transcript>`},
		{"empty srv3 body", `<timedtext><body></body></timedtext>`},
		{"not xml at all", "plain text response"},
		{"html error page", "<html><body>Sorry</body></html>"},
		{"empty input", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTimedText([]byte(tt.body))
			if !errors.Is(err, ErrNoSegments) {
				t.Errorf("ParseTimedText() error = %v, want ErrNoSegments", err)
			}
		})
	}
}

func TestParseTimedTextMalformedAttributes(t *testing.T) {
	body := []byte(`<transcript>
  <text start="abc" dur="-5">negative and garbage timing</text>
</transcript>`)
	segs, err := ParseTimedText(body)
	if err != nil {
		t.Fatalf("ParseTimedText() error = %v", err)
	}
	if segs[0].Start != 0 || segs[0].Duration != 0 {
		t.Errorf("malformed timing should clamp to 0, got (%v, %v)", segs[0].Start, segs[0].Duration)
	}
}
