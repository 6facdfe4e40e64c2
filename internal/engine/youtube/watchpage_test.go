package youtube

import "testing"

func TestDetectPageBlock(t *testing.T) {
	tests := []struct {
		name string
		html string
		kind FailKind
	}{
		{"clean page", "<html><body>video</body></html>", FailUnknown},
		{"consent wall", `<form action="https://consent.youtube.com/s" method="POST">`, FailConsentRequired},
		{"captcha challenge", `<div class="g-recaptcha" data-sitekey="x"></div>`, FailIPBlocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := detectPageBlock(tt.html, "vid")
			if tt.kind == FailUnknown {
				if f != nil {
					t.Errorf("detectPageBlock() = %v, want nil", f)
				}
				return
			}
			if f == nil || f.Kind != tt.kind {
				t.Errorf("detectPageBlock() = %v, want kind %v", f, tt.kind)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"flat object", `{"a":1}tail`, `{"a":1}`},
		{"nested objects", `{"a":{"b":{"c":2}}};var x=1`, `{"a":{"b":{"c":2}}}`},
		{"braces inside strings", `{"a":"}{","b":1}rest`, `{"a":"}{","b":1}`},
		{"escaped quote in string", `{"a":"say \"}\"","b":2}x`, `{"a":"say \"}\"","b":2}`},
		{"not an object", `[1,2,3]`, ""},
		{"unbalanced", `{"a":{"b":1}`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(extractJSON([]byte(tt.in)))
			if got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
