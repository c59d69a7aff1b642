package errors

import (
	"testing"
)

func TestValidateProfileName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "default", false},
		{"valid with dash", "work-setup", false},
		{"valid with underscore", "my_profile", false},
		{"valid with dot", "profile.v2", false},
		{"valid with digits", "profile2", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 100)), true},
		{"path traversal ..", "foo/../bar", true},
		{"path separator", "foo/bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"carriage return", "foo\rbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProfileName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProfileName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidProfile) {
				t.Errorf("ValidateProfileName(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty is fine", "", false},
		{"simple", "Documents", false},
		{"with spaces", "My Files", false},
		{"with tab", "a\tb", false},
		{"unicode", "Éditeur", false},

		{"too long", string(make([]byte, 200)), true},
		{"newline", "a\nb", true},
		{"control char", "a\x01b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDropPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"absolute path", "/home/user/notes.txt", false},
		{"relative path", "notes.txt", false},
		{"with spaces", "/home/user/My Documents/a.pdf", false},
		{"url", "https://example.com", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 5000)), true},
		{"null byte", "/tmp/a\x00b", true},
		{"newline", "/tmp/a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDropPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDropPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/path", false},
		{"http", "http://example.com/path", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"javascript", "javascript:alert(1)", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateActionTag(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"launch", "launch", false},
		{"open", "open", false},
		{"open-url", "open-url", false},
		{"with digits", "run2", false},

		{"empty", "", true},
		{"uppercase", "Launch", true},
		{"starts with dash", "-open", true},
		{"starts with digit", "2run", true},
		{"underscore", "open_url", true},
		{"spaces", "open url", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateActionTag(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateActionTag(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidAction) {
				t.Errorf("ValidateActionTag(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidLayout,
		ErrCodeInvalidPosition,
		ErrCodeInvalidProfile,
		ErrCodeInvalidPage,
		ErrCodeInvalidAction,
		ErrCodeInvalidBackend,
		ErrCodeNotFound,
		ErrCodeProfileNotFound,
		ErrCodePageNotFound,
		ErrCodeButtonNotFound,
		ErrCodeFileNotFound,
		ErrCodeGridFull,
		ErrCodeDuplicatePlacement,
		ErrCodeExtraction,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeStore,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
