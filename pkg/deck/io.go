package deck

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Profile Serialization API
// =============================================================================

// MarshalProfile serializes a profile to pretty-printed JSON bytes. The
// format round-trips: export → import produces an identical tree.
func MarshalProfile(p Profile) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// UnmarshalProfile deserializes JSON bytes into a profile and validates its
// structural invariants, so malformed external data never enters a store.
func UnmarshalProfile(data []byte) (Profile, error) {
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("unmarshal profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// WriteProfile writes a profile as JSON to w.
func WriteProfile(p Profile, w io.Writer) error {
	data, err := MarshalProfile(p)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// ReadProfile reads and validates a JSON profile from r.
func ReadProfile(r io.Reader) (Profile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	return UnmarshalProfile(data)
}

// WriteProfileFile writes a profile to a JSON file.
func WriteProfileFile(p Profile, path string) error {
	data, err := MarshalProfile(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadProfileFile reads a profile from a JSON file.
func ReadProfileFile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalProfile(data)
}
