package emv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gregLibert/emv-select/pkg/tlv"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	expected := &Config{
		PSE:        PSEName,
		MaxRecords: defaultMaxRecords,
		AcceptablePrefixes: []string{
			"A0000000041010",
			"A0000000031010",
		},
	}
	if diff := cmp.Diff(expected, config); diff != "" {
		t.Errorf("unexpected defaults (-expected +got):\n%s", diff)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
reader: "ACS ACR122U"
acceptable_prefixes:
  - "A0 00 00 00 03"
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Reader != "ACS ACR122U" {
		t.Errorf("expected the reader name to be set, got %q", config.Reader)
	}
	// Absent fields keep their defaults.
	if config.PSE != PSEName {
		t.Errorf("expected the default PSE name, got %q", config.PSE)
	}
	if config.MaxRecords != defaultMaxRecords {
		t.Errorf("expected the default record cap, got %d", config.MaxRecords)
	}

	prefixes, err := config.PrefixBytes()
	if err != nil {
		t.Fatalf("PrefixBytes failed: %v", err)
	}
	expected := [][]byte{tlv.Hex("A0 00 00 00 03")}
	if diff := cmp.Diff(expected, prefixes); diff != "" {
		t.Errorf("unexpected prefixes (-expected +got):\n%s", diff)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestPrefixBytes_InvalidHex(t *testing.T) {
	config := DefaultConfig()
	config.AcceptablePrefixes = []string{"not hex"}

	if _, err := config.PrefixBytes(); err == nil {
		t.Error("expected an error for invalid hex")
	}
}

func TestConfigDiscovery(t *testing.T) {
	config := DefaultConfig()
	config.PSE = "2PAY.SYS.DDF01"
	config.MaxRecords = 5

	discovery, err := config.Discovery(NewCard(&scriptedCard{}), nil, nil)
	if err != nil {
		t.Fatalf("Discovery failed: %v", err)
	}

	if discovery.PSE != config.PSE {
		t.Errorf("expected PSE %q, got %q", config.PSE, discovery.PSE)
	}
	if discovery.MaxRecords != 5 {
		t.Errorf("expected MaxRecords 5, got %d", discovery.MaxRecords)
	}
	if diff := cmp.Diff(DefaultAcceptablePrefixes, discovery.AcceptablePrefixes); diff != "" {
		t.Errorf("unexpected acceptance list (-expected +got):\n%s", diff)
	}
}
