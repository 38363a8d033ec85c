package config

import (
	"path/filepath"
	"testing"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load([]byte("master_key: keys/MASTER.tsv\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MasterKey != "keys/MASTER.tsv" {
		t.Fatalf("unexpected master key: %s", cfg.MasterKey)
	}
	if cfg.ConsensusDir != "." {
		t.Fatalf("consensus dir default missing: %s", cfg.ConsensusDir)
	}
	if cfg.ProfileSuffix != "_defenceprofile.csv" {
		t.Fatalf("profile suffix default missing: %s", cfg.ProfileSuffix)
	}
}

func TestLoadFullConfig(t *testing.T) {
	data := []byte(`
master_key: MASTER_ToolKey.tsv
consensus_dir: 05_consensus
profile_suffix: _profile.csv
database:
  path: profiles.db
  debug: true
`)
	cfg, err := Load(data)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ConsensusDir != "05_consensus" {
		t.Fatalf("unexpected consensus dir: %s", cfg.ConsensusDir)
	}
	if cfg.ProfileSuffix != "_profile.csv" {
		t.Fatalf("unexpected suffix: %s", cfg.ProfileSuffix)
	}
	if cfg.Database.Path != "profiles.db" || !cfg.Database.Debug {
		t.Fatalf("unexpected database config: %+v", cfg.Database)
	}
}

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing config must not error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	if _, err := Load([]byte("master_key: [unclosed")); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}
