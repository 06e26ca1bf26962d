package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"github.com/xtaci/spnattack/oracle"
	"github.com/xtaci/spnattack/spn"
	"github.com/xtaci/spnattack/std"
)

func TestParseJSONConfigSuccess(t *testing.T) {
	path := writeTempConfig(t, `{"oracles":"aes-3, random,","passphrase":"secret","base":"00000000000000000000000000000000","byte":15,"quiet":true}`)

	var cfg Config
	if err := parseJSONConfig(&cfg, path); err != nil {
		t.Fatalf("parseJSONConfig returned error: %v", err)
	}

	if cfg.Passphrase != "secret" || cfg.Byte != 15 || !cfg.Quiet {
		t.Fatalf("unexpected fields: %+v", cfg)
	}

	names := cfg.oracleNames()
	if len(names) != 2 || names[0] != "aes-3" || names[1] != "random" {
		t.Fatalf("unexpected oracle names: %q", names)
	}
}

func TestParseJSONConfigMissingFile(t *testing.T) {
	var cfg Config
	missing := filepath.Join(t.TempDir(), "missing.json")
	if err := parseJSONConfig(&cfg, missing); err == nil {
		t.Fatalf("parseJSONConfig expected error for missing file")
	}
}

func TestConfigAESKey(t *testing.T) {
	cfg := Config{Key: "00112233445566778899aabbccddeeff", Passphrase: "secret"}
	key, err := cfg.aesKey()
	if err != nil {
		t.Fatalf("aesKey: %v", err)
	}
	if key.String() != "00112233445566778899aabbccddeeff" {
		t.Fatalf("key = %s", key)
	}

	cfg.Key = ""
	key, err = cfg.aesKey()
	if err != nil {
		t.Fatalf("aesKey: %v", err)
	}
	if key != oracle.Block128(std.DeriveKey128("secret")) {
		t.Fatalf("passphrase key = %s", key)
	}

	cfg.Key = "0011"
	if _, err := cfg.aesKey(); errors.Cause(err) != spn.ErrMalformedInput {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}
