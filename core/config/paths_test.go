package config

import (
	"path/filepath"
	"testing"
)

func TestResolveConfigPath(t *testing.T) {
	cases := []struct {
		goos, home, pd, want string
	}{
		{"linux", "/home/u", "", filepath.Join("/etc", "spahost", "server.yaml")},
		{"darwin", "/Users/u", "", filepath.Join("/Users/u", "Library", "Application Support", "spahost", "server.yaml")},
		{"windows", "", `D:\Data\`, filepath.Join(`D:\Data`, "spahost", "server.yaml")},
		{"windows", "", "", filepath.Join("C:/ProgramData", "spahost", "server.yaml")},
	}
	for _, c := range cases {
		if got := ResolveConfigPath(c.goos, c.home, c.pd, "server.yaml"); got != c.want {
			t.Fatalf("%s: got %q want %q", c.goos, got, c.want)
		}
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("SPAHOST_TEST_SET", "value")
	t.Setenv("SPAHOST_TEST_EMPTY", "")
	if v := GetEnv("SPAHOST_TEST_SET", "def"); v != "value" {
		t.Fatalf("got %q", v)
	}
	if v := GetEnv("SPAHOST_TEST_EMPTY", "def"); v != "def" {
		t.Fatalf("empty value should fall back, got %q", v)
	}
	if v := GetEnv("SPAHOST_TEST_UNSET_XYZ", "def"); v != "def" {
		t.Fatalf("unset value should fall back, got %q", v)
	}
}
