package appupdate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizeReleaseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"v1.2.3", "v1.2.3"},
		{"1.2.3", "v1.2.3"},
		{" v0.4.0 ", "v0.4.0"},
		{"dev", ""},
		{"", ""},
		{"v1.2.3-rc.1", ""},
		{"v1.2.3+build", ""},
	}
	for _, tt := range tests {
		if got := normalizeReleaseVersion(tt.in); got != tt.want {
			t.Errorf("normalizeReleaseVersion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDetectInstallMethod(t *testing.T) {
	tests := []struct {
		path string
		want InstallMethod
	}{
		{"/opt/homebrew/bin/lenedash", InstallMethodHomebrew},
		{"/usr/local/cellar/lenedash/1.0.0/bin/lenedash", InstallMethodHomebrew},
		{"/home/user/go/bin/lenedash", InstallMethodGoInstall},
		{"/usr/local/bin/lenedash", InstallMethodUnknown},
		{"", InstallMethodUnknown},
	}
	for _, tt := range tests {
		if got := detectInstallMethod(tt.path); got != tt.want {
			t.Errorf("detectInstallMethod(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCheckUpdateAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name": "v1.5.0"}`))
	}))
	defer srv.Close()

	res, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "v1.4.0",
		ExecutablePath:   "/home/user/go/bin/lenedash",
		LatestReleaseURL: srv.URL,
	})
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if !res.UpdateAvailable {
		t.Error("expected an available update")
	}
	if res.LatestVersion != "v1.5.0" {
		t.Errorf("latest = %q", res.LatestVersion)
	}
	if res.InstallMethod != InstallMethodGoInstall {
		t.Errorf("method = %q", res.InstallMethod)
	}
}

func TestCheckAlreadyCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name": "v1.4.0"}`))
	}))
	defer srv.Close()

	res, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "1.4.0",
		LatestReleaseURL: srv.URL,
	})
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if res.UpdateAvailable {
		t.Error("no update expected")
	}
}

func TestCheckDevBuildSkipsNetwork(t *testing.T) {
	res, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "dev",
		LatestReleaseURL: "http://127.0.0.1:1", // would fail if contacted
	})
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if res.UpdateAvailable || res.LatestVersion != "" {
		t.Errorf("dev build result = %+v", res)
	}
}

func TestCheckServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "v1.0.0",
		LatestReleaseURL: srv.URL,
	}); err == nil {
		t.Fatal("expected error")
	}
}
