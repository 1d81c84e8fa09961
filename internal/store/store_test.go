package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deploytrack/deploytrack/internal/delay"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func tempDataFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "deployments.json")
	if content != "" {
		writeFile(t, p, content)
	}
	return p
}

const sampleJSON = `{
  "deployments": [
    {"Name": "release-a", "Type": "sprint",
     "PlannedDeploymentDate": "2024-03-01T00:00:00Z",
     "DeploymentDate": "2024-03-03T00:00:00Z"}
  ],
  "lastUpdated": "2024-03-10T00:00:00Z"
}`

func TestLoad_ParsesCollection(t *testing.T) {
	st := New(tempDataFile(t, sampleJSON))

	c, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Deployments) != 1 {
		t.Fatalf("deployments: got %d, want 1", len(c.Deployments))
	}
	if c.Deployments[0].Name != "release-a" {
		t.Errorf("name: got %q, want release-a", c.Deployments[0].Name)
	}
	if c.LastUpdated != "2024-03-10T00:00:00Z" {
		t.Errorf("lastUpdated: got %q", c.LastUpdated)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	st := New(tempDataFile(t, ""))
	if _, err := st.Load(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load: got %v, want ErrNotFound", err)
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	st := New(tempDataFile(t, "{not json"))
	if _, err := st.Load(); !errors.Is(err, ErrMalformed) {
		t.Fatalf("Load: got %v, want ErrMalformed", err)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := tempDataFile(t, sampleJSON)
	st := New(path)

	c, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	days := 2
	c.Deployments[0].DelayDays = &days
	c.LastUpdated = "2024-04-01T00:00:00Z"

	if err := st.Save(c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := New(path).Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Deployments[0].DelayDays == nil || *got.Deployments[0].DelayDays != 2 {
		t.Errorf("DelayDays after reload: got %v, want 2", got.Deployments[0].DelayDays)
	}
	if got.LastUpdated != "2024-04-01T00:00:00Z" {
		t.Errorf("lastUpdated after reload: got %q", got.LastUpdated)
	}
}

func TestSave_PrettyPrintsAndKeepsNonASCII(t *testing.T) {
	path := tempDataFile(t, "")
	st := New(path)

	if err := st.Save(&delay.Collection{Deployments: []delay.Record{{Name: "रिलीज़ <1>"}}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "रिलीज़ <1>") {
		t.Errorf("non-ASCII/HTML not verbatim:\n%s", out)
	}
	if !strings.Contains(out, "\n  \"deployments\"") {
		t.Errorf("output not indented:\n%s", out)
	}
}

func TestSave_LeavesNoTempFile(t *testing.T) {
	path := tempDataFile(t, sampleJSON)
	st := New(path)

	c, _ := st.Load()
	if err := st.Save(c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != filepath.Base(path) {
			t.Errorf("leftover file after save: %s", e.Name())
		}
	}
}

func TestGet_CachesUntilInvalidate(t *testing.T) {
	path := tempDataFile(t, sampleJSON)
	st := New(path)

	c1, err := st.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	// Change the file behind the cache.
	writeFile(t, path, `{"deployments": [], "lastUpdated": "2024-05-01T00:00:00Z"}`)

	c2, err := st.Get()
	if err != nil {
		t.Fatalf("Get cached: %v", err)
	}
	if c2 != c1 {
		t.Error("Get re-read the file without Invalidate")
	}

	st.Invalidate()
	c3, err := st.Get()
	if err != nil {
		t.Fatalf("Get after Invalidate: %v", err)
	}
	if len(c3.Deployments) != 0 {
		t.Errorf("stale data after Invalidate: %+v", c3)
	}
}

func TestRaw_ReturnsBytes(t *testing.T) {
	st := New(tempDataFile(t, sampleJSON))
	data, err := st.Raw()
	if err != nil {
		t.Fatalf("Raw: %v", err)
	}
	if string(data) != sampleJSON {
		t.Errorf("Raw: got %q", data)
	}
}

func TestRaw_MissingFile(t *testing.T) {
	st := New(tempDataFile(t, ""))
	if _, err := st.Raw(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Raw: got %v, want ErrNotFound", err)
	}
}
