package tuning

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestDefaults_Valid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	p := writeFile(t, "workers: 2\ncreate_radius: 6\ndelete_radius: 9\nshow_clouds: false\nserver_addr: localhost:4080\n")
	tu, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tu.Workers != 2 || tu.CreateRadius != 6 || tu.DeleteRadius != 9 || tu.ShowClouds {
		t.Fatalf("tuning=%+v", tu)
	}
	if tu.RenderRadius != 10 || tu.MaxChunks != 8192 || !tu.ShowTrees {
		t.Fatalf("defaults lost: %+v", tu)
	}
	if tu.ServerAddr != "localhost:4080" {
		t.Fatalf("server_addr=%q", tu.ServerAddr)
	}
}

func TestLoad_EmptyFileIsDefaults(t *testing.T) {
	tu, err := Load(writeFile(t, ""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tu != Defaults() {
		t.Fatalf("tuning=%+v", tu)
	}
}

func TestLoad_Rejects(t *testing.T) {
	cases := []struct {
		name, body, want string
	}{
		{"unknown key", "wrkers: 2\n", "schema"},
		{"wrong type", "workers: many\n", "tuning.yaml"},
		{"schema range", "workers: 0\n", "schema"},
		{"chunk size", "chunk_size: 16\n", "schema"},
		{"delete inside create", "create_radius: 12\ndelete_radius: 12\n", "delete_radius"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Load(writeFile(t, c.body))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), c.want) {
				t.Fatalf("err=%v want %q", err, c.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !os.IsNotExist(err) {
		t.Fatalf("err=%v want not-exist", err)
	}
}

func TestLoad_RepoConfig(t *testing.T) {
	got, err := Load(filepath.Join("..", "..", "..", "configs", "tuning.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Defaults()
	want.JournalDir = "journal"
	if got != want {
		t.Fatalf("repo config=%+v\nwant %+v", got, want)
	}
}
