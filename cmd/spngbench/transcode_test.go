package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/nao1215/spngbench/internal/model"
)

func TestTranscodeCmd(t *testing.T) {
	t.Parallel()

	suite := writeSuite(t, "basn2c08")
	input := filepath.Join(suite, "basn2c08.png")

	tests := []struct {
		name       string
		args       func(out string) []string
		wantErr    bool
		wantOutput bool
		wantStdout string
	}{
		{
			name:       "writes and compares the re-encoded image",
			args:       func(out string) []string { return []string{"transcode", input, "-o", out} },
			wantOutput: true,
			wantStdout: "basn2c08: identical 4x4, 0 mismatched pixels -> ",
		},
		{
			name: "creates the output directory",
			args: func(out string) []string {
				return []string{"transcode", input, "--output", filepath.Join(filepath.Dir(out), "nested", "dir", "x.png")}
			},
			wantStdout: "basn2c08: identical",
		},
		{
			name:    "corrupt input",
			args:    func(out string) []string { return []string{"transcode", filepath.Join(suite, "broken.png"), "-o", out} },
			wantErr: true,
		},
		{
			name:    "missing input",
			args:    func(out string) []string { return []string{"transcode", filepath.Join(suite, "none.png"), "-o", out} },
			wantErr: true,
		},
		{
			name:    "no input",
			args:    func(string) []string { return []string{"transcode"} },
			wantErr: true,
		},
		{
			name:    "output is the input",
			args:    func(string) []string { return []string{"transcode", input, "-o", input} },
			wantErr: true,
		},
		{
			name:    "empty output",
			args:    func(string) []string { return []string{"transcode", input, "-o", ""} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := filepath.Join(t.TempDir(), "output.png")
			stdout, err := execute(t, tt.args(out)...)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
					t.Errorf("output should not exist, stat error = %v", statErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("transcode error = %v", err)
			}
			if !strings.Contains(stdout, tt.wantStdout) {
				t.Errorf("stdout = %q, want it to contain %q", stdout, tt.wantStdout)
			}
			if tt.wantOutput {
				if _, err := os.Stat(out); err != nil {
					t.Errorf("expected output file: %v", err)
				}
			}
		})
	}

	t.Run("input is never modified", func(t *testing.T) {
		t.Parallel()

		before, err := os.ReadFile(input)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := execute(t, "transcode", input, "-o", input); err == nil {
			t.Fatal("expected error")
		}
		after, err := os.ReadFile(input)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(before, after); diff != "" {
			t.Errorf("input changed (-before +after):\n%s", diff)
		}
	})
}

func TestTranscodeCmdJSON(t *testing.T) {
	t.Parallel()

	suite := writeSuite(t, "basn0g08")
	out := filepath.Join(t.TempDir(), "basn0g08-spng.png")

	stdout, err := execute(t, "transcode", filepath.Join(suite, "basn0g08.png"), "-o", out, "--json")
	if err != nil {
		t.Fatalf("transcode error = %v", err)
	}

	var got model.Comparison
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	want := model.Comparison{Name: "basn0g08", Width: 4, Height: 4, DimensionsMatch: true}
	opts := cmpopts.IgnoreFields(model.Comparison{}, "OriginalDigest", "EncodedDigest")
	if diff := cmp.Diff(want, got, opts); diff != "" {
		t.Errorf("comparison mismatch (-want +got):\n%s", diff)
	}
	if len(got.OriginalDigest) != 64 || len(got.EncodedDigest) != 64 {
		t.Errorf("unexpected digests %q %q", got.OriginalDigest, got.EncodedDigest)
	}
}
