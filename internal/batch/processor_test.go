package batch

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadBatchFile(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		want        []Entry
		wantSkipped int
	}{
		{
			name:        "empty file",
			fileContent: "",
			want:        nil,
		},
		{
			name:        "only whitespace",
			fileContent: "   \n\t\r\n   ",
			want:        nil,
		},
		{
			name: "pairs",
			fileContent: `spec = スペック
user = ユーザ
test = テスト`,
			want: []Entry{
				{Source: "spec", Target: "スペック", Line: 1},
				{Source: "user", Target: "ユーザ", Line: 2},
				{Source: "test", Target: "テスト", Line: 3},
			},
		},
		{
			name: "pairs with notes",
			fileContent: `spec = スペック # 備考
user = ユーザ #short`,
			want: []Entry{
				{Source: "spec", Target: "スペック", Note: "備考", Line: 1},
				{Source: "user", Target: "ユーザ", Note: "short", Line: 2},
			},
		},
		{
			name: "comments and blank lines",
			fileContent: `
# glossary for the spec project
spec = スペック

  user = ユーザ  
`,
			want: []Entry{
				{Source: "spec", Target: "スペック", Line: 3},
				{Source: "user", Target: "ユーザ", Line: 5},
			},
		},
		{
			name:        "windows line endings",
			fileContent: "spec = スペック\r\nuser = ユーザ\r\n",
			want: []Entry{
				{Source: "spec", Target: "スペック", Line: 1},
				{Source: "user", Target: "ユーザ", Line: 2},
			},
		},
		{
			name:        "multiple equals signs",
			fileContent: `a = b = c`,
			want: []Entry{
				{Source: "a", Target: "b = c", Line: 1},
			},
		},
		{
			name:        "hash inside a term",
			fileContent: `C# = シーシャープ # language`,
			want: []Entry{
				{Source: "C#", Target: "シーシャープ", Note: "language", Line: 1},
			},
		},
		{
			name: "malformed lines are skipped",
			fileContent: `spec
= スペック
user =
test = テスト`,
			want: []Entry{
				{Source: "test", Target: "テスト", Line: 4},
			},
			wantSkipped: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile := filepath.Join(t.TempDir(), "terms.txt")
			if err := os.WriteFile(tmpFile, []byte(tt.fileContent), 0644); err != nil {
				t.Fatalf("Failed to create test file: %v", err)
			}

			got, skipped, err := ReadBatchFile(tmpFile)
			if err != nil {
				t.Fatalf("ReadBatchFile() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadBatchFile() = %+v, want %+v", got, tt.want)
			}
			if skipped != tt.wantSkipped {
				t.Errorf("ReadBatchFile() skipped = %d, want %d", skipped, tt.wantSkipped)
			}
		})
	}
}

func TestReadBatchFile_NotFound(t *testing.T) {
	_, _, err := ReadBatchFile(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{""}},
		{"a", []string{"a"}},
		{"a\nb", []string{"a", "b"}},
		{"a\r\nb\r\n", []string{"a", "b", ""}},
	}

	for _, tt := range tests {
		if got := splitLines(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitLines(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
