package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calloway/intertext/pkg/errors"
)

const sampleCSV = `source_title,source_year,target_title,target_year,weight,themes,note
Narrative of the Life,1845,Beloved,1987,3,slavery;memory;testimony,Morrison reworks the slave narrative form
The Odyssey,-700,Ulysses,1922,3,homecoming;wandering,structural retelling
Mrs Dalloway,1925,The Hours,1998,2,time;consciousness,
`

func TestLoad(t *testing.T) {
	result, err := Load(strings.NewReader(sampleCSV), LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(result.Influences) != 3 {
		t.Fatalf("got %d influences, want 3", len(result.Influences))
	}
	if result.Rows != 3 {
		t.Errorf("Rows = %d, want 3", result.Rows)
	}
	if result.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0", result.Skipped)
	}

	first := result.Influences[0]
	if first.Source.ID() != "Narrative of the Life (1845)" {
		t.Errorf("source ID = %q", first.Source.ID())
	}
	if first.Target.ID() != "Beloved (1987)" {
		t.Errorf("target ID = %q", first.Target.ID())
	}
	if first.Weight != WeightReuse {
		t.Errorf("weight = %d, want %d", first.Weight, WeightReuse)
	}
	wantThemes := []string{"memory", "slavery", "testimony"}
	if len(first.Themes) != len(wantThemes) {
		t.Fatalf("themes = %v, want %v", first.Themes, wantThemes)
	}
	for i, th := range wantThemes {
		if first.Themes[i] != th {
			t.Errorf("themes[%d] = %q, want %q", i, first.Themes[i], th)
		}
	}
	if first.Note == "" {
		t.Error("expected note to be carried through")
	}
}

func TestLoadNegativeYear(t *testing.T) {
	result, err := Load(strings.NewReader(sampleCSV), LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := result.Influences[1].Source.Year; got != -700 {
		t.Errorf("source year = %d, want -700", got)
	}
}

func TestLoadShuffledHeader(t *testing.T) {
	csv := `weight,themes,source_title,source_year,target_title,target_year,note
2,time,Mrs Dalloway,1925,The Hours,1998,
`
	result, err := Load(strings.NewReader(csv), LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Influences[0].Weight != WeightEcho {
		t.Errorf("weight = %d, want %d", result.Influences[0].Weight, WeightEcho)
	}
}

func TestLoadMissingNoteColumn(t *testing.T) {
	csv := `source_title,source_year,target_title,target_year,weight,themes
The Odyssey,-700,Ulysses,1922,3,homecoming
`
	result, err := Load(strings.NewReader(csv), LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Influences[0].Note != "" {
		t.Errorf("note = %q, want empty", result.Influences[0].Note)
	}
}

func TestLoadStrictErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		code errors.Code
	}{
		{
			name: "empty input",
			csv:  "",
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "missing column",
			csv:  "source_title,source_year,target_title,target_year,themes\na,1,b,2,x\n",
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "weight out of range",
			csv:  sampleHeader() + "a,1900,b,1950,5,memory,\n",
			code: errors.ErrCodeInvalidRow,
		},
		{
			name: "weight zero",
			csv:  sampleHeader() + "a,1900,b,1950,0,memory,\n",
			code: errors.ErrCodeInvalidRow,
		},
		{
			name: "weight not numeric",
			csv:  sampleHeader() + "a,1900,b,1950,abc,memory,\n",
			code: errors.ErrCodeInvalidRow,
		},
		{
			name: "missing title",
			csv:  sampleHeader() + ",1900,b,1950,2,memory,\n",
			code: errors.ErrCodeInvalidRow,
		},
		{
			name: "bad year",
			csv:  sampleHeader() + "a,eighteen,b,1950,2,memory,\n",
			code: errors.ErrCodeInvalidRow,
		},
		{
			name: "self loop",
			csv:  sampleHeader() + "a,1900,a,1900,2,memory,\n",
			code: errors.ErrCodeInvalidRow,
		},
		{
			name: "no valid rows",
			csv:  sampleHeader(),
			code: errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.csv), LoadOptions{Policy: PolicyStrict})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %v, want %v (err: %v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestLoadSkipPolicy(t *testing.T) {
	csv := sampleHeader() +
		"a,1900,b,1950,5,memory,\n" +
		"a,1900,b,1950,2,memory,\n" +
		"c,1800,c,1800,1,exile,\n"

	result, err := Load(strings.NewReader(csv), LoadOptions{Policy: PolicySkip})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(result.Influences) != 1 {
		t.Errorf("got %d influences, want 1", len(result.Influences))
	}
	if result.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", result.Skipped)
	}
	if result.Rows != 3 {
		t.Errorf("Rows = %d, want 3", result.Rows)
	}
}

func TestLoadSkipPolicyAllBad(t *testing.T) {
	csv := sampleHeader() + "a,1900,b,1950,9,memory,\n"

	_, err := Load(strings.NewReader(csv), LoadOptions{Policy: PolicySkip})
	if err == nil {
		t.Fatal("expected error when every row is rejected")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edges.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := LoadFile(path, LoadOptions{})
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(result.Influences) != 3 {
		t.Errorf("got %d influences, want 3", len(result.Influences))
	}
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.csv"), LoadOptions{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}

func sampleHeader() string {
	return Header() + "\n"
}
