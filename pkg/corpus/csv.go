package corpus

import (
	"encoding/csv"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/calloway/intertext/pkg/errors"
)

// Required CSV columns, in canonical order. A header row naming all of them
// (in any order) is mandatory; the note column is optional per row.
var columns = []string{
	"source_title", "source_year", "target_title", "target_year",
	"weight", "themes", "note",
}

// RowPolicy controls what happens when a row fails validation.
type RowPolicy int

const (
	// PolicyStrict aborts the load on the first malformed row.
	PolicyStrict RowPolicy = iota
	// PolicySkip logs a warning and continues with the remaining rows.
	PolicySkip
)

// LoadOptions configures CSV loading.
type LoadOptions struct {
	Policy RowPolicy
	Logger *log.Logger // nil disables warnings
}

// LoadResult is the outcome of a CSV load: the validated influences plus
// bookkeeping about rejected rows.
type LoadResult struct {
	Influences []Influence
	Skipped    int // rows rejected under PolicySkip
	Rows       int // data rows seen (excluding the header)
}

// LoadFile reads and validates an edges CSV from disk.
func LoadFile(path string, opts LoadOptions) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "input file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return Load(f, opts)
}

// Load reads and validates edges from r. The first record must be the header.
// Under PolicyStrict the first malformed row aborts with an INVALID_ROW error
// identifying the line; under PolicySkip malformed rows are warned about and
// counted in [LoadResult.Skipped].
func Load(r io.Reader, opts LoadOptions) (*LoadResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // row width checked per-row for better messages

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty input: missing header row")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read header")
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	result := &LoadResult{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRow, err, "read row")
		}
		result.Rows++

		line, _ := cr.FieldPos(0)
		inf, err := parseRow(record, idx)
		if err != nil {
			if opts.Policy == PolicyStrict {
				return nil, errors.Wrap(errors.ErrCodeInvalidRow, err, "line %d", line)
			}
			if opts.Logger != nil {
				opts.Logger.Warn("skipping malformed row", "line", line, "err", err)
			}
			result.Skipped++
			continue
		}
		result.Influences = append(result.Influences, inf)
	}

	if len(result.Influences) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no valid edges in input (%d rows, %d skipped)", result.Rows, result.Skipped)
	}
	return result, nil
}

// columnIndex maps each required column name to its position in the header.
func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range columns {
		if col == "note" {
			continue // optional
		}
		if _, ok := idx[col]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "missing required column: %s", col)
		}
	}
	return idx, nil
}

func parseRow(record []string, idx map[string]int) (Influence, error) {
	field := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	src, err := parseWork(field("source_title"), field("source_year"), "source")
	if err != nil {
		return Influence{}, err
	}
	tgt, err := parseWork(field("target_title"), field("target_year"), "target")
	if err != nil {
		return Influence{}, err
	}
	if src.ID() == tgt.ID() {
		return Influence{}, errors.New(errors.ErrCodeInvalidRow, "self-loop: %s influences itself", src.ID())
	}

	w, err := parseWeight(field("weight"))
	if err != nil {
		return Influence{}, err
	}

	themes := SplitThemes(field("themes"))
	slices.Sort(themes)

	return Influence{
		Source: src,
		Target: tgt,
		Weight: w,
		Themes: themes,
		Note:   field("note"),
	}, nil
}

func parseWork(title, year, role string) (Work, error) {
	if title == "" {
		return Work{}, errors.New(errors.ErrCodeInvalidRow, "missing %s_title", role)
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return Work{}, errors.New(errors.ErrCodeInvalidRow, "bad %s_year %q", role, year)
	}
	return Work{Title: title, Year: y}, nil
}

// parseWeight coerces the weight column to one of the three defined levels.
// Out-of-range or non-numeric values are never clamped.
func parseWeight(s string) (Weight, error) {
	if s == "" {
		return 0, errors.New(errors.ErrCodeInvalidWeight, "missing weight")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidWeight, "weight %q is not an integer", s)
	}
	w := Weight(n)
	if !w.Valid() {
		return 0, errors.New(errors.ErrCodeInvalidWeight, "weight %d out of range (must be 1, 2, or 3)", n)
	}
	return w, nil
}

// Themes returns the sorted union of all theme tags across the influences.
func Themes(influences []Influence) []string {
	seen := make(map[string]struct{})
	for _, inf := range influences {
		for _, t := range inf.Themes {
			seen[t] = struct{}{}
		}
	}
	themes := make([]string, 0, len(seen))
	for t := range seen {
		themes = append(themes, t)
	}
	slices.Sort(themes)
	return themes
}

// Header returns the canonical CSV header line, useful for templates and docs.
func Header() string {
	return strings.Join(columns, ",")
}
