package fat32report

import (
	"bytes"

	"github.com/gocarina/gocsv"
	"github.com/spf13/afero"

	"github.com/fatwalk/fat32report/checkpoint"
)

// Analyze opens path on fsys, decodes its FAT32 boot sector, walks its
// directory tree, and derives allocation and fragmentation statistics for
// the whole volume. Any non-fatal anomaly encountered along the way is
// folded into the returned Report's Warnings rather than aborting analysis;
// Analyze only returns an error when the image cannot be read or its boot
// sector fails validation.
func Analyze(fsys afero.Fs, path string) (*Report, error) {
	src, closeImage, err := OpenImage(fsys, path)
	if err != nil {
		return nil, err
	}
	defer closeImage()

	bs, err := DecodeBootSector(src)
	if err != nil {
		return nil, err
	}

	fat := NewFatTable(src, bs)
	chains := NewChainFollower(fat, bs)
	reader := NewClusterReader(src, bs)
	walker := NewWalker(chains, reader, bs)

	records, warnings, err := walker.Walk()
	if err != nil {
		return nil, err
	}

	var files, dirs []FileRecord
	for _, rec := range records {
		if rec.IsDirectory {
			dirs = append(dirs, rec)
		} else {
			files = append(files, rec)
		}
	}

	analyzer := NewAllocationAnalyzer(bs)
	bitmap := analyzer.BuildBitmap(records)
	freeRuns := analyzer.FreeRuns(bitmap)
	stats := analyzer.Stats(records, freeRuns)

	return &Report{
		Stats:       stats,
		Files:       files,
		Dirs:        dirs,
		FreeExtents: freeRuns,
		Warnings:    warnings,
	}, nil
}

// WarningsErr folds r.Warnings into a single combined error via
// checkpoint.Collect, so a caller that only checks "err != nil" still
// observes degraded input even though none of the warnings aborted
// analysis. Returns nil when there are no warnings.
func (r *Report) WarningsErr() error {
	errs := make([]error, len(r.Warnings))
	for i, w := range r.Warnings {
		errs[i] = w
	}
	return checkpoint.Collect(errs)
}

// FilesCSV renders the report's file records as CSV, one row per file.
func (r *Report) FilesCSV() (string, error) {
	return gocsv.MarshalString(&r.Files)
}

// FreeExtentsCSV renders the report's free cluster runs as CSV.
func (r *Report) FreeExtentsCSV() (string, error) {
	return gocsv.MarshalString(&r.FreeExtents)
}

// StatsCSV renders the report's summary statistics as a single-row CSV.
func (r *Report) StatsCSV() (string, error) {
	rows := []Statistics{r.Stats}
	return gocsv.MarshalString(&rows)
}

// WriteCSVBundle writes files.csv, free_extents.csv and stats.csv into dir
// on fsys, overwriting any existing files of those names.
func (r *Report) WriteCSVBundle(fsys afero.Fs, dir string) error {
	bundle := []struct {
		name string
		gen  func() (string, error)
	}{
		{"files.csv", r.FilesCSV},
		{"free_extents.csv", r.FreeExtentsCSV},
		{"stats.csv", r.StatsCSV},
	}

	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return checkpoint.Wrap(err, ErrImageNotFound)
	}

	for _, b := range bundle {
		content, err := b.gen()
		if err != nil {
			return checkpoint.From(err)
		}
		if err := afero.WriteFile(fsys, dir+"/"+b.name, bytes.NewBufferString(content).Bytes(), 0o644); err != nil {
			return checkpoint.Wrap(err, ErrImageNotFound)
		}
	}

	return nil
}
