package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/spf13/afero"

	"github.com/fatwalk/fat32report"
)

type rootParameters struct {
	Positional struct {
		Image string `positional-arg-name:"image" description:"Path to the FAT32 volume image"`
	} `positional-args:"yes" required:"yes"`
	Top int    `short:"t" long:"top" description:"Show the N most fragmented files" default:"10"`
	CSV string `short:"c" long:"csv" description:"Write files.csv, free_extents.csv and stats.csv into this directory"`
}

var rootArguments = new(rootParameters)

func main() {
	p := flags.NewParser(rootArguments, flags.Default)

	if _, err := p.Parse(); err != nil {
		os.Exit(1)
	}

	report, err := fat32report.Analyze(afero.NewOsFs(), rootArguments.Positional.Image)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	printSummary(report)
	printTopFragmented(report, rootArguments.Top)
	printWarnings(report)

	if rootArguments.CSV != "" {
		if err := report.WriteCSVBundle(afero.NewOsFs(), rootArguments.CSV); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("\nwrote CSV report to %s\n", rootArguments.CSV)
	}
}

func printSummary(report *fat32report.Report) {
	stats := report.Stats
	fmt.Printf("files:                %s (%s fragmented, %.1f%%)\n",
		humanize.Comma(int64(stats.FilesTotal)), humanize.Comma(int64(stats.FilesFragmented)), stats.FilesFragmentedPct)
	fmt.Printf("avg fragments/file:   %.2f (max %d)\n", stats.AvgFragmentsPerFile, stats.MaxFragments)
	fmt.Printf("total size:           %s\n", humanize.Bytes(stats.TotalSizeBytes))
	fmt.Printf("cluster size:         %s\n", humanize.Bytes(uint64(stats.ClusterSizeBytes)))
	fmt.Printf("clusters:             %s\n", humanize.Comma(int64(stats.TotalClusters)))
	fmt.Printf("free runs:            %s (largest %s clusters / %s)\n",
		humanize.Comma(int64(stats.FreeRunsCount)), humanize.Comma(int64(stats.LargestFreeRunClusters)), humanize.Bytes(stats.LargestFreeRunBytes))
	fmt.Printf("fragmentation index:  %.4f\n", stats.VolumeFragmentationIndex)
}

func printTopFragmented(report *fat32report.Report, top int) {
	if top <= 0 {
		return
	}

	files := append([]fat32report.FileRecord(nil), report.Files...)
	sort.Slice(files, func(i, j int) bool {
		return files[i].Fragments > files[j].Fragments
	})

	if len(files) > top {
		files = files[:top]
	}

	fmt.Printf("\nmost fragmented files:\n")
	for _, f := range files {
		fmt.Printf("%6d  %10s  %s\n", f.Fragments, humanize.Bytes(f.SizeBytes), f.Path)
	}
}

func printWarnings(report *fat32report.Report) {
	warnErr := report.WarningsErr()
	if warnErr == nil {
		return
	}

	fmt.Printf("\n%d warning(s):\n", len(report.Warnings))
	for _, w := range report.Warnings {
		fmt.Printf("  %s\n", w.Error())
	}
}
